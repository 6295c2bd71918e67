package util

import (
	"encoding/json"

	"github.com/cloudflare/cfssl/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ssbcDeploy/meta"
)

//计算hash摘要
func CalculateHash(msg []byte) common.Hash {
	return crypto.Keccak256Hash(msg)
}

// 交易签名前的摘要，不包含 Hash 和 Sign 字段
func TxSigHash(t meta.Transaction) common.Hash {
	t.Hash = common.Hash{}
	t.Sign = nil
	tb, err := json.Marshal(t)
	DealJsonErr("TxSigHash", err)
	return CalculateHash(tb)
}

//计算区块hash
func CalculateBlockHash(b meta.Block) common.Hash {
	b.Hash = common.Hash{}
	jb, err := json.Marshal(b)
	DealJsonErr("CalculateBlockHash", err)
	return CalculateHash(jb)
}

// 按交易hash两两合并计算merkle root，奇数个时复制最后一个
func MerkleRoot(txs []meta.Transaction) common.Hash {
	if len(txs) == 0 {
		return common.Hash{}
	}
	level := make([]common.Hash, 0, len(txs))
	for _, tx := range txs {
		level = append(level, tx.Hash)
	}
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]common.Hash, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, crypto.Keccak256Hash(level[i].Bytes(), level[i+1].Bytes()))
		}
		level = next
	}
	log.Debugf("merkle root of %d txs: %s", len(txs), level[0].Hex())
	return level[0]
}
