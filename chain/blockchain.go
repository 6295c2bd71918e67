package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/cloudflare/cfssl/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ssbcDeploy/commoncon"
	"github.com/ssbcDeploy/meta"
	"github.com/ssbcDeploy/storage"
	"github.com/ssbcDeploy/util"
)

//生成创世区块
func GenerateGenesisBlock(timestamp int64) meta.Block {
	genesisBlock := meta.Block{
		Timestamp: timestamp,
	}
	genesisBlock.Hash = util.CalculateBlockHash(genesisBlock)
	return genesisBlock
}

// 存储中没有区块时写入创世区块
func (l *Ledger) ensureGenesis(ctx context.Context) error {
	_, err := l.store.Get(ctx, commoncon.HeadKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	gb := GenerateGenesisBlock(l.now().UnixNano())
	batch := new(storage.Batch)
	if err := putBlock(batch, gb); err != nil {
		return err
	}
	if err := l.store.Write(ctx, batch); err != nil {
		return err
	}
	log.Infof("生成创世区块 %s", gb.Hash.Hex())
	return nil
}

func blockKey(height uint64) string {
	return commoncon.BlockKeyPrefix + strconv.FormatUint(height, 10)
}

// 写入区块并更新链头
func putBlock(batch *storage.Batch, b meta.Block) error {
	bb, err := json.Marshal(b)
	if err != nil {
		return err
	}
	batch.Put(blockKey(b.Height), bb)
	batch.Put(commoncon.HeadKey, []byte(strconv.FormatUint(b.Height, 10)))
	return nil
}

// Height 当前链头高度
func (l *Ledger) Height(ctx context.Context) (uint64, error) {
	data, err := l.store.Get(ctx, commoncon.HeadKey)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(string(data), 10, 64)
}

// Block 获取指定高度的区块
func (l *Ledger) Block(ctx context.Context, height uint64) (meta.Block, error) {
	var b meta.Block
	data, err := l.store.Get(ctx, blockKey(height))
	if err != nil {
		return b, fmt.Errorf("block %d: %w", height, err)
	}
	err = json.Unmarshal(data, &b)
	util.DealJsonErr("Block", err)
	return b, err
}

// 获取到当前链头区块
func (l *Ledger) headBlock(ctx context.Context) (meta.Block, error) {
	h, err := l.Height(ctx)
	if err != nil {
		return meta.Block{}, err
	}
	return l.Block(ctx, h)
}

// Instance 获取已部署的合约实例
func (l *Ledger) Instance(ctx context.Context, address common.Address) (meta.Instance, error) {
	var inst meta.Instance
	data, err := l.store.Get(ctx, commoncon.InstanceKeyPrefix+address.Hex())
	if errors.Is(err, storage.ErrNotFound) {
		return inst, fmt.Errorf("%w: %s", ErrUnknownContract, address.Hex())
	}
	if err != nil {
		return inst, err
	}
	err = json.Unmarshal(data, &inst)
	util.DealJsonErr("Instance", err)
	return inst, err
}

func putInstance(batch *storage.Batch, inst meta.Instance) error {
	data, err := json.Marshal(inst)
	if err != nil {
		return err
	}
	batch.Put(commoncon.InstanceKeyPrefix+inst.Address.Hex(), data)
	return nil
}

// Receipt 获取交易回执，未上链时返回 storage.ErrNotFound
func (l *Ledger) Receipt(ctx context.Context, hash common.Hash) (meta.Receipt, error) {
	var r meta.Receipt
	data, err := l.store.Get(ctx, commoncon.ReceiptKeyPrefix+hash.Hex())
	if err != nil {
		return r, err
	}
	err = json.Unmarshal(data, &r)
	util.DealJsonErr("Receipt", err)
	return r, err
}

func putReceipt(batch *storage.Batch, r meta.Receipt) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	batch.Put(commoncon.ReceiptKeyPrefix+r.TxHash.Hex(), data)
	return nil
}
