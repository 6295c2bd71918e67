package account

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ssbcDeploy/meta"
	"github.com/ssbcDeploy/util"
)

// Signer 一个持有私钥的身份，部署者和调用者都显式传入
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func NewSigner(key *ecdsa.PrivateKey) *Signer {
	return &Signer{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

// 生成新的随机身份
func GenerateSigner() (*Signer, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return NewSigner(key), nil
}

// 从 hex 私钥文件加载身份
func LoadSigner(file string) (*Signer, error) {
	key, err := crypto.LoadECDSA(file)
	if err != nil {
		return nil, fmt.Errorf("load key %s: %w", file, err)
	}
	return NewSigner(key), nil
}

// 以 hex 形式保存私钥，文件权限 0600
func (s *Signer) Save(file string) error {
	return crypto.SaveECDSA(file, s.key)
}

func (s *Signer) Address() common.Address {
	return s.address
}

// 设置 From 后签名
func (s *Signer) SignTx(t *meta.Transaction) error {
	t.From = s.address
	return util.SignTx(t, s.key)
}
