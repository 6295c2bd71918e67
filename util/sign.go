package util

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ssbcDeploy/meta"
)

var ErrNoSignature = errors.New("transaction is not signed")

// 对交易签名，同时写入交易hash
func SignTx(t *meta.Transaction, key *ecdsa.PrivateKey) error {
	h := TxSigHash(*t)
	sig, err := crypto.Sign(h.Bytes(), key)
	if err != nil {
		return err
	}
	t.Hash = h
	t.Sign = sig
	return nil
}

// 从签名中恢复交易发起者地址
func RecoverSender(t meta.Transaction) (common.Address, error) {
	if len(t.Sign) != crypto.SignatureLength {
		return common.Address{}, ErrNoSignature
	}
	pub, err := crypto.SigToPub(TxSigHash(t).Bytes(), t.Sign)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}
