package meta

import "github.com/ethereum/go-ethereum/common"

//账户
type Account struct {
	Address common.Address `json:"address"` //账户地址
	Nonce   uint64         `json:"nonce"`   //已上链的交易数，用于推导合约地址
}
