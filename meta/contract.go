package meta

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Instance 已部署的合约实例，部署后不再修改
type Instance struct {
	Address     common.Address `json:"address"`      // 合约地址
	Template    string         `json:"template"`     // 合约模板名称
	Owner       common.Address `json:"owner"`        // 部署者，唯一有权调用特权方法的账户
	Params      []string       `json:"params"`       // 构造参数，按模板声明的顺序
	TxHash      common.Hash    `json:"tx_hash"`      // 部署交易
	BlockHeight uint64         `json:"block_height"` // 部署交易所在区块
	DeployedAt  time.Time      `json:"deployed_at"`
}

// Withdrawal 特权提取的执行结果
type Withdrawal struct {
	Contract    common.Address `json:"contract"`
	Destination common.Address `json:"destination"`
	Amount      *big.Int       `json:"amount"`
}
