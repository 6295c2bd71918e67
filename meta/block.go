package meta

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// 交易类型
const (
	Publish int = iota + 2 // 2: 发布合约
	Invoke                 // 3: 调用合约
)

// 回执状态
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type Transaction struct {
	Id        string            `json:"id"`
	Type      int               `json:"type"`
	From      common.Address    `json:"from"`
	To        common.Address    `json:"to"`       // Invoke: 合约地址
	Contract  string            `json:"contract"` // Publish: 模板名称
	Method    string            `json:"method"`
	Params    []string          `json:"params"` // Publish: 构造参数
	Args      map[string]string `json:"args"`   // Invoke: 方法参数
	Nonce     uint64            `json:"nonce"`
	Timestamp int64             `json:"timestamp"`
	Hash      common.Hash       `json:"hash"`
	Sign      []byte            `json:"sign"`
}

// Receipt 交易上链后的回执
type Receipt struct {
	TxHash          common.Hash     `json:"tx_hash"`
	Status          string          `json:"status"`
	BlockHeight     uint64          `json:"block_height"`
	ContractAddress common.Address  `json:"contract_address,omitempty"` // 仅 Publish
	Result          json.RawMessage `json:"result,omitempty"`
	Error           string          `json:"error,omitempty"`
}

type Block struct {
	Height    uint64        `json:"height"`
	Timestamp int64         `json:"timestamp"`
	PrevHash  common.Hash   `json:"prev_hash"`
	TxRoot    common.Hash   `json:"tx_root"`
	Hash      common.Hash   `json:"hash"`
	TX        []Transaction `json:"tx"`
}
