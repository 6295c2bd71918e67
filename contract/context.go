package contract

import (
	"github.com/ethereum/go-ethereum/common"
)

// 合约调用上下文，每次调用显式传入
type Context struct {
	Name    string            // 当前执行的合约模板名称
	Address common.Address    // 合约地址
	Method  string            // 被调用的方法
	Args    map[string]string // 参数
	Caller  common.Address    // 调用者地址
	Origin  common.Address    // 最初调用者，不涉及合约调用合约时 Caller == Origin
}

// 参数取值，不存在时返回空串
func (c Context) Arg(key string) string {
	if c.Args == nil {
		return ""
	}
	return c.Args[key]
}
