package contract

import (
	"errors"

	"github.com/cloudflare/cfssl/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ssbcDeploy/meta"
)

// UnauthorizedMessage 非 owner 调用特权方法时的错误信息
const UnauthorizedMessage = "Only owner can use this function."

var ErrUnauthorized = errors.New(UnauthorizedMessage)

// UnauthorizedError 记录被拒绝的调用者，errors.Is(err, ErrUnauthorized) 成立
type UnauthorizedError struct {
	Contract common.Address
	Caller   common.Address
	Owner    common.Address
}

func (e *UnauthorizedError) Error() string {
	return UnauthorizedMessage
}

func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

// OnlyOwner 特权方法入口处调用，拒绝时没有任何副作用
func OnlyOwner(c Context, inst meta.Instance) error {
	if c.Caller == inst.Owner {
		return nil
	}
	log.Infof("[OnlyOwner] %s.%s 拒绝调用者 %s", inst.Template, c.Method, c.Caller.Hex())
	return &UnauthorizedError{
		Contract: inst.Address,
		Caller:   c.Caller,
		Owner:    inst.Owner,
	}
}
