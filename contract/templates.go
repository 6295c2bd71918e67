package contract

import (
	"fmt"

	"github.com/ssbcDeploy/commoncon"
	"github.com/ssbcDeploy/meta"
)

func init() {
	register(Template{
		Name: commoncon.FeeCollectorTemplate,
		Methods: map[string]MethodFunc{
			"Withdraw": Withdraw,
			"Owner":    Owner,
		},
	})
	register(Template{
		Name:   commoncon.CrowdFundTemplate,
		Params: []ParamSpec{{Name: "token", Kind: KindAddress}},
		Methods: map[string]MethodFunc{
			"Withdraw": Withdraw,
			"Owner":    Owner,
			"Token":    Token,
		},
	})
}

// Withdraw 向 destination 提取 amount，仅 owner 可调用
// 参数: destination 地址, amount 非负十进制整数
func Withdraw(c Context, inst meta.Instance) (interface{}, error) {
	if err := OnlyOwner(c, inst); err != nil {
		return nil, err
	}
	dest, err := parseAddress(c.Arg("destination"))
	if err != nil {
		return nil, fmt.Errorf("%w: destination: %v", ErrInvalidArgs, err)
	}
	amount, err := parseUint(c.Arg("amount"))
	if err != nil {
		return nil, fmt.Errorf("%w: amount: %v", ErrInvalidArgs, err)
	}
	return meta.Withdrawal{
		Contract:    inst.Address,
		Destination: dest,
		Amount:      amount,
	}, nil
}

func Owner(_ Context, inst meta.Instance) (interface{}, error) {
	return inst.Owner.Hex(), nil
}

// CrowdFund 绑定的代币地址
func Token(_ Context, inst meta.Instance) (interface{}, error) {
	return inst.Params[0], nil
}
