package contract

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ssbcDeploy/commoncon"
	"github.com/ssbcDeploy/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner = common.HexToAddress("0x1111111111111111111111111111111111111111")
	acc1  = common.HexToAddress("0x2222222222222222222222222222222222222222")
	token = "0x3333333333333333333333333333333333333333"
)

func feeCollector() meta.Instance {
	return meta.Instance{
		Address:  common.HexToAddress("0x4444444444444444444444444444444444444444"),
		Template: commoncon.FeeCollectorTemplate,
		Owner:    owner,
	}
}

func withdrawCtx(caller common.Address, amount string) Context {
	return Context{
		Method: "Withdraw",
		Caller: caller,
		Origin: caller,
		Args:   map[string]string{"destination": owner.Hex(), "amount": amount},
	}
}

func TestOnlyOwnerCanWithdraw(t *testing.T) {
	inst := feeCollector()

	res, err := Execute(withdrawCtx(acc1, "1"), inst)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.EqualError(t, err, "Only owner can use this function.")
	assert.ErrorIs(t, err, ErrUnauthorized)

	var ue *UnauthorizedError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, acc1, ue.Caller)
	assert.Equal(t, owner, ue.Owner)
}

func TestOwnerWithdraw(t *testing.T) {
	inst := feeCollector()

	res, err := Execute(withdrawCtx(owner, "1"), inst)
	require.NoError(t, err)
	w, ok := res.(meta.Withdrawal)
	require.True(t, ok)
	assert.Equal(t, inst.Address, w.Contract)
	assert.Equal(t, owner, w.Destination)
	assert.Equal(t, 0, w.Amount.Cmp(big.NewInt(1)))
}

func TestWithdrawZeroAmount(t *testing.T) {
	_, err := Execute(withdrawCtx(owner, "0"), feeCollector())
	assert.NoError(t, err)
}

func TestWithdrawBadArgs(t *testing.T) {
	inst := feeCollector()
	for name, args := range map[string]map[string]string{
		"negative amount":  {"destination": owner.Hex(), "amount": "-1"},
		"missing amount":   {"destination": owner.Hex()},
		"text amount":      {"destination": owner.Hex(), "amount": "one"},
		"bad destination":  {"destination": "nowhere", "amount": "1"},
		"zero destination": {"destination": common.Address{}.Hex(), "amount": "1"},
	} {
		t.Run(name, func(t *testing.T) {
			c := Context{Method: "Withdraw", Caller: owner, Args: args}
			_, err := Execute(c, inst)
			assert.ErrorIs(t, err, ErrInvalidArgs)
		})
	}
}

// 非 owner 即使参数非法也先被拒绝
func TestGuardRunsBeforeArgs(t *testing.T) {
	c := Context{Method: "Withdraw", Caller: acc1, Args: map[string]string{"amount": "-5"}}
	_, err := Execute(c, feeCollector())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMethodNotFound(t *testing.T) {
	_, err := Execute(Context{Method: "Pledge", Caller: owner}, feeCollector())
	assert.ErrorIs(t, err, ErrMethodNotFound)

	_, err = Execute(Context{Caller: owner}, feeCollector())
	assert.Error(t, err)
}

func TestCrowdFundViews(t *testing.T) {
	inst := meta.Instance{
		Address:  common.HexToAddress("0x5555555555555555555555555555555555555555"),
		Template: commoncon.CrowdFundTemplate,
		Owner:    owner,
		Params:   []string{token},
	}
	res, err := Execute(Context{Method: "Token", Caller: acc1}, inst)
	require.NoError(t, err)
	assert.Equal(t, token, res)

	res, err = Execute(Context{Method: "Owner", Caller: acc1}, inst)
	require.NoError(t, err)
	assert.Equal(t, owner.Hex(), res)

	_, err = Execute(withdrawCtx(acc1, "1"), inst)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestValidateParams(t *testing.T) {
	assert.NoError(t, ValidateParams(commoncon.FeeCollectorTemplate, nil))
	assert.NoError(t, ValidateParams(commoncon.CrowdFundTemplate, []string{token}))

	cases := map[string]struct {
		template string
		params   []string
		want     error
	}{
		"unknown template":   {"Auction", nil, ErrUnknownTemplate},
		"extra param":        {commoncon.FeeCollectorTemplate, []string{token}, ErrInvalidParams},
		"missing token":      {commoncon.CrowdFundTemplate, nil, ErrInvalidParams},
		"placeholder token":  {commoncon.CrowdFundTemplate, []string{"Token address that you will change this whichever you want."}, ErrInvalidParams},
		"short hex token":    {commoncon.CrowdFundTemplate, []string{"0x1234"}, ErrInvalidParams},
		"zero address token": {commoncon.CrowdFundTemplate, []string{common.Address{}.Hex()}, ErrInvalidParams},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateParams(tc.template, tc.params), tc.want)
		})
	}
}

func TestTemplates(t *testing.T) {
	all := Templates()
	require.Len(t, all, 2)
	assert.Equal(t, commoncon.CrowdFundTemplate, all[0].Name)
	assert.Equal(t, commoncon.FeeCollectorTemplate, all[1].Name)
	assert.Equal(t, []string{"Owner", "Withdraw"}, all[1].MethodNames())
}

func TestCheckKind(t *testing.T) {
	assert.NoError(t, checkKind(KindUint, "10"))
	assert.Error(t, checkKind(KindUint, "-1"))
	assert.NoError(t, checkKind(KindString, "x"))
	assert.Error(t, checkKind(KindString, ""))
	assert.Error(t, checkKind("bytes32", "x"))
}
