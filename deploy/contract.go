package deploy

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/ssbcDeploy/account"
	"github.com/ssbcDeploy/contract"
	"github.com/ssbcDeploy/meta"
)

// ErrNoSigner 没有提供签名身份
var ErrNoSigner = errors.New("no signing identity")

// Contract 已部署实例的句柄，调用以 signer 身份签名
type Contract struct {
	host    Host
	inst    meta.Instance
	signer  *account.Signer
	timeout time.Duration
	now     func() time.Time
}

// At 绑定链上已存在的实例，signer 为 nil 时句柄只能读取实例
func At(ctx context.Context, host Host, address common.Address, signer *account.Signer) (*Contract, error) {
	inst, err := host.Instance(ctx, address)
	if err != nil {
		return nil, err
	}
	return &Contract{host: host, inst: inst, signer: signer, timeout: DefaultConfirmTimeout, now: time.Now}, nil
}

func (c *Contract) Address() common.Address {
	return c.inst.Address
}

func (c *Contract) Instance() meta.Instance {
	return c.inst
}

// Connect 返回以另一身份调用的句柄，原句柄不变
func (c *Contract) Connect(signer *account.Signer) *Contract {
	cc := *c
	cc.signer = signer
	return &cc
}

// Withdraw 向 destination 提取 amount，非 owner 调用返回 contract.ErrUnauthorized
func (c *Contract) Withdraw(ctx context.Context, destination common.Address, amount *big.Int) (meta.Receipt, error) {
	if amount == nil {
		return meta.Receipt{}, fmt.Errorf("%w: nil amount", contract.ErrInvalidArgs)
	}
	return c.invoke(ctx, "Withdraw", map[string]string{
		"destination": destination.Hex(),
		"amount":      amount.String(),
	})
}

func (c *Contract) invoke(ctx context.Context, method string, args map[string]string) (meta.Receipt, error) {
	if c.signer == nil {
		return meta.Receipt{}, fmt.Errorf("%s.%s: %w", c.inst.Template, method, ErrNoSigner)
	}
	nonce, err := c.host.PendingNonce(ctx, c.signer.Address())
	if err != nil {
		return meta.Receipt{}, err
	}
	tx := meta.Transaction{
		Id:        uuid.New().String(),
		Type:      meta.Invoke,
		To:        c.inst.Address,
		Method:    method,
		Args:      args,
		Nonce:     nonce,
		Timestamp: c.now().UnixNano(),
	}
	if err := c.signer.SignTx(&tx); err != nil {
		return meta.Receipt{}, err
	}
	hash, err := c.host.Submit(ctx, tx)
	if err != nil {
		return meta.Receipt{}, err
	}
	r, err := waitReceipt(ctx, c.host, hash, c.timeout)
	if err != nil {
		return r, err
	}
	if r.Status != meta.StatusSuccess {
		return r, fmt.Errorf("%s.%s failed: %s", c.inst.Template, method, r.Error)
	}
	return r, nil
}
