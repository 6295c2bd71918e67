package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cloudflare/cfssl/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ssbcDeploy/account"
	"github.com/ssbcDeploy/commoncon"
	"github.com/ssbcDeploy/contract"
	"github.com/ssbcDeploy/meta"
)

var deploymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ssbc_deployments_total",
	Help: "Contract deployments by template and result",
}, []string{"template", "result"})

const DefaultConfirmTimeout = 30 * time.Second

// Host 承载合约实例的环境，*chain.Ledger 实现了该接口
type Host interface {
	PendingNonce(ctx context.Context, address common.Address) (uint64, error)
	Submit(ctx context.Context, tx meta.Transaction) (common.Hash, error)
	WaitConfirmed(ctx context.Context, hash common.Hash) (meta.Receipt, error)
	Instance(ctx context.Context, address common.Address) (meta.Instance, error)
}

type Deployer struct {
	host    Host
	timeout time.Duration
	out     io.Writer
	now     func() time.Time
}

type Option func(*Deployer)

// WithConfirmTimeout 等待上链确认的超时时间
func WithConfirmTimeout(d time.Duration) Option {
	return func(dp *Deployer) {
		if d > 0 {
			dp.timeout = d
		}
	}
}

// WithOutput 部署结果输出位置，默认 stdout
func WithOutput(w io.Writer) Option {
	return func(dp *Deployer) {
		dp.out = w
	}
}

// WithClock 交易时间戳来源，部署出的句柄沿用同一时钟
func WithClock(now func() time.Time) Option {
	return func(dp *Deployer) {
		dp.now = now
	}
}

func New(host Host, opts ...Option) *Deployer {
	d := &Deployer{
		host:    host,
		timeout: DefaultConfirmTimeout,
		out:     os.Stdout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deploy 以 signer 身份部署 template，阻塞直到上链确认或超时
// 实例的 owner 即 signer
func (d *Deployer) Deploy(ctx context.Context, signer *account.Signer, template string, params ...string) (*Contract, error) {
	if signer == nil {
		return nil, failed(template, ErrNoSigner)
	}
	// 发送请求前先检查参数
	if err := contract.ValidateParams(template, params); err != nil {
		return nil, failed(template, err)
	}

	nonce, err := d.host.PendingNonce(ctx, signer.Address())
	if err != nil {
		return nil, failed(template, err)
	}
	tx := meta.Transaction{
		Id:        uuid.New().String(),
		Type:      meta.Publish,
		Contract:  template,
		Params:    params,
		Nonce:     nonce,
		Timestamp: d.now().UnixNano(),
	}
	if err := signer.SignTx(&tx); err != nil {
		return nil, failed(template, err)
	}
	hash, err := d.host.Submit(ctx, tx)
	if err != nil {
		return nil, failed(template, fmt.Errorf("rejected: %w", err))
	}
	log.Infof("部署交易已提交 %s，等待确认", hash.Hex())

	r, err := waitReceipt(ctx, d.host, hash, d.timeout)
	if err != nil {
		return nil, failed(template, err)
	}
	if r.Status != meta.StatusSuccess {
		return nil, failed(template, fmt.Errorf("receipt %s: %s", r.Status, r.Error))
	}
	inst, err := d.host.Instance(ctx, r.ContractAddress)
	if err != nil {
		return nil, failed(template, err)
	}

	deploymentsTotal.WithLabelValues(template, "ok").Inc()
	log.Infof("%s 部署成功，区块高度 %d", template, inst.BlockHeight)
	fmt.Fprintf(d.out, commoncon.DeployedFormat, template, inst.Address.Hex())
	return &Contract{host: d.host, inst: inst, signer: signer, timeout: d.timeout, now: d.now}, nil
}

func waitReceipt(ctx context.Context, host Host, hash common.Hash, timeout time.Duration) (meta.Receipt, error) {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	r, err := host.WaitConfirmed(wctx, hash)
	if errors.Is(err, context.DeadlineExceeded) {
		return r, fmt.Errorf("no confirmation for %s within %s: %w", hash.Hex(), timeout, err)
	}
	return r, err
}
