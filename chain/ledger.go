package chain

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/cloudflare/cfssl/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ssbcDeploy/account"
	"github.com/ssbcDeploy/contract"
	"github.com/ssbcDeploy/meta"
	"github.com/ssbcDeploy/storage"
	"github.com/ssbcDeploy/util"
)

var (
	ErrClosed          = errors.New("ledger closed")
	ErrBadSignature    = errors.New("bad transaction signature")
	ErrBadNonce        = errors.New("bad transaction nonce")
	ErrUnknownContract = errors.New("unknown contract address")
	ErrUnknownTx       = errors.New("unknown transaction")
	ErrUnknownTxType   = errors.New("unknown transaction type")
)

var (
	blocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ssbc_chain_blocks_total",
		Help: "Blocks sealed by the local ledger",
	})
	pendingTxs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ssbc_chain_pending_txs",
		Help: "Transactions accepted but not yet sealed",
	})
)

const DefaultBlockInterval = time.Second

type pendingTx struct {
	tx     meta.Transaction
	result interface{}
}

// Ledger 本地单进程账本，接收签名交易并按出块间隔打包
type Ledger struct {
	store    storage.Store
	accounts *account.State
	interval time.Duration
	now      func() time.Time

	mu           sync.Mutex
	pending      []pendingTx
	pendingNonce map[common.Address]uint64 // 包含未上链交易的下一个 nonce
	waiters      map[common.Hash][]chan struct{}
	closed       bool

	startOnce sync.Once
	closeOnce sync.Once
	stop      chan struct{}
	done      chan struct{}
}

type Option func(*Ledger)

// WithBlockInterval 出块间隔
func WithBlockInterval(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.interval = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func NewLedger(ctx context.Context, store storage.Store, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store:        store,
		accounts:     account.NewState(store),
		interval:     DefaultBlockInterval,
		now:          time.Now,
		pendingNonce: map[common.Address]uint64{},
		waiters:      map[common.Hash][]chan struct{}{},
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.ensureGenesis(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Start 启动出块协程，重复调用无效
func (l *Ledger) Start() {
	l.startOnce.Do(func() {
		go l.loop()
	})
}

func (l *Ledger) loop() {
	defer close(l.done)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			if _, _, err := l.Seal(context.Background()); err != nil {
				log.Errorf("出块失败: %v", err)
			}
		}
	}
}

// Close 停止出块并唤醒所有等待者，不关闭底层存储
func (l *Ledger) Close() error {
	l.closeOnce.Do(func() {
		close(l.stop)
		l.startOnce.Do(func() { close(l.done) }) // 未启动时没有协程需要等待
		<-l.done

		l.mu.Lock()
		l.closed = true
		for hash, chs := range l.waiters {
			for _, ch := range chs {
				close(ch)
			}
			delete(l.waiters, hash)
		}
		l.mu.Unlock()
	})
	return nil
}

// Seal 将所有待打包交易打包为一个新区块，没有交易时返回 false
func (l *Ledger) Seal(ctx context.Context) (meta.Block, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.pending) == 0 {
		return meta.Block{}, false, nil
	}
	prev, err := l.headBlock(ctx)
	if err != nil {
		return meta.Block{}, false, err
	}

	b := meta.Block{
		Height:    prev.Height + 1,
		Timestamp: l.now().UnixNano(),
		PrevHash:  prev.Hash,
	}
	for _, p := range l.pending {
		b.TX = append(b.TX, p.tx)
	}
	b.TxRoot = util.MerkleRoot(b.TX)
	b.Hash = util.CalculateBlockHash(b)

	// 区块内所有状态变更暂存在 batch 中一次提交，提交失败时交易留在交易池等待下次重试
	batch := new(storage.Batch)
	senders := map[common.Address]meta.Account{}
	for _, p := range l.pending {
		r := l.apply(ctx, batch, b, p)
		if err := putReceipt(batch, r); err != nil {
			return meta.Block{}, false, err
		}
		acc, ok := senders[p.tx.From]
		if !ok {
			if acc, err = l.accounts.GetAccount(ctx, p.tx.From); err != nil {
				return meta.Block{}, false, err
			}
		}
		acc.Nonce++
		senders[p.tx.From] = acc
	}
	for _, acc := range senders {
		if err := l.accounts.PutAccount(batch, acc); err != nil {
			return meta.Block{}, false, err
		}
	}
	if err := putBlock(batch, b); err != nil {
		return meta.Block{}, false, err
	}
	if err := l.store.Write(ctx, batch); err != nil {
		return meta.Block{}, false, err
	}

	for _, p := range l.pending {
		for _, ch := range l.waiters[p.tx.Hash] {
			close(ch)
		}
		delete(l.waiters, p.tx.Hash)
	}
	log.Infof("区块 %d 已生成，包含 %d 笔交易", b.Height, len(b.TX))
	l.pending = nil
	l.pendingNonce = map[common.Address]uint64{}
	pendingTxs.Set(0)
	blocksTotal.Inc()
	return b, true, nil
}

// 执行交易在区块中的状态变更，返回回执
func (l *Ledger) apply(ctx context.Context, batch *storage.Batch, b meta.Block, p pendingTx) meta.Receipt {
	r := meta.Receipt{
		TxHash:      p.tx.Hash,
		Status:      meta.StatusSuccess,
		BlockHeight: b.Height,
	}
	fail := func(err error) meta.Receipt {
		log.Errorf("交易 %s 执行失败: %v", p.tx.Hash.Hex(), err)
		r.Status = meta.StatusFailed
		r.Error = err.Error()
		return r
	}

	switch p.tx.Type {
	case meta.Publish:
		if err := contract.ValidateParams(p.tx.Contract, p.tx.Params); err != nil {
			return fail(err)
		}
		addr := crypto.CreateAddress(p.tx.From, p.tx.Nonce)
		if _, err := l.Instance(ctx, addr); err == nil {
			return fail(errors.New("contract address already in use"))
		}
		inst := meta.Instance{
			Address:     addr,
			Template:    p.tx.Contract,
			Owner:       p.tx.From,
			Params:      p.tx.Params,
			TxHash:      p.tx.Hash,
			BlockHeight: b.Height,
			DeployedAt:  time.Unix(0, b.Timestamp).UTC(),
		}
		if err := putInstance(batch, inst); err != nil {
			return fail(err)
		}
		r.ContractAddress = addr
	case meta.Invoke:
		if p.result != nil {
			data, err := json.Marshal(p.result)
			if err != nil {
				return fail(err)
			}
			r.Result = data
		}
	}
	return r
}

// WaitConfirmed 阻塞直到交易上链或 ctx 结束
func (l *Ledger) WaitConfirmed(ctx context.Context, hash common.Hash) (meta.Receipt, error) {
	l.mu.Lock()
	r, err := l.Receipt(ctx, hash)
	if err == nil {
		l.mu.Unlock()
		return r, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		l.mu.Unlock()
		return r, err
	}
	if l.closed {
		l.mu.Unlock()
		return r, ErrClosed
	}
	if !l.isPending(hash) {
		l.mu.Unlock()
		return r, ErrUnknownTx
	}
	ch := make(chan struct{})
	l.waiters[hash] = append(l.waiters[hash], ch)
	l.mu.Unlock()

	select {
	case <-ctx.Done():
		l.removeWaiter(hash, ch)
		return meta.Receipt{}, ctx.Err()
	case <-ch:
	}
	r, err = l.Receipt(ctx, hash)
	if errors.Is(err, storage.ErrNotFound) {
		return r, ErrClosed
	}
	return r, err
}

func (l *Ledger) isPending(hash common.Hash) bool {
	for _, p := range l.pending {
		if p.tx.Hash == hash {
			return true
		}
	}
	return false
}

func (l *Ledger) removeWaiter(hash common.Hash, ch chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	chs := l.waiters[hash]
	for i, c := range chs {
		if c == ch {
			l.waiters[hash] = append(chs[:i], chs[i+1:]...)
			break
		}
	}
	if len(l.waiters[hash]) == 0 {
		delete(l.waiters, hash)
	}
}
