package chain

import (
	"context"
	"fmt"

	"github.com/cloudflare/cfssl/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ssbcDeploy/contract"
	"github.com/ssbcDeploy/meta"
	"github.com/ssbcDeploy/util"
)

// PendingNonce 地址的下一个可用 nonce，包含尚未上链的交易
func (l *Ledger) PendingNonce(ctx context.Context, address common.Address) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nextNonce(ctx, address)
}

func (l *Ledger) nextNonce(ctx context.Context, address common.Address) (uint64, error) {
	if n, ok := l.pendingNonce[address]; ok {
		return n, nil
	}
	acc, err := l.accounts.GetAccount(ctx, address)
	if err != nil {
		return 0, err
	}
	return acc.Nonce, nil
}

// Submit 校验签名和 nonce，调用交易在此同步执行合约方法（AccessGuard 在此生效）
// 被拒绝的交易不会进入交易池，也不会留下任何状态
func (l *Ledger) Submit(ctx context.Context, tx meta.Transaction) (common.Hash, error) {
	from, err := util.RecoverSender(tx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	if from != tx.From || tx.Hash != util.TxSigHash(tx) {
		return common.Hash{}, ErrBadSignature
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return common.Hash{}, ErrClosed
	}

	expected, err := l.nextNonce(ctx, from)
	if err != nil {
		return common.Hash{}, err
	}
	if tx.Nonce != expected {
		return common.Hash{}, fmt.Errorf("%w: expected %d, got %d", ErrBadNonce, expected, tx.Nonce)
	}

	p := pendingTx{tx: tx}
	switch tx.Type {
	case meta.Publish:
		if err := contract.ValidateParams(tx.Contract, tx.Params); err != nil {
			return common.Hash{}, err
		}
		log.Infof("收到部署交易 %s: %s%v", tx.Hash.Hex(), tx.Contract, tx.Params)
	case meta.Invoke:
		res, err := l.execute(ctx, from, tx.To, tx.Method, tx.Args)
		if err != nil {
			return common.Hash{}, err
		}
		p.result = res
		log.Infof("收到调用交易 %s: %s.%s", tx.Hash.Hex(), tx.To.Hex(), tx.Method)
	default:
		return common.Hash{}, fmt.Errorf("%w: %d", ErrUnknownTxType, tx.Type)
	}

	l.pending = append(l.pending, p)
	l.pendingNonce[from] = tx.Nonce + 1
	pendingTxs.Set(float64(len(l.pending)))
	return tx.Hash, nil
}

// Call 只读调用，不产生交易
func (l *Ledger) Call(ctx context.Context, from, to common.Address, method string, args map[string]string) (interface{}, error) {
	return l.execute(ctx, from, to, method, args)
}

func (l *Ledger) execute(ctx context.Context, from, to common.Address, method string, args map[string]string) (interface{}, error) {
	inst, err := l.Instance(ctx, to)
	if err != nil {
		return nil, err
	}
	c := contract.Context{
		Method: method,
		Args:   args,
		Caller: from,
		Origin: from,
	}
	return contract.Execute(c, inst)
}
