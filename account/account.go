package account

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ssbcDeploy/commoncon"
	"github.com/ssbcDeploy/meta"
	"github.com/ssbcDeploy/storage"
	"github.com/ssbcDeploy/util"
)

/* 这里封装了所有对账户状态的操作
 * 账户只记录 nonce，不做余额记账
 */

type State struct {
	store storage.Store
}

func NewState(store storage.Store) *State {
	return &State{store: store}
}

// 获取账户信息，不存在时返回 nonce 为 0 的新账户
func (s *State) GetAccount(ctx context.Context, address common.Address) (meta.Account, error) {
	acc := meta.Account{Address: address}
	data, err := s.store.Get(ctx, commoncon.AccountKeyPrefix+address.Hex())
	if errors.Is(err, storage.ErrNotFound) {
		return acc, nil
	}
	if err != nil {
		return acc, err
	}
	err = json.Unmarshal(data, &acc)
	util.DealJsonErr("GetAccount", err)
	return acc, err
}

// 账户地址是否存在（至少发送过一笔上链交易）
func (s *State) ContainsAddress(ctx context.Context, address common.Address) (bool, error) {
	_, err := s.store.Get(ctx, commoncon.AccountKeyPrefix+address.Hex())
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// PutAccount 将账户写入 b，随区块一起提交
func (s *State) PutAccount(b *storage.Batch, acc meta.Account) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return err
	}
	b.Put(commoncon.AccountKeyPrefix+acc.Address.Hex(), data)
	return nil
}
