package storage

import (
	"context"
	"errors"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("storage: key not found")

// Store 账本的键值存储，levelDB 与 redis 两种实现
// 所有写操作都通过 Batch 原子提交，一个区块的状态变更要么全部落盘要么全部丢弃
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, b *Batch) error
	Close() error
}

// Batch 待提交的一组写操作，同一个键后写覆盖先写
type Batch struct {
	keys   []string
	values [][]byte
}

func (b *Batch) Put(key string, value []byte) {
	b.keys = append(b.keys, key)
	b.values = append(b.values, value)
}

func (b *Batch) Len() int {
	return len(b.keys)
}

// Replay 按写入顺序回放
func (b *Batch) Replay(fn func(key string, value []byte)) {
	for i, k := range b.keys {
		fn(k, b.values[i])
	}
}
