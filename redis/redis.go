package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudflare/cfssl/log"
	"github.com/go-redis/redis/v8"
	"github.com/ssbcDeploy/storage"
)

// Options redis 连接参数
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // 所有键的前缀，多条本地链共用一个 redis 时区分
}

// Store 基于 redis 的账本存储
type Store struct {
	rdb    *redis.Client
	prefix string
}

// NewStore 建立连接并 ping 一次
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return &Store{rdb: rdb, prefix: opts.Prefix}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		log.Errorf("redis get %s: %v", key, err)
		return nil, err
	}
	return val, nil
}

// Write 在一个 MULTI/EXEC 事务中写入
func (s *Store) Write(ctx context.Context, b *storage.Batch) error {
	if b.Len() == 0 {
		return nil
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		b.Replay(func(key string, value []byte) {
			pipe.Set(ctx, s.prefix+key, value, 0)
		})
		return nil
	})
	if err != nil {
		log.Errorf("redis write %d keys: %v", b.Len(), err)
	}
	return err
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
