package levelDB

import (
	"context"
	"errors"

	"github.com/cloudflare/cfssl/log"
	"github.com/ssbcDeploy/storage"
	"github.com/syndtr/goleveldb/leveldb"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

// Store 基于 levelDB 的账本存储
type Store struct {
	db *leveldb.DB
}

// InitDB 打开 path 下的数据库，不存在时创建
func InitDB(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		log.Error("db init err:", err)
		return nil, err
	}
	return &Store{db: db}, nil
}

// InitMemDB 内存数据库，测试和临时账本使用
func InitMemDB() (*Store, error) {
	db, err := leveldb.Open(leveldbstorage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	data, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		log.Error("db get err:", err)
		return nil, err
	}
	return data, nil
}

// Write 以 leveldb.Batch 原子写入
func (s *Store) Write(_ context.Context, b *storage.Batch) error {
	batch := new(leveldb.Batch)
	b.Replay(func(key string, value []byte) {
		batch.Put([]byte(key), value)
	})
	err := s.db.Write(batch, nil)
	if err != nil {
		log.Error("db write err:", err)
	}
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
