// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb implements the ledger's kv.Store on goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/vechain/lockstake/kv"
	"github.com/vechain/lockstake/metrics"
)

const minCapacity = 16

var (
	metricReadCount  = metrics.LazyCounterVec("store_read_count", []string{"op", "result"})
	metricBatchOps   = metrics.LazyHistogramVec("store_batch_ops", []string{"kind"}, []int64{1, 5, 10, 25, 50, 100, 500})
	readOpt          = opt.ReadOptions{}
	unsyncedWriteOpt = opt.WriteOptions{}
	syncedWriteOpt   = opt.WriteOptions{Sync: true}
)

var _ kv.Store = (*LevelDB)(nil)

// Options tunes a persistent store. Values below 16 are raised to 16.
type Options struct {
	CacheSize              int // MiB
	OpenFilesCacheCapacity int
}

func (o Options) leveldb() *opt.Options {
	cache := max(o.CacheSize, minCapacity)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFilesCacheCapacity, minCapacity),
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	}
}

// LevelDB is the ledger store.
type LevelDB struct {
	db *leveldb.DB
}

// New opens the store at path, creating it when missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "open store %v", path)
	}
	return open(stg, opts)
}

// NewMem opens a store in memory, used by dev mode and tests.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	db, err := leveldb.Open(stg, opts.leveldb())
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &LevelDB{db}, nil
}

// IsNotFound reports whether err is the missing key error of Get.
func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	val, err := ldb.db.Get(key, &readOpt)
	observeRead("get", err == nil)
	return val, err
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	has, err := ldb.db.Has(key, &readOpt)
	observeRead("has", has)
	return has, err
}

// Put writes a single key without syncing. Committed ledger state goes
// through NewBatch instead.
func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, &unsyncedWriteOpt)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, &unsyncedWriteOpt)
}

// Close closes the store. Later operations fail.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

// NewBatch starts an atomic write.
func (ldb *LevelDB) NewBatch() kv.Batch {
	return &batch{db: ldb.db}
}

type batch struct {
	db  *leveldb.DB
	ops leveldb.Batch
	del int
}

func (b *batch) Put(key, value []byte) error {
	b.ops.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.ops.Delete(key)
	b.del++
	return nil
}

func (b *batch) Len() int {
	return b.ops.Len()
}

// Write applies every op of the batch atomically and syncs it to disk.
func (b *batch) Write() error {
	if err := b.db.Write(&b.ops, &syncedWriteOpt); err != nil {
		return errors.Wrap(err, "write batch")
	}
	if metrics.Enabled() {
		metricBatchOps().ObserveWithLabels(int64(b.ops.Len()-b.del), map[string]string{"kind": "put"})
		metricBatchOps().ObserveWithLabels(int64(b.del), map[string]string{"kind": "delete"})
	}
	return nil
}

func observeRead(op string, found bool) {
	if !metrics.Enabled() {
		return
	}
	result := "miss"
	if found {
		result = "hit"
	}
	metricReadCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
}
