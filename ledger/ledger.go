// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger serializes the execution of signed batches and persists
// their effects.
package ledger

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/vechain/lockstake/builtin"
	"github.com/vechain/lockstake/builtin/asset"
	"github.com/vechain/lockstake/builtin/pricefeed"
	"github.com/vechain/lockstake/builtin/staking"
	"github.com/vechain/lockstake/builtin/staking/account"
	"github.com/vechain/lockstake/builtin/staking/globalstats"
	"github.com/vechain/lockstake/genesis"
	"github.com/vechain/lockstake/kv"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/log"
	"github.com/vechain/lockstake/logdb"
	"github.com/vechain/lockstake/runtime"
	"github.com/vechain/lockstake/state"
	"github.com/vechain/lockstake/tx"
)

const (
	receiptBucket = kv.Bucket("r") // batch id => receipt
	seqBucket     = kv.Bucket("n") // seq => batch id
	propBucket    = kv.Bucket("p") // ledger properties

	receiptCacheSize = 1024
)

var (
	logger = log.WithContext("pkg", "ledger")

	genesisIDKey = []byte("genesis-id")
	seqKey       = []byte("seq")
	timeKey      = []byte("time")
)

// Options tunes a ledger.
type Options struct {
	Accounting  staking.LiabilityAccounting
	PriceMaxAge uint64
	// Clock returns the current unix time. Defaults to the system clock.
	Clock func() uint64
}

// Ledger executes batches one at a time in submission order.
//
// It's thread-safe.
type Ledger struct {
	mu        sync.Mutex
	store     kv.Store
	state     *state.State
	logDB     *logdb.LogDB
	config    runtime.Config
	clock     func() uint64
	genesisID lockstake.Bytes32
	seq       uint64
	time      uint64
	receipts  *lru.Cache
}

// Summary is a consistent view of the staking contract.
type Summary struct {
	Globals      *globalstats.Globals
	Accounting   staking.LiabilityAccounting
	Participants uint64
	// free balance of the staking asset, valid only when Solvent
	Free    uint64
	Solvent bool
}

// New opens the ledger persisted in store, building gen into it on first use.
// logDB is optional.
func New(store kv.Store, gen *genesis.Genesis, logDB *logdb.LogDB, opts Options) (*Ledger, error) {
	receipts, err := lru.New(receiptCacheSize)
	if err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = func() uint64 { return uint64(time.Now().Unix()) }
	}

	l := &Ledger{
		store:     store,
		state:     state.New(store),
		logDB:     logDB,
		config:    runtime.Config{Accounting: opts.Accounting, PriceMaxAge: opts.PriceMaxAge, ChainTag: gen.ChainTag()},
		clock:     clock,
		genesisID: gen.ID(),
		receipts:  receipts,
	}

	val, err := propBucket.Get(store, genesisIDKey)
	if err != nil {
		if !store.IsNotFound(err) {
			return nil, err
		}
		if err := l.initGenesis(gen); err != nil {
			return nil, errors.WithMessage(err, "build genesis")
		}
	} else {
		if lockstake.BytesToBytes32(val) != l.genesisID {
			return nil, errors.New("genesis mismatch")
		}
		if l.seq, err = l.loadUint64(seqKey); err != nil {
			return nil, errors.Wrap(err, "load seq")
		}
		if l.time, err = l.loadUint64(timeKey); err != nil {
			return nil, errors.Wrap(err, "load time")
		}
	}

	if opts.Accounting == staking.Legacy {
		logger.Warn("legacy liability accounting enabled, total liability may drift from the sum of rewards")
	}
	metricBatchSeq().Set(int64(l.seq))
	logger.Info("ledger opened", "genesis", l.genesisID, "seq", l.seq, "accounting", opts.Accounting)
	return l, nil
}

func (l *Ledger) initGenesis(gen *genesis.Genesis) error {
	if err := gen.Build(l.state); err != nil {
		return err
	}
	l.time = gen.Time

	batch := l.store.NewBatch()
	if err := l.state.Stage(batch); err != nil {
		return err
	}
	if err := propBucket.Put(batch, genesisIDKey, l.genesisID.Bytes()); err != nil {
		return err
	}
	if err := l.stageProps(batch, 0, l.time); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	l.state.Flush()
	return nil
}

func (l *Ledger) loadUint64(key []byte) (uint64, error) {
	val, err := propBucket.Get(l.store, key)
	if err != nil {
		return 0, err
	}
	if len(val) != 8 {
		return 0, errors.New("malformed value")
	}
	return binary.BigEndian.Uint64(val), nil
}

func (l *Ledger) stageProps(w kv.Putter, seq, ts uint64) error {
	if err := propBucket.Put(w, seqKey, binary.BigEndian.AppendUint64(nil, seq)); err != nil {
		return err
	}
	return propBucket.Put(w, timeKey, binary.BigEndian.AppendUint64(nil, ts))
}

// Submit executes b and persists its receipt. A reverted batch still
// consumes a seq and gets a receipt, but leaves the state untouched.
func (l *Ledger) Submit(ctx context.Context, b *tx.Batch) (*tx.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := b.Validate(l.config.ChainTag); err != nil {
		return nil, badBatchError{err.Error()}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := b.ID()
	known, err := receiptBucket.Has(l.store, id.Bytes())
	if err != nil {
		return nil, err
	}
	if known {
		return nil, errKnownBatch
	}

	// time never goes backwards
	now := max(l.clock(), l.time)
	startTime := time.Now()
	result := "error"
	defer func() {
		metricBatchDuration().ObserveWithLabels(time.Since(startTime).Milliseconds(), map[string]string{"result": result})
	}()

	receipt, err := runtime.New(l.state, now, l.config).ExecuteBatch(b)
	if err != nil {
		return nil, err
	}
	receipt.Seq = l.seq + 1
	slots := l.state.Changes()

	if err := l.persist(receipt); err != nil {
		// drop whatever the batch left in the journal
		l.state.RevertTo(0)
		return nil, err
	}
	l.seq = receipt.Seq
	l.time = now
	l.receipts.Add(id, receipt)
	metricBatchSeq().Set(int64(l.seq))

	if receipt.Reverted {
		result = "reverted"
		logger.Debug("batch reverted", "id", id.AbbrevString(), "seq", receipt.Seq, "clause", receipt.BadClause, "kind", receipt.Kind, "reason", receipt.Reason)
	} else {
		result = "success"
		logger.Debug("batch executed", "id", id.AbbrevString(), "seq", receipt.Seq, "events", len(receipt.Events), "transfers", len(receipt.Transfers), "slots", slots)
	}

	if l.logDB != nil {
		if err := l.logDB.NewWriter().Write(receipt).Commit(); err != nil {
			logger.Warn("failed to write logs", "id", id, "err", err)
		}
	}
	return receipt, nil
}

func (l *Ledger) persist(receipt *tx.Receipt) error {
	data, err := rlp.EncodeToBytes(receipt)
	if err != nil {
		return errors.Wrap(err, "encode receipt")
	}

	batch := l.store.NewBatch()
	if err := l.state.Stage(batch); err != nil {
		return err
	}
	if err := receiptBucket.Put(batch, receipt.BatchID.Bytes(), data); err != nil {
		return err
	}
	if err := seqBucket.Put(batch, binary.BigEndian.AppendUint64(nil, receipt.Seq), receipt.BatchID.Bytes()); err != nil {
		return err
	}
	if err := l.stageProps(batch, receipt.Seq, receipt.Time); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write batch")
	}
	l.state.Flush()
	return nil
}

//
// Getters - read under the execution lock
//

// GenesisID returns the id of the genesis the ledger was built from.
func (l *Ledger) GenesisID() lockstake.Bytes32 {
	return l.genesisID
}

// ChainTag returns the tag batches must carry, the last byte of the genesis id.
func (l *Ledger) ChainTag() byte {
	return l.config.ChainTag
}

// Seq returns the seq of the last executed batch, 0 before any.
func (l *Ledger) Seq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}

// Time returns the execution time of the last batch.
func (l *Ledger) Time() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.time
}

// Receipt returns the receipt of the batch with the given id.
func (l *Ledger) Receipt(id lockstake.Bytes32) (*tx.Receipt, error) {
	if cached, ok := l.receipts.Get(id); ok {
		return cached.(*tx.Receipt), nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := receiptBucket.Get(l.store, id.Bytes())
	if err != nil {
		if l.store.IsNotFound(err) {
			return nil, errNotFound
		}
		return nil, err
	}
	var receipt tx.Receipt
	if err := rlp.DecodeBytes(data, &receipt); err != nil {
		return nil, errors.Wrap(err, "decode receipt")
	}
	l.receipts.Add(id, &receipt)
	return &receipt, nil
}

// ReceiptBySeq returns the receipt of the seq-th executed batch.
func (l *Ledger) ReceiptBySeq(seq uint64) (*tx.Receipt, error) {
	l.mu.Lock()
	id, err := seqBucket.Get(l.store, binary.BigEndian.AppendUint64(nil, seq))
	l.mu.Unlock()
	if err != nil {
		if l.store.IsNotFound(err) {
			return nil, errNotFound
		}
		return nil, err
	}
	return l.Receipt(lockstake.BytesToBytes32(id))
}

func (l *Ledger) staking() *staking.Staking {
	return builtin.Staking.Native(l.state, nil, nil, l.config.Accounting)
}

// Summary returns the contract record together with its free balance.
func (l *Ledger) Summary() (*Summary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	contract := l.staking()
	g, err := contract.Globals()
	if err != nil {
		return nil, err
	}
	participants, err := contract.Participants()
	if err != nil {
		return nil, err
	}
	summary := &Summary{Globals: g, Accounting: contract.Accounting(), Participants: participants}
	if g.Lifecycle != globalstats.LifecycleNone {
		if summary.Free, summary.Solvent, err = contract.FreeBalance(g.Assets.Staking); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// Account returns the staking account of addr, errNotFound if it never opted in.
func (l *Ledger) Account(addr lockstake.Address) (*account.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, err := l.staking().Account(addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, errNotFound
	}
	return acc, nil
}

// Rate returns the per-period rate of a stake of length days.
func (l *Ledger) Rate(length uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.staking().Rate(length)
}

// Holding returns the position of holder in asset id.
func (l *Ledger) Holding(id lockstake.AssetID, holder lockstake.Address) (*asset.Holding, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	assets := builtin.Asset.Native(l.state, nil)
	if !id.IsNative() {
		info, err := assets.Info(id)
		if err != nil {
			return nil, err
		}
		if info == nil {
			return nil, errNotFound
		}
	}
	return assets.Holding(id, holder)
}

// Price returns the feed entry of asset id.
func (l *Ledger) Price(id lockstake.AssetID) (*pricefeed.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, err := builtin.PriceFeed.Native(l.state, nil).Get(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, errNotFound
	}
	return entry, nil
}
