// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger runs a dev ledger in memory for integration tests.
package testledger

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/vechain/lockstake/genesis"
	"github.com/vechain/lockstake/ledger"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/logdb"
	"github.com/vechain/lockstake/lvldb"
	"github.com/vechain/lockstake/tx"
)

// Reserve is the staking asset amount the admin funds the contract with in Configure.
const Reserve uint64 = 10_000_000

// Ledger wraps a dev ledger backed by in-memory stores.
type Ledger struct {
	db      *lvldb.LevelDB
	logDB   *logdb.LogDB
	genesis *genesis.Genesis
	ledger  *ledger.Ledger
	now     atomic.Uint64
	nonce   atomic.Uint64
}

// NewIntegrationTestLedger creates a ledger from the dev genesis. Its clock
// starts 10 seconds after the genesis time and only moves with SetTime.
func NewIntegrationTestLedger() (*Ledger, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}

	tl := &Ledger{
		db:      db,
		logDB:   logDB,
		genesis: genesis.NewDevnet(),
	}
	tl.now.Store(tl.genesis.Time + 10)

	tl.ledger, err = ledger.New(db, tl.genesis, logDB, ledger.Options{Clock: tl.now.Load})
	if err != nil {
		tl.Close()
		return nil, err
	}
	return tl, nil
}

func (tl *Ledger) Ledger() *ledger.Ledger    { return tl.ledger }
func (tl *Ledger) LogDB() *logdb.LogDB       { return tl.logDB }
func (tl *Ledger) Genesis() *genesis.Genesis { return tl.genesis }

// SetTime sets the clock the next batches execute at.
func (tl *Ledger) SetTime(now uint64) {
	tl.now.Store(now)
}

// NewBatch signs a batch of clauses with a fresh nonce.
func (tl *Ledger) NewBatch(signer genesis.DevAccount, clauses ...*tx.Clause) *tx.Batch {
	builder := tx.NewBuilder().ChainTag(tl.genesis.ChainTag()).Nonce(tl.nonce.Add(1))
	for _, c := range clauses {
		builder.Clause(c)
	}
	return tx.MustSign(builder.Build(), signer.PrivateKey)
}

// Submit signs and submits a batch.
func (tl *Ledger) Submit(signer genesis.DevAccount, clauses ...*tx.Clause) (*tx.Receipt, error) {
	return tl.ledger.Submit(context.Background(), tl.NewBatch(signer, clauses...))
}

// MustSubmit submits a batch that must not be reverted.
func (tl *Ledger) MustSubmit(signer genesis.DevAccount, clauses ...*tx.Clause) (*tx.Receipt, error) {
	receipt, err := tl.Submit(signer, clauses...)
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return nil, errors.Errorf("batch reverted at clause %d: %s", receipt.BadClause, receipt.Reason)
	}
	return receipt, nil
}

// Configure opens the staking contract and funds its reward reserve.
func (tl *Ledger) Configure() error {
	_, err := tl.MustSubmit(genesis.DevAccounts()[0],
		tx.NewTransfer(lockstake.NativeAsset, lockstake.StakingContract, lockstake.ConfigFunding),
		tx.NewConfigure(genesis.DevStakingAsset, genesis.DevRewardAsset),
		tx.NewTransfer(genesis.DevStakingAsset, lockstake.StakingContract, Reserve),
	)
	return err
}

// Stake opts signer in and stakes amount for length days.
func (tl *Ledger) Stake(signer genesis.DevAccount, amount, length uint64) (*tx.Receipt, error) {
	return tl.MustSubmit(signer,
		tx.NewOptIn(),
		tx.NewTransfer(genesis.DevStakingAsset, lockstake.StakingContract, amount),
		tx.NewStake(genesis.DevStakingAsset, length),
	)
}

// Close releases the stores.
func (tl *Ledger) Close() {
	tl.logDB.Close()
	tl.db.Close()
}
