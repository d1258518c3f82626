// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger_test

import (
	"context"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/lockstake/builtin/staking"
	"github.com/vechain/lockstake/builtin/staking/globalstats"
	"github.com/vechain/lockstake/builtin/staking/reverts"
	"github.com/vechain/lockstake/genesis"
	"github.com/vechain/lockstake/ledger"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/logdb"
	"github.com/vechain/lockstake/lvldb"
	"github.com/vechain/lockstake/test/datagen"
	"github.com/vechain/lockstake/tx"
)

type testClock struct {
	now atomic.Uint64
}

func (c *testClock) Now() uint64 { return c.now.Load() }

type ledgerTest struct {
	t     *testing.T
	db    *lvldb.LevelDB
	logDB *logdb.LogDB
	gen   *genesis.Genesis
	clock *testClock
	l     *ledger.Ledger
	nonce atomic.Uint64
}

func newLedgerTest(t *testing.T) *ledgerTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	lt := &ledgerTest{t: t, db: db, logDB: logDB, gen: genesis.NewDevnet(), clock: &testClock{}}
	lt.clock.now.Store(lt.gen.Time + 10)
	lt.l = lt.open(lt.gen)
	return lt
}

func (lt *ledgerTest) open(gen *genesis.Genesis) *ledger.Ledger {
	l, err := ledger.New(lt.db, gen, lt.logDB, ledger.Options{Clock: lt.clock.Now})
	require.NoError(lt.t, err)
	return l
}

func (lt *ledgerTest) batch(signer int, clauses ...*tx.Clause) *tx.Batch {
	builder := tx.NewBuilder().ChainTag(lt.gen.ChainTag()).Nonce(lt.nonce.Add(1))
	for _, c := range clauses {
		builder.Clause(c)
	}
	return tx.MustSign(builder.Build(), genesis.DevAccounts()[signer].PrivateKey)
}

func (lt *ledgerTest) submit(signer int, clauses ...*tx.Clause) *tx.Receipt {
	receipt, err := lt.l.Submit(context.Background(), lt.batch(signer, clauses...))
	require.NoError(lt.t, err)
	return receipt
}

func (lt *ledgerTest) configure() {
	receipt := lt.submit(0,
		tx.NewTransfer(lockstake.NativeAsset, lockstake.StakingContract, lockstake.ConfigFunding),
		tx.NewConfigure(genesis.DevStakingAsset, genesis.DevRewardAsset),
		tx.NewTransfer(genesis.DevStakingAsset, lockstake.StakingContract, 10_000_000),
	)
	require.False(lt.t, receipt.Reverted, receipt.Reason)
}

func stakeClauses(amount, length uint64) []*tx.Clause {
	return []*tx.Clause{
		tx.NewOptIn(),
		tx.NewTransfer(genesis.DevStakingAsset, lockstake.StakingContract, amount),
		tx.NewStake(genesis.DevStakingAsset, length),
	}
}

func TestSubmit(t *testing.T) {
	lt := newLedgerTest(t)
	assert.Equal(t, uint64(0), lt.l.Seq())
	assert.Equal(t, lt.gen.Time, lt.l.Time())
	assert.Equal(t, lt.gen.ID(), lt.l.GenesisID())
	assert.Equal(t, lt.gen.ID()[31], lt.l.ChainTag())

	lt.configure()
	receipt := lt.submit(2, stakeClauses(1_000_000, 15)...)
	require.False(t, receipt.Reverted, receipt.Reason)
	assert.Equal(t, uint64(2), receipt.Seq)
	assert.Equal(t, lt.gen.Time+10, receipt.Time)
	assert.Equal(t, uint64(2), lt.l.Seq())

	got, err := lt.l.Receipt(receipt.BatchID)
	require.NoError(t, err)
	assert.Equal(t, receipt.Seq, got.Seq)

	got, err = lt.l.ReceiptBySeq(2)
	require.NoError(t, err)
	assert.Equal(t, receipt.BatchID, got.BatchID)
	_, err = lt.l.ReceiptBySeq(3)
	assert.True(t, ledger.IsNotFound(err))

	summary, err := lt.l.Summary()
	require.NoError(t, err)
	assert.Equal(t, globalstats.LifecycleConfigured, summary.Globals.Lifecycle)
	assert.Equal(t, staking.Corrected, summary.Accounting)
	assert.Equal(t, uint64(1_000_000), summary.Globals.Locked)
	assert.Equal(t, uint64(2054), summary.Globals.Liability)
	assert.Equal(t, uint64(1), summary.Participants)
	assert.True(t, summary.Solvent)
	assert.Equal(t, uint64(10_000_000-2054), summary.Free)

	acc, err := lt.l.Account(genesis.DevAccounts()[2].Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), acc.Staked)
	assert.Equal(t, uint64(2054), acc.TotalReward)

	rate, err := lt.l.Rate(15)
	require.NoError(t, err)
	assert.Equal(t, uint64(2054), rate)

	holding, err := lt.l.Holding(genesis.DevStakingAsset, lockstake.StakingContract)
	require.NoError(t, err)
	assert.True(t, holding.OptedIn)
	assert.Equal(t, uint64(11_000_000), holding.Amount)

	entry, err := lt.l.Price(genesis.DevStakingAsset)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), entry.Price)
}

func TestSubmitErrors(t *testing.T) {
	lt := newLedgerTest(t)
	ctx := context.Background()

	b := lt.batch(0, tx.NewOptIn())
	_, err := lt.l.Submit(ctx, b)
	require.NoError(t, err)

	_, err = lt.l.Submit(ctx, b)
	assert.True(t, ledger.IsKnownBatch(err))

	_, err = lt.l.Submit(ctx, tx.NewBuilder().Nonce(1).Clause(tx.NewOptIn()).Build())
	assert.True(t, ledger.IsBadBatch(err))

	_, err = lt.l.Submit(ctx, tx.NewBuilder().Nonce(1).Build())
	assert.True(t, ledger.IsBadBatch(err))

	// signed for another ledger instance
	foreign := tx.NewBuilder().ChainTag(lt.l.ChainTag() + 1).Nonce(1).Clause(tx.NewOptIn()).Build()
	_, err = lt.l.Submit(ctx, tx.MustSign(foreign, genesis.DevAccounts()[1].PrivateKey))
	assert.True(t, ledger.IsBadBatch(err))
	assert.ErrorContains(t, err, "chain tag mismatch")

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = lt.l.Submit(canceled, lt.batch(1, tx.NewOptIn()))
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, uint64(1), lt.l.Seq())
}

func TestLookupMisses(t *testing.T) {
	lt := newLedgerTest(t)

	_, err := lt.l.Receipt(datagen.RandBytes32())
	assert.True(t, ledger.IsNotFound(err))

	_, err = lt.l.Account(datagen.RandAddress())
	assert.True(t, ledger.IsNotFound(err))

	_, err = lt.l.Holding(datagen.RandAssetID(), genesis.DevAccounts()[5].Address)
	assert.True(t, ledger.IsNotFound(err))

	_, err = lt.l.Price(datagen.RandAssetID())
	assert.True(t, ledger.IsNotFound(err))

	// the native asset needs no issuance
	holding, err := lt.l.Holding(lockstake.NativeAsset, genesis.DevAccounts()[5].Address)
	require.NoError(t, err)
	assert.Equal(t, genesis.DevNativeBalance, holding.Amount)
}

func TestRevertedBatchIsRecorded(t *testing.T) {
	lt := newLedgerTest(t)

	// the contract is still frozen
	receipt := lt.submit(3, tx.NewOptIn(), tx.NewStake(genesis.DevStakingAsset, 30))
	assert.True(t, receipt.Reverted)
	assert.Equal(t, uint64(1), receipt.Seq)
	assert.Equal(t, uint64(1), receipt.BadClause)
	assert.Equal(t, reverts.PreconditionFailed.String(), receipt.Kind)
	assert.Contains(t, receipt.Reason, "contract frozen")

	got, err := lt.l.Receipt(receipt.BatchID)
	require.NoError(t, err)
	assert.True(t, got.Reverted)

	_, err = lt.l.Account(genesis.DevAccounts()[3].Address)
	assert.True(t, ledger.IsNotFound(err))
}

func TestMonotonicTime(t *testing.T) {
	lt := newLedgerTest(t)

	lt.clock.now.Store(lt.gen.Time + 100)
	receipt := lt.submit(0, tx.NewOptIn())
	assert.Equal(t, lt.gen.Time+100, receipt.Time)

	// a clock going backwards does not move the ledger time
	lt.clock.now.Store(lt.gen.Time + 50)
	receipt = lt.submit(1, tx.NewOptIn())
	assert.Equal(t, lt.gen.Time+100, receipt.Time)
	assert.Equal(t, lt.gen.Time+100, lt.l.Time())
}

func TestReopen(t *testing.T) {
	lt := newLedgerTest(t)
	lt.configure()
	receipt := lt.submit(2, stakeClauses(1_000_000, 15)...)

	reopened := lt.open(lt.gen)
	assert.Equal(t, uint64(2), reopened.Seq())
	assert.Equal(t, receipt.Time, reopened.Time())

	got, err := reopened.Receipt(receipt.BatchID)
	require.NoError(t, err)
	assert.Equal(t, receipt.BatchID, got.BatchID)
	assert.Equal(t, receipt.Origin, got.Origin)
	require.Len(t, got.Events, len(receipt.Events))
	assert.Equal(t, receipt.Events[1].Reward, got.Events[1].Reward)

	summary, err := reopened.Summary()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), summary.Globals.Locked)

	other := genesis.NewDevnet()
	other.Time++
	_, err = ledger.New(lt.db, other, nil, ledger.Options{})
	assert.Error(t, err)
}

func TestLogsIndexed(t *testing.T) {
	lt := newLedgerTest(t)
	lt.configure()
	lt.submit(2, stakeClauses(1_000_000, 15)...)

	name := tx.EventStaked
	events, err := lt.logDB.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Name: &name}},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(2), events[0].BatchSeq)
	assert.Equal(t, genesis.DevAccounts()[2].Address, events[0].Subject)

	seq, ok, err := lt.logDB.NewestSeq(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(2), seq)
}

func TestConcurrentSubmit(t *testing.T) {
	lt := newLedgerTest(t)
	lt.configure()

	accs := genesis.DevAccounts()
	seqs := make([]uint64, len(accs)-1)
	var g errgroup.Group
	for i := 1; i < len(accs); i++ {
		b := lt.batch(i, stakeClauses(uint64(i)*1000, 30)...)
		g.Go(func() error {
			receipt, err := lt.l.Submit(context.Background(), b)
			if err != nil {
				return err
			}
			seqs[i-1] = receipt.Seq
			return nil
		})
	}
	require.NoError(t, g.Wait())

	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	for i, seq := range seqs {
		assert.Equal(t, uint64(i+2), seq)
	}

	summary, err := lt.l.Summary()
	require.NoError(t, err)
	assert.Equal(t, uint64(len(accs)-1), summary.Participants)
	assert.Equal(t, uint64(45_000), summary.Globals.Locked)
}

func TestLegacyAccounting(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	l, err := ledger.New(db, genesis.NewDevnet(), nil, ledger.Options{Accounting: staking.Legacy})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), l.Seq())

	summary, err := l.Summary()
	require.NoError(t, err)
	assert.Equal(t, staking.Legacy, summary.Accounting)
}
