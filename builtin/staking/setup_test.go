// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockstake/builtin/asset"
	"github.com/vechain/lockstake/builtin/solidity"
	"github.com/vechain/lockstake/builtin/staking/globalstats"
	"github.com/vechain/lockstake/builtin/staking/interest"
	"github.com/vechain/lockstake/builtin/staking/reverts"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/lvldb"
	"github.com/vechain/lockstake/state"
	"github.com/vechain/lockstake/tx"
)

const (
	stakeAsset  lockstake.AssetID = 7
	rewardAsset lockstake.AssetID = 8

	genesisTime uint64 = 1_700_000_000
	day         uint64 = 86400
)

var (
	admin    = lockstake.BytesToAddress([]byte("admin"))
	treasury = lockstake.BytesToAddress([]byte("treasury"))

	defaultCurve = interest.Curve{SlopeStart: 50_000, SlopeEnd: 150_000, LengthStart: 15, LengthEnd: 60}
)

// priceTable is an in-memory PriceSource.
type priceTable map[lockstake.AssetID]uint64

func (p priceTable) Price(id lockstake.AssetID, _ uint64) (uint64, error) {
	price, ok := p[id]
	if !ok {
		return 0, reverts.Newf(reverts.OracleUnavailable, "no price for %v", id)
	}
	return price, nil
}

type StakingTest struct {
	*Staking
	t      *testing.T
	assets *asset.Asset
	prices priceTable
	out    *solidity.Output
}

// newTest creates a contract which is not configured yet.
func newTest(t *testing.T, accounting LiabilityAccounting) *StakingTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	out := &solidity.Output{}
	sctx := solidity.NewContext(lockstake.StakingContract, state.New(db), out)
	assets := asset.New(sctx.WithAddress(lockstake.AssetContract))
	prices := priceTable{stakeAsset: 1_000_000, rewardAsset: 1_000_000}

	require.NoError(t, assets.Issue(stakeAsset, treasury, 1_000_000_000_000))
	require.NoError(t, assets.Issue(rewardAsset, treasury, 1_000_000_000_000))
	require.NoError(t, assets.Mint(admin, 10_000_000))

	s := New(sctx, assets, prices, accounting)
	require.NoError(t, s.Create(admin, globalstats.Assets{Staking: stakeAsset, Reward: rewardAsset}, defaultCurve))

	return &StakingTest{Staking: s, t: t, assets: assets, prices: prices, out: out}
}

// newConfiguredTest creates a configured contract holding reward reserves.
func newConfiguredTest(t *testing.T, accounting LiabilityAccounting) *StakingTest {
	ts := newTest(t, accounting)
	require.NoError(t, ts.Configure(admin, ts.pay(admin, lockstake.NativeAsset, lockstake.ConfigFunding), stakeAsset, rewardAsset))
	require.NoError(t, ts.assets.Transfer(stakeAsset, treasury, ts.Address(), 1_000_000_000))
	return ts
}

// pay executes a transfer to the contract and returns its record.
func (ts *StakingTest) pay(from lockstake.Address, id lockstake.AssetID, amount uint64) *tx.Transfer {
	require.NoError(ts.t, ts.assets.Transfer(id, from, ts.Address(), amount))
	return &tx.Transfer{Asset: id, Sender: from, Recipient: ts.Address(), Amount: amount}
}

// participant returns an opted in account funded with the staking asset.
func (ts *StakingTest) participant(name string, funds uint64) lockstake.Address {
	addr := lockstake.BytesToAddress([]byte(name))
	require.NoError(ts.t, ts.assets.OptIn(stakeAsset, addr))
	require.NoError(ts.t, ts.assets.Transfer(stakeAsset, treasury, addr, funds))
	require.NoError(ts.t, ts.OptIn(addr))
	return addr
}

func (ts *StakingTest) stake(addr lockstake.Address, amount, length, now uint64) error {
	return ts.Stake(addr, ts.pay(addr, stakeAsset, amount), stakeAsset, length, now)
}

func (ts *StakingTest) balance(id lockstake.AssetID, addr lockstake.Address) uint64 {
	bal, err := ts.assets.Balance(id, addr)
	require.NoError(ts.t, err)
	return bal
}

// assertTotals checks the ledger wide invariant over the given accounts.
func (ts *StakingTest) assertTotals(addrs ...lockstake.Address) {
	var staked, reward uint64
	for _, addr := range addrs {
		acc, err := ts.Account(addr)
		require.NoError(ts.t, err)
		if acc == nil {
			continue
		}
		staked += acc.Staked
		reward += acc.TotalReward
		if !acc.IsActive() {
			assert.Zero(ts.t, acc.TotalReward, "idle account with reward")
			assert.Zero(ts.t, acc.StakeUnlock, "idle account with unlock")
		}
	}
	g, err := ts.Globals()
	require.NoError(ts.t, err)
	assert.Equal(ts.t, staked, g.Locked, "locked")
	assert.Equal(ts.t, reward, g.Liability, "liability")
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	ts    *StakingTest
	funcs []TestFunc
}

func NewSequence(ts *StakingTest) *TestSequence {
	return &TestSequence{ts: ts}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Stake(addr lockstake.Address, amount, length, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ts.stake(addr, amount, length, now); err != nil {
			t.Fatalf("failed to stake %d for %s: %v", amount, addr, err)
		}
		t.Logf("staked %d for %s", amount, addr)
	})
}

func (st *TestSequence) Unstake(addr lockstake.Address, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ts.Unstake(addr, stakeAsset, rewardAsset, now); err != nil {
			t.Fatalf("failed to unstake for %s: %v", addr, err)
		}
		t.Logf("unstaked for %s", addr)
	})
}

func (st *TestSequence) Restake(addr lockstake.Address, length, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ts.Restake(addr, stakeAsset, length, now); err != nil {
			t.Fatalf("failed to restake for %s: %v", addr, err)
		}
		t.Logf("restaked for %s", addr)
	})
}

func (st *TestSequence) Fails(kind reverts.Kind, f func() error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := f()
		if !reverts.Is(err, kind) {
			t.Fatalf("expected %v, got %v", kind, err)
		}
	})
}

func (st *TestSequence) AssertAccount(addr lockstake.Address, staked, reward, unlock uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		acc, err := st.ts.Account(addr)
		require.NoError(t, err)
		require.NotNil(t, acc)
		assert.Equal(t, staked, acc.Staked, "staked")
		assert.Equal(t, reward, acc.TotalReward, "total reward")
		assert.Equal(t, unlock, acc.StakeUnlock, "stake unlock")
	})
}

func (st *TestSequence) AssertGlobals(locked, liability uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		g, err := st.ts.Globals()
		require.NoError(t, err)
		assert.Equal(t, locked, g.Locked, "locked")
		assert.Equal(t, liability, g.Liability, "liability")
	})
}

func (st *TestSequence) Run(t *testing.T) {
	for _, f := range st.funcs {
		f(t)
	}
}
