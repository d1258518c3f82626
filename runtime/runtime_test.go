// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockstake/builtin"
	"github.com/vechain/lockstake/builtin/staking"
	"github.com/vechain/lockstake/builtin/staking/globalstats"
	"github.com/vechain/lockstake/genesis"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/lvldb"
	"github.com/vechain/lockstake/runtime"
	"github.com/vechain/lockstake/state"
	"github.com/vechain/lockstake/tx"
)

const (
	stakeAsset  = genesis.DevStakingAsset
	rewardAsset = genesis.DevRewardAsset
	reserve     = uint64(10_000_000)
)

type testEnv struct {
	t     *testing.T
	st    *state.State
	gen   *genesis.Genesis
	nonce uint64
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	gen := genesis.NewDevnet()
	require.NoError(t, gen.Build(st))
	return &testEnv{t: t, st: st, gen: gen}
}

func (e *testEnv) runtime(offset uint64, config runtime.Config) *runtime.Runtime {
	config.ChainTag = e.gen.ChainTag()
	return runtime.New(e.st, e.gen.Time+offset, config)
}

func (e *testEnv) batch(signer int, clauses ...*tx.Clause) *tx.Batch {
	e.nonce++
	builder := tx.NewBuilder().ChainTag(e.gen.ChainTag()).Nonce(e.nonce)
	for _, c := range clauses {
		builder.Clause(c)
	}
	return tx.MustSign(builder.Build(), genesis.DevAccounts()[signer].PrivateKey)
}

func (e *testEnv) exec(rt *runtime.Runtime, signer int, clauses ...*tx.Clause) *tx.Receipt {
	receipt, err := rt.ExecuteBatch(e.batch(signer, clauses...))
	require.NoError(e.t, err)
	return receipt
}

// configure opens the contract and funds its reward reserve.
func (e *testEnv) configure() {
	receipt := e.exec(e.runtime(0, runtime.Config{}), 0,
		tx.NewTransfer(lockstake.NativeAsset, lockstake.StakingContract, lockstake.ConfigFunding),
		tx.NewConfigure(stakeAsset, rewardAsset),
		tx.NewTransfer(stakeAsset, lockstake.StakingContract, reserve),
	)
	require.False(e.t, receipt.Reverted, receipt.Reason)
}

func (e *testEnv) balance(id lockstake.AssetID, addr lockstake.Address) uint64 {
	bal, err := builtin.Asset.Native(e.st, nil).Balance(id, addr)
	require.NoError(e.t, err)
	return bal
}

func (e *testEnv) globals() *globalstats.Globals {
	g, err := builtin.Staking.Native(e.st, nil, nil, staking.Corrected).Globals()
	require.NoError(e.t, err)
	return g
}

func TestConfigure(t *testing.T) {
	env := newTestEnv(t)
	admin := genesis.DevAccounts()[0].Address

	receipt := env.exec(env.runtime(0, runtime.Config{}), 0,
		tx.NewTransfer(lockstake.NativeAsset, lockstake.StakingContract, lockstake.ConfigFunding),
		tx.NewConfigure(stakeAsset, rewardAsset),
	)
	require.False(t, receipt.Reverted, receipt.Reason)
	assert.Equal(t, admin, receipt.Origin)
	assert.Len(t, receipt.Transfers, 1)
	require.NotEmpty(t, receipt.Events)
	assert.Equal(t, tx.EventConfigured, receipt.Events[len(receipt.Events)-1].Name)

	g := env.globals()
	assert.Equal(t, globalstats.LifecycleConfigured, g.Lifecycle)
	assert.False(t, g.Frozen)
	assert.Equal(t, lockstake.ConfigFunding, env.balance(lockstake.NativeAsset, lockstake.StakingContract))

	// a second configuration is rejected
	receipt = env.exec(env.runtime(0, runtime.Config{}), 0,
		tx.NewTransfer(lockstake.NativeAsset, lockstake.StakingContract, lockstake.ConfigFunding),
		tx.NewConfigure(stakeAsset, rewardAsset),
	)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, uint64(1), receipt.BadClause)
	assert.Equal(t, "PreconditionFailed", receipt.Kind)
	assert.Equal(t, lockstake.ConfigFunding, env.balance(lockstake.NativeAsset, lockstake.StakingContract))
}

func TestConfigureWithoutPayment(t *testing.T) {
	env := newTestEnv(t)

	receipt := env.exec(env.runtime(0, runtime.Config{}), 0, tx.NewConfigure(stakeAsset, rewardAsset))
	assert.True(t, receipt.Reverted)
	assert.Equal(t, globalstats.LifecycleCreated, env.globals().Lifecycle)
}

func TestStakeAndUnstake(t *testing.T) {
	env := newTestEnv(t)
	env.configure()
	user := genesis.DevAccounts()[2].Address
	before := env.balance(stakeAsset, user)

	receipt := env.exec(env.runtime(100, runtime.Config{}), 2,
		tx.NewOptIn(),
		tx.NewTransfer(stakeAsset, lockstake.StakingContract, 1_000_000),
		tx.NewStake(stakeAsset, 15),
	)
	require.False(t, receipt.Reverted, receipt.Reason)
	require.Len(t, receipt.Events, 2)
	assert.Equal(t, tx.EventOptedIn, receipt.Events[0].Name)
	staked := receipt.Events[1]
	assert.Equal(t, tx.EventStaked, staked.Name)
	assert.Equal(t, user, staked.Subject)
	assert.Equal(t, uint64(1_000_000), staked.Amount)
	assert.Equal(t, uint64(2054), staked.Reward)
	assert.Equal(t, env.gen.Time+100+15*lockstake.SecondsPerDay, staked.Unlock)

	g := env.globals()
	assert.Equal(t, uint64(1_000_000), g.Locked)
	assert.Equal(t, uint64(2054), g.Liability)

	// exactly at unlock the stake is still locked
	locked := env.runtime(100+15*lockstake.SecondsPerDay, runtime.Config{})
	receipt = env.exec(locked, 2, tx.NewUnstake(stakeAsset, rewardAsset))
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "PreconditionFailed", receipt.Kind)

	unlocked := env.runtime(101+15*lockstake.SecondsPerDay, runtime.Config{})
	receipt = env.exec(unlocked, 2, tx.NewUnstake(stakeAsset, rewardAsset))
	require.False(t, receipt.Reverted, receipt.Reason)
	require.Len(t, receipt.Transfers, 2)
	assert.Equal(t, uint64(1_000_000), receipt.Transfers[0].Amount)
	assert.Equal(t, uint64(2054), receipt.Transfers[1].Amount)
	assert.Equal(t, before+2054, env.balance(stakeAsset, user))

	g = env.globals()
	assert.Zero(t, g.Locked)
	assert.Zero(t, g.Liability)
}

func TestBatchAtomicity(t *testing.T) {
	env := newTestEnv(t)
	env.configure()
	user := genesis.DevAccounts()[3].Address
	before := env.balance(stakeAsset, user)

	// the stake clause rejects a length out of range, undoing the opt-in and the payment
	receipt := env.exec(env.runtime(0, runtime.Config{}), 3,
		tx.NewOptIn(),
		tx.NewTransfer(stakeAsset, lockstake.StakingContract, 1_000_000),
		tx.NewStake(stakeAsset, 61),
	)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, uint64(2), receipt.BadClause)
	assert.Equal(t, "PreconditionFailed", receipt.Kind)
	assert.NotEmpty(t, receipt.Reason)
	assert.Empty(t, receipt.Events)
	assert.Empty(t, receipt.Transfers)

	acc, err := builtin.Staking.Native(env.st, nil, nil, staking.Corrected).Account(user)
	require.NoError(t, err)
	assert.Nil(t, acc)
	assert.Equal(t, before, env.balance(stakeAsset, user))
	assert.Equal(t, reserve, env.balance(stakeAsset, lockstake.StakingContract))
}

func TestStakeWithoutTransfer(t *testing.T) {
	env := newTestEnv(t)
	env.configure()

	// the payment must directly precede the stake clause
	receipt := env.exec(env.runtime(0, runtime.Config{}), 4,
		tx.NewTransfer(stakeAsset, lockstake.StakingContract, 1_000_000),
		tx.NewOptIn(),
		tx.NewStake(stakeAsset, 30),
	)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, uint64(2), receipt.BadClause)
}

func TestStalePrice(t *testing.T) {
	env := newTestEnv(t)
	env.configure()
	config := runtime.Config{PriceMaxAge: 60}

	receipt := env.exec(env.runtime(100, config), 5,
		tx.NewOptIn(),
		tx.NewTransfer(stakeAsset, lockstake.StakingContract, 1_000_000),
		tx.NewStake(stakeAsset, 30),
	)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "OracleUnavailable", receipt.Kind)

	// the feeder refreshes both prices and the stake goes through
	receipt = env.exec(env.runtime(100, config), 1,
		tx.NewUpdatePrice(stakeAsset, 1_000_000),
		tx.NewUpdatePrice(rewardAsset, 1_000_000),
	)
	require.False(t, receipt.Reverted, receipt.Reason)
	assert.Len(t, receipt.Events, 2)

	receipt = env.exec(env.runtime(100, config), 5,
		tx.NewOptIn(),
		tx.NewTransfer(stakeAsset, lockstake.StakingContract, 1_000_000),
		tx.NewStake(stakeAsset, 15),
	)
	require.False(t, receipt.Reverted, receipt.Reason)
	assert.Equal(t, uint64(2054), receipt.Events[1].Reward)
}

func TestUpdatePriceUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	receipt := env.exec(env.runtime(0, runtime.Config{}), 2, tx.NewUpdatePrice(stakeAsset, 1))
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "Unauthorized", receipt.Kind)
}

func TestAdminClauses(t *testing.T) {
	env := newTestEnv(t)
	env.configure()
	next := genesis.DevAccounts()[6].Address

	settings := tx.Settings{SlopeStart: 10_000, SlopeEnd: 20_000, LengthStart: 1, LengthEnd: 30}
	receipt := env.exec(env.runtime(0, runtime.Config{}), 0,
		tx.NewUpdateSettings(settings),
		tx.NewUpdateAdmin(next),
	)
	require.False(t, receipt.Reverted, receipt.Reason)

	g := env.globals()
	assert.Equal(t, next, g.Admin)
	assert.Equal(t, settings.LengthEnd, g.Curve.LengthEnd)

	// the former admin lost its rights
	receipt = env.exec(env.runtime(0, runtime.Config{}), 0, tx.NewUpdateAdmin(genesis.DevAccounts()[0].Address))
	assert.True(t, receipt.Reverted)
	assert.Equal(t, next, env.globals().Admin)
}

func TestWithdraw(t *testing.T) {
	env := newTestEnv(t)
	env.configure()
	admin := genesis.DevAccounts()[0].Address
	before := env.balance(stakeAsset, admin)

	receipt := env.exec(env.runtime(0, runtime.Config{}), 0, tx.NewWithdraw(stakeAsset, reserve/2))
	require.False(t, receipt.Reverted, receipt.Reason)
	assert.Equal(t, before+reserve/2, env.balance(stakeAsset, admin))

	// the whole free balance can not be withdrawn
	receipt = env.exec(env.runtime(0, runtime.Config{}), 0, tx.NewWithdraw(stakeAsset, reserve/2))
	assert.True(t, receipt.Reverted)
}

func TestInvalidBatch(t *testing.T) {
	env := newTestEnv(t)
	rt := env.runtime(0, runtime.Config{})

	_, err := rt.ExecuteBatch(tx.NewBuilder().Nonce(1).Build())
	assert.Error(t, err)

	unsigned := tx.NewBuilder().Nonce(1).Clause(tx.NewOptIn()).Build()
	_, err = rt.ExecuteBatch(unsigned)
	assert.Error(t, err)

	foreign := tx.NewBuilder().ChainTag(env.gen.ChainTag() + 1).Nonce(1).Clause(tx.NewOptIn()).Build()
	_, err = rt.ExecuteBatch(tx.MustSign(foreign, genesis.DevAccounts()[1].PrivateKey))
	assert.ErrorContains(t, err, "chain tag mismatch")
}
