// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockstake/builtin/solidity"
	"github.com/vechain/lockstake/builtin/staking/interest"
	"github.com/vechain/lockstake/builtin/staking/reverts"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/lvldb"
	"github.com/vechain/lockstake/state"
)

func newService(t *testing.T) (*Service, *solidity.Context) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sctx := solidity.NewContext(lockstake.StakingContract, state.New(db), nil)
	return New(sctx), sctx
}

func TestInit(t *testing.T) {
	svc, _ := newService(t)

	lc, err := svc.Lifecycle()
	require.NoError(t, err)
	assert.Equal(t, LifecycleNone, lc)

	admin := lockstake.BytesToAddress([]byte("admin"))
	curve := interest.Curve{SlopeStart: 1, SlopeEnd: 2, LengthStart: 3, LengthEnd: 4}
	require.NoError(t, svc.Init(admin, Assets{Staking: 7, Reward: 8}, curve))

	g, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, &Globals{
		Admin:     admin,
		Assets:    Assets{Staking: 7, Reward: 8},
		Curve:     curve,
		Frozen:    true,
		Lifecycle: LifecycleCreated,
	}, g)

	admin, err = svc.Admin()
	require.NoError(t, err)
	assert.Equal(t, lockstake.BytesToAddress([]byte("admin")), admin)

	require.NoError(t, svc.MarkConfigured())
	g, err = svc.Get()
	require.NoError(t, err)
	assert.False(t, g.Frozen)
	assert.Equal(t, "configured", g.Lifecycle.String())
}

func TestApply(t *testing.T) {
	svc, sctx := newService(t)

	require.NoError(t, svc.Apply(&Delta{LockedIncrease: 100, LiabilityIncrease: 5}))
	locked, liability, err := svc.Totals()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), locked)
	assert.Equal(t, uint64(5), liability)

	delta, err := (&Delta{LockedDecrease: 100, LiabilityDecrease: 5}).Add(&Delta{LockedIncrease: 105, LiabilityIncrease: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Apply(delta))
	locked, liability, _ = svc.Totals()
	assert.Equal(t, uint64(105), locked)
	assert.Equal(t, uint64(1), liability)

	snap := sctx.Snapshot()
	err = svc.Apply(&Delta{LiabilityDecrease: 2})
	assert.True(t, reverts.Is(err, reverts.ArithmeticFault))
	sctx.Revert(snap)

	err = svc.Apply(&Delta{LockedIncrease: math.MaxUint64})
	assert.True(t, reverts.Is(err, reverts.ArithmeticFault))

	locked, liability, _ = svc.Totals()
	assert.Equal(t, uint64(105), locked)
	assert.Equal(t, uint64(1), liability)
}

func TestDeltaAdd(t *testing.T) {
	d, err := (&Delta{LockedIncrease: 1, LiabilityDecrease: 2}).Add(nil)
	require.NoError(t, err)
	assert.Equal(t, &Delta{LockedIncrease: 1, LiabilityDecrease: 2}, d)

	d, err = d.Add(&Delta{LockedIncrease: 2, LockedDecrease: 3, LiabilityIncrease: 4})
	require.NoError(t, err)
	assert.Equal(t, &Delta{LockedIncrease: 3, LockedDecrease: 3, LiabilityIncrease: 4, LiabilityDecrease: 2}, d)

	for _, other := range []*Delta{
		{LockedIncrease: math.MaxUint64},
		{LockedDecrease: math.MaxUint64},
		{LiabilityIncrease: math.MaxUint64},
		{LiabilityDecrease: math.MaxUint64},
	} {
		_, err := d.Add(other)
		assert.True(t, reverts.Is(err, reverts.ArithmeticFault))
		assert.ErrorContains(t, err, "delta overflow")
	}
	// a failed add leaves the receiver untouched
	assert.Equal(t, &Delta{LockedIncrease: 3, LockedDecrease: 3, LiabilityIncrease: 4, LiabilityDecrease: 2}, d)
}
