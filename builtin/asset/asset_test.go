// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package asset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockstake/builtin/solidity"
	"github.com/vechain/lockstake/builtin/staking/reverts"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/lvldb"
	"github.com/vechain/lockstake/state"
	"github.com/vechain/lockstake/tx"
)

var (
	alice = lockstake.BytesToAddress([]byte("alice"))
	bob   = lockstake.BytesToAddress([]byte("bob"))
)

const token lockstake.AssetID = 7

func newAsset(t *testing.T) (*Asset, *solidity.Output) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	out := &solidity.Output{}
	return New(solidity.NewContext(lockstake.AssetContract, state.New(db), out)), out
}

func TestNativeNeedsNoOptIn(t *testing.T) {
	a, out := newAsset(t)

	require.NoError(t, a.Mint(alice, 1000))
	require.NoError(t, a.Transfer(lockstake.NativeAsset, alice, bob, 400))

	bal, err := a.Balance(lockstake.NativeAsset, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), bal)

	bal, err = a.Balance(lockstake.NativeAsset, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), bal)

	require.Len(t, out.Transfers, 1)
	assert.Equal(t, tx.Transfer{Asset: lockstake.NativeAsset, Sender: alice, Recipient: bob, Amount: 400}, *out.Transfers[0])

	err = a.OptIn(lockstake.NativeAsset, bob)
	assert.True(t, reverts.Is(err, reverts.PreconditionFailed))

	info, err := a.Info(lockstake.NativeAsset)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), info.Supply)
}

func TestIssuedAssetRequiresOptIn(t *testing.T) {
	a, out := newAsset(t)
	require.NoError(t, a.Issue(token, alice, 5000))

	err := a.Transfer(token, alice, bob, 10)
	assert.True(t, reverts.Is(err, reverts.PreconditionFailed), "recipient not opted in")

	require.NoError(t, a.OptIn(token, bob))
	require.Len(t, out.Events, 1)
	assert.Equal(t, tx.EventAssetOptedIn, out.Events[0].Name)
	assert.Equal(t, lockstake.AssetContract, out.Events[0].Address)

	err = a.OptIn(token, bob)
	assert.True(t, reverts.Is(err, reverts.PreconditionFailed), "second opt-in")

	require.NoError(t, a.Transfer(token, alice, bob, 10))
	h, err := a.Holding(token, bob)
	require.NoError(t, err)
	assert.Equal(t, &Holding{OptedIn: true, Amount: 10}, h)

	err = a.Transfer(token, bob, alice, 11)
	assert.True(t, reverts.Is(err, reverts.PreconditionFailed), "insufficient balance")

	err = a.OptIn(99, bob)
	assert.True(t, reverts.Is(err, reverts.PreconditionFailed), "unknown asset")

	assert.Error(t, a.Issue(token, bob, 1))
}

func TestTransferOverflow(t *testing.T) {
	a, _ := newAsset(t)
	require.NoError(t, a.Mint(alice, math.MaxUint64))
	assert.True(t, reverts.Is(a.Mint(bob, 1), reverts.ArithmeticFault))
}

func TestSelfTransfer(t *testing.T) {
	a, out := newAsset(t)
	require.NoError(t, a.Mint(alice, 10))
	require.NoError(t, a.Transfer(lockstake.NativeAsset, alice, alice, 10))

	bal, _ := a.Balance(lockstake.NativeAsset, alice)
	assert.Equal(t, uint64(10), bal)
	assert.Len(t, out.Transfers, 1)
}
