// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/lvldb"
	"github.com/vechain/lockstake/state"
	"github.com/vechain/lockstake/tx"
)

type TestStruct struct {
	Field1 uint64
	Field2 uint64
	Addr1  lockstake.Address
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(lockstake.Address{1}, state.New(db), nil)
}

func TestMapping_PointerValue(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[lockstake.Address, *TestStruct](ctx, lockstake.Bytes32{1})
	key := lockstake.BytesToAddress([]byte("key"))

	v, err := m.Get(key)
	assert.NoError(t, err)
	assert.Nil(t, v)

	snap := ctx.Snapshot()
	in := &TestStruct{Field1: 100, Field2: 200, Addr1: lockstake.Address{9}}
	assert.NoError(t, m.Set(key, in))

	v, err = m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, in, v)

	ctx.Revert(snap)
	v, err = m.Get(key)
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestMapping_DistinctBases(t *testing.T) {
	ctx := newTestContext(t)
	a := NewMapping[lockstake.Address, uint64](ctx, lockstake.Bytes32{1})
	b := NewMapping[lockstake.Address, uint64](ctx, lockstake.Bytes32{2})
	key := lockstake.Address{7}

	assert.NoError(t, a.Set(key, 1))
	assert.NoError(t, b.Set(key, 2))

	va, err := a.Get(key)
	assert.NoError(t, err)
	vb, err := b.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), va)
	assert.Equal(t, uint64(2), vb)
}

func TestRaw(t *testing.T) {
	ctx := newTestContext(t)
	r := NewRaw[uint64](ctx, lockstake.BytesToBytes32([]byte("counter")))

	v, err := r.Get()
	assert.NoError(t, err)
	assert.Zero(t, v)

	assert.NoError(t, r.Upsert(77))
	v, err = r.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint64(77), v)
}

func TestContextSnapshot(t *testing.T) {
	ctx := newTestContext(t)
	r := NewRaw[uint64](ctx, lockstake.BytesToBytes32([]byte("counter")))
	assert.NoError(t, r.Upsert(1))
	ctx.Emit(&tx.Event{Name: "first"})

	snap := ctx.Snapshot()
	assert.NoError(t, r.Upsert(2))
	ctx.Emit(&tx.Event{Name: "second"})
	ctx.RecordTransfer(&tx.Transfer{Amount: 5})

	ctx.Revert(snap)
	v, err := r.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), v)
	assert.Len(t, ctx.Output().Events, 1)
	assert.Equal(t, lockstake.Address{1}, ctx.Output().Events[0].Address)
	assert.Empty(t, ctx.Output().Transfers)

	other := ctx.WithAddress(lockstake.Address{2})
	other.Emit(&tx.Event{Name: "other"})
	assert.Len(t, ctx.Output().Events, 2)
	assert.Equal(t, lockstake.Address{2}, ctx.Output().Events[1].Address)
}
