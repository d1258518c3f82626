// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/tx"
)

const chainTag = 0x4a

func newStakeBatch(nonce uint64) *tx.Batch {
	return tx.NewBuilder().
		ChainTag(chainTag).
		Nonce(nonce).
		Clause(tx.NewTransfer(7, lockstake.StakingContract, 1_000_000)).
		Clause(tx.NewStake(7, 30)).
		Build()
}

func TestBatchSignAndOrigin(t *testing.T) {
	pk, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := lockstake.Address(crypto.PubkeyToAddress(pk.PublicKey))

	unsigned := newStakeBatch(1)
	_, err = unsigned.Origin()
	assert.Error(t, err)
	assert.True(t, unsigned.ID().IsZero())

	signed := tx.MustSign(unsigned, pk)
	origin, err := signed.Origin()
	require.NoError(t, err)
	assert.Equal(t, addr, origin)
	assert.Equal(t, unsigned.SigningHash(), signed.SigningHash())
	assert.Equal(t, lockstake.Blake2b(signed.SigningHash().Bytes(), addr.Bytes()), signed.ID())
	assert.NoError(t, signed.Validate(chainTag))
}

func TestBatchIDDependsOnNonce(t *testing.T) {
	pk, _ := crypto.GenerateKey()

	a := tx.MustSign(newStakeBatch(1), pk)
	b := tx.MustSign(newStakeBatch(2), pk)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestBatchRLP(t *testing.T) {
	pk, _ := crypto.GenerateKey()
	batch := tx.MustSign(tx.NewBuilder().
		Nonce(9).
		Clause(tx.NewUpdateSettings(tx.Settings{SlopeStart: 50_000, SlopeEnd: 150_000, LengthStart: 15, LengthEnd: 60})).
		Clause(tx.NewUpdateAdmin(lockstake.BytesToAddress([]byte("admin")))).
		Build(), pk)

	data, err := rlp.EncodeToBytes(batch)
	require.NoError(t, err)

	var decoded tx.Batch
	require.NoError(t, rlp.DecodeBytes(data, &decoded))

	assert.Equal(t, batch.ID(), decoded.ID())
	assert.Equal(t, batch.Nonce(), decoded.Nonce())
	clauses := decoded.Clauses()
	require.Len(t, clauses, 2)
	assert.Equal(t, tx.OpUpdateSettings, clauses[0].Op())
	assert.Equal(t, uint64(60), clauses[0].Settings().LengthEnd)
	assert.Equal(t, lockstake.BytesToAddress([]byte("admin")), clauses[1].To())
}

func TestBatchValidate(t *testing.T) {
	pk, _ := crypto.GenerateKey()

	empty := tx.MustSign(tx.NewBuilder().ChainTag(chainTag).Build(), pk)
	assert.Error(t, empty.Validate(chainTag))

	bd := tx.NewBuilder().ChainTag(chainTag)
	for range tx.MaxClauses + 1 {
		bd.Clause(tx.NewOptIn())
	}
	assert.Error(t, tx.MustSign(bd.Build(), pk).Validate(chainTag))

	assert.Error(t, newStakeBatch(1).Validate(chainTag), "unsigned")

	signed := tx.MustSign(newStakeBatch(1), pk)
	assert.NoError(t, signed.Validate(chainTag))
	assert.ErrorContains(t, signed.Validate(chainTag+1), "chain tag mismatch")
}

func TestBatchSignatureCoversChainTag(t *testing.T) {
	pk, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := lockstake.Address(crypto.PubkeyToAddress(pk.PublicKey))

	build := func(tag byte) *tx.Batch {
		return tx.NewBuilder().ChainTag(tag).Nonce(1).Clause(tx.NewWithdraw(7, 100)).Build()
	}
	a, b := build(1), build(2)
	assert.NotEqual(t, a.SigningHash(), b.SigningHash())

	// a signature moved onto a batch for another instance recovers another signer
	signed := tx.MustSign(a, pk)
	replayed := b.WithSignature(signed.Signature())
	origin, err := replayed.Origin()
	if err == nil {
		assert.NotEqual(t, addr, origin)
	}
	assert.Equal(t, byte(1), signed.ChainTag())
}

func TestOpNames(t *testing.T) {
	for op := tx.OpTransfer; op <= tx.OpUpdatePrice; op++ {
		parsed, err := tx.ParseOp(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}
	assert.False(t, tx.Op(0).Valid())
	_, err := tx.ParseOp("mint")
	assert.Error(t, err)
}
