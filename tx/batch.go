// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/lockstake/lockstake"
)

// MaxClauses limits the number of clauses in one batch.
const MaxClauses = 16

var (
	errEmptyBatch      = errors.New("batch has no clauses")
	errTooManyClauses  = errors.New("too many clauses")
	errUnsigned        = errors.New("batch not signed")
	errInvalidClauseOp = errors.New("invalid clause op")
	errBadChainTag     = errors.New("chain tag mismatch")
)

// Batch is an immutable, signed group of clauses executed atomically.
type Batch struct {
	body body

	cache struct {
		signingHash atomic.Value
		origin      atomic.Value
		id          atomic.Value
	}
}

// body describes details of a batch.
type body struct {
	ChainTag  byte
	Nonce     uint64
	Clauses   []*Clause
	Signature []byte
}

// ChainTag returns the tag of the ledger instance the batch is signed for.
func (b *Batch) ChainTag() byte {
	return b.body.ChainTag
}

// Nonce returns the nonce chosen by the origin.
func (b *Batch) Nonce() uint64 {
	return b.body.Nonce
}

// Clauses returns the clauses of the batch.
func (b *Batch) Clauses() []*Clause {
	return append([]*Clause(nil), b.body.Clauses...)
}

// Signature returns signature.
func (b *Batch) Signature() []byte {
	return append([]byte(nil), b.body.Signature...)
}

// SigningHash returns hash of batch excludes signature.
func (b *Batch) SigningHash() (hash lockstake.Bytes32) {
	if cached := b.cache.signingHash.Load(); cached != nil {
		return cached.(lockstake.Bytes32)
	}
	defer func() { b.cache.signingHash.Store(hash) }()

	return lockstake.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			b.body.ChainTag,
			b.body.Nonce,
			b.body.Clauses,
		})
	})
}

// Origin extracts the address of the signer.
func (b *Batch) Origin() (lockstake.Address, error) {
	if cached := b.cache.origin.Load(); cached != nil {
		return cached.(lockstake.Address), nil
	}
	if len(b.body.Signature) == 0 {
		return lockstake.Address{}, errUnsigned
	}

	hash := b.SigningHash()
	pub, err := crypto.SigToPub(hash[:], b.body.Signature)
	if err != nil {
		return lockstake.Address{}, err
	}
	origin := lockstake.Address(crypto.PubkeyToAddress(*pub))
	b.cache.origin.Store(origin)
	return origin, nil
}

// ID returns id of batch.
// ID = hash(signingHash, origin).
// It returns zero Bytes32 if origin not available.
func (b *Batch) ID() (id lockstake.Bytes32) {
	if cached := b.cache.id.Load(); cached != nil {
		return cached.(lockstake.Bytes32)
	}
	defer func() { b.cache.id.Store(id) }()

	origin, err := b.Origin()
	if err != nil {
		return
	}
	return lockstake.Blake2b(b.SigningHash().Bytes(), origin.Bytes())
}

// WithSignature create a new batch with signature set.
func (b *Batch) WithSignature(sig []byte) *Batch {
	newBatch := Batch{
		body: b.body,
	}
	newBatch.body.Signature = append([]byte(nil), sig...)
	return &newBatch
}

// Validate performs the static checks that need no state. chainTag is the
// tag of the ledger the batch is submitted to.
func (b *Batch) Validate(chainTag byte) error {
	if b.body.ChainTag != chainTag {
		return errors.WithMessagef(errBadChainTag, "want %#x, got %#x", chainTag, b.body.ChainTag)
	}
	if len(b.body.Clauses) == 0 {
		return errEmptyBatch
	}
	if len(b.body.Clauses) > MaxClauses {
		return errTooManyClauses
	}
	for i, c := range b.body.Clauses {
		if c == nil || !c.Op().Valid() {
			return errors.WithMessagef(errInvalidClauseOp, "clause %d", i)
		}
	}
	if _, err := b.Origin(); err != nil {
		return errors.WithMessage(err, "recover origin")
	}
	return nil
}

// EncodeRLP implements rlp.Encoder
func (b *Batch) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &b.body)
}

// DecodeRLP implements rlp.Decoder
func (b *Batch) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*b = Batch{
		body: body,
	}
	return nil
}

func (b *Batch) String() string {
	var (
		from      string
		clauseStr string
	)
	if origin, err := b.Origin(); err != nil {
		from = "N/A"
	} else {
		from = origin.String()
	}
	parts := make([]string, 0, len(b.body.Clauses))
	for _, c := range b.body.Clauses {
		parts = append(parts, c.String())
	}
	clauseStr = strings.Join(parts, "\n\t\t")

	return fmt.Sprintf(`
	Batch(%v)
	From:		%v
	ChainTag:	%v
	Nonce:		%v
	Clauses:
		%v
	Signature:	0x%x
`, b.ID(), from, b.body.ChainTag, b.body.Nonce, clauseStr, b.body.Signature)
}

// Builder to make it easy to build batches.
type Builder struct {
	body body
}

// NewBuilder creates a batch builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// ChainTag set chain tag.
func (bd *Builder) ChainTag(tag byte) *Builder {
	bd.body.ChainTag = tag
	return bd
}

// Nonce set nonce.
func (bd *Builder) Nonce(nonce uint64) *Builder {
	bd.body.Nonce = nonce
	return bd
}

// Clause add a clause.
func (bd *Builder) Clause(c *Clause) *Builder {
	bd.body.Clauses = append(bd.body.Clauses, c)
	return bd
}

// Build build batch object.
func (bd *Builder) Build() *Batch {
	return &Batch{body: body{
		ChainTag: bd.body.ChainTag,
		Nonce:    bd.body.Nonce,
		Clauses:  append([]*Clause(nil), bd.body.Clauses...),
	}}
}
