// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// MustSign signs a batch using the provided private key.
// It panics if the signing process fails, returning a signed batch upon success.
func MustSign(b *Batch, pk *ecdsa.PrivateKey) *Batch {
	signed, err := Sign(b, pk)
	if err != nil {
		panic(err)
	}
	return signed
}

// Sign signs a batch using the provided private key.
// It returns the signed batch or an error if the signing process fails.
func Sign(b *Batch, pk *ecdsa.PrivateKey) (*Batch, error) {
	hash := b.SigningHash()
	sig, err := crypto.Sign(hash[:], pk)
	if err != nil {
		return nil, fmt.Errorf("unable to sign batch: %w", err)
	}
	return b.WithSignature(sig), nil
}
