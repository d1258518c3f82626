// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random values for tests.
package datagen

import (
	"crypto/rand"
	mathrand "math/rand/v2"

	"github.com/vechain/lockstake/lockstake"
)

func RandBytes32() (b lockstake.Bytes32) {
	rand.Read(b[:])
	return
}

func RandAddress() (addr lockstake.Address) {
	rand.Read(addr[:])
	return
}

// RandAssetID returns an id never issued by the dev genesis.
func RandAssetID() lockstake.AssetID {
	return lockstake.AssetID(1000 + mathrand.Uint64N(1<<32)) //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}
