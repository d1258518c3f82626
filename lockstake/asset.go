// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockstake

import (
	"encoding/binary"
	"strconv"
)

// AssetID identifies an asset held in the asset ledger.
type AssetID uint64

// NativeAsset is the settlement asset every account holds without opting in.
const NativeAsset AssetID = 1

// Bytes returns the 8-byte big-endian form, used as storage key.
func (id AssetID) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

// IsNative returns whether id denotes the native settlement asset.
func (id AssetID) IsNative() bool {
	return id == NativeAsset
}

func (id AssetID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseAssetID parses a decimal or 0x-prefixed hex asset id.
func ParseAssetID(s string) (AssetID, error) {
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, err
	}
	return AssetID(n), nil
}
