// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockstake

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
)

// decodeFixedHex fills dst from s, which must hold exactly len(dst) bytes
// in hex with an optional 0x prefix.
func decodeFixedHex(dst []byte, s string) error {
	switch len(s) {
	case len(dst) * 2:
	case len(dst)*2 + 2:
		if strings.ToLower(s[:2]) != "0x" {
			return errors.New("invalid prefix")
		}
		s = s[2:]
	default:
		return errors.New("invalid length")
	}
	_, err := hex.Decode(dst, []byte(s))
	return err
}

func encodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// marshalHexJSON encodes a nil-able fixed value as a JSON hex string.
func marshalHexJSON(b []byte, isNil bool) ([]byte, error) {
	if isNil {
		return json.Marshal(nil)
	}
	return json.Marshal(encodeHex(b))
}

func unmarshalHexJSON(dst []byte, data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return decodeFixedHex(dst, s)
}
