// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "errors"

var (
	errNotFound   = errors.New("not found")
	errKnownBatch = errors.New("known batch")
)

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

// IsKnownBatch reports whether the batch was already submitted.
func IsKnownBatch(err error) bool {
	return errors.Is(err, errKnownBatch)
}

// IsBadBatch not a valid batch.
func IsBadBatch(err error) bool {
	return errors.As(err, &badBatchError{})
}

type badBatchError struct {
	msg string
}

func (e badBatchError) Error() string {
	return "bad batch: " + e.msg
}
