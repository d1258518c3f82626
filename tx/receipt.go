// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/vechain/lockstake/lockstake"
)

// Receipt represents the results of a batch.
type Receipt struct {
	BatchID lockstake.Bytes32
	Origin  lockstake.Address
	// position of the batch in the submission order
	Seq uint64
	// execution time of the batch
	Time     uint64
	Reverted bool
	// index of the clause that caused the failure
	BadClause uint64
	// failure kind and reason, empty on success
	Kind   string
	Reason string
	// outputs, empty when reverted
	Events    Events
	Transfers Transfers
}
