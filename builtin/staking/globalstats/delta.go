// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/lockstake/builtin/staking/reverts"
)

// Delta is the change an operation makes to the contract totals.
// Decreases are applied before increases.
type Delta struct {
	LockedIncrease    uint64
	LockedDecrease    uint64
	LiabilityIncrease uint64
	LiabilityDecrease uint64
}

// Add sets d to the sum of itself and other. A component overflow is an
// arithmetic fault and leaves d unchanged.
func (d *Delta) Add(other *Delta) (*Delta, error) {
	if other == nil {
		return d, nil
	}
	var (
		sum      Delta
		overflow [4]bool
	)
	sum.LockedIncrease, overflow[0] = math.SafeAdd(d.LockedIncrease, other.LockedIncrease)
	sum.LockedDecrease, overflow[1] = math.SafeAdd(d.LockedDecrease, other.LockedDecrease)
	sum.LiabilityIncrease, overflow[2] = math.SafeAdd(d.LiabilityIncrease, other.LiabilityIncrease)
	sum.LiabilityDecrease, overflow[3] = math.SafeAdd(d.LiabilityDecrease, other.LiabilityDecrease)
	for _, o := range overflow {
		if o {
			return nil, reverts.Arithmetic("delta overflow")
		}
	}
	*d = sum
	return d, nil
}
