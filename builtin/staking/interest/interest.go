// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package interest maps a lock length to a reward rate in parts per million.
//
// The annual rate is interpolated linearly between SlopeStart at LengthStart
// and SlopeEnd at LengthEnd, then scaled to the lock period:
//
//	annual = ss + (length-ls) * (1e6*(se-ss)) / (le-ls) / 1e6
//	period = length*1e6/365 * annual / 1e6
//
// Every division floors and the evaluation order is fixed, the ledger's
// liability depends on the exact rounding.
package interest

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/lockstake/builtin/staking/reverts"
	"github.com/vechain/lockstake/lockstake"
)

// Curve is the interest configuration of the staking contract.
type Curve struct {
	SlopeStart  uint64
	SlopeEnd    uint64
	LengthStart uint64
	LengthEnd   uint64
}

// Validate rejects curves the calculator cannot evaluate.
func (c Curve) Validate() error {
	if c.LengthEnd <= c.LengthStart {
		return reverts.Precondition("interest: length end must exceed length start")
	}
	if c.SlopeEnd < c.SlopeStart {
		return reverts.Precondition("interest: slope end below slope start")
	}
	return nil
}

// InRange returns whether length is an accepted lock length.
func (c Curve) InRange(length uint64) bool {
	return c.LengthStart <= length && length <= c.LengthEnd
}

var errOverflow = reverts.Arithmetic("interest: overflow")

// Annual returns the per annum rate for length.
func (c Curve) Annual(length uint64) (uint64, error) {
	if c.LengthEnd <= c.LengthStart {
		return 0, reverts.Arithmetic("interest: degenerate length range")
	}
	if length < c.LengthStart || c.SlopeEnd < c.SlopeStart {
		return 0, reverts.Arithmetic("interest: negative term")
	}

	span, overflow := math.SafeMul(lockstake.RateScale, c.SlopeEnd-c.SlopeStart)
	if overflow {
		return 0, errOverflow
	}
	num, overflow := math.SafeMul(length-c.LengthStart, span)
	if overflow {
		return 0, errOverflow
	}
	annual, overflow := math.SafeAdd(c.SlopeStart, num/(c.LengthEnd-c.LengthStart)/lockstake.RateScale)
	if overflow {
		return 0, errOverflow
	}
	return annual, nil
}

// Rate returns the reward rate for locking length days.
func (c Curve) Rate(length uint64) (uint64, error) {
	annual, err := c.Annual(length)
	if err != nil {
		return 0, err
	}
	scaled, overflow := math.SafeMul(length, lockstake.RateScale)
	if overflow {
		return 0, errOverflow
	}
	period, overflow := math.SafeMul(scaled/lockstake.DaysPerYear, annual)
	if overflow {
		return 0, errOverflow
	}
	return period / lockstake.RateScale, nil
}
