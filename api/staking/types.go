// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/lockstake/builtin/staking/account"
	"github.com/vechain/lockstake/ledger"
	"github.com/vechain/lockstake/lockstake"
)

type Curve struct {
	SlopeStart  uint64 `json:"slopeStart"`
	SlopeEnd    uint64 `json:"slopeEnd"`
	LengthStart uint64 `json:"lengthStart"`
	LengthEnd   uint64 `json:"lengthEnd"`
}

// Summary the staking contract record.
type Summary struct {
	Admin        lockstake.Address `json:"admin"`
	StakingAsset lockstake.AssetID `json:"stakingAsset"`
	RewardAsset  lockstake.AssetID `json:"rewardAsset"`
	Curve        Curve             `json:"curve"`
	Lifecycle    string            `json:"lifecycle"`
	Accounting   string            `json:"accounting"`
	Frozen       bool              `json:"frozen"`
	Locked       uint64            `json:"locked"`
	Liability    uint64            `json:"liability"`
	Participants uint64            `json:"participants"`
	Free         uint64            `json:"free"`
	Solvent      bool              `json:"solvent"`
}

func convertSummary(s *ledger.Summary) *Summary {
	g := s.Globals
	return &Summary{
		Admin:        g.Admin,
		StakingAsset: g.Assets.Staking,
		RewardAsset:  g.Assets.Reward,
		Curve: Curve{
			SlopeStart:  g.Curve.SlopeStart,
			SlopeEnd:    g.Curve.SlopeEnd,
			LengthStart: g.Curve.LengthStart,
			LengthEnd:   g.Curve.LengthEnd,
		},
		Lifecycle:    g.Lifecycle.String(),
		Accounting:   s.Accounting.String(),
		Frozen:       g.Frozen,
		Locked:       g.Locked,
		Liability:    g.Liability,
		Participants: s.Participants,
		Free:         s.Free,
		Solvent:      s.Solvent,
	}
}

// Account a participant's staking record.
type Account struct {
	Address     lockstake.Address `json:"address"`
	Staked      uint64            `json:"staked"`
	TotalReward uint64            `json:"totalReward"`
	StakeUnlock uint64            `json:"stakeUnlock"`
	Active      bool              `json:"active"`
	Unlocked    bool              `json:"unlocked"`
}

func convertAccount(addr lockstake.Address, acc *account.Account, now uint64) *Account {
	return &Account{
		Address:     addr,
		Staked:      acc.Staked,
		TotalReward: acc.TotalReward,
		StakeUnlock: acc.StakeUnlock,
		Active:      acc.IsActive(),
		Unlocked:    acc.IsActive() && acc.IsUnlocked(now),
	}
}

type Rate struct {
	Length uint64 `json:"length"`
	Rate   uint64 `json:"rate"`
}
