// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

// Account is the staking position of one participant.
// An idle account has every field zero.
type Account struct {
	Staked      uint64
	TotalReward uint64
	StakeUnlock uint64
}

// IsActive returns whether the account holds a stake.
func (a *Account) IsActive() bool {
	return a.Staked > 0
}

// IsUnlocked returns whether the stake may be released at now.
// The unlock time itself is still locked.
func (a *Account) IsUnlocked(now uint64) bool {
	return now > a.StakeUnlock
}

// Reset returns the account to idle.
func (a *Account) Reset() {
	*a = Account{}
}
