// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockstake

// Constants of the staking program.
const (
	// RateScale is the fixed-point scale of interest rates (parts per million).
	RateScale uint64 = 1_000_000
	// DaysPerYear converts an annual rate into a per-period rate.
	DaysPerYear uint64 = 365
	// SecondsPerDay converts lock lengths into unlock timestamps.
	SecondsPerDay uint64 = 86400

	// ConfigFunding is the native payment the admin must attach to the
	// configuration call, covering the contract's asset opt-ins.
	ConfigFunding uint64 = 200_000
)

// Builtin contract addresses.
var (
	StakingContract   = BytesToAddress([]byte("Staking"))
	AssetContract     = BytesToAddress([]byte("Asset"))
	PriceFeedContract = BytesToAddress([]byte("PriceFeed"))
)
