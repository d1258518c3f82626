// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/vechain/lockstake/metrics"

const (
	opCreate         = "create"
	opOptIn          = "optIn"
	opConfigure      = "configure"
	opStake          = "stake"
	opUnstake        = "unstake"
	opRestake        = "restake"
	opWithdraw       = "withdraw"
	opUpdateSettings = "updateSettings"
	opUpdateAdmin    = "updateAdmin"
)

var (
	metricOperations = metrics.LazyCounterVec("staking_operations_count", []string{"op", "result"})
	metricLocked     = metrics.LazyGauge("staking_locked")
	metricLiability  = metrics.LazyGauge("staking_total_liability")
)
