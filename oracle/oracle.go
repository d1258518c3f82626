// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package oracle adapts the price feed contract to the staking contract.
// Every lookup reads the feed afresh.
package oracle

import (
	"github.com/vechain/lockstake/builtin/pricefeed"
	"github.com/vechain/lockstake/builtin/staking/reverts"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/metrics"
)

var metricLookups = metrics.LazyCounterVec("oracle_lookups_count", []string{"result"})

// Oracle reads spot prices from a price feed.
type Oracle struct {
	feed   *pricefeed.PriceFeed
	maxAge uint64
}

// New creates an oracle over feed. A non-zero maxAge, in seconds, rejects
// entries published more than maxAge before the lookup time.
func New(feed *pricefeed.PriceFeed, maxAge uint64) *Oracle {
	return &Oracle{feed: feed, maxAge: maxAge}
}

// Price returns the price of asset at now.
func (o *Oracle) Price(asset lockstake.AssetID, now uint64) (uint64, error) {
	entry, err := o.feed.Get(asset)
	if err != nil {
		metricLookups().AddWithLabel(1, map[string]string{"result": "error"})
		return 0, err
	}
	if entry == nil {
		metricLookups().AddWithLabel(1, map[string]string{"result": "missing"})
		return 0, reverts.Newf(reverts.OracleUnavailable, "no price for asset %v", asset)
	}
	if o.maxAge > 0 && now > entry.Timestamp && now-entry.Timestamp > o.maxAge {
		metricLookups().AddWithLabel(1, map[string]string{"result": "stale"})
		return 0, reverts.Newf(reverts.OracleUnavailable, "price of asset %v is %ds old", asset, now-entry.Timestamp)
	}
	metricLookups().AddWithLabel(1, map[string]string{"result": "ok"})
	return entry.Price, nil
}
