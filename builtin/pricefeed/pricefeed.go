// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pricefeed

import (
	"github.com/vechain/lockstake/builtin/solidity"
	"github.com/vechain/lockstake/builtin/staking/reverts"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/log"
	"github.com/vechain/lockstake/tx"
)

var (
	logger = log.WithContext("pkg", "pricefeed")

	slotFeeder  = lockstake.BytesToBytes32([]byte("feeder"))
	slotEntries = lockstake.BytesToBytes32([]byte("entries"))
)

// Entry is the last price published for an asset.
type Entry struct {
	Price     uint64 `json:"price"`
	Timestamp uint64 `json:"timestamp"`
}

// PriceFeed stores prices published by a single trusted feeder.
type PriceFeed struct {
	sctx    *solidity.Context
	feeder  *solidity.Raw[lockstake.Address]
	entries *solidity.Mapping[lockstake.AssetID, *Entry]
}

func New(sctx *solidity.Context) *PriceFeed {
	return &PriceFeed{
		sctx:    sctx,
		feeder:  solidity.NewRaw[lockstake.Address](sctx, slotFeeder),
		entries: solidity.NewMapping[lockstake.AssetID, *Entry](sctx, slotEntries),
	}
}

// Feeder returns the address allowed to publish prices.
func (p *PriceFeed) Feeder() (lockstake.Address, error) {
	return p.feeder.Get()
}

// SetFeeder replaces the feeder.
func (p *PriceFeed) SetFeeder(feeder lockstake.Address) error {
	return p.feeder.Upsert(feeder)
}

// Get returns the entry of asset, nil when no price was ever published.
func (p *PriceFeed) Get(asset lockstake.AssetID) (*Entry, error) {
	return p.entries.Get(asset)
}

// Update publishes a price observed at now.
func (p *PriceFeed) Update(caller lockstake.Address, asset lockstake.AssetID, price, now uint64) error {
	feeder, err := p.feeder.Get()
	if err != nil {
		return err
	}
	if feeder.IsZero() || caller != feeder {
		return reverts.New(reverts.Unauthorized, "pricefeed: caller is not the feeder")
	}
	if err := p.entries.Set(asset, &Entry{Price: price, Timestamp: now}); err != nil {
		return err
	}
	p.sctx.Emit(&tx.Event{Name: tx.EventPriceUpdated, Subject: caller, Asset: asset, Amount: price})
	logger.Debug("price updated", "asset", asset, "price", price, "time", now)
	return nil
}
