// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the initial state of a ledger: funded accounts,
// issued assets, the staking contract record and the first prices.
package genesis

import (
	"bytes"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/lockstake/builtin"
	"github.com/vechain/lockstake/builtin/staking"
	"github.com/vechain/lockstake/builtin/staking/globalstats"
	"github.com/vechain/lockstake/builtin/staking/interest"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/state"
)

// Allocation credits an amount to an address.
type Allocation struct {
	Address lockstake.Address `yaml:"address"`
	Amount  uint64            `yaml:"amount"`
}

// Asset is an asset issued at genesis. Holders are opted in and paid out
// of the creator's supply.
type Asset struct {
	ID      lockstake.AssetID `yaml:"id"`
	Creator lockstake.Address `yaml:"creator"`
	Supply  uint64            `yaml:"supply"`
	Holders []Allocation      `yaml:"holders"`
}

// Staking holds the parameters of the staking contract record.
type Staking struct {
	Asset       lockstake.AssetID `yaml:"asset"`
	Reward      lockstake.AssetID `yaml:"reward"`
	SlopeStart  uint64            `yaml:"slopeStart"`
	SlopeEnd    uint64            `yaml:"slopeEnd"`
	LengthStart uint64            `yaml:"lengthStart"`
	LengthEnd   uint64            `yaml:"lengthEnd"`
}

// Curve returns the interest curve of the contract.
func (s *Staking) Curve() interest.Curve {
	return interest.Curve{
		SlopeStart:  s.SlopeStart,
		SlopeEnd:    s.SlopeEnd,
		LengthStart: s.LengthStart,
		LengthEnd:   s.LengthEnd,
	}
}

// Price is a feed entry published at genesis time.
type Price struct {
	Asset lockstake.AssetID `yaml:"asset"`
	Price uint64            `yaml:"price"`
}

// Genesis is the initial ledger state.
type Genesis struct {
	Time    uint64            `yaml:"time"`
	Admin   lockstake.Address `yaml:"admin"`
	Feeder  lockstake.Address `yaml:"feeder"`
	Native  []Allocation      `yaml:"native"`
	Assets  []Asset           `yaml:"assets"`
	Staking Staking           `yaml:"staking"`
	Prices  []Price           `yaml:"prices"`
}

// Load reads and validates a genesis file.
func Load(path string) (*Genesis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open genesis file")
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a YAML genesis. Unknown fields are rejected.
func Decode(r io.Reader) (*Genesis, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var gen Genesis
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Validate checks the genesis for consistency before any state is written.
func (g *Genesis) Validate() error {
	if g.Admin.IsZero() {
		return errors.New("admin must be set")
	}
	issued := map[lockstake.AssetID]bool{lockstake.NativeAsset: true}
	for _, a := range g.Assets {
		if a.ID == 0 || a.ID.IsNative() {
			return errors.Errorf("asset %v: invalid id", a.ID)
		}
		if issued[a.ID] {
			return errors.Errorf("asset %v: issued twice", a.ID)
		}
		issued[a.ID] = true

		var sum uint64
		for _, h := range a.Holders {
			if h.Address == a.Creator {
				return errors.Errorf("asset %v: creator listed as holder", a.ID)
			}
			sum += h.Amount
			if sum < h.Amount || sum > a.Supply {
				return errors.Errorf("asset %v: holders exceed supply", a.ID)
			}
		}
	}
	if !issued[g.Staking.Asset] {
		return errors.Errorf("staking asset %v not issued", g.Staking.Asset)
	}
	if !issued[g.Staking.Reward] {
		return errors.Errorf("reward asset %v not issued", g.Staking.Reward)
	}
	if err := g.Staking.Curve().Validate(); err != nil {
		return errors.WithMessage(err, "staking curve")
	}
	if len(g.Prices) > 0 && g.Feeder.IsZero() {
		return errors.New("prices need a feeder")
	}
	return nil
}

// Build writes the genesis into st.
func (g *Genesis) Build(st *state.State) error {
	if err := g.Validate(); err != nil {
		return err
	}

	assets := builtin.Asset.Native(st, nil)
	for _, alloc := range g.Native {
		if err := assets.Mint(alloc.Address, alloc.Amount); err != nil {
			return errors.WithMessagef(err, "mint %v", alloc.Address)
		}
	}
	for _, a := range g.Assets {
		if err := assets.Issue(a.ID, a.Creator, a.Supply); err != nil {
			return err
		}
		for _, h := range a.Holders {
			if err := assets.OptIn(a.ID, h.Address); err != nil {
				return err
			}
			if err := assets.Transfer(a.ID, a.Creator, h.Address, h.Amount); err != nil {
				return errors.WithMessagef(err, "asset %v: allocate %v", a.ID, h.Address)
			}
		}
	}

	feed := builtin.PriceFeed.Native(st, nil)
	if err := feed.SetFeeder(g.Feeder); err != nil {
		return err
	}
	for _, p := range g.Prices {
		if err := feed.Update(g.Feeder, p.Asset, p.Price, g.Time); err != nil {
			return errors.WithMessagef(err, "price of %v", p.Asset)
		}
	}

	// the contract record is created without prices, none are read.
	contract := builtin.Staking.Native(st, nil, nil, staking.Corrected)
	return contract.Create(g.Admin, globalstats.Assets{
		Staking: g.Staking.Asset,
		Reward:  g.Staking.Reward,
	}, g.Staking.Curve())
}

// ID returns the hash identifying the genesis.
func (g *Genesis) ID() lockstake.Bytes32 {
	var buf bytes.Buffer
	if err := rlp.Encode(&buf, g); err != nil {
		panic(err)
	}
	return lockstake.Blake2b(buf.Bytes())
}

// ChainTag returns the last byte of the genesis id. Batches carry it to bind
// their signature to one ledger instance.
func (g *Genesis) ChainTag() byte {
	return g.ID()[31]
}
