// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/lockstake/builtin/asset"
	"github.com/vechain/lockstake/builtin/pricefeed"
	"github.com/vechain/lockstake/builtin/solidity"
	"github.com/vechain/lockstake/builtin/staking"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/state"
)

// Builtin contracts binding.
var (
	Asset     = &assetContract{contract{lockstake.AssetContract}}
	PriceFeed = &priceFeedContract{contract{lockstake.PriceFeedContract}}
	Staking   = &stakingContract{contract{lockstake.StakingContract}}
)

type contract struct {
	Address lockstake.Address
}

type (
	assetContract     struct{ contract }
	priceFeedContract struct{ contract }
	stakingContract   struct{ contract }
)

// Native binds the asset ledger to state. Events and transfers go to out,
// which may be nil for read only access.
func (a *assetContract) Native(state *state.State, out *solidity.Output) *asset.Asset {
	return asset.New(solidity.NewContext(a.Address, state, out))
}

// Native binds the price feed to state.
func (p *priceFeedContract) Native(state *state.State, out *solidity.Output) *pricefeed.PriceFeed {
	return pricefeed.New(solidity.NewContext(p.Address, state, out))
}

// Native binds the staking contract to state. Its asset movements share out.
func (s *stakingContract) Native(
	state *state.State,
	out *solidity.Output,
	prices staking.PriceSource,
	accounting staking.LiabilityAccounting,
) *staking.Staking {
	sctx := solidity.NewContext(s.Address, state, out)
	return staking.New(sctx, asset.New(sctx.WithAddress(Asset.Address)), prices, accounting)
}
