// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package asset implements the asset ledger: issued assets, holder opt-ins,
// balances and transfers. The native asset is held by every address
// without opting in.
package asset

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/lockstake/builtin/solidity"
	"github.com/vechain/lockstake/builtin/staking/reverts"
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/log"
	"github.com/vechain/lockstake/tx"
)

var (
	logger = log.WithContext("pkg", "asset")

	slotHoldings = lockstake.BytesToBytes32([]byte("holdings"))
	slotAssets   = lockstake.BytesToBytes32([]byte("assets"))
)

// Holding is the position of one holder in one asset.
type Holding struct {
	OptedIn bool
	Amount  uint64
}

// Info describes an issued asset.
type Info struct {
	Creator lockstake.Address
	Supply  uint64
}

type holdingKey struct {
	asset  lockstake.AssetID
	holder lockstake.Address
}

func (k holdingKey) Bytes() []byte {
	return append(k.asset.Bytes(), k.holder.Bytes()...)
}

// Asset implements native methods of the asset ledger.
type Asset struct {
	sctx     *solidity.Context
	holdings *solidity.Mapping[holdingKey, *Holding]
	assets   *solidity.Mapping[lockstake.AssetID, *Info]
}

// New binds the ledger to the given context.
func New(sctx *solidity.Context) *Asset {
	return &Asset{
		sctx:     sctx,
		holdings: solidity.NewMapping[holdingKey, *Holding](sctx, slotHoldings),
		assets:   solidity.NewMapping[lockstake.AssetID, *Info](sctx, slotAssets),
	}
}

// Info returns the asset description, nil if the asset was never issued.
func (a *Asset) Info(id lockstake.AssetID) (*Info, error) {
	return a.assets.Get(id)
}

// Holding returns the position of holder in asset. Native holdings are
// always reported as opted in.
func (a *Asset) Holding(id lockstake.AssetID, holder lockstake.Address) (*Holding, error) {
	h, err := a.holdings.Get(holdingKey{id, holder})
	if err != nil {
		return nil, err
	}
	if h == nil {
		h = &Holding{}
	}
	if id.IsNative() {
		h.OptedIn = true
	}
	return h, nil
}

// Balance returns the amount of asset held.
func (a *Asset) Balance(id lockstake.AssetID, holder lockstake.Address) (uint64, error) {
	h, err := a.Holding(id, holder)
	if err != nil {
		return 0, err
	}
	return h.Amount, nil
}

// IsOptedIn returns whether holder may receive asset.
func (a *Asset) IsOptedIn(id lockstake.AssetID, holder lockstake.Address) (bool, error) {
	h, err := a.Holding(id, holder)
	if err != nil {
		return false, err
	}
	return h.OptedIn, nil
}

// Issue creates an asset and credits its whole supply to the creator.
func (a *Asset) Issue(id lockstake.AssetID, creator lockstake.Address, supply uint64) error {
	if id == 0 {
		return reverts.Precondition("asset: invalid id")
	}
	info, err := a.assets.Get(id)
	if err != nil {
		return err
	}
	if info != nil {
		return reverts.Newf(reverts.PreconditionFailed, "asset: %v already issued", id)
	}
	if err := a.assets.Set(id, &Info{Creator: creator, Supply: supply}); err != nil {
		return err
	}
	if err := a.holdings.Set(holdingKey{id, creator}, &Holding{OptedIn: true, Amount: supply}); err != nil {
		return err
	}
	logger.Debug("issued asset", "asset", id, "creator", creator, "supply", supply)
	return nil
}

// Mint credits amount of the native asset to holder and grows its supply.
func (a *Asset) Mint(holder lockstake.Address, amount uint64) error {
	info, err := a.assets.Get(lockstake.NativeAsset)
	if err != nil {
		return err
	}
	if info == nil {
		info = &Info{}
	}
	supply, overflow := math.SafeAdd(info.Supply, amount)
	if overflow {
		return reverts.Arithmetic("asset: supply overflow")
	}
	info.Supply = supply
	if err := a.assets.Set(lockstake.NativeAsset, info); err != nil {
		return err
	}
	return a.credit(lockstake.NativeAsset, holder, amount)
}

// OptIn registers holder for an issued asset.
func (a *Asset) OptIn(id lockstake.AssetID, holder lockstake.Address) error {
	if id.IsNative() {
		return reverts.Precondition("asset: native asset needs no opt-in")
	}
	info, err := a.assets.Get(id)
	if err != nil {
		return err
	}
	if info == nil {
		return reverts.Newf(reverts.PreconditionFailed, "asset: %v not issued", id)
	}
	h, err := a.holdings.Get(holdingKey{id, holder})
	if err != nil {
		return err
	}
	if h != nil && h.OptedIn {
		return reverts.Newf(reverts.PreconditionFailed, "asset: %v already opted in to %v", holder, id)
	}
	if err := a.holdings.Set(holdingKey{id, holder}, &Holding{OptedIn: true}); err != nil {
		return err
	}
	a.sctx.Emit(&tx.Event{Name: tx.EventAssetOptedIn, Subject: holder, Asset: id})
	return nil
}

// Transfer moves amount of asset from sender to recipient and records the transfer.
func (a *Asset) Transfer(id lockstake.AssetID, from, to lockstake.Address, amount uint64) error {
	fromHolding, err := a.Holding(id, from)
	if err != nil {
		return err
	}
	if !fromHolding.OptedIn {
		return reverts.Newf(reverts.PreconditionFailed, "asset: sender %v not opted in to %v", from, id)
	}
	toHolding, err := a.Holding(id, to)
	if err != nil {
		return err
	}
	if !toHolding.OptedIn {
		return reverts.Newf(reverts.PreconditionFailed, "asset: recipient %v not opted in to %v", to, id)
	}
	if fromHolding.Amount < amount {
		return reverts.Newf(reverts.PreconditionFailed, "asset: insufficient balance of %v", id)
	}

	if from != to {
		fromHolding.Amount -= amount
		if err := a.holdings.Set(holdingKey{id, from}, fromHolding); err != nil {
			return errors.Wrap(err, "debit")
		}
		if err := a.credit(id, to, amount); err != nil {
			return err
		}
	}
	a.sctx.RecordTransfer(&tx.Transfer{Asset: id, Sender: from, Recipient: to, Amount: amount})
	return nil
}

func (a *Asset) credit(id lockstake.AssetID, to lockstake.Address, amount uint64) error {
	h, err := a.Holding(id, to)
	if err != nil {
		return err
	}
	sum, overflow := math.SafeAdd(h.Amount, amount)
	if overflow {
		return reverts.Newf(reverts.ArithmeticFault, "asset: balance overflow of %v", id)
	}
	h.Amount = sum
	return errors.Wrap(a.holdings.Set(holdingKey{id, to}, h), "credit")
}
