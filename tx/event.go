// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/vechain/lockstake/lockstake"
)

// Event names raised by the staking contract.
const (
	EventOptedIn         = "OptedIn"
	EventConfigured      = "Configured"
	EventStaked          = "Staked"
	EventUnstaked        = "Unstaked"
	EventRestaked        = "Restaked"
	EventWithdrawn       = "Withdrawn"
	EventSettingsUpdated = "SettingsUpdated"
	EventAdminUpdated    = "AdminUpdated"
	EventPriceUpdated    = "PriceUpdated"
	EventAssetOptedIn    = "AssetOptedIn"
)

// Event is a typed record raised by a builtin contract.
// Fields not meaningful to an event are left zero.
type Event struct {
	// address of the contract that raised the event
	Address lockstake.Address
	Name    string
	// the participant or admin the event is about
	Subject lockstake.Address
	Asset   lockstake.AssetID
	Amount  uint64
	Reward  uint64
	Unlock  uint64
	Rate    uint64
	// set for SettingsUpdated only
	Settings *Settings `rlp:"nil"`
}

// Events slice of event logs.
type Events []*Event

// Transfer records a movement of an asset.
type Transfer struct {
	Asset     lockstake.AssetID
	Sender    lockstake.Address
	Recipient lockstake.Address
	Amount    uint64
}

// Transfers slice of transfer logs.
type Transfers []*Transfer
