// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package batches

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/tx"
)

// RawBatch a raw rlp encoded batch.
type RawBatch struct {
	Raw hexutil.Bytes `json:"raw"`
}

// Event event raised by a clause of the batch.
type Event struct {
	Address  lockstake.Address `json:"address"`
	Name     string            `json:"name"`
	Subject  lockstake.Address `json:"subject"`
	Asset    lockstake.AssetID `json:"asset"`
	Amount   uint64            `json:"amount"`
	Reward   uint64            `json:"reward"`
	Unlock   uint64            `json:"unlock"`
	Rate     uint64            `json:"rate"`
	Settings *tx.Settings      `json:"settings,omitempty"`
}

// Transfer asset movement made by the batch.
type Transfer struct {
	Asset     lockstake.AssetID `json:"asset"`
	Sender    lockstake.Address `json:"sender"`
	Recipient lockstake.Address `json:"recipient"`
	Amount    uint64            `json:"amount"`
}

// Receipt for json marshal
type Receipt struct {
	BatchID   lockstake.Bytes32 `json:"batchID"`
	Origin    lockstake.Address `json:"origin"`
	Seq       uint64            `json:"seq"`
	Time      uint64            `json:"time"`
	Reverted  bool              `json:"reverted"`
	BadClause *uint64           `json:"badClause,omitempty"`
	Kind      string            `json:"kind,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	Events    []*Event          `json:"events"`
	Transfers []*Transfer       `json:"transfers"`
}

func convertReceipt(r *tx.Receipt) *Receipt {
	receipt := &Receipt{
		BatchID:   r.BatchID,
		Origin:    r.Origin,
		Seq:       r.Seq,
		Time:      r.Time,
		Reverted:  r.Reverted,
		Kind:      r.Kind,
		Reason:    r.Reason,
		Events:    make([]*Event, len(r.Events)),
		Transfers: make([]*Transfer, len(r.Transfers)),
	}
	if r.Reverted {
		badClause := r.BadClause
		receipt.BadClause = &badClause
	}
	for i, ev := range r.Events {
		receipt.Events[i] = &Event{
			Address:  ev.Address,
			Name:     ev.Name,
			Subject:  ev.Subject,
			Asset:    ev.Asset,
			Amount:   ev.Amount,
			Reward:   ev.Reward,
			Unlock:   ev.Unlock,
			Rate:     ev.Rate,
			Settings: ev.Settings,
		}
	}
	for i, tr := range r.Transfers {
		receipt.Transfers[i] = &Transfer{
			Asset:     tr.Asset,
			Sender:    tr.Sender,
			Recipient: tr.Recipient,
			Amount:    tr.Amount,
		}
	}
	return receipt
}
