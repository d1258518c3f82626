// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/tx"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	BatchSeq  uint64
	Index     uint32
	BatchID   lockstake.Bytes32
	BatchTime uint64
	Origin    lockstake.Address // batch signer
	Address   lockstake.Address // always a contract address
	Name      string
	Subject   lockstake.Address
	Asset     lockstake.AssetID
	Amount    uint64
	Reward    uint64
	Unlock    uint64
	Rate      uint64
	Settings  *tx.Settings
}

// newEvent converts tx.Event to Event.
func newEvent(receipt *tx.Receipt, index uint32, ev *tx.Event) *Event {
	return &Event{
		BatchSeq:  receipt.Seq,
		Index:     index,
		BatchID:   receipt.BatchID,
		BatchTime: receipt.Time,
		Origin:    receipt.Origin,
		Address:   ev.Address,
		Name:      ev.Name,
		Subject:   ev.Subject,
		Asset:     ev.Asset,
		Amount:    ev.Amount,
		Reward:    ev.Reward,
		Unlock:    ev.Unlock,
		Rate:      ev.Rate,
		Settings:  ev.Settings,
	}
}

// Transfer represents tx.Transfer that can be stored in db.
type Transfer struct {
	BatchSeq  uint64
	Index     uint32
	BatchID   lockstake.Bytes32
	BatchTime uint64
	Origin    lockstake.Address
	Asset     lockstake.AssetID
	Sender    lockstake.Address
	Recipient lockstake.Address
	Amount    uint64
}

// newTransfer converts tx.Transfer to Transfer.
func newTransfer(receipt *tx.Receipt, index uint32, tr *tx.Transfer) *Transfer {
	return &Transfer{
		BatchSeq:  receipt.Seq,
		Index:     index,
		BatchID:   receipt.BatchID,
		BatchTime: receipt.Time,
		Origin:    receipt.Origin,
		Asset:     tr.Asset,
		Sender:    tr.Sender,
		Recipient: tr.Recipient,
		Amount:    tr.Amount,
	}
}

// ReceiptLogs returns the logs receipt is indexed as. Reverted receipts
// have none.
func ReceiptLogs(receipt *tx.Receipt) (events []*Event, transfers []*Transfer) {
	if receipt.Reverted {
		return nil, nil
	}
	for i, ev := range receipt.Events {
		events = append(events, newEvent(receipt, uint32(i), ev))
	}
	for i, tr := range receipt.Transfers {
		transfers = append(transfers, newTransfer(receipt, uint32(i), tr))
	}
	return
}

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range bounds a query by batch seq or batch time, both ends inclusive.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventCriteria matches events on every non-nil field.
type EventCriteria struct {
	Address *lockstake.Address // always a contract address
	Name    *string
	Subject *lockstake.Address
	Asset   *lockstake.AssetID
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

// TransferCriteria matches transfers on every non-nil field.
type TransferCriteria struct {
	Origin    *lockstake.Address // who signed the batch
	Sender    *lockstake.Address // who transferred the asset
	Recipient *lockstake.Address // who received the asset
	Asset     *lockstake.AssetID
}

type TransferFilter struct {
	BatchID     *lockstake.Bytes32
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
