// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"fmt"
	"math"

	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/logdb"
	"github.com/vechain/lockstake/tx"
)

type Range struct {
	Unit string  `json:"unit"`
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventCriteria struct {
	Address *lockstake.Address `json:"address"`
	Name    *string            `json:"name"`
	Subject *lockstake.Address `json:"subject"`
	Asset   *lockstake.AssetID `json:"asset"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

type TransferCriteria struct {
	Origin    *lockstake.Address `json:"origin"`
	Sender    *lockstake.Address `json:"sender"`
	Recipient *lockstake.Address `json:"recipient"`
	Asset     *lockstake.AssetID `json:"asset"`
}

type TransferFilter struct {
	BatchID     *lockstake.Bytes32  `json:"batchID"`
	CriteriaSet []*TransferCriteria `json:"criteriaSet"`
	Range       *Range              `json:"range"`
	Options     *Options            `json:"options"`
	Order       logdb.Order         `json:"order"`
}

// LogMeta locates a log in the batch history.
type LogMeta struct {
	BatchID   lockstake.Bytes32 `json:"batchID"`
	BatchSeq  uint64            `json:"batchSeq"`
	BatchTime uint64            `json:"batchTime"`
	Origin    lockstake.Address `json:"origin"`
	Index     uint32            `json:"index"`
}

type FilteredEvent struct {
	Address  lockstake.Address `json:"address"`
	Name     string            `json:"name"`
	Subject  lockstake.Address `json:"subject"`
	Asset    lockstake.AssetID `json:"asset"`
	Amount   uint64            `json:"amount"`
	Reward   uint64            `json:"reward"`
	Unlock   uint64            `json:"unlock"`
	Rate     uint64            `json:"rate"`
	Settings *tx.Settings      `json:"settings,omitempty"`
	Meta     LogMeta           `json:"meta"`
}

type FilteredTransfer struct {
	Asset     lockstake.AssetID `json:"asset"`
	Sender    lockstake.Address `json:"sender"`
	Recipient lockstake.Address `json:"recipient"`
	Amount    uint64            `json:"amount"`
	Meta      LogMeta           `json:"meta"`
}

func convertRange(r *Range) (*logdb.Range, error) {
	if r == nil {
		return nil, nil
	}
	rng := &logdb.Range{From: 0, To: math.MaxUint64}
	switch logdb.RangeType(r.Unit) {
	case logdb.Seq, "":
		rng.Unit = logdb.Seq
	case logdb.Time:
		rng.Unit = logdb.Time
	default:
		return nil, fmt.Errorf("unknown range unit %q", r.Unit)
	}
	if r.From != nil {
		rng.From = *r.From
	}
	if r.To != nil {
		rng.To = *r.To
	}
	if rng.From > rng.To {
		return nil, fmt.Errorf("range.to must be greater than or equal to range.from")
	}
	return rng, nil
}

func convertOrder(o logdb.Order) (logdb.Order, error) {
	switch o {
	case "", logdb.ASC:
		return logdb.ASC, nil
	case logdb.DESC:
		return logdb.DESC, nil
	}
	return "", fmt.Errorf("unknown order %q", o)
}

func convertEventFilter(ef *EventFilter) (*logdb.EventFilter, error) {
	rng, err := convertRange(ef.Range)
	if err != nil {
		return nil, err
	}
	order, err := convertOrder(ef.Order)
	if err != nil {
		return nil, err
	}
	filter := &logdb.EventFilter{
		CriteriaSet: make([]*logdb.EventCriteria, len(ef.CriteriaSet)),
		Range:       rng,
		Options:     &logdb.Options{Offset: ef.Options.Offset, Limit: ef.Options.Limit},
		Order:       order,
	}
	for i, c := range ef.CriteriaSet {
		filter.CriteriaSet[i] = &logdb.EventCriteria{
			Address: c.Address,
			Name:    c.Name,
			Subject: c.Subject,
			Asset:   c.Asset,
		}
	}
	return filter, nil
}

func convertTransferFilter(tf *TransferFilter) (*logdb.TransferFilter, error) {
	rng, err := convertRange(tf.Range)
	if err != nil {
		return nil, err
	}
	order, err := convertOrder(tf.Order)
	if err != nil {
		return nil, err
	}
	filter := &logdb.TransferFilter{
		BatchID:     tf.BatchID,
		CriteriaSet: make([]*logdb.TransferCriteria, len(tf.CriteriaSet)),
		Range:       rng,
		Options:     &logdb.Options{Offset: tf.Options.Offset, Limit: tf.Options.Limit},
		Order:       order,
	}
	for i, c := range tf.CriteriaSet {
		filter.CriteriaSet[i] = &logdb.TransferCriteria{
			Origin:    c.Origin,
			Sender:    c.Sender,
			Recipient: c.Recipient,
			Asset:     c.Asset,
		}
	}
	return filter, nil
}

func convertEvent(e *logdb.Event) *FilteredEvent {
	return &FilteredEvent{
		Address:  e.Address,
		Name:     e.Name,
		Subject:  e.Subject,
		Asset:    e.Asset,
		Amount:   e.Amount,
		Reward:   e.Reward,
		Unlock:   e.Unlock,
		Rate:     e.Rate,
		Settings: e.Settings,
		Meta: LogMeta{
			BatchID:   e.BatchID,
			BatchSeq:  e.BatchSeq,
			BatchTime: e.BatchTime,
			Origin:    e.Origin,
			Index:     e.Index,
		},
	}
}

func convertTransfer(t *logdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		Asset:     t.Asset,
		Sender:    t.Sender,
		Recipient: t.Recipient,
		Amount:    t.Amount,
		Meta: LogMeta{
			BatchID:   t.BatchID,
			BatchSeq:  t.BatchSeq,
			BatchTime: t.BatchTime,
			Origin:    t.Origin,
			Index:     t.Index,
		},
	}
}
