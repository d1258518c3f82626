// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/vechain/lockstake/ledger"
	"github.com/vechain/lockstake/logdb"
)

const (
	// batches read per verification query
	verifyStep = uint64(100)
	// logs queued before a commit
	commitThreshold = 2048
)

// syncLogDB indexes the receipts the log db missed, which happens when a
// log write failed or the ledger ran with logs skipped.
func syncLogDB(ctx context.Context, l *ledger.Ledger, logDB *logdb.LogDB, verify bool) error {
	newest, indexed, err := logDB.NewestSeq(ctx)
	if err != nil {
		return errors.Wrap(err, "seek log db sync position")
	}
	head := l.Seq()
	if newest > head {
		return errors.Errorf("log db is ahead of the ledger (%d > %d)", newest, head)
	}
	if verify && indexed {
		if err := verifyLogDB(ctx, newest, l, logDB); err != nil {
			return errors.Wrap(err, "verify log db")
		}
	}

	// the newest indexed batch is rewritten in case it was cut short
	startPos := uint64(1)
	if indexed {
		startPos = newest
	}
	if startPos > head {
		return nil
	}

	if !indexed {
		fmt.Println(">> Rebuilding log db <<")
	} else {
		fmt.Println(">> Syncing log db <<")
	}
	bar := pb.New64(int64(head)).
		Set64(int64(startPos - 1)).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	w := logDB.NewWriter()
	if err := w.Truncate(startPos); err != nil {
		return err
	}
	for seq := startPos; seq <= head; seq++ {
		receipt, err := l.ReceiptBySeq(seq)
		if err != nil {
			return errors.Wrapf(err, "receipt %d", seq)
		}
		w.Write(receipt)
		if w.Len() > commitThreshold {
			if err := w.Commit(); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			if err := w.Commit(); err != nil {
				return err
			}
			return ctx.Err()
		default:
		}
		bar.Add64(1)
	}
	if err := w.Commit(); err != nil {
		return err
	}
	bar.Finish()
	return nil
}

// verifyLogDB checks the logs of batches 1 to end against the stored receipts.
func verifyLogDB(ctx context.Context, end uint64, l *ledger.Ledger, logDB *logdb.LogDB) error {
	fmt.Println(">> Verifying log db <<")
	bar := pb.New64(int64(end)).
		Set64(0).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	for from := uint64(1); from <= end; from += verifyStep {
		to := min(from+verifyStep-1, end)
		rng := &logdb.Range{Unit: logdb.Seq, From: from, To: to}

		events, err := logDB.FilterEvents(ctx, &logdb.EventFilter{Range: rng})
		if err != nil {
			return err
		}
		transfers, err := logDB.FilterTransfers(ctx, &logdb.TransferFilter{Range: rng})
		if err != nil {
			return err
		}
		eventsBySeq := make(map[uint64][]*logdb.Event)
		for _, ev := range events {
			eventsBySeq[ev.BatchSeq] = append(eventsBySeq[ev.BatchSeq], ev)
		}
		transfersBySeq := make(map[uint64][]*logdb.Transfer)
		for _, tr := range transfers {
			transfersBySeq[tr.BatchSeq] = append(transfersBySeq[tr.BatchSeq], tr)
		}

		for seq := from; seq <= to; seq++ {
			receipt, err := l.ReceiptBySeq(seq)
			if err != nil {
				return errors.Wrapf(err, "receipt %d", seq)
			}
			expectedEvents, expectedTransfers := logdb.ReceiptLogs(receipt)
			if !reflect.DeepEqual(eventsBySeq[seq], expectedEvents) {
				fmt.Println("\nDiff event logs of batch", seq)
				fmt.Println(jsonDiff(expectedEvents, eventsBySeq[seq]))
				return errors.New("incorrect logs")
			}
			if !reflect.DeepEqual(transfersBySeq[seq], expectedTransfers) {
				fmt.Println("\nDiff transfer logs of batch", seq)
				fmt.Println(jsonDiff(expectedTransfers, transfersBySeq[seq]))
				return errors.New("incorrect logs")
			}
			bar.Add64(1)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	bar.Finish()
	return nil
}

func jsonDiff(expected, actual any) string {
	e, _ := json.MarshalIndent(expected, "", "  ")
	a, _ := json.MarshalIndent(actual, "", "  ")
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(e)),
		B:        difflib.SplitLines(string(a)),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  1,
	})
	return diff
}
