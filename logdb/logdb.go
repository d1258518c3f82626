// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb indexes the events and transfers of executed batches in
// SQLite for filtering.
package logdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/lockstake/lockstake"
	"github.com/vechain/lockstake/tx"
)

const (
	insertEventQuery    = "INSERT OR REPLACE INTO event(" + eventColumns + ") VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)"
	insertTransferQuery = "INSERT OR REPLACE INTO transfer(" + transferColumns + ") VALUES(?,?,?,?,?,?,?,?)"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps an in-memory database alive and shared
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create tables")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the sqlite library.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// NewWriter creates a writer to index receipts.
func (db *LogDB) NewWriter() *Writer {
	return &Writer{db: db}
}

// NewestSeq returns the seq of the latest indexed batch. ok is false when
// nothing was indexed yet.
func (db *LogDB) NewestSeq(ctx context.Context) (seq uint64, ok bool, err error) {
	var latest sql.NullInt64
	row := db.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM (SELECT MAX(seq) AS seq FROM event UNION ALL SELECT MAX(seq) AS seq FROM transfer)")
	if err := row.Scan(&latest); err != nil {
		return 0, false, err
	}
	if !latest.Valid {
		return 0, false, nil
	}
	return sequence(latest.Int64).BatchSeq(), true, nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const query = "SELECT " + eventColumns + " FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var q queryBuilder
	q.addRange(filter.Range)
	for i, c := range filter.CriteriaSet {
		q.openCriteria(i)
		if c.Address != nil {
			q.add("address = ?", c.Address.Bytes())
		}
		if c.Name != nil {
			q.add("name = ?", *c.Name)
		}
		if c.Subject != nil {
			q.add("subject = ?", c.Subject.Bytes())
		}
		if c.Asset != nil {
			q.add("asset = ?", int64(*c.Asset))
		}
		q.closeCriteria(i, len(filter.CriteriaSet))
	}
	q.addOrder(filter.Order, filter.Options)
	return db.queryEvents(ctx, query+q.String(), q.args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	const query = "SELECT " + transferColumns + " FROM transfer"
	if filter == nil {
		return db.queryTransfers(ctx, query+" ORDER BY seq ASC")
	}
	metricsHandleCommon(filter.Options, filter.Order, len(filter.CriteriaSet), "transfer")

	var q queryBuilder
	q.addRange(filter.Range)
	if filter.BatchID != nil {
		q.add("batchID = ?", filter.BatchID.Bytes())
	}
	for i, c := range filter.CriteriaSet {
		q.openCriteria(i)
		if c.Origin != nil {
			q.add("origin = ?", c.Origin.Bytes())
		}
		if c.Sender != nil {
			q.add("sender = ?", c.Sender.Bytes())
		}
		if c.Recipient != nil {
			q.add("recipient = ?", c.Recipient.Bytes())
		}
		if c.Asset != nil {
			q.add("asset = ?", int64(*c.Asset))
		}
		q.closeCriteria(i, len(filter.CriteriaSet))
	}
	q.addOrder(filter.Order, filter.Options)
	return db.queryTransfers(ctx, query+q.String(), q.args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       int64
			batchID   []byte
			batchTime int64
			origin    []byte
			address   []byte
			name      string
			subject   []byte
			asset     int64
			amount    int64
			reward    int64
			unlock    int64
			rate      int64
			settings  sql.NullString
		)
		if err := rows.Scan(
			&seq,
			&batchID,
			&batchTime,
			&origin,
			&address,
			&name,
			&subject,
			&asset,
			&amount,
			&reward,
			&unlock,
			&rate,
			&settings,
		); err != nil {
			return nil, err
		}
		event := &Event{
			BatchSeq:  sequence(seq).BatchSeq(),
			Index:     sequence(seq).Index(),
			BatchID:   lockstake.BytesToBytes32(batchID),
			BatchTime: uint64(batchTime),
			Origin:    lockstake.BytesToAddress(origin),
			Address:   lockstake.BytesToAddress(address),
			Name:      name,
			Subject:   lockstake.BytesToAddress(subject),
			Asset:     lockstake.AssetID(asset),
			Amount:    uint64(amount),
			Reward:    uint64(reward),
			Unlock:    uint64(unlock),
			Rate:      uint64(rate),
		}
		if settings.Valid {
			var s tx.Settings
			if err := json.Unmarshal([]byte(settings.String), &s); err != nil {
				return nil, errors.Wrap(err, "decode settings")
			}
			event.Settings = &s
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, query string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       int64
			batchID   []byte
			batchTime int64
			origin    []byte
			asset     int64
			sender    []byte
			recipient []byte
			amount    int64
		)
		if err := rows.Scan(
			&seq,
			&batchID,
			&batchTime,
			&origin,
			&asset,
			&sender,
			&recipient,
			&amount,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			BatchSeq:  sequence(seq).BatchSeq(),
			Index:     sequence(seq).Index(),
			BatchID:   lockstake.BytesToBytes32(batchID),
			BatchTime: uint64(batchTime),
			Origin:    lockstake.BytesToAddress(origin),
			Asset:     lockstake.AssetID(asset),
			Sender:    lockstake.BytesToAddress(sender),
			Recipient: lockstake.BytesToAddress(recipient),
			Amount:    uint64(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

// queryBuilder assembles the WHERE clause of a filter.
type queryBuilder struct {
	conds string
	args  []any
}

func (q *queryBuilder) add(cond string, arg any) {
	q.conds += " AND " + cond
	q.args = append(q.args, arg)
}

func (q *queryBuilder) addRange(r *Range) {
	if r == nil {
		return
	}
	from, to := r.From, r.To
	if r.Unit == Time {
		q.add("batchTime >= ?", int64(min(from, math.MaxInt64)))
		if to >= from {
			q.add("batchTime <= ?", int64(min(to, math.MaxInt64)))
		}
		return
	}
	q.add("seq >= ?", int64(newSequence(min(from, maxBatchSeq), 0)))
	if to >= from {
		q.add("seq <= ?", int64(newSequence(min(to, maxBatchSeq), maxIndex)))
	}
}

// criteria are OR-ed, the fields of one criteria AND-ed.
func (q *queryBuilder) openCriteria(i int) {
	if i == 0 {
		q.conds += " AND (( 1"
	} else {
		q.conds += " OR ( 1"
	}
}

func (q *queryBuilder) closeCriteria(i, n int) {
	if i == n-1 {
		q.conds += " ))"
	} else {
		q.conds += " )"
	}
}

func (q *queryBuilder) addOrder(order Order, options *Options) {
	if order == DESC {
		q.conds += " ORDER BY seq DESC"
	} else {
		q.conds += " ORDER BY seq ASC"
	}
	if options != nil {
		q.conds += " LIMIT ?, ?"
		q.args = append(q.args, int64(min(options.Offset, math.MaxInt64)), int64(min(options.Limit, math.MaxInt64)))
	}
}

func (q *queryBuilder) String() string {
	return " WHERE 1" + q.conds
}

// Writer accumulates receipts and indexes them in one transaction.
type Writer struct {
	db        *LogDB
	events    []*Event
	transfers []*Transfer
}

// Write queues the outputs of receipt. Reverted receipts carry none.
func (w *Writer) Write(receipt *tx.Receipt) *Writer {
	events, transfers := ReceiptLogs(receipt)
	w.events = append(w.events, events...)
	w.transfers = append(w.transfers, transfers...)
	return w
}

// Len returns the number of queued logs.
func (w *Writer) Len() int {
	return len(w.events) + len(w.transfers)
}

// Commit writes the queued logs.
func (w *Writer) Commit() error {
	if w.Len() == 0 {
		return nil
	}
	// statements are prepared before the transaction holds the connection
	eventStmt, err := w.db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return err
	}
	transferStmt, err := w.db.stmtCache.Prepare(insertTransferQuery)
	if err != nil {
		return err
	}

	err = w.execInTx(func(dbTx *sql.Tx) error {
		insertEvent := dbTx.Stmt(eventStmt)
		insertTransfer := dbTx.Stmt(transferStmt)

		for _, ev := range w.events {
			var settings sql.NullString
			if ev.Settings != nil {
				data, err := json.Marshal(ev.Settings)
				if err != nil {
					return err
				}
				settings = sql.NullString{String: string(data), Valid: true}
			}
			if _, err := insertEvent.Exec(
				int64(newSequence(ev.BatchSeq, ev.Index)),
				ev.BatchID.Bytes(),
				int64(ev.BatchTime),
				ev.Origin.Bytes(),
				ev.Address.Bytes(),
				ev.Name,
				ev.Subject.Bytes(),
				int64(ev.Asset),
				int64(ev.Amount),
				int64(ev.Reward),
				int64(ev.Unlock),
				int64(ev.Rate),
				settings,
			); err != nil {
				return errors.Wrap(err, "insert event")
			}
		}
		for _, tr := range w.transfers {
			if _, err := insertTransfer.Exec(
				int64(newSequence(tr.BatchSeq, tr.Index)),
				tr.BatchID.Bytes(),
				int64(tr.BatchTime),
				tr.Origin.Bytes(),
				int64(tr.Asset),
				tr.Sender.Bytes(),
				tr.Recipient.Bytes(),
				int64(tr.Amount),
			); err != nil {
				return errors.Wrap(err, "insert transfer")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.events = w.events[:0]
	w.transfers = w.transfers[:0]
	return nil
}

// Truncate removes the logs of batches from batchSeq on, queued ones included.
func (w *Writer) Truncate(batchSeq uint64) error {
	w.events = w.events[:0]
	w.transfers = w.transfers[:0]
	if batchSeq > maxBatchSeq {
		return nil
	}
	from := int64(newSequence(batchSeq, 0))
	return w.execInTx(func(dbTx *sql.Tx) error {
		if _, err := dbTx.Exec("DELETE FROM event WHERE seq >= ?", from); err != nil {
			return err
		}
		if _, err := dbTx.Exec("DELETE FROM transfer WHERE seq >= ?", from); err != nil {
			return err
		}
		return nil
	})
}

func (w *Writer) execInTx(proc func(*sql.Tx) error) error {
	dbTx, err := w.db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(dbTx); err != nil {
		_ = dbTx.Rollback()
		return err
	}
	return dbTx.Commit()
}
