// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// uint64 amounts are stored as their int64 bit pattern.
const (
	eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	batchID BLOB NOT NULL,
	batchTime INTEGER NOT NULL,
	origin BLOB NOT NULL,
	address BLOB NOT NULL,
	name TEXT NOT NULL,
	subject BLOB NOT NULL,
	asset INTEGER NOT NULL,
	amount INTEGER NOT NULL,
	reward INTEGER NOT NULL,
	unlock INTEGER NOT NULL,
	rate INTEGER NOT NULL,
	settings TEXT
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(batchTime);
CREATE INDEX IF NOT EXISTS event_i1 ON event(name, subject);
CREATE INDEX IF NOT EXISTS event_i2 ON event(subject);
CREATE INDEX IF NOT EXISTS event_i3 ON event(batchID);
`

	transferTableSchema = `CREATE TABLE IF NOT EXISTS transfer (
	seq INTEGER PRIMARY KEY NOT NULL,
	batchID BLOB NOT NULL,
	batchTime INTEGER NOT NULL,
	origin BLOB NOT NULL,
	asset INTEGER NOT NULL,
	sender BLOB NOT NULL,
	recipient BLOB NOT NULL,
	amount INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS transfer_i0 ON transfer(batchTime);
CREATE INDEX IF NOT EXISTS transfer_i1 ON transfer(sender);
CREATE INDEX IF NOT EXISTS transfer_i2 ON transfer(recipient);
CREATE INDEX IF NOT EXISTS transfer_i3 ON transfer(batchID);
`
)

const (
	eventColumns    = "seq, batchID, batchTime, origin, address, name, subject, asset, amount, reward, unlock, rate, settings"
	transferColumns = "seq, batchID, batchTime, origin, asset, sender, recipient, amount"
)
