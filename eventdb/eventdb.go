// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists vault operation history in sqlite for
// off-chain querying. The database is advisory; the accounting state
// never depends on it.
package eventdb

import (
	"database/sql"
	"math/big"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vechain/stakevault/metrics"
	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/vault"
)

var metricRecords = metrics.LazyLoadCounter("eventdb_record_count")

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	depositor BLOB NOT NULL,
	class INTEGER NOT NULL,
	itemID INTEGER NOT NULL,
	amount TEXT,
	eventTime INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS event_depositor ON event(depositor);
CREATE INDEX IF NOT EXISTS event_time ON event(eventTime);`

type OrderType string

const (
	ASC  OrderType = "ASC"
	DESC OrderType = "DESC"
)

type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects stored events.
type Filter struct {
	Depositor *stakevault.Address `json:"depositor"`
	Kind      *vault.EventKind    `json:"kind"`
	Order     OrderType           `json:"order"` // default asc
	Range     *Range
	Options   *Options
}

// EventDB stores committed vault events.
type EventDB struct {
	path string
	db   *sql.DB
}

// New opens an event db at path, creating the schema if needed.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &EventDB{
		path: path,
		db:   db,
	}, nil
}

// NewMem creates a memory sqlite db.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Record implements vault.Recorder.
func (db *EventDB) Record(ev *vault.Event) error {
	var amount *string
	if ev.Amount != nil {
		s := ev.Amount.String()
		amount = &s
	}
	_, err := db.db.Exec(
		"INSERT INTO event(kind, depositor, class, itemID, amount, eventTime) VALUES (?, ?, ?, ?, ?, ?);",
		string(ev.Kind),
		ev.Depositor.Bytes(),
		uint64(ev.Class),
		uint64(ev.ItemID),
		amount,
		ev.Time)
	if err == nil {
		metricRecords().Add(1)
	}
	return err
}

// Filter returns stored events matching the filter, insertion-ordered.
func (db *EventDB) Filter(filter *Filter) ([]*vault.Event, error) {
	if filter == nil {
		return db.query("SELECT kind, depositor, class, itemID, amount, eventTime FROM event ORDER BY seq ASC")
	}
	var args []interface{}
	stmt := "SELECT kind, depositor, class, itemID, amount, eventTime FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND eventTime >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND eventTime <= ? "
		}
	}
	if filter.Depositor != nil {
		args = append(args, filter.Depositor.Bytes())
		stmt += " AND depositor = ? "
	}
	if filter.Kind != nil {
		args = append(args, string(*filter.Kind))
		stmt += " AND kind = ? "
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(stmt, args...)
}

func (db *EventDB) query(stmt string, args ...interface{}) ([]*vault.Event, error) {
	rows, err := db.db.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*vault.Event
	for rows.Next() {
		var (
			kind      string
			depositor []byte
			class     uint64
			itemID    uint64
			amount    *string
			eventTime uint64
		)
		if err := rows.Scan(
			&kind,
			&depositor,
			&class,
			&itemID,
			&amount,
			&eventTime,
		); err != nil {
			return nil, err
		}
		event := &vault.Event{
			Kind:      vault.EventKind(kind),
			Depositor: stakevault.BytesToAddress(depositor),
			Class:     stakevault.Class(class),
			ItemID:    stakevault.ItemID(itemID),
			Time:      eventTime,
		}
		if amount != nil {
			event.Amount, _ = new(big.Int).SetString(*amount, 10)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Path returns the db's location.
func (db *EventDB) Path() string {
	return db.path
}

// Close closes the underlying sqlite handle.
func (db *EventDB) Close() {
	db.db.Close()
}
