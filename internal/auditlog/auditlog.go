// Package auditlog keeps an append-only CSV trail of every action that
// changes the books.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Action names a ledger-changing operation.
type Action string

const (
	ActionInit         Action = "init"
	ActionPost         Action = "post"
	ActionReverse      Action = "storno"
	ActionDepreciation Action = "afa"
	ActionImport       Action = "import"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp     time.Time
	Actor         string
	Action        Action
	TransactionID string
	Details       string
}

// File is the audit log relative to a data directory.
const File = "logs/audit-log.csv"

// Header is the CSV header for audit-log.csv.
var Header = []string{"timestamp", "actor", "action", "transaction_id", "details"}

const (
	numFields  = 5
	colTime    = 0
	colActor   = 1
	colAction  = 2
	colTxID    = 3
	colDetails = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colActor] = e.Actor
	row[colAction] = string(e.Action)
	row[colTxID] = e.TransactionID
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	return Entry{
		Timestamp:     ts,
		Actor:         record[colActor],
		Action:        Action(record[colAction]),
		TransactionID: record[colTxID],
		Details:       record[colDetails],
	}, nil
}

// Log appends entries for one actor below a data directory.
type Log struct {
	root  string
	actor string
	now   func() time.Time
}

// New returns a Log writing to <root>/logs/audit-log.csv.
func New(root, actor string) *Log {
	return &Log{root: root, actor: actor, now: time.Now}
}

// Record appends a single entry stamped with the current time.
func (l *Log) Record(action Action, txID, details string) error {
	return Append(l.root, []Entry{{
		Timestamp:     l.now(),
		Actor:         l.actor,
		Action:        action,
		TransactionID: txID,
		Details:       details,
	}})
}

// Append writes entries to <root>/logs/audit-log.csv, creating the file
// and header if needed.
func Append(root string, entries []Entry) error {
	path := filepath.Join(root, File)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries below root. A missing log yields no entries.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, File))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()
	return readEntries(f)
}

// ForTransaction returns the entries that reference txID.
func ForTransaction(entries []Entry, txID string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.TransactionID == txID {
			out = append(out, e)
		}
	}
	return out
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
