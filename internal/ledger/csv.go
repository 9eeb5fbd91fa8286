package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/hauptbuch/internal/id"
	"github.com/cleared-dev/hauptbuch/internal/model"
)

// Header is the CSV header for journal.csv. Each row is one journal
// line; transaction fields repeat on every line of the transaction.
var Header = []string{
	"line_id", "date", "kind", "description", "reference", "contact_id",
	"invoice_id", "account_id", "debit", "credit", "reversal_of", "reversal_reason",
}

// DateFormat is the date layout of all record files.
const DateFormat = "2006-01-02"

const (
	numFields     = 12
	colLineID     = 0
	colDate       = 1
	colKind       = 2
	colDesc       = 3
	colRef        = 4
	colContact    = 5
	colInvoice    = 6
	colAccount    = 7
	colDebit      = 8
	colCredit     = 9
	colReversalOf = 10
	colReason     = 11
)

// ReadTransactions reads journal.csv rows and groups consecutive lines
// into transactions.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		tx, line, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if n := len(txns); n > 0 && txns[n-1].ID == tx.ID {
			txns[n-1].Lines = append(txns[n-1].Lines, line)
			continue
		}
		tx.Lines = []model.JournalLine{line}
		txns = append(txns, tx)
	}
	return txns, nil
}

// WriteTransactions writes transactions to a journal.csv writer (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := writeRows(cw, txns); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// AppendTransactions appends transactions to an existing journal.csv writer (no header).
func AppendTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := writeRows(cw, txns); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeRows(cw *csv.Writer, txns []model.Transaction) error {
	for _, tx := range txns {
		for i, l := range tx.Lines {
			if err := cw.Write(MarshalLine(tx, i, l)); err != nil {
				return fmt.Errorf("writing %s line %d: %w", tx.ID, i+1, err)
			}
		}
	}
	return nil
}

// MarshalLine converts line i of tx to a CSV row.
func MarshalLine(tx model.Transaction, i int, l model.JournalLine) []string {
	row := make([]string, numFields)
	row[colLineID] = id.FormatLineID(tx.ID, i)
	row[colDate] = tx.Date.Format(DateFormat)
	row[colKind] = string(tx.Kind)
	row[colDesc] = tx.Description
	row[colRef] = tx.Reference
	row[colContact] = tx.ContactID
	row[colInvoice] = tx.InvoiceID
	row[colAccount] = l.AccountID

	if !l.Debit.IsZero() {
		row[colDebit] = l.Debit.StringFixed(2)
	}
	if !l.Credit.IsZero() {
		row[colCredit] = l.Credit.StringFixed(2)
	}

	row[colReversalOf] = tx.ReversalOf
	row[colReason] = string(tx.ReversalReason)
	return row
}

// UnmarshalLine converts a CSV row to its transaction header and line.
func UnmarshalLine(record []string) (model.Transaction, model.JournalLine, error) {
	if len(record) != numFields {
		return model.Transaction{}, model.JournalLine{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(DateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, model.JournalLine{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	debit, err := ParseAmount(record[colDebit])
	if err != nil {
		return model.Transaction{}, model.JournalLine{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
	}
	credit, err := ParseAmount(record[colCredit])
	if err != nil {
		return model.Transaction{}, model.JournalLine{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
	}

	tx := model.Transaction{
		ID:             id.TransactionOf(record[colLineID]),
		Date:           date,
		Kind:           model.Kind(record[colKind]),
		Description:    record[colDesc],
		Reference:      record[colRef],
		ContactID:      record[colContact],
		InvoiceID:      record[colInvoice],
		ReversalOf:     record[colReversalOf],
		ReversalReason: model.ReversalReason(record[colReason]),
	}
	line := model.JournalLine{
		AccountID: record[colAccount],
		Debit:     debit,
		Credit:    credit,
	}
	return tx, line, nil
}

// ParseAmount parses an optional decimal field; empty means zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
