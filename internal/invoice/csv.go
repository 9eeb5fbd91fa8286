package invoice

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cleared-dev/hauptbuch/internal/ledger"
	"github.com/cleared-dev/hauptbuch/internal/model"
)

// Record files relative to a data directory.
const (
	InvoiceFile    = "invoices/invoices.csv"
	SettlementFile = "invoices/settlements.csv"
)

// InvoiceHeader is the CSV header for invoices.csv.
var InvoiceHeader = []string{
	"invoice_id", "number", "date", "due_date", "contact_id", "net_amount",
	"tax_amount", "gross_amount", "transaction_id", "is_reversed", "dunning_level",
}

// SettlementHeader is the CSV header for settlements.csv.
var SettlementHeader = []string{"settlement_id", "invoice_id", "date", "amount", "reference"}

const (
	numInvoiceFields    = 11
	numSettlementFields = 5
)

// ReadInvoices reads invoices.csv.
func ReadInvoices(r io.Reader) ([]model.Invoice, error) {
	records, err := readRecords(r, numInvoiceFields)
	if err != nil {
		return nil, fmt.Errorf("reading invoices CSV: %w", err)
	}
	var out []model.Invoice
	for i, rec := range records {
		inv, err := UnmarshalInvoice(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, inv)
	}
	return out, nil
}

// WriteInvoices writes invoices including the header.
func WriteInvoices(w io.Writer, invoices []model.Invoice) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(InvoiceHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, inv := range invoices {
		if err := cw.Write(MarshalInvoice(inv)); err != nil {
			return fmt.Errorf("writing invoice %s: %w", inv.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalInvoice converts an Invoice to a CSV row.
func MarshalInvoice(inv model.Invoice) []string {
	due := ""
	if !inv.DueDate.IsZero() {
		due = inv.DueDate.Format(ledger.DateFormat)
	}
	return []string{
		inv.ID,
		inv.Number,
		inv.Date.Format(ledger.DateFormat),
		due,
		inv.ContactID,
		inv.NetAmount.StringFixed(2),
		inv.TaxAmount.StringFixed(2),
		inv.GrossAmount.StringFixed(2),
		inv.TransactionID,
		strconv.FormatBool(inv.IsReversed),
		strconv.Itoa(inv.DunningLevel),
	}
}

// UnmarshalInvoice converts a CSV row to an Invoice.
func UnmarshalInvoice(record []string) (model.Invoice, error) {
	if len(record) != numInvoiceFields {
		return model.Invoice{}, fmt.Errorf("expected %d fields, got %d", numInvoiceFields, len(record))
	}
	if record[0] == "" {
		return model.Invoice{}, fmt.Errorf("empty invoice_id")
	}

	issued, err := time.Parse(ledger.DateFormat, record[2])
	if err != nil {
		return model.Invoice{}, fmt.Errorf("parsing date %q: %w", record[2], err)
	}
	var due time.Time
	if record[3] != "" {
		if due, err = time.Parse(ledger.DateFormat, record[3]); err != nil {
			return model.Invoice{}, fmt.Errorf("parsing due_date %q: %w", record[3], err)
		}
	}

	net, err := ledger.ParseAmount(record[5])
	if err != nil {
		return model.Invoice{}, fmt.Errorf("parsing net_amount %q: %w", record[5], err)
	}
	tax, err := ledger.ParseAmount(record[6])
	if err != nil {
		return model.Invoice{}, fmt.Errorf("parsing tax_amount %q: %w", record[6], err)
	}
	gross, err := ledger.ParseAmount(record[7])
	if err != nil {
		return model.Invoice{}, fmt.Errorf("parsing gross_amount %q: %w", record[7], err)
	}

	reversed := false
	if record[9] != "" {
		if reversed, err = strconv.ParseBool(record[9]); err != nil {
			return model.Invoice{}, fmt.Errorf("parsing is_reversed %q: %w", record[9], err)
		}
	}
	dunning := 0
	if record[10] != "" {
		if dunning, err = strconv.Atoi(record[10]); err != nil {
			return model.Invoice{}, fmt.Errorf("parsing dunning_level %q: %w", record[10], err)
		}
	}

	return model.Invoice{
		ID:            record[0],
		Number:        record[1],
		Date:          issued,
		DueDate:       due,
		ContactID:     record[4],
		NetAmount:     net,
		TaxAmount:     tax,
		GrossAmount:   gross,
		TransactionID: record[8],
		IsReversed:    reversed,
		DunningLevel:  dunning,
	}, nil
}

// ReadSettlements reads settlements.csv.
func ReadSettlements(r io.Reader) ([]model.Settlement, error) {
	records, err := readRecords(r, numSettlementFields)
	if err != nil {
		return nil, fmt.Errorf("reading settlements CSV: %w", err)
	}
	var out []model.Settlement
	for i, rec := range records {
		s, err := UnmarshalSettlement(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// WriteSettlements writes settlements including the header.
func WriteSettlements(w io.Writer, settlements []model.Settlement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SettlementHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return writeSettlementRows(cw, settlements)
}

// AppendSettlements writes settlement rows without a header.
func AppendSettlements(w io.Writer, settlements []model.Settlement) error {
	return writeSettlementRows(csv.NewWriter(w), settlements)
}

func writeSettlementRows(cw *csv.Writer, settlements []model.Settlement) error {
	for _, s := range settlements {
		if err := cw.Write(MarshalSettlement(s)); err != nil {
			return fmt.Errorf("writing settlement %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalSettlement converts a Settlement to a CSV row.
func MarshalSettlement(s model.Settlement) []string {
	return []string{s.ID, s.InvoiceID, s.Date.Format(ledger.DateFormat), s.Amount.StringFixed(2), s.Reference}
}

// UnmarshalSettlement converts a CSV row to a Settlement.
func UnmarshalSettlement(record []string) (model.Settlement, error) {
	if len(record) != numSettlementFields {
		return model.Settlement{}, fmt.Errorf("expected %d fields, got %d", numSettlementFields, len(record))
	}
	if record[1] == "" {
		return model.Settlement{}, fmt.Errorf("settlement %q: empty invoice_id", record[0])
	}
	on, err := time.Parse(ledger.DateFormat, record[2])
	if err != nil {
		return model.Settlement{}, fmt.Errorf("parsing date %q: %w", record[2], err)
	}
	amount, err := ledger.ParseAmount(record[3])
	if err != nil {
		return model.Settlement{}, fmt.Errorf("parsing amount %q: %w", record[3], err)
	}
	return model.Settlement{ID: record[0], InvoiceID: record[1], Date: on, Amount: amount, Reference: record[4]}, nil
}

// readRecords reads all rows and drops the header.
func readRecords(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}
