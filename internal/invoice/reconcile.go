// Package invoice derives payment status of invoices from settlements.
package invoice

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

// Status is the payment state of an invoice.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusPartial    Status = "PARTIAL"
	StatusPaid       Status = "PAID"
	StatusOverdue    Status = "OVERDUE"
	StatusCreditNote Status = "CREDIT_NOTE"
)

// DefaultTolerance is the remaining amount below which an invoice counts
// as paid.
var DefaultTolerance = decimal.New(5, -2)

// Result is the reconciled state of one invoice.
type Result struct {
	Invoice     model.Invoice
	Paid        decimal.Decimal
	Remaining   decimal.Decimal
	Status      Status
	DaysOverdue int // negative while not yet due
}

// Reconcile computes the payment state of inv on today from the
// settlements linked to it. Settlements of other invoices are ignored.
//
// A credit note always reports CREDIT_NOTE with Remaining = gross - paid.
// For normal invoices Remaining is never negative.
func Reconcile(inv model.Invoice, settlements []model.Settlement, today time.Time, tolerance decimal.Decimal) Result {
	paid := decimal.Zero
	for _, s := range settlements {
		if s.InvoiceID == inv.ID {
			paid = paid.Add(s.Amount)
		}
	}

	r := Result{Invoice: inv, Paid: paid}
	if !inv.DueDate.IsZero() {
		r.DaysOverdue = int(math.Ceil(today.Sub(inv.DueDate).Hours() / 24))
	}

	if inv.IsCreditNote() {
		r.Remaining = inv.GrossAmount.Sub(paid)
		r.Status = StatusCreditNote
		return r
	}

	r.Remaining = inv.GrossAmount.Sub(paid)
	if r.Remaining.IsNegative() {
		r.Remaining = decimal.Zero
	}

	switch {
	case r.Remaining.LessThan(tolerance):
		r.Status = StatusPaid
		r.DaysOverdue = 0
	case paid.GreaterThan(tolerance):
		r.Status = StatusPartial
	case !inv.DueDate.IsZero() && today.After(inv.DueDate):
		r.Status = StatusOverdue
	default:
		r.Status = StatusOpen
	}
	return r
}

// ReconcileAll reconciles every invoice, in input order.
func ReconcileAll(invoices []model.Invoice, settlements []model.Settlement, today time.Time, tolerance decimal.Decimal) []Result {
	byInvoice := make(map[string][]model.Settlement)
	for _, s := range settlements {
		byInvoice[s.InvoiceID] = append(byInvoice[s.InvoiceID], s)
	}
	out := make([]Result, len(invoices))
	for i, inv := range invoices {
		out[i] = Reconcile(inv, byInvoice[inv.ID], today, tolerance)
	}
	return out
}

// OpenItems returns the unpaid normal invoices ordered by due date, then
// number. Reversed invoices and credit notes are left out.
func OpenItems(invoices []model.Invoice, settlements []model.Settlement, today time.Time, tolerance decimal.Decimal) []Result {
	var open []Result
	for _, r := range ReconcileAll(invoices, settlements, today, tolerance) {
		if r.Invoice.IsReversed || r.Status == StatusPaid || r.Status == StatusCreditNote {
			continue
		}
		open = append(open, r)
	}
	sort.SliceStable(open, func(i, j int) bool {
		a, b := open[i].Invoice, open[j].Invoice
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.Number < b.Number
	})
	return open
}

// SettlementsFromTransactions infers settlements of inv from journal
// transactions linked to it by InvoiceID, excluding the originating
// booking. A reversed transaction and its Storno both drop out. Each
// transaction counts half of its summed debit and credit, which is exact
// only for balanced two-line payments. Use explicit Settlement records
// where available.
func SettlementsFromTransactions(inv model.Invoice, txns []model.Transaction) []model.Settlement {
	reversed := reversedIDs(txns)
	two := decimal.NewFromInt(2)
	var out []model.Settlement
	for _, tx := range txns {
		if tx.InvoiceID != inv.ID || tx.ID == inv.TransactionID {
			continue
		}
		if tx.IsReversal() || tx.IsReversed || reversed[tx.ID] {
			continue
		}
		debit, credit := tx.Totals()
		out = append(out, model.Settlement{
			ID:        tx.ID,
			InvoiceID: inv.ID,
			Date:      tx.Date,
			Amount:    debit.Add(credit).Div(two),
			Reference: tx.Reference,
		})
	}
	return out
}

// Effective drops the settlements whose payment booking has been
// reversed. A booking is the transaction with the settlement's ID, or one
// linked to the same invoice that carries the settlement's Reference.
// Settlements booked by a Storno itself are dropped as well. Settlements
// without any booking are kept.
func Effective(settlements []model.Settlement, txns []model.Transaction) []model.Settlement {
	reversed := reversedIDs(txns)
	type key struct{ invoice, ref string }
	byID := make(map[string]model.Transaction, len(txns))
	byRef := make(map[key][]model.Transaction)
	for _, tx := range txns {
		byID[tx.ID] = tx
		if tx.InvoiceID != "" && tx.Reference != "" {
			k := key{tx.InvoiceID, tx.Reference}
			byRef[k] = append(byRef[k], tx)
		}
	}
	void := func(tx model.Transaction) bool {
		return tx.IsReversal() || tx.IsReversed || reversed[tx.ID]
	}

	out := make([]model.Settlement, 0, len(settlements))
	for _, s := range settlements {
		if tx, ok := byID[s.ID]; ok && void(tx) {
			continue
		}
		cancelled := false
		for _, tx := range byRef[key{s.InvoiceID, s.Reference}] {
			if !tx.IsReversal() && void(tx) {
				cancelled = true
				break
			}
		}
		if !cancelled {
			out = append(out, s)
		}
	}
	return out
}

func reversedIDs(txns []model.Transaction) map[string]bool {
	ids := make(map[string]bool)
	for _, tx := range txns {
		if tx.IsReversal() {
			ids[tx.ReversalOf] = true
		}
	}
	return ids
}
