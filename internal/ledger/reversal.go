package ledger

import (
	"fmt"
	"time"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

// Reverse composes the Storno of orig: a new transaction on the same
// accounts and sides with every amount negated, so that orig and its
// reversal sum to zero on every account. It also returns a copy of orig
// flagged as reversed; orig itself is not modified.
//
// The reversal keeps the kind, reference, contact and invoice link of
// the original so that both land in the same statement buckets.
func Reverse(orig model.Transaction, newID string, date time.Time, reason model.ReversalReason) (reversal, flagged model.Transaction, err error) {
	if orig.IsReversal() {
		return model.Transaction{}, model.Transaction{}, fmt.Errorf("transaction %s: %w", orig.ID, ErrReverseReversal)
	}
	if orig.IsReversed {
		return model.Transaction{}, model.Transaction{}, fmt.Errorf("transaction %s: %w", orig.ID, ErrAlreadyReversed)
	}
	if len(orig.Lines) == 0 {
		return model.Transaction{}, model.Transaction{}, fmt.Errorf("transaction %s: %w", orig.ID, ErrEmptyTransaction)
	}
	if reason == "" {
		reason = model.ReasonOther
	}
	if date.IsZero() {
		date = orig.Date
	}

	lines := make([]model.JournalLine, len(orig.Lines))
	for i, l := range orig.Lines {
		lines[i] = model.JournalLine{
			AccountID: l.AccountID,
			Debit:     l.Debit.Neg(),
			Credit:    l.Credit.Neg(),
		}
	}

	reversal = model.Transaction{
		ID:             newID,
		Date:           date,
		Kind:           orig.Kind,
		Description:    fmt.Sprintf("Storno %s: %s", orig.ID, orig.Description),
		Reference:      orig.Reference,
		ContactID:      orig.ContactID,
		InvoiceID:      orig.InvoiceID,
		Lines:          lines,
		ReversalOf:     orig.ID,
		ReversalReason: reason,
	}

	flagged = orig
	flagged.Lines = append([]model.JournalLine(nil), orig.Lines...)
	flagged.IsReversed = true
	return reversal, flagged, nil
}

// MarkReversed sets IsReversed on every transaction referenced by a
// reversal in txns. It returns a new slice; txns is left untouched.
func MarkReversed(txns []model.Transaction) []model.Transaction {
	reversed := make(map[string]bool)
	for _, tx := range txns {
		if tx.IsReversal() {
			reversed[tx.ReversalOf] = true
		}
	}
	out := make([]model.Transaction, len(txns))
	for i, tx := range txns {
		if reversed[tx.ID] {
			tx.IsReversed = true
		}
		out[i] = tx
	}
	return out
}
