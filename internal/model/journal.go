package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the business origin of a transaction.
type Kind string

const (
	KindGeneral      Kind = "GENERAL"
	KindInvoice      Kind = "INVOICE"
	KindPayment      Kind = "PAYMENT"
	KindOpening      Kind = "OPENING"
	KindDepreciation Kind = "DEPRECIATION"
)

// ReversalReason is the reason code carried by a Storno transaction.
type ReversalReason string

const (
	ReasonError        ReversalReason = "ERROR"
	ReasonCancellation ReversalReason = "CANCELLATION"
	ReasonDuplicate    ReversalReason = "DUPLICATE"
	ReasonOther        ReversalReason = "OTHER"
)

// JournalLine is one side of a double-entry posting. Negative amounts
// represent the reversal of a prior posting.
type JournalLine struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// Transaction is an append-only booking with its ordered journal lines.
type Transaction struct {
	ID          string
	Date        time.Time
	Kind        Kind // optional
	Description string
	Reference   string
	ContactID   string
	InvoiceID   string
	Lines       []JournalLine

	// Set on Storno transactions.
	ReversalOf     string
	ReversalReason ReversalReason

	// IsReversed is a status flag on the original once a Storno exists.
	IsReversed bool
}

// Totals returns the summed debit and credit of all lines.
func (t Transaction) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range t.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// IsReversal reports whether t neutralizes another transaction.
func (t Transaction) IsReversal() bool {
	return t.ReversalOf != ""
}

// Touches reports whether any line posts to accountID.
func (t Transaction) Touches(accountID string) bool {
	for _, l := range t.Lines {
		if l.AccountID == accountID {
			return true
		}
	}
	return false
}
