package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is an outgoing or incoming invoice. A negative GrossAmount
// marks a credit note.
type Invoice struct {
	ID            string
	Number        string
	Date          time.Time
	DueDate       time.Time
	ContactID     string
	NetAmount     decimal.Decimal
	TaxAmount     decimal.Decimal
	GrossAmount   decimal.Decimal
	TransactionID string // originating booking
	IsReversed    bool
	DunningLevel  int
}

// IsCreditNote reports whether the invoice is a credit note.
func (i Invoice) IsCreditNote() bool {
	return i.GrossAmount.IsNegative()
}

// Settlement records an amount paid against one invoice.
type Settlement struct {
	ID        string
	InvoiceID string
	Date      time.Time
	Amount    decimal.Decimal
	Reference string
}

// BankTransaction represents a parsed bank statement row.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = outgoing, positive = incoming
	Currency    string
	Reference   string
}
