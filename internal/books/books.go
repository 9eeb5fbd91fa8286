// Package books provides the record sources that reports read from: an
// in-memory set for callers that own persistence, and a data directory
// of CSV files.
package books

import (
	"github.com/cleared-dev/hauptbuch/internal/invoice"
	"github.com/cleared-dev/hauptbuch/internal/ledger"
	"github.com/cleared-dev/hauptbuch/internal/model"
)

// Memory holds records supplied by the caller.
type Memory struct {
	Chart    []model.Account
	Journal  []model.Transaction
	Billing  []model.Invoice
	Payments []model.Settlement // nil means infer from the journal
	Register []model.Asset
}

// Accounts returns the chart of accounts.
func (m *Memory) Accounts() ([]model.Account, error) { return m.Chart, nil }

// Transactions returns the journal with reversed originals flagged.
func (m *Memory) Transactions() ([]model.Transaction, error) {
	return ledger.MarkReversed(m.Journal), nil
}

// Invoices returns all invoices.
func (m *Memory) Invoices() ([]model.Invoice, error) { return m.Billing, nil }

// Settlements returns the explicit settlements still in effect, or the
// ones inferred from the journal when none were given.
func (m *Memory) Settlements() ([]model.Settlement, error) {
	if m.Payments != nil {
		return invoice.Effective(m.Payments, ledger.MarkReversed(m.Journal)), nil
	}
	return inferSettlements(m.Billing, m.Journal), nil
}

// Assets returns the fixed-asset register.
func (m *Memory) Assets() ([]model.Asset, error) { return m.Register, nil }

// inferSettlements applies the legacy journal-based inference to every
// invoice.
func inferSettlements(invoices []model.Invoice, txns []model.Transaction) []model.Settlement {
	var out []model.Settlement
	for _, inv := range invoices {
		out = append(out, invoice.SettlementsFromTransactions(inv, txns)...)
	}
	return out
}
