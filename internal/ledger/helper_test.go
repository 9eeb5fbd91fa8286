package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

// mockAccounts implements AccountChecker for testing.
type mockAccounts struct {
	ids map[string]bool
}

func (m *mockAccounts) Exists(id string) bool {
	return m.ids[id]
}

func newMockAccounts(ids ...string) *mockAccounts {
	m := &mockAccounts{ids: make(map[string]bool)}
	for _, id := range ids {
		m.ids[id] = true
	}
	return m
}

var defaultAccounts = newMockAccounts("1200", "1400", "1600", "1776", "0880", "8400", "4210")

var (
	bank       = model.Account{ID: "1200", Code: "1200", Name: "Bank", Type: model.AccountTypeAsset}
	receivable = model.Account{ID: "1400", Code: "1400", Name: "Forderungen", Type: model.AccountTypeAsset}
	payable    = model.Account{ID: "1600", Code: "1600", Name: "Verbindlichkeiten", Type: model.AccountTypeLiability}
	vat        = model.Account{ID: "1776", Code: "1776", Name: "Umsatzsteuer 19 %", Type: model.AccountTypeLiability}
	capital    = model.Account{ID: "0880", Code: "0880", Name: "Variables Kapital", Type: model.AccountTypeEquity}
	revenue    = model.Account{ID: "8400", Code: "8400", Name: "Erlöse 19 %", Type: model.AccountTypeRevenue}
	rent       = model.Account{ID: "4210", Code: "4210", Name: "Miete", Type: model.AccountTypeExpense}
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func debit(account, amount string) model.JournalLine {
	return model.JournalLine{AccountID: account, Debit: dec(amount)}
}

func credit(account, amount string) model.JournalLine {
	return model.JournalLine{AccountID: account, Credit: dec(amount)}
}

func booking(txID string, on time.Time, desc string, lines ...model.JournalLine) model.Transaction {
	return model.Transaction{ID: txID, Date: on, Description: desc, Lines: lines}
}
