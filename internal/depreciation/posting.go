package depreciation

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/hauptbuch/internal/ledger"
	"github.com/cleared-dev/hauptbuch/internal/model"
)

// ErrNothingToPost is returned when no active asset has depreciation in
// the requested year.
var ErrNothingToPost = errors.New("no depreciation to post")

// AccountLookup resolves the accounts a depreciation posting touches.
type AccountLookup interface {
	ByCode(code string) (model.Account, bool)
	Exists(id string) bool
}

// Reference returns the reference carried by the batch posting of year.
func Reference(year int) string {
	return fmt.Sprintf("AfA-%d", year)
}

// BatchPosting composes the year-end depreciation posting for year: one
// debit of the total AfA on the expense account with code expenseCode,
// and one credit per GL account with that account's share. Disposed
// assets and assets without AfA in year are skipped. The transaction is
// dated December 31 and carries txID, which may be empty for the store
// to assign.
func BatchPosting(assets []model.Asset, year int, accounts AccountLookup, expenseCode, txID string) (model.Transaction, error) {
	expense, ok := accounts.ByCode(expenseCode)
	if !ok {
		return model.Transaction{}, &ledger.MissingAccountError{Ref: expenseCode, Purpose: "depreciation expense"}
	}

	var (
		order  []string
		shares = make(map[string]decimal.Decimal)
		total  = decimal.Zero
	)
	for _, a := range assets {
		if a.Status == model.AssetDisposed {
			continue
		}
		afa := Compute(a, year).CurrentAfA
		if !afa.IsPositive() {
			continue
		}
		if !accounts.Exists(a.GLAccountID) {
			return model.Transaction{}, &ledger.MissingAccountError{Ref: a.GLAccountID, Purpose: "asset " + a.ID}
		}
		if _, seen := shares[a.GLAccountID]; !seen {
			order = append(order, a.GLAccountID)
			shares[a.GLAccountID] = decimal.Zero
		}
		shares[a.GLAccountID] = shares[a.GLAccountID].Add(afa)
		total = total.Add(afa)
	}
	if len(order) == 0 {
		return model.Transaction{}, fmt.Errorf("year %d: %w", year, ErrNothingToPost)
	}

	lines := make([]model.JournalLine, 0, len(order)+1)
	lines = append(lines, model.JournalLine{AccountID: expense.ID, Debit: total, Credit: decimal.Zero})
	for _, gl := range order {
		lines = append(lines, model.JournalLine{AccountID: gl, Debit: decimal.Zero, Credit: shares[gl]})
	}

	return model.Transaction{
		ID:          txID,
		Date:        time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		Kind:        model.KindDepreciation,
		Description: fmt.Sprintf("Abschreibungen %d", year),
		Reference:   Reference(year),
		Lines:       lines,
	}, nil
}

// AlreadyPosted reports whether txns contain a depreciation posting for
// year that has not been reversed.
func AlreadyPosted(txns []model.Transaction, year int) bool {
	ref := Reference(year)
	for _, tx := range txns {
		if tx.Kind == model.KindDepreciation && tx.Reference == ref && !tx.IsReversal() && !tx.IsReversed {
			return true
		}
	}
	return false
}
