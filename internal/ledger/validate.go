package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

// Epsilon is the tolerance for the debit/credit balance check.
var Epsilon = decimal.New(5, -3)

var (
	// ErrEmptyTransaction indicates a transaction without lines.
	ErrEmptyTransaction = errors.New("ledger: transaction has no lines")
	// ErrNotFound indicates an unknown transaction ID.
	ErrNotFound = errors.New("ledger: transaction not found")
	// ErrAlreadyReversed indicates a second Storno of the same transaction.
	ErrAlreadyReversed = errors.New("ledger: transaction already reversed")
	// ErrReverseReversal indicates an attempt to reverse a Storno.
	ErrReverseReversal = errors.New("ledger: a reversal cannot be reversed")
)

// UnbalancedTransactionError reports a transaction whose debits and
// credits differ by more than Epsilon.
type UnbalancedTransactionError struct {
	TransactionID string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
}

func (e *UnbalancedTransactionError) Error() string {
	return fmt.Sprintf("transaction %s unbalanced: debits (%s) != credits (%s)",
		e.TransactionID, e.Debit.StringFixed(2), e.Credit.StringFixed(2))
}

// MissingAccountError reports a reference to an account that is not in
// the chart of accounts.
type MissingAccountError struct {
	Ref     string // account ID or code
	Purpose string // what the account was needed for
}

func (e *MissingAccountError) Error() string {
	if e.Purpose == "" {
		return fmt.Sprintf("unknown account %s", e.Ref)
	}
	return fmt.Sprintf("missing %s account %s", e.Purpose, e.Ref)
}

// ValidationError describes a single invariant violation of a journal line.
type ValidationError struct {
	Invariant     int
	TransactionID string
	Description   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.TransactionID, e.Description)
}

// Invariant numbers used in ValidationError.
const (
	InvariantLineSide  = 2
	InvariantDate      = 4
	InvariantUniqueID  = 5
	InvariantPrecision = 6
)

// AccountChecker tests whether an account ID exists in the chart of accounts.
type AccountChecker interface {
	Exists(id string) bool
}

// ValidateTransaction checks tx before it enters the ledger. It returns
// nil or a join of all violations; use errors.As to inspect
// *UnbalancedTransactionError, *MissingAccountError and ValidationError.
func ValidateTransaction(tx model.Transaction, accounts AccountChecker) error {
	if len(tx.Lines) == 0 {
		return fmt.Errorf("transaction %s: %w", tx.ID, ErrEmptyTransaction)
	}

	var errs []error
	if tx.Date.IsZero() {
		errs = append(errs, ValidationError{
			Invariant:     InvariantDate,
			TransactionID: tx.ID,
			Description:   "missing date",
		})
	}

	hundred := decimal.NewFromInt(100)
	for i, l := range tx.Lines {
		hasDebit := !l.Debit.IsZero()
		hasCredit := !l.Credit.IsZero()
		if hasDebit == hasCredit {
			errs = append(errs, ValidationError{
				Invariant:     InvariantLineSide,
				TransactionID: tx.ID,
				Description:   fmt.Sprintf("line %d must have exactly one of debit or credit", i+1),
			})
		}

		if accounts != nil && !accounts.Exists(l.AccountID) {
			errs = append(errs, &MissingAccountError{Ref: l.AccountID})
		}

		for _, amt := range []decimal.Decimal{l.Debit, l.Credit} {
			if !amt.Mul(hundred).Equal(amt.Mul(hundred).Truncate(0)) {
				errs = append(errs, ValidationError{
					Invariant:     InvariantPrecision,
					TransactionID: tx.ID,
					Description:   fmt.Sprintf("line %d amount %s has more than 2 decimal places", i+1, amt),
				})
			}
		}
	}

	debit, credit := tx.Totals()
	if debit.Sub(credit).Abs().GreaterThan(Epsilon) {
		errs = append(errs, &UnbalancedTransactionError{
			TransactionID: tx.ID,
			Debit:         debit,
			Credit:        credit,
		})
	}

	return errors.Join(errs...)
}
