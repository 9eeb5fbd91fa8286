package model

import (
	"fmt"
	"strings"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// AccountTypes lists all account types in chart order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// ParseAccountType parses an account type, ignoring case.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AccountTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown account type %q", s)
}

// IsDebitNormal reports whether the account grows on the debit side.
func (t AccountType) IsDebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// IsBalanceSheet reports whether balances of this type carry forward
// across fiscal years.
func (t AccountType) IsBalanceSheet() bool {
	return t == AccountTypeAsset || t == AccountTypeLiability || t == AccountTypeEquity
}

// Sign returns +1 for debit-normal types and -1 otherwise. A signed
// balance is Sign() * (debit - credit).
func (t AccountType) Sign() int64 {
	if t.IsDebitNormal() {
		return 1
	}
	return -1
}

// Account represents a row in chart-of-accounts.csv.
type Account struct {
	ID   string
	Code string // numeric SKR03 code, drives statement classification
	Name string
	Type AccountType
}
