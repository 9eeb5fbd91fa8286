package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/hauptbuch/internal/model"
)

// Stats is one row of a trial balance (Summen- und Saldenliste).
// OpeningBalance and EndingBalance are signed by the normal side of the
// account (or of the counterparty role); turnover columns are raw sums.
type Stats struct {
	OpeningBalance decimal.Decimal
	DebitMonth     decimal.Decimal
	CreditMonth    decimal.Decimal
	DebitYTD       decimal.Decimal
	CreditYTD      decimal.Decimal
	EndingBalance  decimal.Decimal
}

func zeroStats() Stats {
	return Stats{
		OpeningBalance: decimal.Zero,
		DebitMonth:     decimal.Zero,
		CreditMonth:    decimal.Zero,
		DebitYTD:       decimal.Zero,
		CreditYTD:      decimal.Zero,
		EndingBalance:  decimal.Zero,
	}
}

// Role is the side a counterparty stands on in the subledger.
type Role string

const (
	RoleDebtor   Role = "DEBTOR"
	RoleCreditor Role = "CREDITOR"
)

// ContactResult is the subledger statistics of one counterparty.
type ContactResult struct {
	ContactID string
	Role      Role
	Stats
}

// AccountStats computes the trial balance row of acct as of asOf.
//
// Postings dated after asOf are ignored. For balance-sheet accounts,
// postings from earlier fiscal years and opening postings of the current
// fiscal year form the opening balance. All other postings of the
// current fiscal year count as year-to-date turnover, and as month
// turnover when they fall into the calendar month of asOf.
func AccountStats(acct model.Account, txns []model.Transaction, asOf time.Time, cal Calendar) Stats {
	var postings []Posting
	for _, tx := range txns {
		opening := IsOpening(tx)
		for _, l := range tx.Lines {
			if l.AccountID != acct.ID {
				continue
			}
			postings = append(postings, Posting{
				TransactionID: tx.ID,
				Date:          tx.Date,
				ContactID:     tx.ContactID,
				Opening:       opening,
				Debit:         l.Debit,
				Credit:        l.Credit,
			})
		}
	}
	return accountStats(acct.Type, postings, asOf, cal)
}

func accountStats(typ model.AccountType, postings []Posting, asOf time.Time, cal Calendar) Stats {
	turnover := splitPeriods(postings, asOf, cal, typ.IsBalanceSheet())
	s := turnover.stats
	s.OpeningBalance = signed(typ, turnover.openingNet)
	s.EndingBalance = s.OpeningBalance.Add(signed(typ, s.DebitYTD.Sub(s.CreditYTD)))
	return s
}

type periodSplit struct {
	stats      Stats
	openingNet decimal.Decimal // debit minus credit
}

func splitPeriods(postings []Posting, asOf time.Time, cal Calendar, carryForward bool) periodSplit {
	asOf = Day(asOf)
	fy := cal.FiscalYear(asOf)
	split := periodSplit{stats: zeroStats(), openingNet: decimal.Zero}

	for _, p := range postings {
		d := Day(p.Date)
		if d.After(asOf) {
			continue
		}
		pfy := cal.FiscalYear(d)
		if pfy > fy {
			continue
		}
		if carryForward && (pfy < fy || p.Opening) {
			split.openingNet = split.openingNet.Add(p.Debit).Sub(p.Credit)
			continue
		}
		if pfy != fy || p.Opening {
			continue
		}
		split.stats.DebitYTD = split.stats.DebitYTD.Add(p.Debit)
		split.stats.CreditYTD = split.stats.CreditYTD.Add(p.Credit)
		if sameMonth(d, asOf) {
			split.stats.DebitMonth = split.stats.DebitMonth.Add(p.Debit)
			split.stats.CreditMonth = split.stats.CreditMonth.Add(p.Credit)
		}
	}
	return split
}

// ContactStats computes the subledger row of one counterparty as of asOf
// over its postings on the given accounts. Only ASSET and LIABILITY
// accounts are considered; callers normally pass the receivable and
// payable control accounts.
//
// The counterparty is a creditor when any of its postings touches a
// LIABILITY account and a debtor otherwise. Both balances are signed by
// that role so that EndingBalance = OpeningBalance + YTD turnover.
func ContactStats(contactID string, accounts []model.Account, txns []model.Transaction, asOf time.Time, cal Calendar) ContactResult {
	types := make(map[string]model.AccountType, len(accounts))
	for _, a := range accounts {
		if a.Type == model.AccountTypeAsset || a.Type == model.AccountTypeLiability {
			types[a.ID] = a.Type
		}
	}

	role := RoleDebtor
	var postings []Posting
	for _, tx := range txns {
		if tx.ContactID != contactID || Day(tx.Date).After(Day(asOf)) {
			continue
		}
		opening := IsOpening(tx)
		for _, l := range tx.Lines {
			typ, ok := types[l.AccountID]
			if !ok {
				continue
			}
			if typ == model.AccountTypeLiability {
				role = RoleCreditor
			}
			postings = append(postings, Posting{
				TransactionID: tx.ID,
				Date:          tx.Date,
				ContactID:     tx.ContactID,
				Opening:       opening,
				Debit:         l.Debit,
				Credit:        l.Credit,
			})
		}
	}

	roleType := model.AccountTypeAsset
	if role == RoleCreditor {
		roleType = model.AccountTypeLiability
	}
	return ContactResult{
		ContactID: contactID,
		Role:      role,
		Stats:     accountStats(roleType, postings, asOf, cal),
	}
}
