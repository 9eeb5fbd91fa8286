package statement

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/hauptbuch/internal/ledger"
	"github.com/cleared-dev/hauptbuch/internal/model"
)

// AccountAmount is the statement balance of one account.
type AccountAmount struct {
	Account model.Account
	Amount  decimal.Decimal
}

// Line is one statement line with the accounts that feed it.
type Line struct {
	Category Category
	Label    string
	Amount   decimal.Decimal
	Accounts []AccountAmount // non-zero balances only, by code
}

// Totals sums the period balance of every account per category as of
// asOf. P&L accounts contribute their current fiscal year only;
// balance-sheet accounts contribute their cumulative balance. Every
// known category is present in the result.
func (t *Table) Totals(accounts []model.Account, idx *ledger.Index, asOf time.Time, cal ledger.Calendar) map[Category]decimal.Decimal {
	totals := make(map[Category]decimal.Decimal, len(labels))
	for c := range labels {
		totals[c] = decimal.Zero
	}
	for _, l := range t.lines(accounts, idx, asOf, cal) {
		totals[l.Category] = l.Amount
	}
	return totals
}

func (t *Table) lines(accounts []model.Account, idx *ledger.Index, asOf time.Time, cal ledger.Calendar) map[Category]*Line {
	lines := make(map[Category]*Line)
	for _, acct := range accounts {
		c := t.Classify(acct)
		if c == "" {
			continue
		}
		l, ok := lines[c]
		if !ok {
			l = &Line{Category: c, Label: c.Label(), Amount: decimal.Zero}
			lines[c] = l
		}
		amount := idx.Stats(acct, asOf, cal).EndingBalance
		if amount.IsZero() {
			continue
		}
		l.Amount = l.Amount.Add(amount)
		l.Accounts = append(l.Accounts, AccountAmount{Account: acct, Amount: amount})
	}
	for _, l := range lines {
		sort.Slice(l.Accounts, func(i, j int) bool { return l.Accounts[i].Account.Code < l.Accounts[j].Account.Code })
	}
	return lines
}

func ordered(lines map[Category]*Line, order []Category) []Line {
	out := make([]Line, 0, len(order))
	for _, c := range order {
		if l, ok := lines[c]; ok {
			out = append(out, *l)
			continue
		}
		out = append(out, Line{Category: c, Label: c.Label(), Amount: decimal.Zero})
	}
	return out
}

// ProfitAndLoss is the GuV of one fiscal year up to a report date.
type ProfitAndLoss struct {
	FiscalYear int
	From, To   time.Time
	Lines      []Line
	Revenue    decimal.Decimal
	Expense    decimal.Decimal
	NetIncome  decimal.Decimal // Revenue - Expense
}

// BuildProfitAndLoss computes the P&L of the fiscal year containing asOf.
func (t *Table) BuildProfitAndLoss(accounts []model.Account, idx *ledger.Index, asOf time.Time, cal ledger.Calendar) ProfitAndLoss {
	asOf = ledger.Day(asOf)
	fy := cal.FiscalYear(asOf)
	p := ProfitAndLoss{
		FiscalYear: fy,
		From:       cal.YearStart(fy),
		To:         asOf,
		Revenue:    decimal.Zero,
		Expense:    decimal.Zero,
	}

	var pl []model.Account
	for _, acct := range accounts {
		switch acct.Type {
		case model.AccountTypeRevenue:
			p.Revenue = p.Revenue.Add(idx.Stats(acct, asOf, cal).EndingBalance)
		case model.AccountTypeExpense:
			p.Expense = p.Expense.Add(idx.Stats(acct, asOf, cal).EndingBalance)
		default:
			continue
		}
		pl = append(pl, acct)
	}
	p.Lines = ordered(t.lines(pl, idx, asOf, cal), ProfitAndLossLines)
	p.NetIncome = p.Revenue.Sub(p.Expense)
	return p
}

// BalanceSheet is the Bilanz as of a report date.
//
// The result of earlier fiscal years and the result of the current
// fiscal year are reported separately from the equity accounts of
// Passiva A. TotalPassiva includes both.
type BalanceSheet struct {
	AsOf              time.Time
	FiscalYear        int
	Aktiva            []Line
	Passiva           []Line
	PriorYearsResult  decimal.Decimal
	CurrentYearResult decimal.Decimal
	TotalAktiva       decimal.Decimal
	TotalPassiva      decimal.Decimal
	Difference        decimal.Decimal // TotalAktiva - TotalPassiva, zero for balanced books
}

// BuildBalanceSheet computes the balance sheet as of asOf.
func (t *Table) BuildBalanceSheet(accounts []model.Account, idx *ledger.Index, asOf time.Time, cal ledger.Calendar) BalanceSheet {
	asOf = ledger.Day(asOf)
	fy := cal.FiscalYear(asOf)
	b := BalanceSheet{
		AsOf:              asOf,
		FiscalYear:        fy,
		PriorYearsResult:  PriorYearsResult(accounts, idx, asOf, cal),
		CurrentYearResult: t.BuildProfitAndLoss(accounts, idx, asOf, cal).NetIncome,
	}

	var bs []model.Account
	for _, acct := range accounts {
		if acct.Type.IsBalanceSheet() {
			bs = append(bs, acct)
		}
	}
	lines := t.lines(bs, idx, asOf, cal)
	b.Aktiva = ordered(lines, AktivaGroups)
	b.Passiva = ordered(lines, PassivaGroups)

	b.TotalAktiva = sum(b.Aktiva)
	b.TotalPassiva = sum(b.Passiva).Add(b.PriorYearsResult).Add(b.CurrentYearResult)
	b.Difference = b.TotalAktiva.Sub(b.TotalPassiva)
	return b
}

// PriorYearsResult sums all REVENUE and EXPENSE movement that does not
// belong to the current fiscal year of asOf as credit minus debit:
// postings of earlier fiscal years and opening postings of the current
// one.
func PriorYearsResult(accounts []model.Account, idx *ledger.Index, asOf time.Time, cal ledger.Calendar) decimal.Decimal {
	asOf = ledger.Day(asOf)
	fy := cal.FiscalYear(asOf)
	result := decimal.Zero
	for _, acct := range accounts {
		if acct.Type != model.AccountTypeRevenue && acct.Type != model.AccountTypeExpense {
			continue
		}
		for _, p := range idx.Postings(acct.ID) {
			d := ledger.Day(p.Date)
			if d.After(asOf) {
				continue
			}
			if pfy := cal.FiscalYear(d); pfy < fy || (pfy == fy && p.Opening) {
				result = result.Add(p.Credit).Sub(p.Debit)
			}
		}
	}
	return result
}

func sum(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
