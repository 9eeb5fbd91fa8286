// Package report assembles read-only reports from a Repository.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/hauptbuch/internal/depreciation"
	"github.com/cleared-dev/hauptbuch/internal/invoice"
	"github.com/cleared-dev/hauptbuch/internal/ledger"
	"github.com/cleared-dev/hauptbuch/internal/model"
	"github.com/cleared-dev/hauptbuch/internal/statement"
)

// Repository supplies the records reports are computed from. Books are
// read in full on every report.
type Repository interface {
	Accounts() ([]model.Account, error)
	Transactions() ([]model.Transaction, error)
	Invoices() ([]model.Invoice, error)
	Settlements() ([]model.Settlement, error)
	Assets() ([]model.Asset, error)
}

// Options configures a Reporter.
type Options struct {
	Table         *statement.Table
	Calendar      ledger.Calendar
	VAT           statement.VATConfig
	PaidTolerance decimal.Decimal

	// SubledgerPrefixes selects the control accounts of contact
	// balances by code prefix. Empty means every ASSET and LIABILITY
	// account.
	SubledgerPrefixes []string
}

// DefaultOptions returns the SKR03 table, calendar fiscal years and the
// default VAT and tolerance settings.
func DefaultOptions() Options {
	return Options{
		Table:             statement.DefaultTable(),
		Calendar:          ledger.CalendarYear,
		VAT:               statement.DefaultVATConfig(),
		PaidTolerance:     invoice.DefaultTolerance,
		SubledgerPrefixes: []string{"14", "16"},
	}
}

// Reporter computes reports over a Repository.
type Reporter struct {
	repo Repository
	opts Options
}

// New returns a Reporter. A nil Table means DefaultTable.
func New(repo Repository, opts Options) *Reporter {
	if opts.Table == nil {
		opts.Table = statement.DefaultTable()
	}
	return &Reporter{repo: repo, opts: opts}
}

type snapshot struct {
	accounts []model.Account
	txns     []model.Transaction
	idx      *ledger.Index
}

func (r *Reporter) load() (snapshot, error) {
	accts, err := r.repo.Accounts()
	if err != nil {
		return snapshot{}, fmt.Errorf("loading accounts: %w", err)
	}
	txns, err := r.repo.Transactions()
	if err != nil {
		return snapshot{}, fmt.Errorf("loading journal: %w", err)
	}
	sorted := append([]model.Account(nil), accts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	return snapshot{accounts: sorted, txns: txns, idx: ledger.NewIndex(txns)}, nil
}

// TrialBalanceRow is the SuSa line of one account.
type TrialBalanceRow struct {
	Account model.Account
	ledger.Stats
}

// TrialBalance is the Summen- und Saldenliste as of a date.
type TrialBalance struct {
	AsOf       time.Time
	FiscalYear int
	Rows       []TrialBalanceRow
	Totals     ledger.Stats // turnover columns only
}

// TrialBalance lists every account with postings up to asOf, by code.
func (r *Reporter) TrialBalance(asOf time.Time) (TrialBalance, error) {
	s, err := r.load()
	if err != nil {
		return TrialBalance{}, err
	}
	asOf = ledger.Day(asOf)
	tb := TrialBalance{
		AsOf:       asOf,
		FiscalYear: r.opts.Calendar.FiscalYear(asOf),
		Totals: ledger.Stats{
			OpeningBalance: decimal.Zero,
			DebitMonth:     decimal.Zero,
			CreditMonth:    decimal.Zero,
			DebitYTD:       decimal.Zero,
			CreditYTD:      decimal.Zero,
			EndingBalance:  decimal.Zero,
		},
	}
	for _, acct := range s.accounts {
		if !postedBy(s.idx.Postings(acct.ID), asOf) {
			continue
		}
		st := s.idx.Stats(acct, asOf, r.opts.Calendar)
		tb.Rows = append(tb.Rows, TrialBalanceRow{Account: acct, Stats: st})
		tb.Totals.DebitMonth = tb.Totals.DebitMonth.Add(st.DebitMonth)
		tb.Totals.CreditMonth = tb.Totals.CreditMonth.Add(st.CreditMonth)
		tb.Totals.DebitYTD = tb.Totals.DebitYTD.Add(st.DebitYTD)
		tb.Totals.CreditYTD = tb.Totals.CreditYTD.Add(st.CreditYTD)
	}
	return tb, nil
}

func postedBy(postings []ledger.Posting, asOf time.Time) bool {
	for _, p := range postings {
		if !ledger.Day(p.Date).After(asOf) {
			return true
		}
	}
	return false
}

// AccountBalance returns the SuSa line of one account.
func (r *Reporter) AccountBalance(accountID string, asOf time.Time) (TrialBalanceRow, error) {
	s, err := r.load()
	if err != nil {
		return TrialBalanceRow{}, err
	}
	for _, acct := range s.accounts {
		if acct.ID == accountID || acct.Code == accountID {
			return TrialBalanceRow{Account: acct, Stats: s.idx.Stats(acct, asOf, r.opts.Calendar)}, nil
		}
	}
	return TrialBalanceRow{}, &ledger.MissingAccountError{Ref: accountID, Purpose: "balance"}
}

// ContactBalance returns the subledger line of one counterparty.
func (r *Reporter) ContactBalance(contactID string, asOf time.Time) (ledger.ContactResult, error) {
	s, err := r.load()
	if err != nil {
		return ledger.ContactResult{}, err
	}
	return ledger.ContactStats(contactID, r.subledgerAccounts(s.accounts), s.txns, asOf, r.opts.Calendar), nil
}

// ContactBalances returns the subledger lines of every counterparty that
// has posted up to asOf, by contact ID.
func (r *Reporter) ContactBalances(asOf time.Time) ([]ledger.ContactResult, error) {
	s, err := r.load()
	if err != nil {
		return nil, err
	}
	asOf = ledger.Day(asOf)
	seen := make(map[string]bool)
	var contacts []string
	for _, tx := range s.txns {
		if tx.ContactID == "" || seen[tx.ContactID] || ledger.Day(tx.Date).After(asOf) {
			continue
		}
		seen[tx.ContactID] = true
		contacts = append(contacts, tx.ContactID)
	}
	sort.Strings(contacts)

	accts := r.subledgerAccounts(s.accounts)
	out := make([]ledger.ContactResult, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, ledger.ContactStats(c, accts, s.txns, asOf, r.opts.Calendar))
	}
	return out, nil
}

func (r *Reporter) subledgerAccounts(accts []model.Account) []model.Account {
	if len(r.opts.SubledgerPrefixes) == 0 {
		return accts
	}
	var out []model.Account
	for _, a := range accts {
		for _, p := range r.opts.SubledgerPrefixes {
			if strings.HasPrefix(a.Code, p) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// ProfitAndLoss returns the GuV of the fiscal year containing asOf.
func (r *Reporter) ProfitAndLoss(asOf time.Time) (statement.ProfitAndLoss, error) {
	s, err := r.load()
	if err != nil {
		return statement.ProfitAndLoss{}, err
	}
	return r.opts.Table.BuildProfitAndLoss(s.accounts, s.idx, asOf, r.opts.Calendar), nil
}

// BalanceSheet returns the Bilanz as of asOf.
func (r *Reporter) BalanceSheet(asOf time.Time) (statement.BalanceSheet, error) {
	s, err := r.load()
	if err != nil {
		return statement.BalanceSheet{}, err
	}
	return r.opts.Table.BuildBalanceSheet(s.accounts, s.idx, asOf, r.opts.Calendar), nil
}

// VAT returns the VAT return of the period from..to, both inclusive.
func (r *Reporter) VAT(from, to time.Time) (statement.VATReturn, error) {
	s, err := r.load()
	if err != nil {
		return statement.VATReturn{}, err
	}
	return statement.BuildVATReturn(s.accounts, s.idx, from, to, r.opts.VAT), nil
}

// RegisterLine is one GL account of the asset register.
type RegisterLine struct {
	depreciation.Group
	AccountName string
}

// AssetRow is one asset with its schedule for the register year.
type AssetRow struct {
	Asset    model.Asset
	Schedule depreciation.Schedule
}

// AssetRegister is the Anlagenspiegel of one year.
type AssetRegister struct {
	Year   int
	Lines  []RegisterLine
	Assets []AssetRow
	Total  depreciation.Group
}

// AssetRegister returns the register of year, grouped by GL account.
func (r *Reporter) AssetRegister(year int) (AssetRegister, error) {
	accts, err := r.repo.Accounts()
	if err != nil {
		return AssetRegister{}, fmt.Errorf("loading accounts: %w", err)
	}
	assets, err := r.repo.Assets()
	if err != nil {
		return AssetRegister{}, fmt.Errorf("loading assets: %w", err)
	}
	names := make(map[string]string, len(accts))
	for _, a := range accts {
		names[a.ID] = a.Name
	}

	reg := AssetRegister{
		Year: year,
		Total: depreciation.Group{
			Cost:           decimal.Zero,
			CurrentAfA:     decimal.Zero,
			AccumulatedAfA: decimal.Zero,
			BookValue:      decimal.Zero,
		},
	}
	for _, g := range depreciation.GroupByAccount(assets, year) {
		reg.Lines = append(reg.Lines, RegisterLine{Group: g, AccountName: names[g.GLAccountID]})
		reg.Total.Assets += g.Assets
		reg.Total.Cost = reg.Total.Cost.Add(g.Cost)
		reg.Total.CurrentAfA = reg.Total.CurrentAfA.Add(g.CurrentAfA)
		reg.Total.AccumulatedAfA = reg.Total.AccumulatedAfA.Add(g.AccumulatedAfA)
		reg.Total.BookValue = reg.Total.BookValue.Add(g.BookValue)
	}
	for _, a := range assets {
		if a.Status == model.AssetDisposed || a.PurchaseDate.Year() > year {
			continue
		}
		reg.Assets = append(reg.Assets, AssetRow{Asset: a, Schedule: depreciation.Compute(a, year)})
	}
	return reg, nil
}

func (r *Reporter) reconcileInputs() ([]model.Invoice, []model.Settlement, error) {
	invoices, err := r.repo.Invoices()
	if err != nil {
		return nil, nil, fmt.Errorf("loading invoices: %w", err)
	}
	settlements, err := r.repo.Settlements()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settlements: %w", err)
	}
	return invoices, settlements, nil
}

// Invoices reconciles every invoice on today.
func (r *Reporter) Invoices(today time.Time) ([]invoice.Result, error) {
	invoices, settlements, err := r.reconcileInputs()
	if err != nil {
		return nil, err
	}
	return invoice.ReconcileAll(invoices, settlements, today, r.opts.PaidTolerance), nil
}

// OpenItems returns the unpaid invoices on today.
func (r *Reporter) OpenItems(today time.Time) ([]invoice.Result, error) {
	invoices, settlements, err := r.reconcileInputs()
	if err != nil {
		return nil, err
	}
	return invoice.OpenItems(invoices, settlements, today, r.opts.PaidTolerance), nil
}
