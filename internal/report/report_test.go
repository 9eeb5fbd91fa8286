package report

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/hauptbuch/internal/accounts"
	"github.com/cleared-dev/hauptbuch/internal/books"
	"github.com/cleared-dev/hauptbuch/internal/invoice"
	"github.com/cleared-dev/hauptbuch/internal/ledger"
	"github.com/cleared-dev/hauptbuch/internal/model"
	"github.com/cleared-dev/hauptbuch/internal/statement"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(account, debit, credit string) model.JournalLine {
	l := model.JournalLine{AccountID: account, Debit: decimal.Zero, Credit: decimal.Zero}
	if debit != "" {
		l.Debit = dec(debit)
	}
	if credit != "" {
		l.Credit = dec(credit)
	}
	return l
}

// fixture is a small GmbH: capital paid in, one invoice partly paid, one
// rent payment.
func fixture() *books.Memory {
	return &books.Memory{
		Chart: accounts.DefaultChart("gmbh"),
		Journal: []model.Transaction{
			{
				ID: "B-2025-01-001", Date: date(2025, 1, 2), Kind: model.KindOpening,
				Description: "Stammkapital",
				Lines:       []model.JournalLine{line("1200", "10000", ""), line("0800", "", "10000")},
			},
			{
				ID: "B-2025-01-002", Date: date(2025, 1, 15), Kind: model.KindInvoice,
				Description: "AR 2025-001", ContactID: "K1", InvoiceID: "INV-1",
				Lines: []model.JournalLine{
					line("1400", "1190", ""), line("8400", "", "1000"), line("1776", "", "190"),
				},
			},
			{
				ID: "B-2025-02-001", Date: date(2025, 2, 5), Description: "Miete Februar",
				Lines: []model.JournalLine{line("4210", "800", ""), line("1200", "", "800")},
			},
			{
				ID: "Z-2025-02-001", Date: date(2025, 2, 10), Kind: model.KindPayment,
				Description: "Zahlung AR 2025-001", ContactID: "K1", InvoiceID: "INV-1",
				Lines: []model.JournalLine{line("1200", "500", ""), line("1400", "", "500")},
			},
		},
		Billing: []model.Invoice{{
			ID: "INV-1", Number: "2025-001", Date: date(2025, 1, 15), DueDate: date(2025, 2, 14),
			ContactID: "K1", NetAmount: dec("1000"), TaxAmount: dec("190"), GrossAmount: dec("1190"),
			TransactionID: "B-2025-01-002",
		}},
		Register: []model.Asset{{
			ID: "AST-1", Name: "Laptop", GLAccountID: "0490", PurchaseDate: date(2025, 3, 10),
			Cost: dec("2400"), UsefulLifeYears: 3, ResidualValue: decimal.Zero, Status: model.AssetActive,
		}},
	}
}

func newReporter() *Reporter {
	return New(fixture(), DefaultOptions())
}

func TestTrialBalance(t *testing.T) {
	tb, err := newReporter().TrialBalance(date(2025, 2, 28))
	require.NoError(t, err)

	assert.Equal(t, 2025, tb.FiscalYear)
	var codes []string
	for _, r := range tb.Rows {
		codes = append(codes, r.Account.Code)
	}
	assert.Equal(t, []string{"0800", "1200", "1400", "1776", "4210", "8400"}, codes)

	bank := tb.Rows[1]
	assert.True(t, bank.OpeningBalance.Equal(dec("10000")))
	assert.True(t, bank.DebitMonth.Equal(dec("500")))
	assert.True(t, bank.CreditMonth.Equal(dec("800")))
	assert.True(t, bank.EndingBalance.Equal(dec("9700")))

	assert.True(t, tb.Totals.DebitYTD.Equal(dec("2490")), tb.Totals.DebitYTD.String())
	assert.True(t, tb.Totals.CreditYTD.Equal(tb.Totals.DebitYTD))
}

func TestTrialBalance_ExcludesLaterPostings(t *testing.T) {
	tb, err := newReporter().TrialBalance(date(2025, 1, 31))
	require.NoError(t, err)
	for _, r := range tb.Rows {
		assert.NotEqual(t, "4210", r.Account.Code)
	}
}

func TestAccountBalance(t *testing.T) {
	row, err := newReporter().AccountBalance("1400", date(2025, 2, 28))
	require.NoError(t, err)
	assert.True(t, row.EndingBalance.Equal(dec("690")))

	_, err = newReporter().AccountBalance("9999", date(2025, 2, 28))
	var missing *ledger.MissingAccountError
	assert.True(t, errors.As(err, &missing))
}

func TestContactBalances(t *testing.T) {
	r := newReporter()
	one, err := r.ContactBalance("K1", date(2025, 2, 28))
	require.NoError(t, err)
	assert.Equal(t, ledger.RoleDebtor, one.Role)
	assert.True(t, one.EndingBalance.Equal(dec("690")))

	all, err := r.ContactBalances(date(2025, 2, 28))
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "K1", all[0].ContactID)
}

func TestStatements(t *testing.T) {
	r := newReporter()

	pl, err := r.ProfitAndLoss(date(2025, 2, 28))
	require.NoError(t, err)
	assert.True(t, pl.Revenue.Equal(dec("1000")))
	assert.True(t, pl.Expense.Equal(dec("800")))
	assert.True(t, pl.NetIncome.Equal(dec("200")))

	bs, err := r.BalanceSheet(date(2025, 2, 28))
	require.NoError(t, err)
	assert.True(t, bs.TotalAktiva.Equal(dec("10390")), bs.TotalAktiva.String())
	assert.True(t, bs.TotalPassiva.Equal(dec("10390")), bs.TotalPassiva.String())
	assert.True(t, bs.Difference.IsZero())

	vat, err := r.VAT(date(2025, 1, 1), date(2025, 2, 28))
	require.NoError(t, err)
	assert.True(t, vat.StandardBase.Equal(dec("1000")))
	assert.True(t, vat.Payable.Equal(dec("190")))
}

func TestAssetRegister(t *testing.T) {
	reg, err := newReporter().AssetRegister(2025)
	require.NoError(t, err)
	require.Len(t, reg.Lines, 1)
	assert.Equal(t, "Sonstige Betriebs- und Geschäftsausstattung", reg.Lines[0].AccountName)
	assert.True(t, reg.Total.CurrentAfA.Equal(dec("666.67")), reg.Total.CurrentAfA.String())
	require.Len(t, reg.Assets, 1)

	before, err := newReporter().AssetRegister(2024)
	require.NoError(t, err)
	assert.Empty(t, before.Lines)
	assert.Empty(t, before.Assets)
}

func TestInvoicesUseInferredSettlements(t *testing.T) {
	r := newReporter()
	results, err := r.Invoices(date(2025, 3, 1))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, invoice.StatusPartial, results[0].Status)
	assert.True(t, results[0].Remaining.Equal(dec("690")))

	open, err := r.OpenItems(date(2025, 3, 1))
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestNew_DefaultsTable(t *testing.T) {
	opts := DefaultOptions()
	opts.Table = nil
	r := New(fixture(), opts)
	pl, err := r.ProfitAndLoss(date(2025, 2, 28))
	require.NoError(t, err)
	assert.Len(t, pl.Lines, len(statement.ProfitAndLossLines))
}

func TestFormatAmount(t *testing.T) {
	tests := map[string]string{
		"0":        "0,00 €",
		"1234.56":  "1.234,56 €",
		"-9.9":     "-9,90 €",
		"0.005":    "0,01 €",
		"1000000":  "1.000.000,00 €",
		"-1190.00": "-1.190,00 €",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatAmount(dec(in)), in)
	}
	assert.Equal(t, "14.02.2025", FormatDate(date(2025, 2, 14)))
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestRender(t *testing.T) {
	r := newReporter()
	asOf := date(2025, 2, 28)

	var buf bytes.Buffer
	tb, err := r.TrialBalance(asOf)
	require.NoError(t, err)
	require.NoError(t, RenderTrialBalance(&buf, tb))
	assert.Contains(t, buf.String(), "| 1200 | Bank | 10.000,00 € | 500,00 € | 800,00 € |")

	buf.Reset()
	bs, err := r.BalanceSheet(asOf)
	require.NoError(t, err)
	require.NoError(t, RenderBalanceSheet(&buf, bs))
	assert.Contains(t, buf.String(), "| | **Summe Aktiva** | 10.390,00 € |")
	assert.NotContains(t, buf.String(), "Differenz")

	buf.Reset()
	results, err := r.Invoices(date(2025, 3, 1))
	require.NoError(t, err)
	require.NoError(t, RenderInvoices(&buf, results))
	assert.Contains(t, buf.String(), "| 2025-001 | 15.01.2025 | 14.02.2025 | 1.190,00 € | 500,00 € | 690,00 € | teilbezahlt | 15 |")

	buf.Reset()
	vat, err := r.VAT(date(2025, 1, 1), asOf)
	require.NoError(t, err)
	require.NoError(t, RenderVAT(&buf, vat))
	assert.Contains(t, buf.String(), "| 81 | Umsätze zum Regelsteuersatz | 1.000,00 € | 190,00 € |")

	buf.Reset()
	reg, err := r.AssetRegister(2025)
	require.NoError(t, err)
	require.NoError(t, RenderAssetRegister(&buf, reg))
	assert.Contains(t, buf.String(), "| AST-1 | Laptop | 0490 | 10.03.2025 | 3 | 666,67 € | 1.733,33 € |")

	buf.Reset()
	contacts, err := r.ContactBalances(asOf)
	require.NoError(t, err)
	require.NoError(t, RenderContacts(&buf, contacts))
	assert.Contains(t, buf.String(), "| K1 | Debitor |")

	buf.Reset()
	pl, err := r.ProfitAndLoss(asOf)
	require.NoError(t, err)
	require.NoError(t, RenderProfitAndLoss(&buf, pl))
	assert.Contains(t, buf.String(), "| | **Jahresergebnis** | 200,00 € |")
}
