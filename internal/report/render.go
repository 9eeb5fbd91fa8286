package report

import (
	"fmt"
	"io"
	"text/template"

	"github.com/cleared-dev/hauptbuch/internal/invoice"
	"github.com/cleared-dev/hauptbuch/internal/ledger"
	"github.com/cleared-dev/hauptbuch/internal/statement"
)

var funcs = template.FuncMap{
	"money": FormatAmount,
	"date":  FormatDate,
}

const trialBalanceTmpl = `# Summen- und Saldenliste {{.FiscalYear}}

Stichtag: {{date .AsOf}}

| Konto | Bezeichnung | EB-Wert | Soll Monat | Haben Monat | Soll kumuliert | Haben kumuliert | Saldo |
|---|---|--:|--:|--:|--:|--:|--:|
{{range .Rows}}| {{.Account.Code}} | {{.Account.Name}} | {{money .OpeningBalance}} | {{money .DebitMonth}} | {{money .CreditMonth}} | {{money .DebitYTD}} | {{money .CreditYTD}} | {{money .EndingBalance}} |
{{end}}| | **Summe** | | {{money .Totals.DebitMonth}} | {{money .Totals.CreditMonth}} | {{money .Totals.DebitYTD}} | {{money .Totals.CreditYTD}} | |
`

const contactsTmpl = `# Offene Posten nach Geschäftspartner

| Kontakt | Rolle | EB-Wert | Soll kumuliert | Haben kumuliert | Saldo |
|---|---|--:|--:|--:|--:|
{{range .}}| {{.ContactID}} | {{role .Role}} | {{money .OpeningBalance}} | {{money .DebitYTD}} | {{money .CreditYTD}} | {{money .EndingBalance}} |
{{end}}`

const profitAndLossTmpl = `# Gewinn- und Verlustrechnung {{.FiscalYear}}

Zeitraum: {{date .From}} bis {{date .To}}

| Position | Bezeichnung | Betrag |
|---|---|--:|
{{range .Lines}}| {{.Category}} | {{.Label}} | {{money .Amount}} |
{{end}}| | **Erträge** | {{money .Revenue}} |
| | **Aufwendungen** | {{money .Expense}} |
| | **Jahresergebnis** | {{money .NetIncome}} |
`

const balanceSheetTmpl = `# Bilanz zum {{date .AsOf}}

## Aktiva

| Position | Bezeichnung | Betrag |
|---|---|--:|
{{range .Aktiva}}| {{.Category}} | {{.Label}} | {{money .Amount}} |
{{end}}| | **Summe Aktiva** | {{money .TotalAktiva}} |

## Passiva

| Position | Bezeichnung | Betrag |
|---|---|--:|
{{range .Passiva}}| {{.Category}} | {{.Label}} | {{money .Amount}} |
{{end}}| | Ergebnisvortrag | {{money .PriorYearsResult}} |
| | Jahresergebnis {{.FiscalYear}} | {{money .CurrentYearResult}} |
| | **Summe Passiva** | {{money .TotalPassiva}} |
{{if not .Difference.IsZero}}
**Differenz: {{money .Difference}}**
{{end}}`

const vatTmpl = `# Umsatzsteuer-Voranmeldung

Zeitraum: {{date .From}} bis {{date .To}}

| Kennzahl | Bezeichnung | Bemessungsgrundlage | Steuer |
|---|---|--:|--:|
| 81 | Umsätze zum Regelsteuersatz | {{money .StandardBase}} | {{money .StandardTax}} |
| 86 | Umsätze zum ermäßigten Steuersatz | {{money .ReducedBase}} | {{money .ReducedTax}} |
| 66 | Abziehbare Vorsteuer | | {{money .InputTax}} |
| 83 | Verbleibende Vorauszahlung | | {{money .Payable}} |
`

const assetRegisterTmpl = `# Anlagenspiegel {{.Year}}

| Konto | Bezeichnung | Anlagen | Anschaffungskosten | AfA {{.Year}} | AfA kumuliert | Restbuchwert |
|---|---|--:|--:|--:|--:|--:|
{{range .Lines}}| {{.GLAccountID}} | {{.AccountName}} | {{.Assets}} | {{money .Cost}} | {{money .CurrentAfA}} | {{money .AccumulatedAfA}} | {{money .BookValue}} |
{{end}}| | **Summe** | {{.Total.Assets}} | {{money .Total.Cost}} | {{money .Total.CurrentAfA}} | {{money .Total.AccumulatedAfA}} | {{money .Total.BookValue}} |
{{if .Assets}}
## Anlagen

| Anlage | Bezeichnung | Konto | Anschaffung | Nutzungsdauer | AfA {{.Year}} | Restbuchwert |
|---|---|---|---|--:|--:|--:|
{{range .Assets}}| {{.Asset.ID}} | {{.Asset.Name}} | {{.Asset.GLAccountID}} | {{date .Asset.PurchaseDate}} | {{.Asset.UsefulLifeYears}} | {{money .Schedule.CurrentAfA}} | {{money .Schedule.BookValue}} |
{{end}}{{end}}`

const invoicesTmpl = `# Rechnungen

| Nummer | Datum | Fällig | Brutto | Bezahlt | Offen | Status | Tage |
|---|---|---|--:|--:|--:|---|--:|
{{range .}}| {{.Invoice.Number}} | {{date .Invoice.Date}} | {{date .Invoice.DueDate}} | {{money .Invoice.GrossAmount}} | {{money .Paid}} | {{money .Remaining}} | {{status .Status}} | {{.DaysOverdue}} |
{{end}}`

var templates = template.Must(template.New("report").Funcs(funcs).Funcs(template.FuncMap{
	"role":   roleLabel,
	"status": statusLabel,
}).Parse(`{{define "trial"}}` + trialBalanceTmpl + `{{end}}` +
	`{{define "contacts"}}` + contactsTmpl + `{{end}}` +
	`{{define "pl"}}` + profitAndLossTmpl + `{{end}}` +
	`{{define "bs"}}` + balanceSheetTmpl + `{{end}}` +
	`{{define "vat"}}` + vatTmpl + `{{end}}` +
	`{{define "assets"}}` + assetRegisterTmpl + `{{end}}` +
	`{{define "invoices"}}` + invoicesTmpl + `{{end}}`))

func render(w io.Writer, name string, data any) error {
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}

// RenderTrialBalance writes tb as a markdown table.
func RenderTrialBalance(w io.Writer, tb TrialBalance) error { return render(w, "trial", tb) }

// RenderContacts writes subledger balances as a markdown table.
func RenderContacts(w io.Writer, rows []ledger.ContactResult) error {
	return render(w, "contacts", rows)
}

// RenderProfitAndLoss writes the GuV.
func RenderProfitAndLoss(w io.Writer, p statement.ProfitAndLoss) error { return render(w, "pl", p) }

// RenderBalanceSheet writes the Bilanz. A non-zero difference is shown
// below the Passiva.
func RenderBalanceSheet(w io.Writer, b statement.BalanceSheet) error { return render(w, "bs", b) }

// RenderVAT writes the UStVA figures.
func RenderVAT(w io.Writer, v statement.VATReturn) error { return render(w, "vat", v) }

// RenderAssetRegister writes the Anlagenspiegel.
func RenderAssetRegister(w io.Writer, reg AssetRegister) error { return render(w, "assets", reg) }

// RenderInvoices writes reconciled invoices.
func RenderInvoices(w io.Writer, results []invoice.Result) error {
	return render(w, "invoices", results)
}

func roleLabel(r ledger.Role) string {
	if r == ledger.RoleCreditor {
		return "Kreditor"
	}
	return "Debitor"
}

var statusLabels = map[invoice.Status]string{
	invoice.StatusOpen:       "offen",
	invoice.StatusPartial:    "teilbezahlt",
	invoice.StatusPaid:       "bezahlt",
	invoice.StatusOverdue:    "überfällig",
	invoice.StatusCreditNote: "Gutschrift",
}

func statusLabel(s invoice.Status) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}
