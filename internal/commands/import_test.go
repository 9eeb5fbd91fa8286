package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/hauptbuch/internal/auditlog"
	"github.com/cleared-dev/hauptbuch/internal/importer"
)

func TestImport_MatchesInvoices(t *testing.T) {
	dir := initBooks(t)
	copyFixture(t, "invoices.csv", filepath.Join(dir, "invoices", "invoices.csv"))
	copyFixture(t, "sparkasse.csv", filepath.Join(dir, "import", "sparkasse.csv"))

	out, err := runHauptbuch(t, "import", "-C", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "sparkasse.csv (sparkasse): 3 matched, 3 unmatched")

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "sparkasse.csv"))
	require.NoError(t, err, "file should be moved to processed")
	_, err = os.Stat(filepath.Join(dir, "invoices", "settlements.csv"))
	require.NoError(t, err)

	out, err = runHauptbuch(t, "invoices", "-C", dir, "--as-of", "2025-02-28")
	require.NoError(t, err, out)
	assert.Contains(t, out, "| 2025-001 | 20.12.2024 | 19.01.2025 | 1.190,00 € | 1.190,00 € | 0,00 € | bezahlt | 0 |")
	assert.Contains(t, out, "| 2025-002 | 05.01.2025 | 04.02.2025 | 1.190,00 € | 500,00 € | 690,00 € | teilbezahlt | 24 |")
	assert.Contains(t, out, "| GS 2025-003 |")
	assert.Contains(t, out, "Gutschrift")

	out, err = runHauptbuch(t, "invoices", "-C", dir, "--as-of", "2025-02-28", "--open")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2025-002")
	assert.NotContains(t, out, "2025-001 |")

	// Payments are booked against the bank and receivable accounts.
	out, err = runHauptbuch(t, "balance", "1200", "-C", dir, "--as-of", "2025-01-31")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1.630,50 €")

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	assert.Equal(t, auditlog.ActionImport, entries[len(entries)-1].Action)

	out, err = runHauptbuch(t, "import", "-C", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Nothing to import")
}

func TestImport_SkipsAlreadyImportedRows(t *testing.T) {
	dir := initBooks(t)
	copyFixture(t, "invoices.csv", filepath.Join(dir, "invoices", "invoices.csv"))
	copyFixture(t, "sparkasse.csv", filepath.Join(dir, "import", "sparkasse.csv"))

	out, err := runHauptbuch(t, "import", "-C", dir)
	require.NoError(t, err, out)

	copyFixture(t, "sparkasse.csv", filepath.Join(dir, "import", "again.csv"))
	out, err = runHauptbuch(t, "import", "-C", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "again.csv (sparkasse): 0 matched, 3 unmatched")
}

func TestImport_DryRun(t *testing.T) {
	dir := initBooks(t)
	copyFixture(t, "invoices.csv", filepath.Join(dir, "invoices", "invoices.csv"))
	copyFixture(t, "sparkasse.csv", filepath.Join(dir, "import", "sparkasse.csv"))

	out, err := runHauptbuch(t, "import", "-C", dir, "--dry-run")
	require.NoError(t, err, out)
	assert.Contains(t, out, "3 matched")

	_, err = os.Stat(filepath.Join(dir, "import", "sparkasse.csv"))
	require.NoError(t, err, "dry run leaves the file in place")
	_, err = os.Stat(filepath.Join(dir, "invoices", "settlements.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestImport_UnknownFormat(t *testing.T) {
	dir := initBooks(t)
	_, err := runHauptbuch(t, "import", "-C", dir, "--format", "mt940")
	require.Error(t, err)
}

func TestImport_StornoOfPaymentReopensInvoice(t *testing.T) {
	dir := initBooks(t)
	copyFixture(t, "invoices.csv", filepath.Join(dir, "invoices", "invoices.csv"))
	copyFixture(t, "sparkasse.csv", filepath.Join(dir, "import", "sparkasse.csv"))
	out, err := runHauptbuch(t, "import", "-C", dir)
	require.NoError(t, err, out)

	out, err = runHauptbuch(t, "storno", "Z-2025-01-001", "-C", dir, "--date", "2025-01-25")
	require.NoError(t, err, out)

	out, err = runHauptbuch(t, "invoices", "-C", dir, "--as-of", "2025-02-28")
	require.NoError(t, err, out)
	assert.Contains(t, out, "| 2025-001 | 20.12.2024 | 19.01.2025 | 1.190,00 € | 0,00 € | 1.190,00 € | überfällig | 40 |")

	out, err = runHauptbuch(t, "balance", "1200", "-C", dir, "--as-of", "2025-01-31")
	require.NoError(t, err, out)
	assert.Contains(t, out, "440,50 €")

	// The reversed row stays imported.
	copyFixture(t, "sparkasse.csv", filepath.Join(dir, "import", "again.csv"))
	out, err = runHauptbuch(t, "import", "-C", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "again.csv (sparkasse): 0 matched, 3 unmatched")
}

func TestImport_KeepsPaymentsBookedBeforeFirstImport(t *testing.T) {
	dir := initBooks(t)
	copyFixture(t, "invoices.csv", filepath.Join(dir, "invoices", "invoices.csv"))
	book(t, dir, "--date", "2025-01-15", "--debit", "1200", "--credit", "1400",
		"--amount", "1190", "-m", "Zahlung 2025-001", "--invoice", "INV-1")

	export := "Buchungstag;Verwendungszweck;Betrag;Waehrung\n" +
		"22.01.2025;Rechnung 2025-002 Teilzahlung;500,00;EUR\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "jan.csv"), []byte(export), 0o644))
	out, err := runHauptbuch(t, "import", "-C", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "jan.csv (sparkasse): 1 matched, 0 unmatched")

	out, err = runHauptbuch(t, "invoices", "-C", dir, "--as-of", "2025-02-28")
	require.NoError(t, err, out)
	assert.Contains(t, out, "| 2025-001 | 20.12.2024 | 19.01.2025 | 1.190,00 € | 1.190,00 € | 0,00 € | bezahlt | 0 |")
	assert.Contains(t, out, "| 2025-002 | 05.01.2025 | 04.02.2025 | 1.190,00 € | 500,00 € | 690,00 € | teilbezahlt | 24 |")
}

func TestBook_PaymentRecordsSettlement(t *testing.T) {
	dir := initBooks(t)
	copyFixture(t, "invoices.csv", filepath.Join(dir, "invoices", "invoices.csv"))
	copyFixture(t, "sparkasse.csv", filepath.Join(dir, "import", "sparkasse.csv"))
	out, err := runHauptbuch(t, "import", "-C", dir)
	require.NoError(t, err, out)

	book(t, dir, "--date", "2025-02-03", "--debit", "1200", "--credit", "1400",
		"--amount", "690", "-m", "Restzahlung 2025-002", "--invoice", "INV-2", "--kind", "PAYMENT")

	out, err = runHauptbuch(t, "invoices", "-C", dir, "--as-of", "2025-02-28")
	require.NoError(t, err, out)
	assert.Contains(t, out, "| 2025-002 | 05.01.2025 | 04.02.2025 | 1.190,00 € | 1.190,00 € | 0,00 € | bezahlt | 0 |")

	out, err = runHauptbuch(t, "book", "-C", dir, "--debit", "1200", "--credit", "1400",
		"--amount", "1", "-m", "x", "--invoice", "INV-404", "--kind", "PAYMENT")
	require.Error(t, err)
	assert.Contains(t, out, "unknown invoice")
}

func TestImport_BookedPaymentWithoutSettlementIsNotPostedTwice(t *testing.T) {
	dir := initBooks(t)
	copyFixture(t, "invoices.csv", filepath.Join(dir, "invoices", "invoices.csv"))
	copyFixture(t, "sparkasse.csv", filepath.Join(dir, "import", "sparkasse.csv"))

	f, err := os.Open(filepath.Join(dir, "import", "sparkasse.csv"))
	require.NoError(t, err)
	rows, err := (&importer.SparkasseParser{}).Parse(f)
	f.Close()
	require.NoError(t, err)

	// a run that posted the payment but stopped before recording it
	book(t, dir, "--date", "2025-01-15", "--debit", "1200", "--credit", "1400",
		"--amount", "1190", "-m", "Zahlung 2025-001", "--invoice", "INV-1", "--ref", rows[2].Reference)

	out, err := runHauptbuch(t, "import", "-C", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "sparkasse.csv (sparkasse): 3 matched, 3 unmatched")
	assert.Contains(t, out, "payment already booked")

	out, err = runHauptbuch(t, "balance", "1200", "-C", dir, "--as-of", "2025-01-31")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1.630,50 €")

	out, err = runHauptbuch(t, "invoices", "-C", dir, "--as-of", "2025-02-28")
	require.NoError(t, err, out)
	assert.Contains(t, out, "| 2025-001 | 20.12.2024 | 19.01.2025 | 1.190,00 € | 1.190,00 € | 0,00 € | bezahlt | 0 |")
}
