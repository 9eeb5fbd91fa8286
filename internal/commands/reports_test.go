package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedBooks posts capital, one sale with VAT and a rent payment in
// January 2025.
func seedBooks(t *testing.T) string {
	t.Helper()
	dir := initBooks(t)
	book(t, dir, "--date", "2025-01-02", "--debit", "1200", "--credit", "0800",
		"--amount", "25000", "-m", "Stammkapital", "--kind", "OPENING")
	book(t, dir, "--date", "2025-01-10", "--debit", "1400", "--credit", "8400",
		"--amount", "1000", "-m", "AR 2025-001 netto", "--contact", "K-100")
	book(t, dir, "--date", "2025-01-10", "--debit", "1400", "--credit", "1776",
		"--amount", "190", "-m", "AR 2025-001 USt", "--contact", "K-100")
	book(t, dir, "--date", "2025-01-15", "--debit", "4210", "--credit", "1200",
		"--amount", "800", "-m", "Miete Januar")
	return dir
}

func TestBalance(t *testing.T) {
	dir := seedBooks(t)

	out, err := runHauptbuch(t, "balance", "1200", "-C", dir, "--as-of", "2025-01-31")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1200 Bank: 24.200,00 €")

	out, err = runHauptbuch(t, "balance", "1200", "-C", dir, "--as-of", "2025-01-10")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1200 Bank: 25.000,00 €")

	_, err = runHauptbuch(t, "balance", "7777", "-C", dir)
	require.Error(t, err)
}

func TestSusa(t *testing.T) {
	dir := seedBooks(t)
	out, err := runHauptbuch(t, "susa", "-C", dir, "--as-of", "2025-01-31")
	require.NoError(t, err, out)

	assert.Contains(t, out, "# Summen- und Saldenliste 2025")
	assert.Contains(t, out, "| 1200 | Bank | 25.000,00 € | 0,00 € | 800,00 € | 0,00 € | 800,00 € | 24.200,00 € |")
	assert.Contains(t, out, "| | **Summe** | | 1.990,00 € | 1.990,00 € | 1.990,00 € | 1.990,00 € | |")
}

func TestContact(t *testing.T) {
	dir := seedBooks(t)
	out, err := runHauptbuch(t, "contact", "K-100", "-C", dir, "--as-of", "2025-01-31")
	require.NoError(t, err, out)
	assert.Contains(t, out, "| K-100 | Debitor | 0,00 € | 1.190,00 € | 0,00 € | 1.190,00 € |")

	out, err = runHauptbuch(t, "contact", "-C", dir, "--as-of", "2025-01-31")
	require.NoError(t, err, out)
	assert.Contains(t, out, "K-100")
}

func TestGuvAndBilanz(t *testing.T) {
	dir := seedBooks(t)

	out, err := runHauptbuch(t, "guv", "-C", dir, "--as-of", "2025-01-31")
	require.NoError(t, err, out)
	assert.Contains(t, out, "| GUV_1 | Umsatzerlöse | 1.000,00 € |")
	assert.Contains(t, out, "| | **Jahresergebnis** | 200,00 € |")

	out, err = runHauptbuch(t, "bilanz", "-C", dir, "--as-of", "2025-01-31")
	require.NoError(t, err, out)
	assert.Contains(t, out, "| | **Summe Aktiva** | 25.390,00 € |")
	assert.Contains(t, out, "| | **Summe Passiva** | 25.390,00 € |")
	assert.NotContains(t, out, "Differenz")
}

func TestUstva(t *testing.T) {
	dir := seedBooks(t)

	out, err := runHauptbuch(t, "ustva", "-C", dir, "--month", "2025-01")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Zeitraum: 01.01.2025 bis 31.01.2025")
	assert.Contains(t, out, "| 81 | Umsätze zum Regelsteuersatz | 1.000,00 € | 190,00 € |")
	assert.Contains(t, out, "| 83 | Verbleibende Vorauszahlung | | 190,00 € |")

	out, err = runHauptbuch(t, "ustva", "-C", dir, "--from", "2025-02-01", "--to", "2025-02-28")
	require.NoError(t, err, out)
	assert.Contains(t, out, "| 81 | Umsätze zum Regelsteuersatz | 0,00 € | 0,00 € |")

	_, err = runHauptbuch(t, "ustva", "-C", dir, "--from", "2025-02-01")
	require.Error(t, err, "--from needs --to")
}
