package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/hauptbuch/internal/auditlog"
)

func book(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runHauptbuch(t, append([]string{"book", "-C", dir}, args...)...)
	require.NoError(t, err, out)
	return lastLine(out)
}

// lastLine returns the final stdout line; log output comes first on
// stderr.
func lastLine(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func TestBook_AssignsSequentialIDs(t *testing.T) {
	dir := initBooks(t)

	first := book(t, dir, "--date", "2025-01-02", "--debit", "1200", "--credit", "0800",
		"--amount", "25000", "-m", "Stammkapital", "--kind", "opening")
	second := book(t, dir, "--date", "2025-01-05", "--debit", "4210", "--credit", "1200",
		"--amount", "800,00", "-m", "Miete Januar")

	assert.Equal(t, "B-2025-01-001", first)
	assert.Equal(t, "B-2025-01-002", second)

	data, err := os.ReadFile(filepath.Join(dir, "journal", "2025", "01", "journal.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "B-2025-01-002/02")

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	tx := auditlog.ForTransaction(entries, second)
	require.Len(t, tx, 1)
	assert.Equal(t, auditlog.ActionPost, tx[0].Action)
}

func TestBook_UnknownAccount(t *testing.T) {
	dir := initBooks(t)
	out, err := runHauptbuch(t, "book", "-C", dir, "--date", "2025-01-05", "--debit", "9999",
		"--credit", "1200", "--amount", "10", "-m", "x")
	require.Error(t, err)
	assert.Contains(t, out, "9999")

	_, statErr := os.Stat(filepath.Join(dir, "journal", "2025"))
	assert.True(t, os.IsNotExist(statErr), "nothing may be written")
}

func TestBook_RejectsNonPositiveAmount(t *testing.T) {
	dir := initBooks(t)
	_, err := runHauptbuch(t, "book", "-C", dir, "--date", "2025-01-05", "--debit", "4210",
		"--credit", "1200", "--amount", "-5", "-m", "x")
	require.Error(t, err)
}

func TestStorno(t *testing.T) {
	dir := initBooks(t)
	orig := book(t, dir, "--date", "2025-01-05", "--debit", "4210", "--credit", "1200",
		"--amount", "800", "-m", "Miete Januar")

	out, err := runHauptbuch(t, "storno", orig, "-C", dir, "--date", "2025-01-20", "--reason", "duplicate")
	require.NoError(t, err, out)
	assert.Equal(t, "S-2025-01-001", lastLine(out))

	out, err = runHauptbuch(t, "balance", "4210", "-C", dir, "--as-of", "2025-01-31")
	require.NoError(t, err, out)
	assert.Contains(t, out, "4210 Miete: 0,00 €")

	out, err = runHauptbuch(t, "storno", orig, "-C", dir, "--date", "2025-01-21")
	require.Error(t, err)
	assert.Contains(t, out, "already reversed")

	_, err = runHauptbuch(t, "storno", "B-2025-01-099", "-C", dir)
	require.Error(t, err)
}

func TestStorno_UnknownReason(t *testing.T) {
	dir := initBooks(t)
	orig := book(t, dir, "--date", "2025-01-05", "--debit", "4210", "--credit", "1200",
		"--amount", "800", "-m", "Miete Januar")
	_, err := runHauptbuch(t, "storno", orig, "-C", dir, "--reason", "laune")
	require.Error(t, err)
}

func TestBook_AutoCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	out, err := runHauptbuch(t, "init", dir, "--name", "Muster GmbH", "--legal-form", "gmbh")
	require.NoError(t, err, out)

	txID := book(t, dir, "--date", "2025-01-05", "--debit", "4210", "--credit", "1200",
		"--amount", "800", "-m", "Miete Januar")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	gitOut, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(gitOut), "post: "+txID)
}
