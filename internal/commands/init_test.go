package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/hauptbuch/internal/accounts"
	"github.com/cleared-dev/hauptbuch/internal/auditlog"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "hauptbuch-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "hauptbuch")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/hauptbuch")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runHauptbuch(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// initBooks creates a GmbH data directory without git.
func initBooks(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runHauptbuch(t, "init", dir, "--name", "Muster GmbH", "--legal-form", "gmbh", "--no-git")
	require.NoError(t, err, out)
	return dir
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := initBooks(t)

	expectedDirs := []string{
		"accounts",
		"journal",
		"invoices",
		"assets",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := initBooks(t)

	data, err := os.ReadFile(filepath.Join(dir, "hauptbuch.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Muster GmbH")
	assert.Contains(t, contents, "legal_form: gmbh")
	assert.Contains(t, contents, "auto_commit: false")
}

func TestInit_Accounts(t *testing.T) {
	dir := initBooks(t)

	f, err := os.Open(filepath.Join(dir, "accounts", "chart-of-accounts.csv"))
	require.NoError(t, err)
	defer f.Close()

	accts, err := accounts.ReadAccounts(f)
	require.NoError(t, err)
	assert.Len(t, accts, len(accounts.DefaultChart("gmbh")))
}

func TestInit_DefaultLegalForm(t *testing.T) {
	dir := t.TempDir()
	out, err := runHauptbuch(t, "init", dir, "--name", "Einzelfirma", "--no-git")
	require.NoError(t, err, out)

	data, err := os.ReadFile(filepath.Join(dir, "hauptbuch.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "legal_form: einzelunternehmen")

	f, err := os.Open(filepath.Join(dir, "accounts", "chart-of-accounts.csv"))
	require.NoError(t, err)
	defer f.Close()
	accts, err := accounts.ReadAccounts(f)
	require.NoError(t, err)
	assert.Len(t, accts, len(accounts.DefaultChart("einzelunternehmen")))
}

func TestInit_GitRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	out, err := runHauptbuch(t, "init", dir, "--name", "Muster GmbH")
	require.NoError(t, err, out)

	// .git directory should exist.
	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	// git log should have an init commit.
	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	gitOut, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(gitOut), "init:")

	// Verify author.
	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	gitOut, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(gitOut), "Hauptbuch <hauptbuch@localhost>")
}

func TestInit_AuditLog(t *testing.T) {
	dir := initBooks(t)

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, auditlog.ActionInit, entries[0].Action)
	assert.Equal(t, "Muster GmbH", entries[0].Details)
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runHauptbuch(t, "init", t.TempDir())
	require.Error(t, err, "init without --name should fail")
}

func TestInit_RefusesExistingDirectory(t *testing.T) {
	dir := initBooks(t)
	out, err := runHauptbuch(t, "init", dir, "--name", "Andere GmbH", "--no-git")
	require.Error(t, err)
	assert.Contains(t, out, "already contains")
}

func TestInit_InvalidFiscalYearStart(t *testing.T) {
	_, err := runHauptbuch(t, "init", t.TempDir(), "--name", "X", "--fiscal-year-start", "07-15", "--no-git")
	require.Error(t, err)
}

func TestCommands_RequireDataDirectory(t *testing.T) {
	out, err := runHauptbuch(t, "susa", "-C", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "not a hauptbuch directory")
}
