package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespend-dev/safespend/internal/categories"
	"github.com/safespend-dev/safespend/internal/ledger"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "safespend-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "safespend")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/safespend")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runSafespend(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	// Never reach a real model from tests.
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "GEMINI_API_KEY=") {
			cmd.Env = append(cmd.Env, kv)
		}
	}
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// initWorkspace creates a workspace with a $10000 opening balance.
func initWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runSafespend(t, "init", dir, "--owner", "Asha", "--symbol", "$", "--opening-balance", "10000")
	require.NoError(t, err, out)
	return dir
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runSafespend(t, "init", dir, "--owner", "Asha")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized safespend workspace for Asha")

	info, err := os.Stat(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	for _, name := range []string{ledger.TransactionsFile, ledger.PlansFile, ledger.DebtsFile, categories.FileName, "safespend.yaml"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "%s should exist", name)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runSafespend(t, "init", dir, "--owner", "Asha", "--currency", "USD", "--symbol", "$", "--opening-balance", "2500.50")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "safespend.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "owner: Asha")
	assert.Contains(t, contents, "code: USD")
	assert.Contains(t, contents, "opening_balance: \"2500.5\"")
	assert.Contains(t, contents, "api_key_env: GEMINI_API_KEY")
}

func TestInit_Categories(t *testing.T) {
	dir := t.TempDir()
	_, err := runSafespend(t, "init", dir, "--owner", "Asha")
	require.NoError(t, err)

	cats, err := categories.Load(dir)
	require.NoError(t, err)
	assert.Len(t, cats.All(), len(categories.Defaults()))
	assert.True(t, cats.Exists("Food"))
}

func TestInit_EmptyLedgers(t *testing.T) {
	dir := t.TempDir()
	_, err := runSafespend(t, "init", dir, "--owner", "Asha")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ledger.TransactionsFile))
	require.NoError(t, err)
	assert.Equal(t, ledger.TransactionsHeader+"\n", string(data))
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := runSafespend(t, "init", dir, "--owner", "Asha")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ".env")
}

func TestInit_RequiresOwner(t *testing.T) {
	dir := t.TempDir()
	_, err := runSafespend(t, "init", dir)
	require.Error(t, err, "init without --owner should fail")
}

func TestInit_RefusesExistingWorkspace(t *testing.T) {
	dir := initWorkspace(t)
	out, err := runSafespend(t, "init", dir, "--owner", "Someone Else")
	require.Error(t, err)
	assert.Contains(t, out, "already exists")
}

func TestInit_RejectsBadOpeningBalance(t *testing.T) {
	dir := t.TempDir()
	out, err := runSafespend(t, "init", dir, "--owner", "Asha", "--opening-balance", "lots")
	require.Error(t, err)
	assert.Contains(t, out, "not a number")
}
