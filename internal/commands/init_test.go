package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settleup-dev/settleup/internal/config"
	"github.com/settleup-dev/settleup/internal/feed"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "settleup-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "settleup")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/settleup")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runSettleup(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestInit_WritesConfigAndTemplate(t *testing.T) {
	dir := t.TempDir()
	out, err := runSettleup(t, nil, "init", "lisbon", "--dir", dir, "--member", "Anna", "--member", "Bo,Cleo")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Expense template 'lisbon.csv' created")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "lisbon", cfg.Group.Name)
	assert.Equal(t, []string{"Anna", "Bo", "Cleo"}, cfg.Group.Members)
	assert.Equal(t, "DKK", cfg.Currency.Reporting)

	f, err := os.Open(filepath.Join(dir, "lisbon.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := feed.ReadCSV(f)
	require.NoError(t, err)
	require.Len(t, rows, 10)
	assert.Equal(t, "Anna, Bo, Cleo", rows[9].SharedWith)
}

func TestInit_Options(t *testing.T) {
	dir := t.TempDir()
	out, err := runSettleup(t, nil, "init", "flat", "--dir", dir, "-m", "Anna", "--currency", "eur", "--rows", "3")
	require.NoError(t, err, out)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Currency.Reporting)

	data, err := os.ReadFile(filepath.Join(dir, "flat.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Paying person,Description,Amount,Currency,Shared with,Anna's share\n,,,,Anna,\n,,,,Anna,\n,,,,Anna,\n", string(data))
}

func TestInit_RequiresMember(t *testing.T) {
	dir := t.TempDir()
	_, err := runSettleup(t, nil, "init", "trip", "--dir", dir)
	require.Error(t, err, "init without --member should fail")

	_, err = runSettleup(t, nil, "init", "trip", "--dir", dir, "--member", " , ")
	require.Error(t, err, "init with only blank members should fail")
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, err := runSettleup(t, nil, "init", "trip", "--dir", dir, "--member", "Anna")
	require.NoError(t, err)

	out, err := runSettleup(t, nil, "init", "trip", "--dir", dir, "--member", "Bo")
	require.Error(t, err)
	assert.Contains(t, out, "already exists")

	out, err = runSettleup(t, nil, "init", "trip", "--dir", dir, "--member", "Bo", "--force")
	require.NoError(t, err, out)
	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, []string{"Bo"}, cfg.Group.Members)
}
