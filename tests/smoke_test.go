package tests_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruntwork-io/terratest/modules/files"
	"github.com/gruntwork-io/terratest/modules/logger"
	"github.com/gruntwork-io/terratest/modules/shell"
)

const binary = "../bin/pgxm"

func cmd(args ...string) shell.Command {
	defaultArgs := []string{}
	return shell.Command{
		Command: binary,
		Args:    append(defaultArgs, args...),
		Logger:  logger.Discard,
	}
}

func requireBinary(t *testing.T) {
	if !files.FileExists(binary) {
		t.Skipf("%s not built, run 'make build' first", binary)
	}
}

// Simplest possible test, just print version and exit
// Should print version to stdout
// Should not fail
func TestPrintVersion(t *testing.T) {
	requireBinary(t)
	t.Parallel()

	cmd := cmd("-V")

	out, err := shell.RunCommandAndGetOutputE(t, cmd)
	assert.NotNil(t, out) // should print version
	assert.Nil(t, err)
	code, err := shell.GetExitCodeForRunCommandError(err)
	assert.Nil(t, err)
	assert.Equal(t, code, 0)
}

func TestBuildFailsOnMissingPath(t *testing.T) {
	requireBinary(t)
	t.Parallel()

	cmd := cmd("build", "--no-color", "-p", "does-not-exist")

	out, err := shell.RunCommandAndGetOutputE(t, cmd)
	assert.NotNil(t, err)
	assert.Contains(t, out, "does not exist")

	code, err := shell.GetExitCodeForRunCommandError(err)
	assert.Nil(t, err)
	assert.NotEqual(t, code, 0)
}

func TestBuildFailsWithoutDockerfile(t *testing.T) {
	requireBinary(t)
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.control"),
		[]byte("default_version = '1.0'\n"), 0o644))

	cmd := cmd("build", "--no-color", "-p", dir)

	out, err := shell.RunCommandAndGetOutputE(t, cmd)
	assert.NotNil(t, err)
	assert.Contains(t, out, "no Dockerfile found")

	code, err := shell.GetExitCodeForRunCommandError(err)
	assert.Nil(t, err)
	assert.NotEqual(t, code, 0)
}

// init then build against the scaffolded tree should at least get past
// configuration and reach the engine.
func TestInitScaffold(t *testing.T) {
	requireBinary(t)
	t.Parallel()

	dir := t.TempDir()
	cmd := cmd("init", "--no-color", dir, "-n", "smoke")

	_, err := shell.RunCommandAndGetOutputE(t, cmd)
	assert.Nil(t, err)

	assert.True(t, files.FileExists(filepath.Join(dir, "Dockerfile")))
	assert.True(t, files.FileExists(filepath.Join(dir, "smoke.control")))
}

func TestInitRefusesOverwrite(t *testing.T) {
	requireBinary(t)
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0o644))

	cmd := cmd("init", "--no-color", dir, "-n", "smoke")

	out, err := shell.RunCommandAndGetOutputE(t, cmd)
	assert.NotNil(t, err)
	assert.Contains(t, out, "refusing to overwrite")
}

func TestVerifyFailsOnMissingArchive(t *testing.T) {
	requireBinary(t)
	t.Parallel()

	cmd := cmd("verify", "--no-color", "missing.tar.gz")

	_, err := shell.RunCommandAndGetOutputE(t, cmd)
	assert.NotNil(t, err)

	code, err := shell.GetExitCodeForRunCommandError(err)
	assert.Nil(t, err)
	assert.NotEqual(t, code, 0)
}
