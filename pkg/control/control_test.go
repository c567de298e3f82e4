package control_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgxm/pgxm/pkg/control"
)

func TestParse(t *testing.T) {
	t.Parallel()

	input := `# pg_vector extension
comment = 'vector data type and ivfflat access method'
default_version = '0.5.1'
module_pathname = '$libdir/vector'
relocatable = false
trusted = true

this line has no equals sign
`
	cf, err := control.Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "0.5.1", cf.DefaultVersion)
	assert.Equal(t, "$libdir/vector", cf.ModulePathname)
	assert.Equal(t, "vector data type and ivfflat access method", cf.Comment)
	assert.Equal(t, "false", cf.Relocatable)
	assert.Equal(t, map[string]string{"trusted": "true"}, cf.Extra)
}

func TestParseUnquotedValues(t *testing.T) {
	t.Parallel()

	cf, err := control.Parse(strings.NewReader("default_version = 2.1.0\n"))
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", cf.DefaultVersion)
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	cf, err := control.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cf.DefaultVersion)
	assert.Empty(t, cf.Extra)
}

func TestModuleName(t *testing.T) {
	t.Parallel()

	cf, err := control.Parse(strings.NewReader("module_pathname = '$libdir/pg_cron'\n"))
	require.NoError(t, err)
	assert.Equal(t, "pg_cron", cf.ModuleName())

	empty, err := control.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "", empty.ModuleName())
}

func TestCommentName(t *testing.T) {
	t.Parallel()

	cf, err := control.Parse(strings.NewReader("comment = 'pgcrypto cryptographic functions'\n"))
	require.NoError(t, err)
	assert.Equal(t, "pgcrypto", cf.CommentName())
}

func TestFindPrefersExtensionDir(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "extension"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "extension", "foo.control"), []byte("default_version = '1.0'\n"), 0o644))

	path, err := control.Find(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(src, "extension", "foo.control"), path)
}

func TestFindLastOneWins(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "extension"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "extension", "first.control"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "second.control"), []byte(""), 0o644))

	path, err := control.Find(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(src, "second.control"), path)
}

func TestFindMissing(t *testing.T) {
	t.Parallel()

	_, err := control.Find(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
