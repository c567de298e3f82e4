package docker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pgxm/pgxm/pkg/docker"
)

func TestParseDiff(t *testing.T) {
	t.Parallel()

	out := `A /usr/share/postgresql/15/extension/vector.control
C /usr/lib/postgresql/15/lib
A /usr/lib/postgresql/15/lib/vector.so
D /tmp/build.log

garbage line
`
	changes := docker.ParseDiff(out)

	assert.Equal(t, []docker.Change{
		{Kind: docker.Added, Path: "/usr/share/postgresql/15/extension/vector.control"},
		{Kind: docker.Modified, Path: "/usr/lib/postgresql/15/lib"},
		{Kind: docker.Added, Path: "/usr/lib/postgresql/15/lib/vector.so"},
		{Kind: docker.Deleted, Path: "/tmp/build.log"},
	}, changes)
}

func TestParseDiffEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docker.ParseDiff(""))
	assert.Empty(t, docker.ParseDiff("\n\n"))
}

func TestChangedPathsDropsDeletions(t *testing.T) {
	t.Parallel()

	changes := []docker.Change{
		{Kind: docker.Added, Path: "/a/file"},
		{Kind: docker.Deleted, Path: "/a/gone"},
	}
	assert.Equal(t, []string{"/a/file"}, docker.ChangedPaths(changes))
}

func TestChangedPathsPrunesParentDirs(t *testing.T) {
	t.Parallel()

	changes := []docker.Change{
		{Kind: docker.Modified, Path: "/usr"},
		{Kind: docker.Modified, Path: "/usr/lib"},
		{Kind: docker.Added, Path: "/usr/lib/vector.so"},
		{Kind: docker.Added, Path: "/usr/share/doc/README"},
	}
	assert.Equal(t, []string{
		"/usr/lib/vector.so",
		"/usr/share/doc/README",
	}, docker.ChangedPaths(changes))
}

func TestChangedPathsPrunesParentWithInterveningSibling(t *testing.T) {
	t.Parallel()

	// "/a.txt" sorts between "/a" and "/a/b", yet "/a" is still a parent
	// directory and must be pruned
	changes := []docker.Change{
		{Kind: docker.Modified, Path: "/a"},
		{Kind: docker.Added, Path: "/a.txt"},
		{Kind: docker.Added, Path: "/a/b"},
	}
	assert.Equal(t, []string{"/a.txt", "/a/b"}, docker.ChangedPaths(changes))
}

func TestChangedPathsKeepsSiblingsWithCommonPrefix(t *testing.T) {
	t.Parallel()

	// /a/b is not a parent of /a/bc, both must survive
	changes := []docker.Change{
		{Kind: docker.Added, Path: "/a/b"},
		{Kind: docker.Added, Path: "/a/bc"},
	}
	assert.Equal(t, []string{"/a/b", "/a/bc"}, docker.ChangedPaths(changes))
}
