package docker

import (
	"sort"
	"strings"
)

// ParseDiff parses `docker diff` output, one "K /path" entry per line.
// Malformed lines are skipped.
func ParseDiff(out string) []Change {
	var changes []Change
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 3 || line[1] != ' ' {
			continue
		}
		kind := ChangeKind(line[0])
		if kind != Added && kind != Modified && kind != Deleted {
			continue
		}
		changes = append(changes, Change{Kind: kind, Path: strings.TrimSpace(line[2:])})
	}
	return changes
}

// ChangedPaths reduces a diff to the sorted leaf paths worth copying out.
// Deletions are dropped (nothing to copy for a deleted path) and so are
// directories that merely contain other changed entries.
func ChangedPaths(changes []Change) []string {
	var paths []string
	for _, change := range changes {
		if change.Kind == Deleted {
			continue
		}
		paths = append(paths, change.Path)
	}
	sort.Strings(paths)

	var leaves []string
	for _, p := range paths {
		// Children are not necessarily adjacent in sort order ("." sorts
		// before "/"), so probe for the first path at or after p+"/".
		idx := sort.SearchStrings(paths, p+"/")
		if idx < len(paths) && strings.HasPrefix(paths[idx], p+"/") {
			continue // directory containing another changed entry
		}
		leaves = append(leaves, p)
	}
	return leaves
}
