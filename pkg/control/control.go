// Package control reads PostgreSQL extension control files. A control file
// is line oriented, `key = value` or `key = 'value'`, with # comments. The
// known keys get typed fields; everything else lands in Extra so newer
// control keys survive a round trip through older pgxm versions.
package control

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const fileSuffix = ".control"

type File struct {
	Path string

	DefaultVersion string
	ModulePathname string
	Comment        string
	Relocatable    string

	// Unrecognized keys, verbatim.
	Extra map[string]string
}

// Find locates the extension's control file, scanning <src>/extension first
// and then <src> itself. If multiple control files exist the last one found
// wins and a warning is logged.
func Find(sourcePath string) (string, error) {
	var found string
	for _, dir := range []string{filepath.Join(sourcePath, "extension"), sourcePath} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
				continue
			}
			candidate := filepath.Join(dir, entry.Name())
			if found != "" {
				log.Warn().Str("file", candidate).Msg("Multiple control files found, using")
			}
			found = candidate
		}
	}
	if found == "" {
		return "", fmt.Errorf("control file not found in %s or %s", sourcePath, filepath.Join(sourcePath, "extension"))
	}
	log.Debug().Str("file", found).Msg("Found control file")
	return found, nil
}

// Load reads and parses the control file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cf, err := Parse(f)
	if err != nil {
		return nil, err
	}
	cf.Path = path
	return cf, nil
}

// Parse reads control file lines from r. Blank lines, comments and lines
// without '=' are skipped silently.
func Parse(r io.Reader) (*File, error) {
	cf := &File{Extra: map[string]string{}}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), "'\"")

		switch key {
		case "default_version":
			cf.DefaultVersion = value
		case "module_pathname":
			cf.ModulePathname = value
		case "comment":
			cf.Comment = value
		case "relocatable":
			cf.Relocatable = value
		default:
			cf.Extra[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	log.Debug().Interface("control", cf).Msg("Parsed control file")
	return cf, nil
}

// ModuleName returns the last path segment of module_pathname, or "".
func (f *File) ModuleName() string {
	if f.ModulePathname == "" {
		return ""
	}
	parts := strings.Split(f.ModulePathname, "/")
	return parts[len(parts)-1]
}

// CommentName returns the first whitespace-delimited token of the comment, or "".
func (f *File) CommentName() string {
	fields := strings.Fields(f.Comment)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
