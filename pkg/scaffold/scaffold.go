// Package scaffold generates a starting Dockerfile and control file for a
// new extension source tree.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const dockerfileTemplate = `ARG PG_VERSION={{ .pg_version | default "15" }}
FROM postgres:${PG_VERSION}

ARG EXTENSION_NAME
ARG EXTENSION_VERSION
ARG PG_VERSION

RUN apt-get update \
    && apt-get install -y --no-install-recommends \
        build-essential \
        postgresql-server-dev-${PG_VERSION} \
    && rm -rf /var/lib/apt/lists/*

WORKDIR /build
COPY . /build
`

const controlTemplate = `# {{ .name }} extension
comment = '{{ .comment | default (printf "%s extension" .name) }}'
default_version = '{{ .version | default "0.0.1" }}'
module_pathname = '$libdir/{{ .name }}'
relocatable = true
`

// Options for Run. Name is required.
type Options struct {
	Dir       string
	Name      string
	Version   string
	PgVersion string
	Comment   string
}

// Run writes Dockerfile and <name>.control into the target directory.
// Existing files are never overwritten.
func Run(opts Options) error {
	if opts.Name == "" {
		return fmt.Errorf("extension name is required")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return err
	}

	args := map[string]interface{}{
		"name":       opts.Name,
		"version":    opts.Version,
		"pg_version": opts.PgVersion,
		"comment":    opts.Comment,
	}

	targets := map[string]string{
		filepath.Join(opts.Dir, "Dockerfile"):         dockerfileTemplate,
		filepath.Join(opts.Dir, opts.Name+".control"): controlTemplate,
	}
	for path := range targets {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("refusing to overwrite existing file: %s", path)
		}
	}
	for path, tpl := range targets {
		if err := templateToFile(tpl, path, args); err != nil {
			return err
		}
		log.Info().Str("file", path).Msg("Created")
	}
	return nil
}
