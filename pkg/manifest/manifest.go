// Package manifest models the package metadata document embedded in every
// build archive.
package manifest

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/pgxm/pgxm/pkg/config"
)

// Filename is the fixed top-level archive entry name.
const Filename = "manifest.json"

var ErrNotFound = errors.New("manifest not found in archive")

type Manifest struct {
	Name             string   `json:"name"`
	Version          string   `json:"version"`
	PgVersion        string   `json:"pg_version"`
	Description      string   `json:"description"`
	Dependencies     []string `json:"dependencies"`
	PreloadLibraries []string `json:"preload_libraries"`
}

func FromConfig(cfg *config.BuildConfig) Manifest {
	m := Manifest{
		Name:             cfg.Name,
		Version:          cfg.Version,
		PgVersion:        cfg.PgVersion,
		Description:      cfg.Description,
		Dependencies:     cfg.Dependencies,
		PreloadLibraries: cfg.PreloadLibraries,
	}
	// Empty lists marshal as [], not null.
	if m.Dependencies == nil {
		m.Dependencies = []string{}
	}
	if m.PreloadLibraries == nil {
		m.PreloadLibraries = []string{}
	}
	return m
}

// WriteTemp serializes the manifest into dir and returns the file path. The
// manifest only ever lives in a temporary location before packaging.
func (m Manifest) WriteTemp(dir string) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, Filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	log.Debug().Str("path", path).Msg("Created manifest")
	return path, nil
}

// FromArchive extracts and decodes the manifest entry of a built package.
func FromArchive(archivePath string) (*Manifest, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", archivePath, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading archive %s: %w", archivePath, err)
		}
		if hdr.Name != Filename {
			continue
		}
		var m Manifest
		if err := json.NewDecoder(tr).Decode(&m); err != nil {
			return nil, fmt.Errorf("decoding manifest: %w", err)
		}
		return &m, nil
	}
	return nil, ErrNotFound
}
