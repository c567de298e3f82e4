// Package packager assembles the collected files and the manifest into one
// gzip-compressed tar archive, deterministically.
package packager

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/pgxm/pgxm/pkg/collector"
	"github.com/pgxm/pgxm/pkg/config"
	"github.com/pgxm/pgxm/pkg/manifest"
)

// Filename is a pure function of the identifying triple, so rebuilding the
// same extension always lands on the same archive name.
func Filename(name, version, pgVersion string) string {
	return fmt.Sprintf("%s-%s-pg%s.tar.gz", name, version, pgVersion)
}

// Package writes the archive into the configured output directory and
// returns its path plus any non-fatal warnings. The manifest goes in last
// under its fixed top-level name; that name is reserved, a collected file
// claiming it is skipped with a warning. A file that disappeared from the host
// since collection is skipped, not fatal; archive-path collisions after the
// first occurrence are dropped (first writer wins).
func Package(cfg *config.BuildConfig, files []collector.File, manifestPath string) (string, []string, error) {
	archivePath := filepath.Join(cfg.OutputDir, Filename(cfg.Name, cfg.Version, cfg.PgVersion))
	log.Info().Str("path", archivePath).Msg("Creating final package")

	entries := append(files, collector.File{HostPath: manifestPath, ArchivePath: manifest.Filename})

	pending, err := renameio.NewPendingFile(archivePath)
	if err != nil {
		return "", nil, fmt.Errorf("creating package archive: %w", err)
	}
	defer pending.Cleanup()

	gz := gzip.NewWriter(pending)
	tw := tar.NewWriter(gz)

	bar := progressbar.Default(int64(len(entries)), "Packaging")
	var warnings []string
	added := map[string]bool{}

	for _, entry := range entries {
		_ = bar.Add(1)

		// Normalize separators so archives are portable across hosts.
		name := strings.TrimPrefix(strings.ReplaceAll(entry.ArchivePath, "\\", "/"), "/")
		if name == "" {
			continue
		}
		if added[name] {
			log.Debug().Str("path", name).Msg("Skipping duplicate file in package")
			continue
		}
		// The top-level manifest name is reserved for the generated manifest.
		if name == manifest.Filename && entry.HostPath != manifestPath {
			log.Warn().Str("file", entry.HostPath).Msg("Collected file claims the manifest name, skipping")
			warnings = append(warnings, "reserved archive path, skipped: "+entry.HostPath)
			continue
		}

		if err := addEntry(tw, entry.HostPath, name); err != nil {
			if os.IsNotExist(err) {
				log.Warn().Str("file", entry.HostPath).Msg("File not found, skipping in package")
				warnings = append(warnings, "file not found, skipped: "+entry.HostPath)
				continue
			}
			return "", nil, fmt.Errorf("adding %s to package: %w", name, err)
		}
		added[name] = true
		log.Debug().Str("path", name).Msg("Added to package")
	}

	if err := tw.Close(); err != nil {
		return "", nil, fmt.Errorf("closing package archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return "", nil, fmt.Errorf("closing package archive: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return "", nil, fmt.Errorf("writing package archive: %w", err)
	}

	log.Info().Str("path", archivePath).Msg("Packaged successfully")
	return archivePath, warnings, nil
}

func addEntry(tw *tar.Writer, hostPath, name string) error {
	info, err := os.Lstat(hostPath)
	if err != nil {
		return err
	}

	link := ""
	if info.Mode()&os.ModeSymlink != 0 {
		if link, err = os.Readlink(hostPath); err != nil {
			return err
		}
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(hostPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(tw, f)
	return err
}
