// Package collector discovers what the build produced inside the container
// and pulls it out to the host. Change discovery is a filesystem diff against
// the image's base layer, so only files the install step actually touched
// end up in the package.
package collector

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pgxm/pgxm/pkg/docker"
)

// File pairs a host-local temporary path with the path the file will get
// inside the archive.
type File struct {
	HostPath    string
	ArchivePath string
}

// Result is the collected file list plus non-fatal degradations. Warnings
// are values so callers and tests can assert on them.
type Result struct {
	Files    []File
	Warnings []string
}

// Candidate locations and basenames for license discovery. Failures here
// never abort a build; a missing license must not block packaging.
var (
	licenseDirs     = []string{"/usr/share/doc", "/usr/share/licenses", "/usr/local/share/doc"}
	licensePatterns = []string{"LICENSE*", "COPYING*", "COPYRIGHT*", "NOTICE*"}
)

// Collect gathers changed files and licenses from the running container into
// destDir. Order is fixed: built files first, then licenses; the packager
// appends the manifest last.
func Collect(ctx context.Context, engine docker.Engine, containerID, destDir string) (*Result, error) {
	result := &Result{}

	log.Info().Msg("Discovering changed files")
	changes, err := engine.Diff(ctx, containerID)
	if err != nil {
		return nil, err
	}

	paths := docker.ChangedPaths(changes)
	if len(paths) == 0 {
		log.Warn().Msg("No changed files detected, the package might be empty")
		result.Warnings = append(result.Warnings, "no changed files detected by filesystem diff")
	}

	for _, containerPath := range paths {
		hostPath := filepath.Join(destDir, filepath.FromSlash(containerPath))
		if err := engine.CopyFrom(ctx, containerID, containerPath, hostPath); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, File{
			HostPath:    hostPath,
			ArchivePath: strings.TrimPrefix(containerPath, "/"),
		})
	}
	log.Info().Int("files", len(result.Files)).Msg("Copied changed files")

	collectLicenses(ctx, engine, containerID, destDir, result)

	return result, nil
}

// collectLicenses normalizes every discovered license under licenses/<base>,
// regardless of where the base image stored it.
func collectLicenses(ctx context.Context, engine docker.Engine, containerID, destDir string, result *Result) {
	log.Info().Msg("Searching for license files")

	licensePaths, err := findLicenses(ctx, engine, containerID)
	if err != nil {
		log.Warn().Err(err).Msg("Error handling license files. Continuing build.")
		result.Warnings = append(result.Warnings, "license scan failed: "+err.Error())
		return
	}
	if len(licensePaths) == 0 {
		log.Info().Msg("No license files found")
		return
	}

	seen := map[string]bool{}
	for _, containerPath := range licensePaths {
		base := path.Base(containerPath)
		if seen[base] {
			continue
		}
		hostPath := filepath.Join(destDir, "licenses", base)
		if err := engine.CopyFrom(ctx, containerID, containerPath, hostPath); err != nil {
			log.Warn().Err(err).Str("file", containerPath).Msg("Failed to copy license. Continuing build.")
			result.Warnings = append(result.Warnings, "failed to copy license "+containerPath)
			continue
		}
		seen[base] = true
		result.Files = append(result.Files, File{
			HostPath:    hostPath,
			ArchivePath: "licenses/" + base,
		})
	}
}

func findLicenses(ctx context.Context, engine docker.Engine, containerID string) ([]string, error) {
	var conditions []string
	for _, p := range licensePatterns {
		conditions = append(conditions, "-iname '"+p+"'")
	}
	script := "find " + strings.Join(licenseDirs, " ") +
		" -maxdepth 3 -type f \\( " + strings.Join(conditions, " -o ") + " \\) 2>/dev/null"

	res, err := engine.Exec(ctx, containerID, []string{"sh", "-c", script}, docker.ExecOptions{})
	if err != nil {
		return nil, err
	}
	// find exits non-zero when some of the candidate dirs are missing,
	// whatever it did print is still usable.

	var paths []string
	for _, line := range strings.Split(res.Output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}
