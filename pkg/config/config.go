// Package config resolves user options and on-disk extension metadata into
// an immutable build plan.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pgxm/pgxm/pkg/control"
)

var ErrConfig = errors.New("configuration error")

const (
	DefaultPgVersion     = "15"
	DefaultOutputDirName = ".pgxm"

	fallbackName    = "unknown-extension"
	fallbackVersion = "0.0.1"

	// Executed when neither -i nor a Makefile is present. Succeeds and
	// changes nothing, so the diff just comes out empty.
	noopInstallCommand = "echo 'No standard install command found. Please specify with -i.'"
)

// BuildConfig is the fully resolved plan for one build. Immutable once
// Resolve returns it.
type BuildConfig struct {
	SourcePath       string
	OutputDir        string
	Name             string
	Version          string
	PgVersion        string
	Platform         string
	Dockerfile       string
	InstallCommand   string
	Dependencies     []string
	PreloadLibraries []string
	Test             bool
	Description      string
}

// Resolver turns Flags plus on-disk metadata into a BuildConfig. Resolve is
// idempotent: repeated calls return the same plan without re-reading disk.
type Resolver struct {
	flags Flags
	cfg   *BuildConfig
}

func NewResolver(flags Flags) *Resolver {
	return &Resolver{flags: flags}
}

func (r *Resolver) Resolve() (*BuildConfig, error) {
	if r.cfg != nil {
		return r.cfg, nil
	}

	sourcePath, err := filepath.Abs(r.flags.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, fmt.Errorf("%w: extension path does not exist: %s", ErrConfig, sourcePath)
	}

	outputDir := r.flags.OutputPath
	if outputDir == "" {
		outputDir = filepath.Join(sourcePath, DefaultOutputDirName)
	}
	if outputDir, err = filepath.Abs(outputDir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating output directory: %v", ErrConfig, err)
	}
	log.Info().Str("dir", outputDir).Msg("Output directory")

	project, err := LoadProject(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	controlPath, err := control.Find(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	ctl, err := control.Load(controlPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading control file %s: %v", ErrConfig, controlPath, err)
	}

	// Explicit ordered chains, first non-empty wins.
	name := firstNonEmpty(
		func() string { return r.flags.ExtensionName },
		func() string { return r.flags.Name },
		ctl.ModuleName,
		ctl.CommentName,
		func() string { return fallbackName },
	)
	version := firstNonEmpty(
		func() string { return r.flags.Version },
		func() string { return ctl.DefaultVersion },
		func() string { return fallbackVersion },
	)
	pgVersion := firstNonEmpty(
		func() string { return r.flags.PgVersion },
		func() string { return project.PgVersion },
		func() string { return DefaultPgVersion },
	)
	log.Info().Str("name", name).Str("version", version).Str("pg", pgVersion).Msg("Building")

	dockerfile, err := resolveDockerfile(sourcePath, r.flags.Dockerfile, project.Dockerfile)
	if err != nil {
		return nil, err
	}
	log.Info().Str("dockerfile", dockerfile).Msg("Using Dockerfile at")

	installCommand := resolveInstallCommand(sourcePath, r.flags.InstallCommand, project.InstallCommand)
	log.Info().Str("cmd", installCommand).Msg("Determined install command")

	deps := splitList(r.flags.Dependencies)
	if len(deps) == 0 {
		deps = project.Dependencies
	}
	preload := splitList(r.flags.PreloadLibraries)
	if len(preload) == 0 {
		preload = project.PreloadLibraries
	}

	r.cfg = &BuildConfig{
		SourcePath:       sourcePath,
		OutputDir:        outputDir,
		Name:             name,
		Version:          version,
		PgVersion:        pgVersion,
		Platform:         firstNonEmpty(func() string { return r.flags.Platform }, func() string { return project.Platform }),
		Dockerfile:       dockerfile,
		InstallCommand:   installCommand,
		Dependencies:     deps,
		PreloadLibraries: preload,
		Test:             r.flags.Test || project.Test,
		Description:      resolveDescription(ctl, sourcePath),
	}
	return r.cfg, nil
}

func resolveDockerfile(sourcePath, flagValue, projectValue string) (string, error) {
	if flagValue != "" {
		if _, err := os.Stat(flagValue); err == nil {
			return flagValue, nil
		}
		log.Warn().Str("file", flagValue).Msg("Dockerfile override does not exist, falling back")
	}
	if projectValue != "" {
		candidate := projectValue
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(sourcePath, candidate)
		}
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	candidate := filepath.Join(sourcePath, "Dockerfile")
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("%w: no Dockerfile found, pgxm currently only supports Docker-based builds", ErrConfig)
}

func resolveInstallCommand(sourcePath, flagValue, projectValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if projectValue != "" {
		return projectValue
	}
	if _, err := os.Stat(filepath.Join(sourcePath, "Makefile")); err == nil {
		return "make install"
	}
	return noopInstallCommand
}

func resolveDescription(ctl *control.File, sourcePath string) string {
	if ctl.Comment != "" {
		return ctl.Comment
	}
	return "Built by pgxm from " + filepath.Base(sourcePath)
}

func firstNonEmpty(resolvers ...func() string) string {
	for _, resolve := range resolvers {
		if v := resolve(); v != "" {
			return v
		}
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
