// Package builder drives one extension build through the container engine:
// image build, container start, optional tests, install, artifact collection
// and packaging. The pipeline is a linear tagged-state machine; every
// transition returns the next state, so collection cannot run before a
// container exists and teardown always sees exactly what was created.
package builder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pgxm/pgxm/pkg/collector"
	"github.com/pgxm/pgxm/pkg/config"
	"github.com/pgxm/pgxm/pkg/docker"
	"github.com/pgxm/pgxm/pkg/manifest"
	"github.com/pgxm/pgxm/pkg/packager"
	"github.com/pgxm/pgxm/pkg/util"
)

// Container keep-alive command; install and tests run via exec, never as
// the container entrypoint.
var keepAliveCommand = []string{"sleep", "infinity"}

type Options struct {
	Config  *config.BuildConfig
	Engine  docker.Engine
	Verbose bool
}

type Result struct {
	ArchivePath string
	Warnings    []string
}

// Tagged pipeline states. Each carries only the identifiers valid at that
// point of the build.
type connected struct {
	cfg    *config.BuildConfig
	engine docker.Engine
	guard  *guard
}

type imageBuilt struct {
	connected
	imageID string
}

type containerRunning struct {
	imageBuilt
	containerID string
}

// Run executes the whole build. Teardown of the image and container happens
// on every exit path, exactly once.
func Run(ctx context.Context, opts Options) (result *Result, err error) {
	cfg := opts.Config

	g := newGuard(opts.Engine)
	defer g.Teardown()

	session := connected{cfg: cfg, engine: opts.Engine, guard: g}

	built, err := session.buildImage(ctx)
	if err != nil {
		return nil, err
	}

	running, err := built.start(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Test {
		log.Info().Msg("Running tests")
		if err := running.runTests(ctx); err != nil {
			return nil, err
		}
	} else {
		log.Debug().Msg("Testing not requested, skipping")
	}

	if err := running.install(ctx); err != nil {
		return nil, err
	}

	collectDir, err := os.MkdirTemp("", "pgxm-collect-")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuild, err)
	}
	defer util.RemoveDir(collectDir)

	collected, err := collector.Collect(ctx, opts.Engine, running.containerID, collectDir)
	if err != nil {
		return nil, err
	}

	// Separate dir so a collected container file can never collide with
	// the generated manifest on the host.
	manifestDir, err := os.MkdirTemp("", "pgxm-manifest-")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuild, err)
	}
	defer util.RemoveDir(manifestDir)

	manifestPath, err := manifest.FromConfig(cfg).WriteTemp(manifestDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuild, err)
	}

	archivePath, packWarnings, err := packager.Package(cfg, collected.Files, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuild, err)
	}

	return &Result{
		ArchivePath: archivePath,
		Warnings:    append(collected.Warnings, packWarnings...),
	}, nil
}

func (s connected) buildImage(ctx context.Context) (imageBuilt, error) {
	labels := provenanceLabels(s.cfg.SourcePath, s.cfg.Version)

	imageID, err := s.engine.BuildImage(ctx, docker.BuildImageOptions{
		Dockerfile: s.cfg.Dockerfile,
		ContextDir: s.cfg.SourcePath,
		Tag:        imageTag(s.cfg),
		BuildArgs: map[string]string{
			"EXTENSION_NAME":    s.cfg.Name,
			"EXTENSION_VERSION": s.cfg.Version,
			"PG_VERSION":        s.cfg.PgVersion,
		},
		Labels:   labels,
		Platform: s.cfg.Platform,
	})
	if err != nil {
		return imageBuilt{}, err
	}
	s.guard.trackImage(imageID)
	log.Info().Str("image", short(imageID)).Msg("Docker image built successfully")

	return imageBuilt{connected: s, imageID: imageID}, nil
}

func (s imageBuilt) start(ctx context.Context) (containerRunning, error) {
	containerID, err := s.engine.RunContainer(ctx, s.imageID, keepAliveCommand, s.cfg.Platform)
	if err != nil {
		return containerRunning{}, err
	}
	s.guard.trackContainer(containerID)
	log.Info().Str("container", short(containerID)).Msg("Temporary container started")

	return containerRunning{imageBuilt: s, containerID: containerID}, nil
}

func (s containerRunning) install(ctx context.Context) error {
	log.Info().Str("cmd", s.cfg.InstallCommand).Msg("Executing installation command")

	// Whitespace split only, no shell-quoting support.
	argv := strings.Fields(s.cfg.InstallCommand)
	res, err := s.engine.Exec(ctx, s.containerID, argv, docker.ExecOptions{})
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: install command failed (exit %d): %s", ErrBuild, res.ExitCode, s.cfg.InstallCommand)
	}
	log.Info().Msg("Install command executed successfully")
	return nil
}

// imageTag builds a per-invocation tag so concurrent pgxm runs never share
// an image.
func imageTag(cfg *config.BuildConfig) string {
	return fmt.Sprintf("pgxm-build-%s-%s-%d", sanitizeTag(cfg.Name), sanitizeTag(cfg.Version), os.Getpid())
}

func sanitizeTag(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
