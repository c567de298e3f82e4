package builder

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pgxm/pgxm/pkg/docker"
)

const testEnvUser = "PGUSER=postgres"

// runTests executes the extension's test suite inside the container.
// `installcheck` takes priority over `check`; both need a running postgres.
// A missing Makefile or missing test target is a notice, not a failure, but
// once a target is found every sub-step must exit zero.
func (s containerRunning) runTests(ctx context.Context) error {
	makefile, err := s.locateMakefile(ctx)
	if err != nil {
		return err
	}
	if makefile == "" {
		log.Info().Msg("Makefile not found, skipping tests")
		return nil
	}
	workdir := path.Dir(makefile)

	hasInstallcheck, err := s.makefileHasTarget(ctx, makefile, "installcheck")
	if err != nil {
		return err
	}
	if hasInstallcheck {
		log.Info().Msg("Found 'installcheck' target in Makefile")

		log.Info().Msg("Running 'make install' before 'installcheck'")
		res, err := s.engine.Exec(ctx, s.containerID, []string{"make", "install"}, docker.ExecOptions{Workdir: workdir})
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("%w: 'make install' failed before 'installcheck' (exit %d)", ErrTestsFailed, res.ExitCode)
		}

		if err := s.startPostgres(ctx); err != nil {
			return err
		}

		log.Info().Msg("Running 'make installcheck'")
		res, err = s.engine.Exec(ctx, s.containerID, []string{"make", "installcheck"}, docker.ExecOptions{Workdir: workdir, Env: []string{testEnvUser}})
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("%w: 'make installcheck' failed (exit %d)", ErrTestsFailed, res.ExitCode)
		}
		log.Info().Msg("Tests (installcheck) passed")
		return nil
	}

	hasCheck, err := s.makefileHasTarget(ctx, makefile, "check")
	if err != nil {
		return err
	}
	if hasCheck {
		log.Info().Msg("Found 'check' target in Makefile")

		if err := s.startPostgres(ctx); err != nil {
			return err
		}

		log.Info().Msg("Running 'make check'")
		res, err := s.engine.Exec(ctx, s.containerID, []string{"make", "check"}, docker.ExecOptions{Workdir: workdir, Env: []string{testEnvUser}})
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("%w: 'make check' failed (exit %d)", ErrTestsFailed, res.ExitCode)
		}
		log.Info().Msg("Tests (check) passed")
		return nil
	}

	log.Info().Msg("No standard test target ('check' or 'installcheck') found in Makefile")
	return nil
}

func (s containerRunning) locateMakefile(ctx context.Context) (string, error) {
	script := "find / -maxdepth 4 -name Makefile" +
		" -not -path '/proc/*' -not -path '/sys/*' -not -path '/usr/lib/*'" +
		" 2>/dev/null | head -n 1"
	res, err := s.engine.Exec(ctx, s.containerID, []string{"sh", "-c", script}, docker.ExecOptions{})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Output), nil
}

func (s containerRunning) makefileHasTarget(ctx context.Context, makefile, target string) (bool, error) {
	res, err := s.engine.Exec(ctx, s.containerID, []string{"grep", "-q", "-E", "^" + target + ":", makefile}, docker.ExecOptions{})
	if err != nil {
		return false, err
	}
	return res.ExitCode == 0, nil
}

func (s containerRunning) startPostgres(ctx context.Context) error {
	log.Info().Msg("Attempting to start Postgres")
	res, err := s.engine.Exec(ctx, s.containerID, []string{"service", "postgresql", "start"}, docker.ExecOptions{})
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: failed to start Postgres (exit %d)", ErrTestsFailed, res.ExitCode)
	}
	return nil
}
