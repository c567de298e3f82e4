package docker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pgxm/pgxm/pkg/cmd"
)

// Client talks to a local docker daemon through the docker CLI.
type Client struct {
	verbose bool
}

// Connect verifies the docker daemon is reachable and returns a client.
// Failure here means the environment is broken, not the build.
func Connect(ctx context.Context, verbose bool) (*Client, error) {
	out, err := cmd.New("docker").Arg("version", "--format", "{{.Server.Version}}").Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to Docker: %v", ErrEngine, err)
	}
	log.Debug().Str("server", strings.TrimSpace(out)).Msg("Connected to Docker")
	return &Client{verbose: verbose}, nil
}

func (c *Client) BuildImage(ctx context.Context, opts BuildImageOptions) (string, error) {
	builder := cmd.New("docker").Arg("build").
		Arg("-f", opts.Dockerfile).
		Arg("-t", opts.Tag).
		SetVerbose(c.verbose).
		PreInfo("Building " + opts.Tag)

	for _, k := range sortedKeys(opts.BuildArgs) {
		builder.Arg("--build-arg", k+"="+opts.BuildArgs[k])
	}
	for _, k := range sortedKeys(opts.Labels) {
		builder.Arg("--label", k+"="+opts.Labels[k])
	}
	if opts.Platform != "" {
		builder.Arg("--platform", opts.Platform)
	}
	builder.Arg(opts.ContextDir)

	if _, err := builder.Run(ctx); err != nil {
		return "", fmt.Errorf("%w: failed to build Docker image: %v", ErrEngine, err)
	}

	// Resolve the tag to the image ID so cleanup removes exactly what we built.
	out, err := cmd.New("docker").Arg("inspect", "--format", "{{.Id}}", opts.Tag).Run(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to inspect built image: %v", ErrEngine, err)
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) RunContainer(ctx context.Context, imageID string, command []string, platform string) (string, error) {
	runner := cmd.New("docker").Arg("run", "-d").
		Arg("--name", "pgxm-build-"+uuid.NewString())
	if platform != "" {
		runner.Arg("--platform", platform)
	}
	runner.Arg(imageID).Arg(command...)

	out, err := runner.Run(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to run Docker container: %v", ErrEngine, err)
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) Exec(ctx context.Context, containerID string, argv []string, opts ExecOptions) (ExecResult, error) {
	execer := cmd.New("docker").Arg("exec")
	if opts.Workdir != "" {
		execer.Arg("-w", opts.Workdir)
	}
	for _, env := range opts.Env {
		execer.Arg("-e", env)
	}
	execer.Arg(containerID).Arg(argv...)

	out, code, err := execer.RunExit(ctx)
	if err != nil {
		return ExecResult{}, fmt.Errorf("%w: exec failed: %v", ErrEngine, err)
	}
	return ExecResult{Output: out, ExitCode: code}, nil
}

func (c *Client) Diff(ctx context.Context, containerID string) ([]Change, error) {
	out, err := cmd.New("docker").Arg("diff", containerID).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to diff container filesystem: %v", ErrEngine, err)
	}
	return ParseDiff(out), nil
}

func (c *Client) CopyFrom(ctx context.Context, containerID, containerPath, hostPath string) error {
	if err := os.MkdirAll(filepath.Dir(hostPath), 0o755); err != nil {
		return fmt.Errorf("%w: preparing copy destination: %v", ErrEngine, err)
	}
	_, err := cmd.New("docker").Arg("cp", containerID+":"+containerPath, hostPath).Run(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to copy %s from container: %v", ErrEngine, containerPath, err)
	}
	return nil
}

func (c *Client) StopContainer(ctx context.Context, containerID string) error {
	if _, err := cmd.New("docker").Arg("stop", containerID).Run(ctx); err != nil {
		return fmt.Errorf("%w: failed to stop container: %v", ErrEngine, err)
	}
	return nil
}

func (c *Client) RemoveContainer(ctx context.Context, containerID string) error {
	if _, err := cmd.New("docker").Arg("rm", containerID).Run(ctx); err != nil {
		return fmt.Errorf("%w: failed to remove container: %v", ErrEngine, err)
	}
	return nil
}

func (c *Client) RemoveImage(ctx context.Context, imageID string) error {
	if _, err := cmd.New("docker").Arg("image", "rm", "-f", imageID).Run(ctx); err != nil {
		return fmt.Errorf("%w: failed to remove image: %v", ErrEngine, err)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
