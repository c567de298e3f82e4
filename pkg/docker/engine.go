// Package docker is the gateway to the container engine. The Engine
// interface covers exactly the round-trips a build needs; the shipped
// implementation drives the docker CLI.
package docker

import (
	"context"
	"errors"
)

var ErrEngine = errors.New("docker engine error")

// BuildImageOptions parameterize a single image build.
type BuildImageOptions struct {
	Dockerfile string
	ContextDir string
	Tag        string
	BuildArgs  map[string]string
	Labels     map[string]string
	Platform   string
}

// ExecOptions carry the optional exec parameters. Zero values mean the
// container's defaults.
type ExecOptions struct {
	Workdir string
	Env     []string
}

// ExecResult is the outcome of a command that the engine managed to run.
type ExecResult struct {
	Output   string
	ExitCode int
}

// Change is one entry of a container filesystem diff.
type Change struct {
	Kind ChangeKind
	Path string
}

type ChangeKind byte

const (
	Added    ChangeKind = 'A'
	Modified ChangeKind = 'C'
	Deleted  ChangeKind = 'D'
)

// Engine is the capability set the build pipeline consumes. All calls are
// blocking round-trips; cancellation goes through ctx.
type Engine interface {
	BuildImage(ctx context.Context, opts BuildImageOptions) (string, error)
	RunContainer(ctx context.Context, imageID string, command []string, platform string) (string, error)
	Exec(ctx context.Context, containerID string, argv []string, opts ExecOptions) (ExecResult, error)
	Diff(ctx context.Context, containerID string) ([]Change, error)
	CopyFrom(ctx context.Context, containerID, containerPath, hostPath string) error
	StopContainer(ctx context.Context, containerID string) error
	RemoveContainer(ctx context.Context, containerID string) error
	RemoveImage(ctx context.Context, imageID string) error
}
