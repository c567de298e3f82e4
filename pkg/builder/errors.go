package builder

import "errors"

var (
	ErrBuild = errors.New("build failed")

	// ErrTestsFailed means the image built and the container ran, but an
	// in-container test step exited non-zero. Callers can tell "build
	// succeeded, tests failed" apart from engine breakage.
	ErrTestsFailed = errors.New("tests failed")
)
