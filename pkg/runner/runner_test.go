package runner_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pgxm/pgxm/pkg/runner"
)

func TestRunStopsOnError(t *testing.T) {
	t.Parallel()

	var ran []string
	r := runner.New().AddTask(
		runner.Task{Name: "a", Fn: func() error { ran = append(ran, "a"); return nil }},
		runner.Task{Name: "b", Fn: func() error { return errors.New("boom") }},
		runner.Task{Name: "c", Fn: func() error { ran = append(ran, "c"); return nil }},
	)

	assert.Error(t, r.Run())
	assert.Equal(t, []string{"a"}, ran)
}

func TestRunBestEffortContinues(t *testing.T) {
	t.Parallel()

	var ran []string
	r := runner.New().BestEffort(true).AddTask(
		runner.Task{Name: "a", Fn: func() error { return errors.New("boom") }},
		runner.Task{Name: "b", Fn: func() error { ran = append(ran, "b"); return nil }},
	)

	assert.NoError(t, r.Run())
	assert.Equal(t, []string{"b"}, ran)
}

func TestRunEmpty(t *testing.T) {
	t.Parallel()

	assert.NoError(t, runner.New().Run())
	assert.Equal(t, 0, runner.New().Len())
}
