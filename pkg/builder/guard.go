package builder

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pgxm/pgxm/pkg/docker"
	"github.com/pgxm/pgxm/pkg/runner"
)

// guard tears down whatever the build created, on every exit path. Each
// sub-step is independently best-effort: a failed container removal must not
// stop the image removal, and no teardown failure may mask the build result.
type guard struct {
	engine      docker.Engine
	containerID string
	imageID     string
	done        bool
}

func newGuard(engine docker.Engine) *guard {
	return &guard{engine: engine}
}

func (g *guard) trackImage(id string) {
	g.imageID = id
}

func (g *guard) trackContainer(id string) {
	g.containerID = id
}

// Teardown runs at most once. It uses its own context so a cancelled build
// still gets cleaned up.
func (g *guard) Teardown() {
	if g.done {
		return
	}
	g.done = true

	ctx := context.Background()
	tasks := runner.New().BestEffort(true)

	if g.containerID != "" {
		id := g.containerID
		log.Debug().Str("container", short(id)).Msg("Cleaning up container")
		tasks = tasks.AddTask(
			runner.Task{Name: "stop container", Fn: func() error { return g.engine.StopContainer(ctx, id) }},
			runner.Task{Name: "remove container", Fn: func() error { return g.engine.RemoveContainer(ctx, id) }},
		)
	}
	if g.imageID != "" {
		id := g.imageID
		log.Debug().Str("image", short(id)).Msg("Cleaning up image")
		tasks = tasks.AddTask(
			runner.Task{Name: "remove image", Fn: func() error { return g.engine.RemoveImage(ctx, id) }},
		)
	}

	_ = tasks.Run()
}

func short(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
