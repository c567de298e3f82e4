// Package runner executes a list of named tasks in order. The best-effort
// mode exists for teardown: every task runs no matter how many before it
// failed, and failures are logged instead of returned.
package runner

import (
	"github.com/rs/zerolog/log"
)

type Task struct {
	Name string
	Fn   func() error
}

type Runner struct {
	tasks      []Task
	bestEffort bool
}

func New() Runner {
	return Runner{
		tasks:      []Task{},
		bestEffort: false,
	}
}

func (r Runner) AddTask(task ...Task) Runner {
	r.tasks = append(r.tasks, task...)
	return r
}

func (r Runner) BestEffort(flag bool) Runner {
	r.bestEffort = flag
	return r
}

func (r Runner) Len() int {
	return len(r.tasks)
}

func (r Runner) Run() error {
	for _, t := range r.tasks {
		log.Debug().Str("task", t.Name).Msg("Running")
		if err := t.Fn(); err != nil {
			if r.bestEffort {
				log.Warn().Err(err).Str("task", t.Name).Msg("Task failed, continuing")
				continue
			}
			return err
		}
	}
	return nil
}
