// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

// Worker is the interface that must be implemented by any background worker.
// It defines a single Run method that starts the worker's execution.
//
// Implementations are expected to block for the duration of their work
// or spawn goroutines internally. The sync buffer's flush job is the
// primary worker in this application.
type Worker interface {
	Run()
}

// Workers aggregates background workers and starts them together.
type Workers struct {
	workers []Worker
}

// NewWorkers collects the given workers into an aggregate.
func NewWorkers(list ...Worker) *Workers {
	return &Workers{workers: list}
}

// Run starts every registered worker.
func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
