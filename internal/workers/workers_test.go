package workers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingWorker struct {
	runs int
}

func (w *recordingWorker) Run() { w.runs++ }

func TestWorkers_RunStartsEveryWorker(t *testing.T) {
	first := &recordingWorker{}
	second := &recordingWorker{}

	NewWorkers(first, second).Run()

	assert.Equal(t, 1, first.runs)
	assert.Equal(t, 1, second.runs)
}

func TestWorkers_EmptyAggregate(t *testing.T) {
	NewWorkers().Run()
}
