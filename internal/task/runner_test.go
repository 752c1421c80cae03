package task_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woklearn/woklearn-api/internal/task"
)

func TestRunner_ExecutesQueuedTasks(t *testing.T) {
	t.Parallel()

	queue := task.NewQueue(10, slog.Default())
	runner := task.NewRunner(queue, task.RunnerConfig{WorkerCount: 2}, slog.Default())

	var wg sync.WaitGroup
	var mu sync.Mutex
	executed := map[uuid.UUID]bool{}

	const taskCount = 5
	wg.Add(taskCount)
	for i := 0; i < taskCount; i++ {
		st := newStubTask(nil)
		st.fn = func(ctx context.Context) error {
			mu.Lock()
			executed[st.id] = true
			mu.Unlock()
			wg.Done()
			return nil
		}
		require.NoError(t, queue.Enqueue(st))
	}

	runner.Start()
	defer runner.Stop()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for tasks to execute")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, executed, taskCount)
}

func TestRunner_ErrorHandlerInvokedOnFailure(t *testing.T) {
	t.Parallel()

	queue := task.NewQueue(1, slog.Default())
	runner := task.NewRunner(queue, task.RunnerConfig{WorkerCount: 1}, slog.Default())

	boom := errors.New("boom")
	failures := make(chan error, 1)
	runner.SetErrorHandler(func(failed task.Task, err error) {
		failures <- err
	})

	require.NoError(t, queue.Enqueue(newStubTask(func(ctx context.Context) error { return boom })))

	runner.Start()
	defer runner.Stop()

	select {
	case err := <-failures:
		assert.ErrorIs(t, err, boom)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error handler")
	}
}

func TestRunner_StopWaitsForWorkers(t *testing.T) {
	t.Parallel()

	queue := task.NewQueue(1, slog.Default())
	runner := task.NewRunner(queue, task.RunnerConfig{WorkerCount: 1}, slog.Default())

	started := make(chan struct{})
	require.NoError(t, queue.Enqueue(newStubTask(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})))

	runner.Start()
	<-started

	// Stop cancels the in-flight task and returns once the worker exits.
	stopDone := make(chan struct{})
	go func() {
		runner.Stop()
		close(stopDone)
	}()

	select {
	case <-stopDone:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestRunner_InvalidWorkerCountFallsBack(t *testing.T) {
	t.Parallel()

	queue := task.NewQueue(1, slog.Default())
	runner := task.NewRunner(queue, task.RunnerConfig{WorkerCount: 0}, slog.Default())

	executed := make(chan struct{})
	require.NoError(t, queue.Enqueue(newStubTask(func(ctx context.Context) error {
		close(executed)
		return nil
	})))

	runner.Start()
	defer runner.Stop()

	select {
	case <-executed:
	case <-time.After(5 * time.Second):
		t.Fatal("task never executed")
	}
}
