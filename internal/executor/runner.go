package executor

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"
)

// TaskFault records a panic raised by one task.
type TaskFault struct {
	Index int
	Value interface{}
	Stack []byte
}

func (f *TaskFault) Error() string {
	return fmt.Sprintf("task %d panicked: %v", f.Index, f.Value)
}

// RunResult describes how a Run ended.
type RunResult struct {
	// Completed is true when every task returned normally before the timeout.
	Completed bool
	// TimedOut is true when the wait gave up with tasks still running.
	TimedOut bool
	// Faults holds the panics observed before Run returned.
	Faults  []*TaskFault
	Elapsed time.Duration
}

// Runner starts one goroutine per task and waits on a completion gate.
// Tasks are never cancelled: on timeout Run stops waiting and the remaining
// goroutines finish on their own.
type Runner struct {
	logger RuntimeLogger
}

// NewRunner creates a Runner. logger may be nil.
func NewRunner(logger RuntimeLogger) *Runner {
	return &Runner{logger: logger}
}

// SpawnAndWait runs tasks in parallel and reports whether all of them
// completed without panicking within timeout. A timeout <= 0 waits without bound.
func SpawnAndWait(tasks []func(), timeout time.Duration) bool {
	return NewRunner(nil).Run(tasks, timeout).Completed
}

// Run starts every task in its own goroutine and blocks until all of them
// have finished or timeout has elapsed. A panicking task is recovered and
// counts as incomplete; Run still waits for the others.
func (r *Runner) Run(tasks []func(), timeout time.Duration) RunResult {
	start := time.Now()
	if len(tasks) == 0 {
		return RunResult{Completed: true}
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		faults []*TaskFault
	)

	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(index int, task func()) {
			defer wg.Done()
			defer func() {
				if v := recover(); v != nil {
					fault := &TaskFault{Index: index, Value: v, Stack: debug.Stack()}
					mu.Lock()
					faults = append(faults, fault)
					mu.Unlock()
					if r.logger != nil {
						r.logger.LogError(fault.Error())
					}
				}
			}()
			task()
		}(i, task)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	result := RunResult{}
	select {
	case <-done:
	case <-deadline:
		result.TimedOut = true
		if r.logger != nil {
			r.logger.LogWarn(fmt.Sprintf("stopped waiting for %d tasks after %s", len(tasks), timeout))
		}
	}

	mu.Lock()
	result.Faults = append([]*TaskFault(nil), faults...)
	mu.Unlock()

	result.Completed = !result.TimedOut && len(result.Faults) == 0
	result.Elapsed = time.Since(start)
	return result
}
