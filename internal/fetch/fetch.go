package fetch

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Task is a named read issued during a page's fan-out. The function
// writes its result into page-local state captured by the closure.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Go builds a Task.
func Go(name string, run func(ctx context.Context) error) Task {
	return Task{Name: name, Run: run}
}

// Result reports how a single task settled.
type Result struct {
	Name string
	Err  error
}

// All runs the tasks concurrently and waits until every one has
// settled. A failed task is logged and its Result carries the error;
// it never blocks or fails the other tasks. Results are returned in
// task order.
func All(ctx context.Context, log *logrus.Entry, tasks ...Task) []Result {
	results := make([]Result, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()
			err := task.Run(ctx)
			if err != nil && log != nil {
				log.WithError(err).WithField("fetch", task.Name).Error("fetch failed")
			}
			results[i] = Result{Name: task.Name, Err: err}
		}(i, task)
	}
	wg.Wait()

	return results
}

// AnyError returns the first non-nil error among the results, letting
// callers branch on sentinel errors with errors.Is.
func AnyError(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
