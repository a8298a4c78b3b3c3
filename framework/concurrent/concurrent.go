// Package concurrent provides helpers for running independent operations
// in parallel while collecting every failure.
//
// The orchestrator uses these to join a step's pending handles: handles
// within one upgrade step carry no ordering dependency on each other, so
// joining them in parallel is a pure optimization. All functions keep
// processing every item even when some fail and aggregate the failures
// with errors.Join, so one run surfaces all of them.
package concurrent

import (
	"context"
	"errors"
	"sync"
)

// ForEach executes fn for each item concurrently.
// All goroutines are waited for even if some fail; the joined errors of
// every failed item are returned.
func ForEach[T any](items []T, fn func(T) error) error {
	if len(items) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(items))

	for _, item := range items {
		wg.Add(1)
		go func(item T) {
			defer wg.Done()
			if err := fn(item); err != nil {
				errCh <- err
			}
		}(item)
	}

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// ForEachWithLimit executes fn for each item with at most limit
// operations in flight. A cancelled context stops issuing new work;
// in-flight operations are still waited for.
func ForEachWithLimit[T any](ctx context.Context, items []T, limit int, fn func(context.Context, T) error) error {
	if len(items) == 0 {
		return nil
	}

	if limit <= 0 {
		limit = 1
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	errCh := make(chan error, len(items))

	for _, item := range items {
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(item T) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := fn(ctx, item); err != nil {
				errCh <- err
			}
		}(item)
	}

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
