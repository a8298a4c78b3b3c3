// Package wait provides a generic bounded polling primitive for
// asynchronous convergence of external state.
//
// A Condition is probed immediately and then once per tick until it
// succeeds or the timeout budget is exhausted. Errors returned by the
// probe are treated as failed attempts and kept as the last observation,
// so a timeout always surfaces why the final attempt failed:
//
//	err := wait.Poll(func() (bool, error) {
//	    return deploymentReady(name)
//	}, 2*time.Minute, 5*time.Second)
package wait

import (
	"context"
	"fmt"
	"time"
)

// Condition is a single probe of external state. It returns done=true on
// success. A non-nil error marks the attempt as failed; it does not stop
// the poll but is recorded as the last observation for diagnostics.
type Condition func() (done bool, err error)

// TimeoutError reports that a condition never succeeded within its
// budget. It carries the elapsed wall time and the last failed
// observation, if any.
type TimeoutError struct {
	Timeout time.Duration
	Elapsed time.Duration
	LastErr error
}

func (e *TimeoutError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("condition not met after %v (timeout %v): last observation: %v",
			e.Elapsed.Round(time.Millisecond), e.Timeout, e.LastErr)
	}
	return fmt.Sprintf("condition not met after %v (timeout %v)",
		e.Elapsed.Round(time.Millisecond), e.Timeout)
}

// Unwrap exposes the last observation to errors.Is and errors.As.
func (e *TimeoutError) Unwrap() error {
	return e.LastErr
}

// Poll probes cond immediately and then every tick until it succeeds.
// Once the accumulated elapsed time exceeds timeout the poll stops and a
// *TimeoutError is returned. The loop never spins tighter than tick and
// terminates within timeout + tick in the worst case. Poll has no
// cancellation; the only ways out are probe success or timeout expiry.
func Poll(cond Condition, timeout, tick time.Duration) error {
	return poll(context.Background(), cond, timeout, tick)
}

// PollContext is Poll with cancellation between attempts: a done context
// aborts the wait before the next probe and returns the context error.
// The probe itself is never interrupted mid-flight.
func PollContext(ctx context.Context, cond Condition, timeout, tick time.Duration) error {
	return poll(ctx, cond, timeout, tick)
}

func poll(ctx context.Context, cond Condition, timeout, tick time.Duration) error {
	start := time.Now()

	var lastErr error
	for {
		done, err := cond()
		if done && err == nil {
			return nil
		}
		if err != nil {
			lastErr = err
		}

		if time.Since(start) > timeout {
			return &TimeoutError{Timeout: timeout, Elapsed: time.Since(start), LastErr: lastErr}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(tick):
		}
	}
}
