package wait

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPoll_ImmediateSuccess(t *testing.T) {
	attempts := 0
	start := time.Now()

	err := Poll(func() (bool, error) {
		attempts++
		return true, nil
	}, 5*time.Second, time.Second)

	if err != nil {
		t.Errorf("expected success, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("immediate success should not sleep, took %v", elapsed)
	}
}

func TestPoll_SucceedsOnThirdAttempt(t *testing.T) {
	tick := 20 * time.Millisecond
	attempts := 0
	start := time.Now()

	err := Poll(func() (bool, error) {
		attempts++
		return attempts >= 3, nil
	}, 100*time.Millisecond, tick)

	if err != nil {
		t.Errorf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}

	// Two sleeps happened, so elapsed is in [2*tick, 4*tick).
	elapsed := time.Since(start)
	if elapsed < 2*tick || elapsed >= 4*tick {
		t.Errorf("elapsed %v outside expected [2, 4) ticks", elapsed)
	}
}

func TestPoll_Timeout(t *testing.T) {
	tick := 20 * time.Millisecond
	timeout := 100 * time.Millisecond
	start := time.Now()

	err := Poll(func() (bool, error) {
		return false, nil
	}, timeout, tick)

	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TimeoutError, got %T", err)
	}
	if te.Elapsed < timeout {
		t.Errorf("reported elapsed %v is below timeout %v", te.Elapsed, timeout)
	}

	// Worst-case termination is timeout + one tick.
	if elapsed := time.Since(start); elapsed >= timeout+2*tick {
		t.Errorf("poll took %v, expected under timeout + tick", elapsed)
	}
}

func TestPoll_KeepsLastObservation(t *testing.T) {
	probeErr := errors.New("connection refused")

	err := Poll(func() (bool, error) {
		return false, probeErr
	}, 50*time.Millisecond, 10*time.Millisecond)

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TimeoutError, got %T", err)
	}
	if !errors.Is(err, probeErr) {
		t.Errorf("timeout should wrap the last observation, got %v", te.LastErr)
	}
}

func TestPoll_ErrorDoesNotStopPolling(t *testing.T) {
	attempts := 0

	err := Poll(func() (bool, error) {
		attempts++
		if attempts < 3 {
			return false, errors.New("transient")
		}
		return true, nil
	}, time.Second, 10*time.Millisecond)

	if err != nil {
		t.Errorf("expected success after transient errors, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestPollContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := PollContext(ctx, func() (bool, error) {
		return false, nil
	}, 5*time.Second, 10*time.Millisecond)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
