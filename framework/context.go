package framework

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/redhat/upgrade-checks/test/framework/version"
)

// ExecutorContext is the run-scoped mutable state shared by every check
// in a scenario: the global settings already applied this run, the
// version the platform currently runs, and the environment they were
// applied through.
//
// The applied-settings set only grows, and only Converge writes to it.
// Converge calls must not overlap within one run; the orchestrator is
// single-threaded at this level, so that holds by construction.
type ExecutorContext struct {
	env    Environment
	logger *slog.Logger

	currentVersion version.Version
	systemSettings map[string]struct{}
}

// NewExecutorContext creates the shared state for one scenario run.
func NewExecutorContext(env Environment, logger *slog.Logger) *ExecutorContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecutorContext{
		env:            env,
		logger:         logger,
		systemSettings: make(map[string]struct{}),
	}
}

// CurrentVersion returns the platform version as of the last refresh.
func (e *ExecutorContext) CurrentVersion() version.Version {
	return e.currentVersion
}

// RefreshVersion asks the environment for the running platform version.
// Called by the orchestrator between upgrade steps; checks only read.
func (e *ExecutorContext) RefreshVersion(ctx context.Context) error {
	v, err := e.env.Version(ctx)
	if err != nil {
		return fmt.Errorf("failed to determine platform version: %w", err)
	}
	e.currentVersion = v
	return nil
}

// HasSetting reports whether a setting was already applied this run.
func (e *ExecutorContext) HasSetting(s string) bool {
	_, ok := e.systemSettings[s]
	return ok
}

// AppliedSettings returns a sorted copy of the applied-settings set.
func (e *ExecutorContext) AppliedSettings() []string {
	out := make([]string, 0, len(e.systemSettings))
	for s := range e.systemSettings {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Converge brings the platform's global configuration up to the desired
// set. Only the settings not yet applied this run are issued, as a
// single batch; an already-covered desired set performs no environment
// call at all. Independently written checks can therefore request
// overlapping configuration without duplicated side effects.
func (e *ExecutorContext) Converge(ctx context.Context, desired []string) error {
	delta := make([]string, 0, len(desired))
	seen := make(map[string]struct{}, len(desired))
	for _, s := range desired {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if !e.HasSetting(s) {
			delta = append(delta, s)
		}
	}

	if len(delta) == 0 {
		return nil
	}

	// Sorted so a given desired set always produces the same batch.
	sort.Strings(delta)

	e.logger.Info("applying system settings", "count", len(delta))

	batch := &ActionBatch{Label: "system-settings", Statements: delta}
	handle, err := e.env.Execute(ctx, batch)
	if err != nil {
		return fmt.Errorf("failed to apply system settings: %w", err)
	}
	if err := e.env.Join(ctx, handle); err != nil {
		return fmt.Errorf("failed to apply system settings: %w", err)
	}

	for _, s := range delta {
		e.systemSettings[s] = struct{}{}
	}
	return nil
}
