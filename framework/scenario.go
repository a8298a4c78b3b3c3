package framework

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redhat/upgrade-checks/test/framework/concurrent"
	"github.com/redhat/upgrade-checks/test/framework/config"
	"github.com/redhat/upgrade-checks/test/framework/version"
)

// Scenario drives a collection of checks through synchronized lifecycle
// phases interleaved with platform upgrade steps.
//
// A run spans a fixed number of steps. Step 0 initializes every
// applicable check on the base version. Each later step starts with an
// upgrade boundary and runs the next manipulate batch of every check
// that still has one. Steps are separated by a barrier: every pending
// handle from step i joins before any batch for step i+1 is issued.
// After the final step's barrier, every applicable check validates;
// validate failures are collected so one run reports them all.
type Scenario struct {
	name   string
	base   version.Version
	steps  int
	env    Environment
	exec   *ExecutorContext
	checks []Check

	logger       *slog.Logger
	config       *config.Config
	validateOnly bool
}

// Option is a function that configures the Scenario
type Option func(*Scenario)

// WithLogger sets a custom logger for the scenario
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scenario) {
		s.logger = logger
	}
}

// WithConfig sets a custom configuration for the scenario
func WithConfig(cfg *config.Config) Option {
	return func(s *Scenario) {
		s.config = cfg
	}
}

// ValidateOnly makes the run reuse existing platform state: checks
// re-apply initialize and validate with no upgrade steps or manipulate
// batches in between. Checks whose setup is not externally idempotent
// are skipped.
func ValidateOnly() Option {
	return func(s *Scenario) {
		s.validateOnly = true
	}
}

// NewScenario creates a scenario for one run starting on base. steps is
// the total number of steps including the initialize step, so a
// scenario with N steps crosses N-1 upgrade boundaries. Checks are
// driven in declaration order, which is also the only inter-check
// ordering the scenario guarantees.
func NewScenario(name string, base version.Version, steps int, env Environment, checks []Check, opts ...Option) (*Scenario, error) {
	if env == nil {
		return nil, ErrEnvironmentRequired
	}
	if steps < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoSteps, steps)
	}

	s := &Scenario{
		name:   name,
		base:   base,
		steps:  steps,
		env:    env,
		checks: checks,
		logger: slog.Default(),
		config: config.FromEnv(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.exec = NewExecutorContext(env, s.logger)
	return s, nil
}

// Name returns the scenario name
func (s *Scenario) Name() string {
	return s.name
}

// BaseVersion returns the version the run started from
func (s *Scenario) BaseVersion() version.Version {
	return s.base
}

// ExecutorContext returns the run-scoped shared state
func (s *Scenario) ExecutorContext() *ExecutorContext {
	return s.exec
}

// pendingWork ties an in-flight handle back to the check and phase that
// produced it, for error attribution at the step barrier.
type pendingWork struct {
	check  string
	phase  Phase
	step   int
	handle PendingHandle
}

// Run executes the scenario. Initialize and manipulate failures abort
// the remaining run immediately; validate failures are collected and
// returned together.
func (s *Scenario) Run(ctx context.Context) error {
	if err := s.exec.RefreshVersion(ctx); err != nil {
		return err
	}
	current := s.exec.CurrentVersion()

	s.logger.Info("starting scenario",
		"scenario", s.name,
		"base", s.base.String(),
		"current", current.String(),
		"steps", s.steps,
		"checks", len(s.checks))

	// Applicability is decided exactly once per check, before any
	// lifecycle call. A declined check contributes nothing to the run.
	applicable := make([]Check, 0, len(s.checks))
	for _, c := range s.checks {
		if !c.CanRun(s.base, current) {
			s.logger.Info("skipping check", "check", c.Name(), "base", s.base.String())
			continue
		}
		applicable = append(applicable, c)
	}

	if s.validateOnly {
		return s.runValidateOnly(ctx, applicable)
	}

	if err := s.convergeSettings(ctx, applicable); err != nil {
		return err
	}

	// Step 0: initialize everything on the base version.
	pending, err := s.issueInitialize(ctx, applicable)
	if err != nil {
		return err
	}
	if err := s.joinStep(ctx, pending); err != nil {
		return err
	}

	// Manipulate sequences are obtained exactly once. A sequence longer
	// than the remaining steps cannot fit and aborts the run up front.
	sequences := make([][]*ActionBatch, len(applicable))
	for i, c := range applicable {
		seq := c.Manipulate()
		if len(seq) > s.steps-1 {
			return NewExecutionError(c.Name(), PhaseManipulate, 0,
				fmt.Errorf("%w: %d batches, %d boundaries", ErrManipulateOverrun, len(seq), s.steps-1))
		}
		sequences[i] = seq
	}

	for step := 1; step < s.steps; step++ {
		s.logger.Info("advancing platform", "scenario", s.name, "step", step)
		if err := s.env.AdvanceVersion(ctx); err != nil {
			return fmt.Errorf("upgrade step %d failed: %w", step, err)
		}
		if err := s.exec.RefreshVersion(ctx); err != nil {
			return err
		}

		pending = pending[:0]
		for i, c := range applicable {
			if step-1 >= len(sequences[i]) {
				// Shorter sequence: no action on this step.
				continue
			}
			batch := sequences[i][step-1]
			if batch.Empty() {
				continue
			}
			handle, err := s.env.Execute(ctx, batch)
			if err != nil {
				return NewExecutionError(c.Name(), PhaseManipulate, step, err)
			}
			pending = append(pending, pendingWork{check: c.Name(), phase: PhaseManipulate, step: step, handle: handle})
		}
		if err := s.joinStep(ctx, pending); err != nil {
			return err
		}
	}

	return s.validateAll(ctx, applicable)
}

// convergeSettings enables the platform settings requested by the
// applicable checks before anything initializes. Requests go through
// the shared ExecutorContext, so overlapping settings are applied once.
func (s *Scenario) convergeSettings(ctx context.Context, applicable []Check) error {
	for _, c := range applicable {
		r, ok := c.(SettingsRequester)
		if !ok {
			continue
		}
		if err := s.exec.Converge(ctx, r.RequiredSettings()); err != nil {
			return NewExecutionError(c.Name(), PhaseConverge, 0, err)
		}
	}
	return nil
}

func (s *Scenario) issueInitialize(ctx context.Context, applicable []Check) ([]pendingWork, error) {
	var pending []pendingWork
	for _, c := range applicable {
		batch := c.Initialize()
		if batch.Empty() {
			continue
		}
		handle, err := s.env.Execute(ctx, batch)
		if err != nil {
			return nil, NewExecutionError(c.Name(), PhaseInitialize, 0, err)
		}
		pending = append(pending, pendingWork{check: c.Name(), phase: PhaseInitialize, step: 0, handle: handle})
	}
	return pending, nil
}

// joinStep is the barrier between steps: every handle issued during the
// step must join before the run proceeds. Handles within one step carry
// no cross-check ordering, so they join in parallel.
func (s *Scenario) joinStep(ctx context.Context, pending []pendingWork) error {
	if len(pending) == 0 {
		return nil
	}
	return concurrent.ForEachWithLimit(ctx, pending, s.config.MaxConcurrentJoins, func(ctx context.Context, p pendingWork) error {
		if err := s.env.Join(ctx, p.handle); err != nil {
			return NewExecutionError(p.check, p.phase, p.step, err)
		}
		return nil
	})
}

// validateAll runs every applicable check's validate batch. Checks
// validate independently, so one check's failure never stops another's
// assertions; everything is collected and returned together.
func (s *Scenario) validateAll(ctx context.Context, applicable []Check) error {
	err := concurrent.ForEach(applicable, func(c Check) error {
		batch := c.Validate()
		if batch.Empty() {
			return nil
		}
		handle, execErr := s.env.Execute(ctx, batch)
		if execErr != nil {
			return NewExecutionError(c.Name(), PhaseValidate, s.steps-1, execErr)
		}
		if joinErr := s.env.Join(ctx, handle); joinErr != nil {
			return NewConsistencyError(c.Name(), joinErr)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("scenario finished with failures", "scenario", s.name)
		return err
	}

	s.logger.Info("scenario passed", "scenario", s.name, "checks", len(applicable))
	return nil
}

// runValidateOnly re-applies setup and assertions against surviving
// platform state, with no upgrades in between.
func (s *Scenario) runValidateOnly(ctx context.Context, applicable []Check) error {
	rerunnable := make([]Check, 0, len(applicable))
	for _, c := range applicable {
		if !c.ExternallyIdempotent() {
			s.logger.Info("skipping non-idempotent check in validate-only run", "check", c.Name())
			continue
		}
		rerunnable = append(rerunnable, c)
	}

	if err := s.convergeSettings(ctx, rerunnable); err != nil {
		return err
	}

	pending, err := s.issueInitialize(ctx, rerunnable)
	if err != nil {
		return err
	}
	if err := s.joinStep(ctx, pending); err != nil {
		return err
	}

	return s.validateAll(ctx, rerunnable)
}
