package framework

import (
	"github.com/redhat/upgrade-checks/test/framework/version"
)

// Check is one unit of upgrade-test logic. A check encodes a piece of
// platform state to create, mutate across upgrade boundaries and finally
// assert on.
//
// The orchestrator calls CanRun exactly once, before any lifecycle
// method; a check that declines contributes nothing to the run. For an
// applicable check, Initialize, Manipulate and Validate are each called
// at most once, in that order. CanRun must be pure and must never fail:
// a version comparison that cannot be answered there is a harness bug,
// not a recoverable condition.
type Check interface {
	// Name uniquely identifies the check in logs and errors.
	Name() string

	// CanRun reports whether the check applies to a run that started on
	// base and currently runs current.
	CanRun(base, current version.Version) bool

	// Initialize returns the batch that creates the check's state.
	// A nil batch means there is nothing to set up.
	Initialize() *ActionBatch

	// Manipulate returns the ordered batches to run one per upgrade
	// boundary. The sequence must fit within the run's step budget;
	// shorter sequences simply have no action on the remaining steps.
	Manipulate() []*ActionBatch

	// Validate returns the batch asserting on the final state.
	Validate() *ActionBatch

	// ExternallyIdempotent reports whether re-running Initialize and
	// Validate without Manipulate yields identical observable state.
	// Checks that are not may be skipped when a run reuses existing
	// platform state.
	ExternallyIdempotent() bool
}

// SettingsRequester is implemented by checks whose state needs
// platform-wide settings enabled first. The orchestrator converges the
// requested settings through the shared ExecutorContext before the
// initialize step, so overlapping requests are applied once per run.
type SettingsRequester interface {
	// RequiredSettings returns the statements enabling the settings this
	// check depends on.
	RequiredSettings() []string
}

// CheckBase carries the per-run facts shared by every check and provides
// lifecycle defaults. Embed it and override what the check needs:
//
//	type CreateTable struct {
//	    framework.CheckBase
//	}
//
//	func (c *CreateTable) Name() string { return "create-table" }
//
// BaseVersion is the version the run started from, fixed at
// construction; payloads may branch on it the same way CanRun does.
type CheckBase struct {
	BaseVersion version.Version

	// NotIdempotent marks checks whose setup cannot safely be re-applied
	// against surviving platform state.
	NotIdempotent bool
}

// CanRun applies to every version by default.
func (b *CheckBase) CanRun(base, current version.Version) bool {
	return true
}

// Initialize has no setup by default.
func (b *CheckBase) Initialize() *ActionBatch {
	return nil
}

// Manipulate has no upgrade-boundary actions by default.
func (b *CheckBase) Manipulate() []*ActionBatch {
	return nil
}

// ExternallyIdempotent defaults to true.
func (b *CheckBase) ExternallyIdempotent() bool {
	return !b.NotIdempotent
}
