// Package framework verifies that a stateful, versioned data platform
// preserves correctness while being rolled forward across software
// versions.
//
// A Check encodes a piece of platform state to create, mutate across one
// or more upgrade boundaries, and finally assert on. The Scenario
// orchestrator sequences the phases of many independent checks across a
// shared run: every applicable check initializes on the base version,
// then at each upgrade boundary every check's next manipulate batch
// runs, and after the last boundary every check validates. Pending
// handles from one step always join before the next step starts.
//
// # Quick Start
//
// Build an environment, assemble checks, and run a scenario:
//
//	cluster, err := kube.New("upgrade-test")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	env, err := cluster.Environment(prof)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	base := version.MustParse(prof.BaseVersion)
//	scenario, err := framework.NewScenario("upgrade", base, len(prof.UpgradePath)+1, env, checks.All(base))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := scenario.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Applicability
//
// Checks gate themselves on the version range they support via CanRun,
// evaluated once per run before any lifecycle call. A declined check is
// a vacuous pass.
//
// # Shared configuration
//
// Checks sharing one platform request global settings through
// ExecutorContext.Converge, which applies only the settings not yet
// applied this run. Overlapping requests from independently written
// checks are applied once.
//
// # Failure policy
//
// Parse and execution errors abort the run immediately, tagged with the
// originating check, phase and step. Validate failures are collected so
// a single run surfaces every failing check, not just the first.
//
// # Package Structure
//
// The harness is organized into subpackages:
//
//   - config: Centralized configuration with environment variable support
//   - concurrent: Concurrent execution helpers for parallel joins
//   - kube: Kubernetes-backed Environment implementation
//   - profile: YAML upgrade profiles (base version, upgrade path, endpoints)
//   - retry: Retry logic for transient infrastructure failures
//   - version: Version parsing, ordering and range predicates
//   - wait: Bounded polling for asynchronous convergence
package framework
