// Package checks contains the upgrade checks: each one creates a piece
// of platform state, mutates it across upgrade boundaries and asserts
// on it after the last upgrade.
//
// Validation statements are written as guard queries that divide by
// zero when an expectation does not hold, so a wrong result surfaces as
// a failed statement instead of a silently ignored result set.
package checks
