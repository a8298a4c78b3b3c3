package checks

import (
	"github.com/redhat/upgrade-checks/test/framework"
	"github.com/redhat/upgrade-checks/test/framework/version"
)

// All returns every check, constructed for a run starting on base.
// Checks that don't apply to the base version exclude themselves
// through CanRun when the scenario runs.
func All(base version.Version) []framework.Check {
	cb := framework.CheckBase{BaseVersion: base}
	return []framework.Check{
		&CreateTable{CheckBase: cb},
		&MaterializedView{CheckBase: cb},
		&CreateReplica{CheckBase: cb},
		&DropReplica{CheckBase: cb},
		&UnmanagedReplica{CheckBase: cb},
		NewRenameTable(cb),
	}
}
