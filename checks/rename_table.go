package checks

import (
	"github.com/redhat/upgrade-checks/test/framework"
)

// RenameTable renames a table on every upgrade boundary and verifies
// that its contents follow the name. Renames do not survive a re-run of
// the setup against existing state, so the check opts out of
// validate-only runs.
type RenameTable struct {
	framework.CheckBase
}

// NewRenameTable marks the check as not externally idempotent.
func NewRenameTable(base framework.CheckBase) *RenameTable {
	base.NotIdempotent = true
	return &RenameTable{CheckBase: base}
}

func (c *RenameTable) Name() string { return "rename-table" }

func (c *RenameTable) Initialize() *framework.ActionBatch {
	return &framework.ActionBatch{
		Label: "rename-table-init",
		Statements: []string{
			"CREATE TABLE rename_table (f1 INTEGER)",
			"INSERT INTO rename_table VALUES (1)",
		},
	}
}

func (c *RenameTable) Manipulate() []*framework.ActionBatch {
	return []*framework.ActionBatch{
		{
			Label: "rename-table-manipulate-0",
			Statements: []string{
				"ALTER TABLE rename_table RENAME TO rename_table1",
				"INSERT INTO rename_table1 VALUES (2)",
			},
		},
		{
			Label: "rename-table-manipulate-1",
			Statements: []string{
				"ALTER TABLE rename_table1 RENAME TO rename_table2",
				"INSERT INTO rename_table2 VALUES (3)",
			},
		},
	}
}

func (c *RenameTable) Validate() *framework.ActionBatch {
	return &framework.ActionBatch{
		Label: "rename-table-validate",
		Statements: []string{
			expectQueryEquals("SELECT COUNT(*) FROM rename_table2", "3"),
			expectQueryEquals("SELECT SUM(f1) FROM rename_table2", "6"),
		},
	}
}
