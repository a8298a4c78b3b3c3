package checks

import (
	"github.com/redhat/upgrade-checks/test/framework"
)

// CreateTable inserts rows into one table before, between and after
// upgrades and verifies that none are lost or duplicated.
type CreateTable struct {
	framework.CheckBase
}

func (c *CreateTable) Name() string { return "create-table" }

func (c *CreateTable) Initialize() *framework.ActionBatch {
	return &framework.ActionBatch{
		Label: "create-table-init",
		Statements: []string{
			"CREATE TABLE create_table (f1 INTEGER)",
			"INSERT INTO create_table VALUES (1), (2), (3)",
		},
	}
}

func (c *CreateTable) Manipulate() []*framework.ActionBatch {
	return []*framework.ActionBatch{
		{
			Label: "create-table-manipulate-0",
			Statements: []string{
				"INSERT INTO create_table VALUES (4), (5), (6)",
			},
		},
		{
			Label: "create-table-manipulate-1",
			Statements: []string{
				"INSERT INTO create_table VALUES (7), (8), (9)",
			},
		},
	}
}

func (c *CreateTable) Validate() *framework.ActionBatch {
	return &framework.ActionBatch{
		Label: "create-table-validate",
		Statements: []string{
			expectQueryEquals("SELECT COUNT(*) FROM create_table", "9"),
			expectQueryEquals("SELECT SUM(f1) FROM create_table", "45"),
		},
	}
}
