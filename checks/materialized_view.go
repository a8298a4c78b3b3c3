package checks

import (
	"github.com/redhat/upgrade-checks/test/framework"
)

// MaterializedView maintains a view over a growing table and verifies
// that the view keeps incorporating writes made on every version.
type MaterializedView struct {
	framework.CheckBase
}

func (c *MaterializedView) Name() string { return "materialized-view" }

func (c *MaterializedView) Initialize() *framework.ActionBatch {
	return &framework.ActionBatch{
		Label: "materialized-view-init",
		Statements: []string{
			"CREATE TABLE materialized_view_table (f1 INTEGER)",
			"INSERT INTO materialized_view_table VALUES (10)",
			"CREATE MATERIALIZED VIEW materialized_view_sum AS SELECT SUM(f1) AS total FROM materialized_view_table",
		},
	}
}

func (c *MaterializedView) Manipulate() []*framework.ActionBatch {
	return []*framework.ActionBatch{
		{
			Label: "materialized-view-manipulate-0",
			Statements: []string{
				"INSERT INTO materialized_view_table VALUES (20)",
			},
		},
		{
			Label: "materialized-view-manipulate-1",
			Statements: []string{
				"INSERT INTO materialized_view_table VALUES (30)",
			},
		},
	}
}

func (c *MaterializedView) Validate() *framework.ActionBatch {
	return &framework.ActionBatch{
		Label: "materialized-view-validate",
		Statements: []string{
			expectQueryEquals("SELECT total FROM materialized_view_sum", "60"),
			expectQueryEquals("SELECT COUNT(*) FROM materialized_view_table", "3"),
		},
	}
}
