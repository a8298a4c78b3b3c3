package checks

import (
	"github.com/redhat/upgrade-checks/test/framework"
)

// CreateReplica adds cluster replicas on both sides of an upgrade and
// verifies that computation on the cluster stays correct.
type CreateReplica struct {
	framework.CheckBase
}

func (c *CreateReplica) Name() string { return "create-replica" }

func (c *CreateReplica) Initialize() *framework.ActionBatch {
	return &framework.ActionBatch{
		Label: "create-replica-init",
		Statements: []string{
			"CREATE TABLE create_replica_table (f1 INTEGER)",
			"INSERT INTO create_replica_table VALUES (123)",
			"CREATE CLUSTER create_replica REPLICAS ()",
			"SET cluster = create_replica",
			"CREATE DEFAULT INDEX ON create_replica_table",
			"CREATE MATERIALIZED VIEW create_replica_view AS SELECT SUM(f1) AS total FROM create_replica_table",
		},
	}
}

func (c *CreateReplica) Manipulate() []*framework.ActionBatch {
	return []*framework.ActionBatch{
		{
			Label: "create-replica-manipulate-0",
			Statements: []string{
				"CREATE CLUSTER REPLICA create_replica.replica1 SIZE '2-2'",
			},
		},
		{
			Label: "create-replica-manipulate-1",
			Statements: []string{
				"CREATE CLUSTER REPLICA create_replica.replica2 SIZE '2-2'",
			},
		},
	}
}

func (c *CreateReplica) Validate() *framework.ActionBatch {
	return &framework.ActionBatch{
		Label: "create-replica-validate",
		Statements: []string{
			"SET cluster = create_replica",
			expectQueryEquals("SELECT f1 FROM create_replica_table", "123"),
			expectQueryEquals("SELECT total FROM create_replica_view", "123"),
			expectQueryEquals(
				"SELECT COUNT(*) FROM mz_cluster_replicas r JOIN mz_clusters c ON r.cluster_id = c.id WHERE c.name = 'create_replica'",
				"2"),
		},
	}
}

// DropReplica interleaves replica creation and removal with writes and
// verifies that no write is lost while replicas come and go.
type DropReplica struct {
	framework.CheckBase
}

func (c *DropReplica) Name() string { return "drop-replica" }

func (c *DropReplica) Initialize() *framework.ActionBatch {
	return &framework.ActionBatch{
		Label: "drop-replica-init",
		Statements: []string{
			"CREATE TABLE drop_replica_table (f1 INTEGER)",
			"INSERT INTO drop_replica_table VALUES (1)",
			"CREATE CLUSTER drop_replica REPLICAS ()",
			"SET cluster = drop_replica",
			"CREATE DEFAULT INDEX ON drop_replica_table",
			"CREATE MATERIALIZED VIEW drop_replica_view AS SELECT COUNT(f1) AS total FROM drop_replica_table",
			"INSERT INTO drop_replica_table VALUES (2)",
		},
	}
}

func (c *DropReplica) Manipulate() []*framework.ActionBatch {
	return []*framework.ActionBatch{
		{
			Label: "drop-replica-manipulate-0",
			Statements: []string{
				"CREATE CLUSTER REPLICA drop_replica.replica1 SIZE '2-2'",
				"INSERT INTO drop_replica_table VALUES (3)",
				"CREATE CLUSTER REPLICA drop_replica.replica2 SIZE '2-2'",
				"INSERT INTO drop_replica_table VALUES (4)",
				"DROP CLUSTER REPLICA drop_replica.replica1",
			},
		},
		{
			Label: "drop-replica-manipulate-1",
			Statements: []string{
				"INSERT INTO drop_replica_table VALUES (5)",
				"DROP CLUSTER REPLICA drop_replica.replica2",
				"CREATE CLUSTER REPLICA drop_replica.replica1 SIZE '2-2'",
				"INSERT INTO drop_replica_table VALUES (6)",
			},
		},
	}
}

func (c *DropReplica) Validate() *framework.ActionBatch {
	return &framework.ActionBatch{
		Label: "drop-replica-validate",
		Statements: []string{
			"SET cluster = drop_replica",
			expectQueryEquals("SELECT COUNT(*) FROM drop_replica_table", "6"),
			expectQueryEquals("SELECT SUM(f1) FROM drop_replica_table", "21"),
			expectQueryEquals("SELECT total FROM drop_replica_view", "6"),
		},
	}
}
