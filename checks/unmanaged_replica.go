package checks

import (
	"github.com/redhat/upgrade-checks/test/framework"
	"github.com/redhat/upgrade-checks/test/framework/version"
)

// unmanagedReplicasSince covers versions shipping the
// enable_unmanaged_cluster_replicas setting.
var unmanagedReplicasSince = version.AtLeastRange(version.MustParse("0.68.0-dev"))

// UnmanagedReplica exercises replicas managed outside the cluster's
// replication factor, which requires a platform setting to be enabled
// first.
type UnmanagedReplica struct {
	framework.CheckBase
}

func (c *UnmanagedReplica) Name() string { return "unmanaged-replica" }

func (c *UnmanagedReplica) CanRun(base, current version.Version) bool {
	return unmanagedReplicasSince.Contains(base)
}

func (c *UnmanagedReplica) RequiredSettings() []string {
	return []string{
		"ALTER SYSTEM SET enable_unmanaged_cluster_replicas = on",
	}
}

func (c *UnmanagedReplica) Initialize() *framework.ActionBatch {
	return &framework.ActionBatch{
		Label: "unmanaged-replica-init",
		Statements: []string{
			"CREATE TABLE unmanaged_replica_table (f1 INTEGER)",
			"INSERT INTO unmanaged_replica_table VALUES (1)",
			"CREATE CLUSTER unmanaged_replica REPLICAS ()",
			"CREATE CLUSTER REPLICA unmanaged_replica.r1 SIZE '1'",
		},
	}
}

func (c *UnmanagedReplica) Manipulate() []*framework.ActionBatch {
	return []*framework.ActionBatch{
		{
			Label: "unmanaged-replica-manipulate-0",
			Statements: []string{
				"CREATE CLUSTER REPLICA unmanaged_replica.r2 SIZE '1'",
				"INSERT INTO unmanaged_replica_table VALUES (2)",
			},
		},
		{
			Label: "unmanaged-replica-manipulate-1",
			Statements: []string{
				"DROP CLUSTER REPLICA unmanaged_replica.r1",
				"INSERT INTO unmanaged_replica_table VALUES (3)",
			},
		},
	}
}

func (c *UnmanagedReplica) Validate() *framework.ActionBatch {
	return &framework.ActionBatch{
		Label: "unmanaged-replica-validate",
		Statements: []string{
			expectQueryEquals("SELECT SUM(f1) FROM unmanaged_replica_table", "6"),
			expectQueryEquals(
				"SELECT COUNT(*) FROM mz_cluster_replicas r JOIN mz_clusters c ON r.cluster_id = c.id WHERE c.name = 'unmanaged_replica'",
				"1"),
		},
	}
}
