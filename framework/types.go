package framework

import (
	"context"

	"github.com/redhat/upgrade-checks/test/framework/version"
)

// ActionBatch is an ordered list of operations issued against the
// platform under test in one step. The orchestrator treats the contents
// as opaque; interpretation belongs to the Environment.
type ActionBatch struct {
	// Label identifies the batch in logs and error messages.
	Label string

	// Statements are executed in order by the environment.
	Statements []string
}

// Empty reports whether the batch carries no work. A nil batch is empty.
func (b *ActionBatch) Empty() bool {
	return b == nil || len(b.Statements) == 0
}

// PendingHandle is a reference to an asynchronously started operation.
// Its effects are only guaranteed visible after a successful Join.
type PendingHandle interface{}

// ConnectionParams locate a SQL endpoint of the platform under test.
type ConnectionParams struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// Environment is the collaborator that owns the mechanics of the
// platform under test: executing batches, upgrading it across versions
// and managing auxiliary services. Implementations live outside the
// orchestration core; framework/kube provides the Kubernetes one.
type Environment interface {
	// Execute starts the batch against the platform and returns a handle
	// for the in-flight work.
	Execute(ctx context.Context, batch *ActionBatch) (PendingHandle, error)

	// Join blocks until the handle's work has completed or failed.
	Join(ctx context.Context, handle PendingHandle) error

	// AdvanceVersion performs one upgrade step, moving the platform to
	// the next version on its configured path.
	AdvanceVersion(ctx context.Context) error

	// Version reports the version the platform is currently running.
	Version(ctx context.Context) (version.Version, error)

	// SQL runs a single statement and returns the rows as strings.
	SQL(ctx context.Context, statement string, params ConnectionParams) ([][]string, error)

	// StartService brings up a named auxiliary service.
	StartService(ctx context.Context, name string) error

	// KillService stops a named auxiliary service.
	KillService(ctx context.Context, name string) error
}
