package kube

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/redhat/upgrade-checks/test/framework"
	"github.com/redhat/upgrade-checks/test/framework/config"
	"github.com/redhat/upgrade-checks/test/framework/profile"
	"github.com/redhat/upgrade-checks/test/framework/version"
	"github.com/redhat/upgrade-checks/test/framework/wait"
)

// versionQuery asks the platform which build it is running. The result
// starts with the version, e.g. "v0.52.4 (889eb1ba3)".
const versionQuery = "SELECT mz_version()"

// Environment runs action batches against a platform Deployment and
// performs upgrade steps by rolling its image forward along the
// profile's upgrade path.
type Environment struct {
	cluster *Cluster
	prof    *profile.Profile
	logger  *slog.Logger
	cfg     *config.Config

	mu        sync.Mutex
	pathIndex int
	db        *sql.DB
}

// pending is the handle for one in-flight action batch.
type pending struct {
	label string
	done  chan struct{}
	err   error
}

// Environment builds the framework.Environment driving the platform
// described by the profile inside this cluster.
func (c *Cluster) Environment(prof *profile.Profile) (*Environment, error) {
	if prof == nil {
		return nil, ErrProfileRequired
	}
	return &Environment{
		cluster: c,
		prof:    prof,
		logger:  c.logger,
		cfg:     c.config,
	}, nil
}

// ConnectionParams returns the profile's default SQL endpoint.
func (e *Environment) ConnectionParams() framework.ConnectionParams {
	conn := e.prof.Connection
	return framework.ConnectionParams{
		Host:     conn.Host,
		Port:     conn.Port,
		User:     conn.User,
		Database: conn.Database,
		SSLMode:  conn.SSLMode,
	}
}

// Execute starts the batch's statements in order against the platform.
// The returned handle completes when the last statement has finished.
func (e *Environment) Execute(ctx context.Context, batch *framework.ActionBatch) (framework.PendingHandle, error) {
	db, err := e.sqlDB(ctx)
	if err != nil {
		return nil, err
	}

	p := &pending{label: batch.Label, done: make(chan struct{})}
	e.logger.Debug("executing batch", "label", batch.Label, "statements", len(batch.Statements))

	go func() {
		defer close(p.done)
		for _, stmt := range batch.Statements {
			stmtCtx, cancel := context.WithTimeout(ctx, e.cfg.StatementTimeout)
			_, err := db.ExecContext(stmtCtx, stmt)
			cancel()
			if err != nil {
				p.err = fmt.Errorf("statement %q: %w", stmt, err)
				return
			}
		}
	}()

	return p, nil
}

// Join blocks until the handle's batch has completed or failed.
func (e *Environment) Join(ctx context.Context, handle framework.PendingHandle) error {
	p, ok := handle.(*pending)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnknownHandle, handle)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
	}
	if p.err != nil {
		return fmt.Errorf("batch %s: %w", p.label, p.err)
	}
	return nil
}

// AdvanceVersion rolls the platform Deployment to the next version on
// the profile's upgrade path and waits until the new build both finished
// its rollout and answers SQL with the expected version.
func (e *Environment) AdvanceVersion(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	path := e.prof.Path()
	if e.pathIndex >= len(path) {
		return fmt.Errorf("%w: already at %s", ErrUpgradePathExhausted, path[len(path)-1])
	}
	next := path[e.pathIndex]

	e.logger.Info("upgrading platform",
		"deployment", e.prof.Platform.Deployment,
		"to", next.String())

	if err := e.setImage(ctx, imageTag(e.prof.Platform.Image, next)); err != nil {
		return err
	}
	if err := e.cluster.WaitForDeploymentReady(ctx, e.prof.Platform.Deployment); err != nil {
		return err
	}

	// The server restarted; existing connections are stale.
	e.closeDBLocked()

	err := wait.PollContext(ctx, func() (bool, error) {
		v, err := e.versionLocked(ctx)
		if err != nil {
			return false, err
		}
		if v.Less(next) {
			return false, fmt.Errorf("platform still reports %s, want %s", v, next)
		}
		return true, nil
	}, e.cfg.SettleTimeout, e.cfg.SettlePollInterval)
	if err != nil {
		return fmt.Errorf("platform did not settle on %s: %w", next, err)
	}

	e.pathIndex++
	return nil
}

// Version reports the version the platform is currently running.
func (e *Environment) Version(ctx context.Context) (version.Version, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.versionLocked(ctx)
}

func (e *Environment) versionLocked(ctx context.Context) (version.Version, error) {
	db, err := e.sqlDBLocked(ctx)
	if err != nil {
		return version.Version{}, err
	}

	var raw string
	if err := db.QueryRowContext(ctx, versionQuery).Scan(&raw); err != nil {
		return version.Version{}, fmt.Errorf("failed to query platform version: %w", err)
	}
	return parseServerVersion(raw)
}

// SQL runs a single statement against the given endpoint and returns
// all rows as strings. Used by checks that assert against secondary
// endpoints or as other users.
func (e *Environment) SQL(ctx context.Context, statement string, params framework.ConnectionParams) ([][]string, error) {
	db, err := openDB(ctx, params, e.cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	stmtCtx, cancel := context.WithTimeout(ctx, e.cfg.StatementTimeout)
	defer cancel()

	rows, err := db.QueryContext(stmtCtx, statement)
	if err != nil {
		return nil, fmt.Errorf("statement %q: %w", statement, err)
	}
	defer rows.Close()

	return scanAll(rows)
}

// StartService scales a named auxiliary Deployment up and waits for it.
func (e *Environment) StartService(ctx context.Context, name string) error {
	deployment, ok := e.prof.Platform.Services[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownService, name)
	}
	if err := e.cluster.ScaleDeployment(ctx, deployment, 1); err != nil {
		return err
	}
	return e.cluster.WaitForDeploymentReady(ctx, deployment)
}

// KillService scales a named auxiliary Deployment to zero and waits for
// its pods to be gone.
func (e *Environment) KillService(ctx context.Context, name string) error {
	deployment, ok := e.prof.Platform.Services[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownService, name)
	}
	if err := e.cluster.ScaleDeployment(ctx, deployment, 0); err != nil {
		return err
	}
	return e.cluster.WaitForDeploymentScaledDown(ctx, deployment)
}

// Close releases the environment's pooled SQL connections.
func (e *Environment) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeDBLocked()
	return nil
}

func (e *Environment) setImage(ctx context.Context, image string) error {
	container := e.prof.Platform.Container
	if container == "" {
		container = e.prof.Platform.Deployment
	}
	patch := fmt.Sprintf(`{"spec":{"template":{"spec":{"containers":[{"name":%q,"image":%q}]}}}}`,
		container, image)

	_, err := e.cluster.client.AppsV1().Deployments(e.cluster.namespace).Patch(
		ctx, e.prof.Platform.Deployment, types.StrategicMergePatchType, []byte(patch), metav1.PatchOptions{})
	if err != nil {
		return fmt.Errorf("failed to set deployment image to %s: %w", image, err)
	}
	return nil
}

func (e *Environment) sqlDB(ctx context.Context) (*sql.DB, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sqlDBLocked(ctx)
}

func (e *Environment) sqlDBLocked(ctx context.Context) (*sql.DB, error) {
	if e.db != nil {
		return e.db, nil
	}
	db, err := openDB(ctx, e.ConnectionParams(), e.cfg)
	if err != nil {
		return nil, err
	}
	e.db = db
	return db, nil
}

func (e *Environment) closeDBLocked() {
	if e.db != nil {
		e.db.Close()
		e.db = nil
	}
}

// imageTag joins an untagged image repository with a version tag.
func imageTag(image string, v version.Version) string {
	return image + ":v" + v.String()
}

// parseServerVersion extracts the version from the platform's version
// string, which may carry a build hash after the version itself.
func parseServerVersion(raw string) (version.Version, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return version.Version{}, &version.ParseError{Input: raw, Reason: "empty version string"}
	}
	return version.Parse(fields[0])
}
