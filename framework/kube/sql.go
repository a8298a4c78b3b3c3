package kube

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/redhat/upgrade-checks/test/framework"
	"github.com/redhat/upgrade-checks/test/framework/config"
	"github.com/redhat/upgrade-checks/test/framework/retry"
)

// dsn builds a pgwire connection string for the platform's SQL listener.
func dsn(params framework.ConnectionParams) string {
	sslMode := params.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	out := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Database, sslMode)
	if params.Password != "" {
		out += " password=" + params.Password
	}
	return out
}

// openDB dials the endpoint and verifies it answers. Dialing is retried
// because the platform drops connections while it restarts during an
// upgrade step.
func openDB(ctx context.Context, params framework.ConnectionParams, cfg *config.Config) (*sql.DB, error) {
	return retry.DoWithData(ctx, func(ctx context.Context) (*sql.DB, error) {
		db, err := sql.Open("postgres", dsn(params))
		if err != nil {
			return nil, retry.Permanent(fmt.Errorf("failed to open connection to %s:%d: %w", params.Host, params.Port, err))
		}

		pingCtx, cancel := context.WithTimeout(ctx, cfg.SettlePollInterval)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to reach %s:%d: %w", params.Host, params.Port, err)
		}
		return db, nil
	}, retry.WithMaxAttempts(5))
}

// scanAll reads every row as strings. NULL becomes "<null>" so result
// grids stay rectangular.
func scanAll(rows *sql.Rows) ([][]string, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var out [][]string
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		scanTargets := make([]interface{}, len(cols))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		row := make([]string, len(cols))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "<null>"
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read result rows: %w", err)
	}
	return out, nil
}
