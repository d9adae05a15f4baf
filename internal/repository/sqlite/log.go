package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/toolshed/internal/model"
	"github.com/sakif/toolshed/internal/repository"
)

// compile-time check that *DB implements repository.LogRepository
var _ repository.LogRepository = (*DB)(nil)

// AppendLog writes an audit row for an import/update event. There is no
// update or delete path for logs.
func (db *DB) AppendLog(ctx context.Context, entry *model.Log) error {
	entry.ID = xid.New().String()
	entry.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO logs (id, project_id, event, score, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.ProjectID, entry.Event, entry.Score, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: appending log: %w", err)
	}
	return nil
}

// LogsByProject returns a project's audit trail, oldest first.
func (db *DB) LogsByProject(ctx context.Context, projectID string) ([]model.Log, error) {
	return db.listLogs(ctx,
		`SELECT id, project_id, event, score, created_at FROM logs
		 WHERE project_id = ? ORDER BY created_at`, projectID)
}

// AllLogs returns every audit row, oldest first.
func (db *DB) AllLogs(ctx context.Context) ([]model.Log, error) {
	return db.listLogs(ctx,
		`SELECT id, project_id, event, score, created_at FROM logs
		 ORDER BY created_at`)
}

func (db *DB) listLogs(ctx context.Context, query string, args ...any) ([]model.Log, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing logs: %w", err)
	}
	defer rows.Close()

	var logs []model.Log
	for rows.Next() {
		var l model.Log
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.Event, &l.Score, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning log row: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating logs: %w", err)
	}
	return logs, nil
}
