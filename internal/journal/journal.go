// Package journal persists an audit trail of dispatched requests.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS request_journal (
	id BIGSERIAL PRIMARY KEY,
	request_id TEXT NOT NULL,
	request_type TEXT NOT NULL,
	agent TEXT NOT NULL,
	status TEXT NOT NULL,
	duration_ms BIGINT NOT NULL,
	payload JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Journal struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Journal {
	return &Journal{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "journal"}),
	}
}

// EnsureSchema creates the journal table when missing.
func (j *Journal) EnsureSchema(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure journal schema: %w", err)
	}
	return nil
}

// Record appends one dispatch outcome. Journal failures are logged and
// returned but never block request processing.
func (j *Journal) Record(ctx context.Context, req *models.Request, resp *models.Response, duration time.Duration) error {
	payload, err := json.Marshal(map[string]interface{}{
		"request":  req,
		"response": resp,
	})
	if err != nil {
		return fmt.Errorf("marshal journal payload: %w", err)
	}

	status := models.StatusError
	agent := ""
	if resp != nil {
		status = resp.Status
		agent = resp.Agent
	}

	_, err = j.db.ExecContext(ctx,
		`INSERT INTO request_journal (request_id, request_type, agent, status, duration_ms, payload)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		req.ID, req.Type, agent, status, duration.Milliseconds(), payload,
	)
	if err != nil {
		j.logger.Error("journal write failed", map[string]interface{}{
			"requestId": req.ID,
			"error":     err.Error(),
		})
		return fmt.Errorf("journal write: %w", err)
	}
	return nil
}

// CountByStatus returns journal totals grouped by response status.
func (j *Journal) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM request_journal GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("journal counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
