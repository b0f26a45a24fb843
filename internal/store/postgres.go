// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"recruitment-chat/internal/common/errors"
	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/models"
)

const (
	profilesTable  = "profiles"
	summariesTable = "profile_ai_summaries"
	jobsTable      = "job_info"
)

// PostgresStore reads pipeline records stored as one JSONB payload per row.
// Rows that fail to decode are skipped with a warning so that a single
// malformed record cannot block a snapshot rebuild.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "record-store"}),
	}
}

func (s *PostgresStore) FetchAllProfiles(ctx context.Context) ([]models.RawProfile, error) {
	var profiles []models.RawProfile
	err := s.fetchPayloads(ctx, profilesTable, func(payload []byte) error {
		var p models.RawProfile
		if err := json.Unmarshal(payload, &p); err != nil {
			return err
		}
		profiles = append(profiles, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *PostgresStore) FetchAllAISummaries(ctx context.Context) ([]models.RawAISummary, error) {
	var summaries []models.RawAISummary
	err := s.fetchPayloads(ctx, summariesTable, func(payload []byte) error {
		var sm models.RawAISummary
		if err := json.Unmarshal(payload, &sm); err != nil {
			return err
		}
		summaries = append(summaries, sm)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *PostgresStore) FetchAllJobs(ctx context.Context) ([]models.RawJob, error) {
	var jobs []models.RawJob
	err := s.fetchPayloads(ctx, jobsTable, func(payload []byte) error {
		var j models.RawJob
		if err := json.Unmarshal(payload, &j); err != nil {
			return err
		}
		jobs = append(jobs, j)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *PostgresStore) fetchPayloads(ctx context.Context, table string, decode func([]byte) error) error {
	start := time.Now()

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT payload FROM %s", table))
	if err != nil {
		return errors.SourceUnavailable(fmt.Sprintf("query %s", table), err)
	}
	defer rows.Close()

	total := 0
	skipped := 0
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return errors.SourceUnavailable(fmt.Sprintf("scan %s row", table), err)
		}
		total++
		if err := decode(payload); err != nil {
			skipped++
			s.logger.Warn("skipping malformed record", map[string]interface{}{
				"table": table,
				"error": err.Error(),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return errors.SourceUnavailable(fmt.Sprintf("iterate %s rows", table), err)
	}

	s.logger.Debug("fetched records", map[string]interface{}{
		"table":      table,
		"rows":       total,
		"skipped":    skipped,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return nil
}
