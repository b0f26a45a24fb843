// internal/services/crm/service.go
package crm

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"recruitment-chat/internal/common/errors"
	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/models"
)

// SnapshotProvider supplies the current enriched snapshot; the CRM service
// reads profile fields from it instead of re-querying the record store.
type SnapshotProvider interface {
	GetSnapshot(ctx context.Context) (*models.Snapshot, error)
}

// Service flips the CRM placement flag on AI summary rows and answers
// status queries over them. The flag lives inside the summary's JSONB
// payload; profile detail comes from the in-memory snapshot.
type Service struct {
	db       *sql.DB
	snapshot SnapshotProvider
	logger   logger.Logger
	now      func() time.Time
}

func New(db *sql.DB, snapshot SnapshotProvider, log logger.Logger) *Service {
	return &Service{
		db:       db,
		snapshot: snapshot,
		logger:   log.WithFields(map[string]interface{}{"component": "crm"}),
		now:      time.Now,
	}
}

// MoveResult reports the outcome of one placement change.
type MoveResult struct {
	CandidateID string    `json:"candidate_id"`
	MovedStatus int       `json:"moved_status"`
	UpdatedAt   time.Time `json:"updated_at"`
	Message     string    `json:"message"`
}

// BulkMoveResult reports a move-multiple operation, per candidate.
type BulkMoveResult struct {
	CandidatesMoved int            `json:"candidates_moved"`
	TotalRequested  int            `json:"total_requested"`
	Results         []BulkMoveItem `json:"results"`
}

type BulkMoveItem struct {
	CandidateID string `json:"candidate_id"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

// CandidateFilters narrow a status query. Moved uses a pointer so that
// "not moved" (0) is expressible.
type CandidateFilters struct {
	Moved            *int    `json:"moved,omitempty"`
	JobID            string  `json:"job_id,omitempty"`
	MinFitPercentage float64 `json:"min_fit_percentage,omitempty"`
	ExperienceYears  float64 `json:"experience_years,omitempty"`
	Industry         string  `json:"industry,omitempty"`
	Location         string  `json:"location,omitempty"`
	Limit            int     `json:"limit,omitempty"`
}

// Candidate is one row of a status query: summary fields plus the profile
// detail joined from the snapshot.
type Candidate struct {
	UUID            string  `json:"uuid"`
	JobID           string  `json:"job_id,omitempty"`
	Moved           int     `json:"moved"`
	FitPercentage   float64 `json:"fit_percentage"`
	Name            string  `json:"name,omitempty"`
	CurrentRole     string  `json:"current_role,omitempty"`
	ExperienceYears float64 `json:"experience_years"`
	Industry        string  `json:"industry,omitempty"`
	Location        string  `json:"location,omitempty"`
}

// CandidateList is the full status query response.
type CandidateList struct {
	Candidates     []Candidate      `json:"candidates"`
	Total          int              `json:"total"`
	MovedCount     int              `json:"moved_count"`
	NotMovedCount  int              `json:"not_moved_count"`
	FiltersApplied CandidateFilters `json:"filters_applied"`
}

// Statistics summarizes CRM placement across all summaries.
type Statistics struct {
	TotalCandidates int     `json:"total_candidates"`
	MovedToCRM      int     `json:"moved_to_crm"`
	NotMoved        int     `json:"not_moved"`
	CRMPercentage   float64 `json:"crm_percentage"`
}

// MoveToCRM marks one candidate as placed. An optional job id is recorded on
// the summary for context.
func (s *Service) MoveToCRM(ctx context.Context, candidateID, jobID string) (*MoveResult, error) {
	return s.setMoved(ctx, candidateID, jobID, models.CRMMoved, "Candidate successfully moved to CRM")
}

// RemoveFromCRM reverts a candidate to the not-moved state.
func (s *Service) RemoveFromCRM(ctx context.Context, candidateID string) (*MoveResult, error) {
	return s.setMoved(ctx, candidateID, "", models.CRMNotMoved, "Candidate successfully removed from CRM")
}

func (s *Service) setMoved(ctx context.Context, candidateID, jobID string, moved int, message string) (*MoveResult, error) {
	now := s.now().UTC()

	payload := map[string]interface{}{
		"moved":     moved,
		"updatedAt": now.Format(time.RFC3339Nano),
	}
	if jobID != "" {
		payload["job_id"] = jobID
	}
	patch, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCRMUpdateFailed, errors.KindInternal, "encode update", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE profile_ai_summaries SET payload = payload || $2::jsonb WHERE payload->>'uuid' = $1`,
		candidateID, string(patch),
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCRMUpdateFailed, errors.KindSourceUnavailable, "update placement", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCRMUpdateFailed, errors.KindInternal, "rows affected", err)
	}
	if affected == 0 {
		return nil, errors.NotFound(errors.ErrCodeProfileNotFound, "candidate not found in AI summaries: "+candidateID)
	}

	s.logger.Info("updated CRM placement", map[string]interface{}{
		"candidateId": candidateID,
		"moved":       moved,
	})
	return &MoveResult{
		CandidateID: candidateID,
		MovedStatus: moved,
		UpdatedAt:   now,
		Message:     message,
	}, nil
}

// MoveMultipleToCRM moves a batch of candidates, reporting success per
// candidate instead of failing the whole batch on the first miss.
func (s *Service) MoveMultipleToCRM(ctx context.Context, candidateIDs []string, jobID string) (*BulkMoveResult, error) {
	result := &BulkMoveResult{
		TotalRequested: len(candidateIDs),
		Results:        make([]BulkMoveItem, 0, len(candidateIDs)),
	}
	for _, id := range candidateIDs {
		item := BulkMoveItem{CandidateID: id, Success: true}
		if _, err := s.MoveToCRM(ctx, id, jobID); err != nil {
			if !errors.IsNotFound(err) {
				return nil, err
			}
			item.Success = false
			item.Error = "candidate not found"
		} else {
			result.CandidatesMoved++
		}
		result.Results = append(result.Results, item)
	}
	return result, nil
}

// GetCandidatesByStatus filters summaries in SQL (moved, job, fit) and the
// snapshot's profile fields in memory (experience, industry, location).
func (s *Service) GetCandidatesByStatus(ctx context.Context, filters CandidateFilters) (*CandidateList, error) {
	clauses := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Moved != nil {
		clauses = append(clauses, "(payload->>'moved')::int = "+arg(*filters.Moved))
	}
	if filters.JobID != "" {
		clauses = append(clauses, "payload->>'job_id' = "+arg(filters.JobID))
	}
	if filters.MinFitPercentage > 0 {
		clauses = append(clauses, "(payload->>'fit_percentage')::float >= "+arg(filters.MinFitPercentage))
	}

	query := "SELECT payload FROM profile_ai_summaries"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY (payload->>'fit_percentage')::float DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCRMUpdateFailed, errors.KindSourceUnavailable, "query candidates", err)
	}
	defer rows.Close()

	var summaries []models.RawAISummary
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCRMUpdateFailed, errors.KindSourceUnavailable, "scan candidate", err)
		}
		var summary models.RawAISummary
		if err := json.Unmarshal(payload, &summary); err != nil {
			s.logger.Warn("skipping malformed summary", map[string]interface{}{"error": err.Error()})
			continue
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCRMUpdateFailed, errors.KindSourceUnavailable, "iterate candidates", err)
	}

	profiles, err := s.profilesByUUID(ctx)
	if err != nil {
		return nil, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}

	list := &CandidateList{Candidates: []Candidate{}, FiltersApplied: filters}
	for i := range summaries {
		summary := &summaries[i]
		if summary.InCRM() {
			list.MovedCount++
		} else {
			list.NotMovedCount++
		}

		candidate := Candidate{
			UUID:          summary.UUID,
			JobID:         summary.JobID,
			Moved:         summary.Moved,
			FitPercentage: summary.FitPercentage,
		}
		if profile, ok := profiles[summary.UUID]; ok {
			candidate.Name = profile.Name
			candidate.CurrentRole = profile.CurrentRole
			candidate.ExperienceYears = profile.ExperienceYears
			candidate.Industry = profile.Industry
			candidate.Location = profile.Location.Name
		}

		if filters.ExperienceYears > 0 && candidate.ExperienceYears < filters.ExperienceYears {
			continue
		}
		if filters.Industry != "" && !strings.EqualFold(candidate.Industry, filters.Industry) {
			continue
		}
		if filters.Location != "" && !strings.EqualFold(candidate.Location, filters.Location) {
			continue
		}

		list.Total++
		if len(list.Candidates) < limit {
			list.Candidates = append(list.Candidates, candidate)
		}
	}
	return list, nil
}

// GetStatistics reports placement totals.
func (s *Service) GetStatistics(ctx context.Context) (*Statistics, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE (payload->>'moved')::int = 1),
		       COUNT(*) FILTER (WHERE (payload->>'moved')::int = 0 OR payload->>'moved' IS NULL)
		FROM profile_ai_summaries`)

	var stats Statistics
	if err := row.Scan(&stats.TotalCandidates, &stats.MovedToCRM, &stats.NotMoved); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCRMUpdateFailed, errors.KindSourceUnavailable, "count placements", err)
	}
	if stats.TotalCandidates > 0 {
		stats.CRMPercentage = float64(stats.MovedToCRM) / float64(stats.TotalCandidates) * 100
	}
	return &stats, nil
}

func (s *Service) profilesByUUID(ctx context.Context) (map[string]*models.EnrichedProfile, error) {
	snapshot, err := s.snapshot.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	byUUID := make(map[string]*models.EnrichedProfile, len(snapshot.Profiles))
	for i := range snapshot.Profiles {
		byUUID[snapshot.Profiles[i].UUID] = &snapshot.Profiles[i]
	}
	return byUUID, nil
}
