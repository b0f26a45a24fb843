// internal/models/summary.go
package models

import "time"

// CRM placement states carried on the AI summary record.
const (
	CRMNotMoved = 0
	CRMMoved    = 1
)

// RawAISummary is the stored AI evaluation of a profile against a job.
// The relation to RawProfile is one-to-zero-or-one keyed by UUID; a profile
// without a summary is a valid state.
type RawAISummary struct {
	ID             string                 `json:"id,omitempty"`
	UUID           string                 `json:"uuid"`
	JobID          string                 `json:"job_id,omitempty"`
	UserID         string                 `json:"user_id,omitempty"`
	JobFlowID      string                 `json:"job_flow_id,omitempty"`
	Moved          int                    `json:"moved"`
	RelevantMonths string                 `json:"relevant_months,omitempty"`
	OpenToWork     string                 `json:"open_to_work,omitempty"`
	FitPercentage  float64                `json:"fit_percentage"`
	Matched        map[string]interface{} `json:"matched,omitempty"`
	Contacted      string                 `json:"contacted,omitempty"`
	Unlocked       string                 `json:"unlocked,omitempty"`
	EmailFound     string                 `json:"email_found,omitempty"`
	Viewed         string                 `json:"viewed,omitempty"`
	CreatedAt      time.Time              `json:"createdAt,omitempty"`
	UpdatedAt      time.Time              `json:"updatedAt,omitempty"`
}

// NarrativeSummary digs the free-text summary out of the matched object
// (matched.full_profile.summary). The second return reports whether the
// field was present and non-empty.
func (s *RawAISummary) NarrativeSummary() (string, bool) {
	if s == nil || s.Matched == nil {
		return "", false
	}
	fullProfile, ok := s.Matched["full_profile"].(map[string]interface{})
	if !ok {
		return "", false
	}
	text, ok := fullProfile["summary"].(string)
	if !ok || text == "" {
		return "", false
	}
	return text, true
}

// InCRM reports whether the candidate behind this summary has been moved to CRM.
func (s *RawAISummary) InCRM() bool {
	return s.Moved == CRMMoved
}
