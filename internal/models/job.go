// internal/models/job.go
package models

import "time"

// RawJob is a job posting as the record store holds it: identity fields plus
// an open-ended attributes bag. Different ingestion paths populated the bag
// with synonym keys (title vs job_title etc.), so consumers must resolve
// attributes through the enrichment resolver rather than reading keys directly.
type RawJob struct {
	ID         string                 `json:"id,omitempty"`
	UUID       string                 `json:"uuid,omitempty"`
	JobID      string                 `json:"job_id,omitempty"`
	JobFlowID  string                 `json:"job_flow_id,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	CreatedAt  time.Time              `json:"createdAt,omitempty"`
	UpdatedAt  time.Time              `json:"updatedAt,omitempty"`
}

// Identifier returns the first non-empty of id, job_id. Jobs ingested before
// the id column was introduced only carry job_id.
func (j *RawJob) Identifier() string {
	if j.ID != "" {
		return j.ID
	}
	return j.JobID
}
