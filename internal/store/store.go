// internal/store/store.go
package store

import (
	"context"

	"recruitment-chat/internal/models"
)

// RecordStore fetches the raw candidate-pipeline records that the
// aggregation layer joins into a snapshot.
type RecordStore interface {
	FetchAllProfiles(ctx context.Context) ([]models.RawProfile, error)
	FetchAllAISummaries(ctx context.Context) ([]models.RawAISummary, error)
	FetchAllJobs(ctx context.Context) ([]models.RawJob, error)
}
