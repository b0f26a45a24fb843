// internal/dataloader/loader.go
package dataloader

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"recruitment-chat/internal/common/errors"
	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/common/metrics"
	"recruitment-chat/internal/common/observability"
	"recruitment-chat/internal/models"
	"recruitment-chat/internal/store"
)

// Loader owns the single live snapshot. Reads trigger a rebuild when no
// snapshot exists or the current one is older than the TTL; concurrent reads
// share one in-flight rebuild. A failed rebuild keeps the last good snapshot
// in service; only when no snapshot was ever built does the error reach the
// caller.
type Loader struct {
	store  store.RecordStore
	logger logger.Logger
	obs    *observability.Observability
	ttl    time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	snapshot *models.Snapshot

	rebuilds  singleflight.Group
	onPublish func(context.Context, *models.Snapshot)
}

func NewLoader(recordStore store.RecordStore, ttl time.Duration, log logger.Logger, obs *observability.Observability) *Loader {
	return &Loader{
		store:  recordStore,
		logger: log.WithFields(map[string]interface{}{"component": "dataloader"}),
		obs:    obs,
		ttl:    ttl,
		now:    time.Now,
	}
}

// SetPublishHook registers a callback invoked after every successful rebuild,
// off the rebuild's critical path. Used to fan the snapshot out to secondary
// consumers such as the search index.
func (l *Loader) SetPublishHook(hook func(context.Context, *models.Snapshot)) {
	l.onPublish = hook
}

// GetSnapshot returns the current snapshot, rebuilding first when it is
// missing or past its TTL.
func (l *Loader) GetSnapshot(ctx context.Context) (*models.Snapshot, error) {
	l.mu.RLock()
	current := l.snapshot
	l.mu.RUnlock()

	if current != nil && current.Age(l.now()) <= l.ttl {
		return current, nil
	}
	return l.rebuild(ctx)
}

// Refresh discards the current snapshot and rebuilds unconditionally.
func (l *Loader) Refresh(ctx context.Context) (*models.Snapshot, error) {
	l.mu.Lock()
	l.snapshot = nil
	l.mu.Unlock()
	return l.rebuild(ctx)
}

// rebuild loads the three raw collections and publishes a fresh snapshot.
// Concurrent callers coalesce onto one in-flight build. On failure the last
// published snapshot, if any, is returned instead of the error.
func (l *Loader) rebuild(ctx context.Context) (*models.Snapshot, error) {
	result, err, _ := l.rebuilds.Do("snapshot", func() (interface{}, error) {
		// A rebuild that finished while this caller was queueing already
		// produced a fresh snapshot; reuse it instead of building again.
		l.mu.RLock()
		current := l.snapshot
		l.mu.RUnlock()
		if current != nil && current.Age(l.now()) <= l.ttl {
			return current, nil
		}
		return l.buildSnapshot(ctx)
	})
	if err != nil {
		l.mu.RLock()
		stale := l.snapshot
		l.mu.RUnlock()
		if stale != nil {
			l.logger.Warn("rebuild failed, serving stale snapshot", map[string]interface{}{
				"error":       err.Error(),
				"snapshotAge": stale.Age(l.now()).String(),
			})
			return stale, nil
		}
		return nil, err
	}

	snapshot := result.(*models.Snapshot)
	l.mu.Lock()
	l.snapshot = snapshot
	l.mu.Unlock()
	return snapshot, nil
}

func (l *Loader) buildSnapshot(ctx context.Context) (*models.Snapshot, error) {
	start := l.now()
	l.logger.Info("rebuilding snapshot", nil)

	profiles, err := l.store.FetchAllProfiles(ctx)
	if err != nil {
		return nil, l.rebuildFailed(ctx, start, err)
	}
	summaries, err := l.store.FetchAllAISummaries(ctx)
	if err != nil {
		return nil, l.rebuildFailed(ctx, start, err)
	}
	jobs, err := l.store.FetchAllJobs(ctx)
	if err != nil {
		return nil, l.rebuildFailed(ctx, start, err)
	}

	enrichedProfiles := enrichProfiles(profiles, summaries)
	enrichedJobs := enrichJobs(jobs)

	snapshot := &models.Snapshot{
		Profiles:      enrichedProfiles,
		ProfilesCount: len(enrichedProfiles),

		Jobs:      enrichedJobs,
		JobsCount: len(enrichedJobs),

		AISummaries:      summaries,
		AISummariesCount: len(summaries),

		Statistics:     buildStatistics(enrichedProfiles, enrichedJobs, len(summaries)),
		SearchableData: buildSearchableData(enrichedProfiles, enrichedJobs),

		LastUpdated: l.now(),
		DataVersion: models.SnapshotVersion,
	}

	duration := l.now().Sub(start)
	metrics.SnapshotRebuilds.WithLabelValues("success").Inc()
	metrics.SnapshotRebuildDuration.Observe(duration.Seconds())
	metrics.SnapshotProfiles.Set(float64(snapshot.ProfilesCount))
	metrics.SnapshotJobs.Set(float64(snapshot.JobsCount))
	if l.obs != nil {
		l.obs.RecordRebuild(ctx, "success")
		l.obs.RecordRebuildDuration(ctx, duration, "success")
	}

	l.logger.Info("snapshot rebuilt", map[string]interface{}{
		"profiles":   snapshot.ProfilesCount,
		"jobs":       snapshot.JobsCount,
		"summaries":  snapshot.AISummariesCount,
		"durationMs": duration.Milliseconds(),
	})

	if l.onPublish != nil {
		go l.onPublish(context.WithoutCancel(ctx), snapshot)
	}
	return snapshot, nil
}

func (l *Loader) rebuildFailed(ctx context.Context, start time.Time, cause error) error {
	metrics.SnapshotRebuilds.WithLabelValues("failure").Inc()
	if l.obs != nil {
		l.obs.RecordRebuild(ctx, "failure")
		l.obs.RecordRebuildDuration(ctx, l.now().Sub(start), "failure")
	}
	return errors.SourceUnavailable("failed to load data", cause)
}

// Search runs the free-text query and filters over the current snapshot.
func (l *Loader) Search(ctx context.Context, query string, filters models.SearchFilters) (*models.SearchResult, error) {
	snapshot, err := l.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	result := searchProfiles(snapshot, query, filters)
	metrics.SearchResults.Observe(float64(result.Total))
	if l.obs != nil {
		l.obs.RecordQuery(ctx, "search")
	}
	return &result, nil
}

// GetProfile looks up one enriched profile by uuid.
func (l *Loader) GetProfile(ctx context.Context, uuid string) (*models.EnrichedProfile, error) {
	snapshot, err := l.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snapshot.Profiles {
		if snapshot.Profiles[i].UUID == uuid {
			return &snapshot.Profiles[i], nil
		}
	}
	return nil, errors.NotFound(errors.ErrCodeProfileNotFound, "profile not found: "+uuid)
}

// GetJob looks up one enriched job by its resolved identifier.
func (l *Loader) GetJob(ctx context.Context, id string) (*models.EnrichedJob, error) {
	snapshot, err := l.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snapshot.Jobs {
		if snapshot.Jobs[i].ID == id {
			return &snapshot.Jobs[i], nil
		}
	}
	return nil, errors.NotFound(errors.ErrCodeJobNotFound, "job not found: "+id)
}

// GetStatistics returns the current snapshot's analytics block.
func (l *Loader) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	snapshot, err := l.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &snapshot.Statistics, nil
}

// GetOverview returns the condensed snapshot view.
func (l *Loader) GetOverview(ctx context.Context) (*models.Overview, error) {
	snapshot, err := l.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Overview{
		ProfilesCount:    snapshot.ProfilesCount,
		JobsCount:        snapshot.JobsCount,
		AISummariesCount: snapshot.AISummariesCount,
		Statistics:       snapshot.Statistics,
		LastUpdated:      snapshot.LastUpdated,
	}, nil
}

// GetSearchableData returns the facet index of the current snapshot.
func (l *Loader) GetSearchableData(ctx context.Context) (*models.SearchableData, error) {
	snapshot, err := l.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &snapshot.SearchableData, nil
}
