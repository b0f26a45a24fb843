// internal/dataloader/loader_test.go
package dataloader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "recruitment-chat/internal/common/errors"
	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

// fakeRecordStore serves canned collections and counts fetch rounds.
type fakeRecordStore struct {
	mu        sync.Mutex
	profiles  []models.RawProfile
	summaries []models.RawAISummary
	jobs      []models.RawJob
	err       error
	fetches   int32
	delay     time.Duration
}

func (f *fakeRecordStore) FetchAllProfiles(ctx context.Context) ([]models.RawProfile, error) {
	atomic.AddInt32(&f.fetches, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles, nil
}

func (f *fakeRecordStore) FetchAllAISummaries(ctx context.Context) ([]models.RawAISummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.summaries, nil
}

func (f *fakeRecordStore) FetchAllJobs(ctx context.Context) ([]models.RawJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.jobs, nil
}

func (f *fakeRecordStore) setError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeRecordStore) fetchRounds() int {
	return int(atomic.LoadInt32(&f.fetches))
}

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func createTestLoader(t *testing.T, store *fakeRecordStore, ttl time.Duration) (*Loader, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLoader(store, ttl, logger.NewZapAdapter(zaptest.NewLogger(t)), nil)
	l.now = clock.Now
	return l, clock
}

func defaultTestStore() *fakeRecordStore {
	return &fakeRecordStore{
		profiles: []models.RawProfile{
			{UUID: "a1", FullName: "Jane Smith", Skills: []string{"Python", "SQL"}, YearsOfExperience: 4, LocationRaw: "Austin, TX, USA"},
			{UUID: "a2", FullName: "Omar Haddad", Skills: []string{"Go"}, YearsOfExperience: 9},
		},
		summaries: []models.RawAISummary{
			{UUID: "a2", FitPercentage: 84},
		},
		jobs: []models.RawJob{
			{ID: "job-1", Attributes: map[string]interface{}{"title": "Backend Engineer", "skills": []interface{}{"Go", "Python"}}},
		},
	}
}

// ==========================
// Snapshot Cache Tests
// ==========================

func TestLoader_GetSnapshotBuildsOnFirstRead(t *testing.T) {
	store := defaultTestStore()
	loader, _ := createTestLoader(t, store, 5*time.Minute)

	snapshot, err := loader.GetSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, snapshot.ProfilesCount)
	assert.Equal(t, 1, snapshot.JobsCount)
	assert.Equal(t, 1, snapshot.AISummariesCount)
	assert.Equal(t, models.SnapshotVersion, snapshot.DataVersion)
	assert.Equal(t, 1, store.fetchRounds())
}

func TestLoader_PublishHookFiresOnRebuild(t *testing.T) {
	store := defaultTestStore()
	loader, _ := createTestLoader(t, store, 5*time.Minute)

	published := make(chan *models.Snapshot, 1)
	loader.SetPublishHook(func(ctx context.Context, snapshot *models.Snapshot) {
		published <- snapshot
	})

	snapshot, err := loader.GetSnapshot(context.Background())
	require.NoError(t, err)

	select {
	case got := <-published:
		assert.Same(t, snapshot, got)
	case <-time.After(time.Second):
		t.Fatal("publish hook was not invoked")
	}

	// A cache hit must not republish.
	_, err = loader.GetSnapshot(context.Background())
	require.NoError(t, err)
	select {
	case <-published:
		t.Fatal("publish hook fired on a cache hit")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLoader_GetSnapshotWithinTTLReturnsSameSnapshot(t *testing.T) {
	store := defaultTestStore()
	loader, clock := createTestLoader(t, store, 5*time.Minute)

	first, err := loader.GetSnapshot(context.Background())
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	second, err := loader.GetSnapshot(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, store.fetchRounds())
}

func TestLoader_GetSnapshotPastTTLRebuildsOnce(t *testing.T) {
	store := defaultTestStore()
	loader, clock := createTestLoader(t, store, 5*time.Minute)

	first, err := loader.GetSnapshot(context.Background())
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	second, err := loader.GetSnapshot(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, store.fetchRounds())
}

func TestLoader_RefreshDiscardsCurrentSnapshot(t *testing.T) {
	store := defaultTestStore()
	loader, _ := createTestLoader(t, store, 5*time.Minute)

	first, err := loader.GetSnapshot(context.Background())
	require.NoError(t, err)

	second, err := loader.Refresh(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, store.fetchRounds())
}

func TestLoader_FailedRebuildServesStaleSnapshot(t *testing.T) {
	store := defaultTestStore()
	loader, clock := createTestLoader(t, store, 5*time.Minute)

	first, err := loader.GetSnapshot(context.Background())
	require.NoError(t, err)

	store.setError(errors.New("connection reset"))
	clock.Advance(10 * time.Minute)

	stale, err := loader.GetSnapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, stale)
}

func TestLoader_FailureWithNoSnapshotSurfacesError(t *testing.T) {
	store := defaultTestStore()
	store.setError(errors.New("connection refused"))
	loader, _ := createTestLoader(t, store, 5*time.Minute)

	_, err := loader.GetSnapshot(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsSourceUnavailable(err))
	assert.Contains(t, err.Error(), "failed to load data")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLoader_RecoversAfterFailure(t *testing.T) {
	store := defaultTestStore()
	store.setError(errors.New("connection refused"))
	loader, _ := createTestLoader(t, store, 5*time.Minute)

	_, err := loader.GetSnapshot(context.Background())
	require.Error(t, err)

	store.setError(nil)
	snapshot, err := loader.GetSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.ProfilesCount)
}

func TestLoader_ConcurrentGetsShareOneRebuild(t *testing.T) {
	store := defaultTestStore()
	store.delay = 50 * time.Millisecond
	loader, _ := createTestLoader(t, store, 5*time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := loader.GetSnapshot(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.fetchRounds())
}

func TestLoader_RefreshIsIdempotentOnUnchangedData(t *testing.T) {
	store := defaultTestStore()
	loader, _ := createTestLoader(t, store, 5*time.Minute)

	first, err := loader.Refresh(context.Background())
	require.NoError(t, err)
	second, err := loader.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Statistics, second.Statistics)
	assert.Equal(t, first.SearchableData, second.SearchableData)
}

// ==========================
// Query Facade Tests
// ==========================

func TestLoader_SearchSortsByFit(t *testing.T) {
	loader, _ := createTestLoader(t, defaultTestStore(), 5*time.Minute)

	result, err := loader.Search(context.Background(), "", models.SearchFilters{})
	require.NoError(t, err)

	require.Equal(t, 2, result.Total)
	assert.Equal(t, "a2", result.Results[0].UUID)
	assert.Equal(t, "a1", result.Results[1].UUID)
}

func TestLoader_GetProfile(t *testing.T) {
	loader, _ := createTestLoader(t, defaultTestStore(), 5*time.Minute)

	profile, err := loader.GetProfile(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", profile.Name)
	assert.Equal(t, "USA", profile.Location.Country)

	_, err = loader.GetProfile(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLoader_GetJob(t *testing.T) {
	loader, _ := createTestLoader(t, defaultTestStore(), 5*time.Minute)

	job, err := loader.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", job.Title)

	_, err = loader.GetJob(context.Background(), "job-404")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLoader_GetStatisticsAndOverview(t *testing.T) {
	loader, _ := createTestLoader(t, defaultTestStore(), 5*time.Minute)

	stats, err := loader.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCandidates)
	assert.Equal(t, 6.5, stats.AverageExperience)

	overview, err := loader.GetOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, overview.ProfilesCount)
	assert.Equal(t, 1, overview.JobsCount)
}

func TestLoader_GetSearchableData(t *testing.T) {
	loader, _ := createTestLoader(t, defaultTestStore(), 5*time.Minute)

	sd, err := loader.GetSearchableData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "SQL", "Go"}, sd.Skills)
	assert.Equal(t, []string{"Go", "Python"}, sd.JobSkills)
}
