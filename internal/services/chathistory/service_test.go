// internal/services/chathistory/service_test.go
package chathistory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
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

func createTestService(t *testing.T) (*Service, *fakeClock) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	service := New(client, logger.NewZapAdapter(zaptest.NewLogger(t)))
	service.now = clock.Now
	return service, clock
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func userMessage(text string) models.ChatMessage {
	return models.ChatMessage{Text: text, IsUser: true}
}

// ==========================
// Session Lifecycle Tests
// ==========================

func TestService_GetOrCreateSession(t *testing.T) {
	service, _ := createTestService(t)
	ctx := context.Background()

	created, err := service.GetOrCreateSession(ctx, "s-1", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", created.SessionID)
	assert.Equal(t, "u-1", created.UserID)
	assert.Empty(t, created.Messages)

	loaded, err := service.GetOrCreateSession(ctx, "s-1", "someone-else")
	require.NoError(t, err)
	assert.Equal(t, "u-1", loaded.UserID, "existing session keeps its owner")
}

func TestService_GetOrCreateSession_AnonymousDefault(t *testing.T) {
	service, _ := createTestService(t)

	session, err := service.GetOrCreateSession(context.Background(), "s-1", "")
	require.NoError(t, err)
	assert.Equal(t, "anonymous", session.UserID)
}

func TestService_GenerateSessionID_Unique(t *testing.T) {
	service, _ := createTestService(t)
	assert.NotEqual(t, service.GenerateSessionID(), service.GenerateSessionID())
}

// ==========================
// Message Tests
// ==========================

func TestService_AddMessageAndGetHistory(t *testing.T) {
	service, clock := createTestService(t)
	ctx := context.Background()

	_, err := service.AddMessage(ctx, "s-1", userMessage("find me a backend engineer"))
	require.NoError(t, err)
	clock.Advance(time.Minute)
	session, err := service.AddMessage(ctx, "s-1", models.ChatMessage{Text: "Here are the top candidates", IsUser: false})
	require.NoError(t, err)

	assert.Equal(t, 2, session.TotalMessages)
	assert.Equal(t, clock.Now(), session.LastActivity)

	history, err := service.GetHistory(ctx, "s-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, history.Total)
	require.Len(t, history.Messages, 2)
	assert.True(t, history.Messages[0].IsUser)
	assert.NotEmpty(t, history.Messages[0].ID)
}

func TestService_GetHistory_LimitKeepsMostRecent(t *testing.T) {
	service, _ := createTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := service.AddMessage(ctx, "s-1", userMessage(fmt.Sprintf("message %d", i)))
		require.NoError(t, err)
	}

	history, err := service.GetHistory(ctx, "s-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, history.Total)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "message 3", history.Messages[0].Text)
	assert.Equal(t, "message 4", history.Messages[1].Text)
}

func TestService_GetHistory_MissingSessionIsEmpty(t *testing.T) {
	service, _ := createTestService(t)

	history, err := service.GetHistory(context.Background(), "nope", 10)
	require.NoError(t, err)
	assert.Empty(t, history.Messages)
	assert.Equal(t, 0, history.Total)
}

func TestService_SearchMessages(t *testing.T) {
	service, _ := createTestService(t)
	ctx := context.Background()

	_, err := service.AddMessage(ctx, "s-1", userMessage("Find Python developers"))
	require.NoError(t, err)
	_, err = service.AddMessage(ctx, "s-1", userMessage("What about Go?"))
	require.NoError(t, err)

	result, err := service.SearchMessages(ctx, "s-1", "python", 20)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "Find Python developers", result.Messages[0].Text)
	assert.Equal(t, "python", result.Query)
}

// ==========================
// Listing / Cleanup Tests
// ==========================

func TestService_GetUserSessions_SortedByActivity(t *testing.T) {
	service, clock := createTestService(t)
	ctx := context.Background()

	_, err := service.GetOrCreateSession(ctx, "s-old", "u-1")
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = service.GetOrCreateSession(ctx, "s-new", "u-1")
	require.NoError(t, err)

	sessions, err := service.GetUserSessions(ctx, "u-1", 0)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s-new", sessions[0].SessionID)
	assert.Equal(t, "s-old", sessions[1].SessionID)
}

func TestService_DeleteSession(t *testing.T) {
	service, _ := createTestService(t)
	ctx := context.Background()

	_, err := service.AddMessage(ctx, "s-1", userMessage("hello"))
	require.NoError(t, err)

	deleted, err := service.DeleteSession(ctx, "s-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = service.DeleteSession(ctx, "s-1")
	require.NoError(t, err)
	assert.False(t, deleted)

	sessions, err := service.GetUserSessions(ctx, "anonymous", 0)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestService_CleanupIdleSessions(t *testing.T) {
	service, clock := createTestService(t)
	ctx := context.Background()

	_, err := service.GetOrCreateSession(ctx, "s-idle", "u-1")
	require.NoError(t, err)
	clock.Advance(40 * 24 * time.Hour)
	_, err = service.GetOrCreateSession(ctx, "s-active", "u-1")
	require.NoError(t, err)

	removed, err := service.CleanupIdleSessions(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	history, err := service.GetHistory(ctx, "s-active", 10)
	require.NoError(t, err)
	assert.Equal(t, "s-active", history.SessionID)
}

// ==========================
// Statistics / Export Tests
// ==========================

func TestService_Statistics(t *testing.T) {
	service, _ := createTestService(t)
	ctx := context.Background()

	_, err := service.AddMessage(ctx, "s-1", userMessage("one"))
	require.NoError(t, err)
	_, err = service.AddMessage(ctx, "s-1", userMessage("two"))
	require.NoError(t, err)
	_, err = service.AddMessage(ctx, "s-2", userMessage("three"))
	require.NoError(t, err)

	stats, err := service.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 3, stats.TotalMessages)
	assert.Equal(t, 1.5, stats.AvgMessagesPerSession)
}

func TestService_Statistics_Empty(t *testing.T) {
	service, _ := createTestService(t)

	stats, err := service.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalSessions)
	assert.Equal(t, 0.0, stats.AvgMessagesPerSession)
}

func TestService_Export(t *testing.T) {
	service, _ := createTestService(t)
	ctx := context.Background()

	_, err := service.AddMessage(ctx, "s-1", userMessage("hello"))
	require.NoError(t, err)

	asJSON, err := service.Export(ctx, "s-1", "json")
	require.NoError(t, err)
	session, ok := asJSON.(*models.ChatSession)
	require.True(t, ok)
	assert.Equal(t, "s-1", session.SessionID)

	asText, err := service.Export(ctx, "s-1", "text")
	require.NoError(t, err)
	text, ok := asText.(string)
	require.True(t, ok)
	assert.Contains(t, text, "Chat Session: s-1")
	assert.Contains(t, text, "User: hello")

	_, err = service.Export(ctx, "s-1", "csv")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = service.Export(ctx, "missing", "json")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

// ==========================
// Failure Mode Tests
// ==========================

func TestService_RedisFailureSurfacesAsStoreError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	service := New(client, logger.NewZapAdapter(zaptest.NewLogger(t)))

	mock.ExpectGet(sessionKeyPrefix + "s-1").SetErr(fmt.Errorf("connection reset"))

	_, err := service.GetHistory(context.Background(), "s-1", 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsSourceUnavailable(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
