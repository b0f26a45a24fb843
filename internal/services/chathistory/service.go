// internal/services/chathistory/service.go
package chathistory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"recruitment-chat/internal/common/errors"
	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/models"
)

const (
	sessionKeyPrefix = "chat:session:"
	userIndexPrefix  = "chat:user:"
	sessionIndexKey  = "chat:sessions"

	defaultHistoryLimit  = 50
	defaultSessionsLimit = 20
	defaultSearchLimit   = 20
)

// Service persists chat sessions in Redis: one JSON value per session plus
// sorted-set indexes (global and per user) scored by last activity, which give
// recency ordering and cheap idle-session cleanup.
type Service struct {
	client *redis.Client
	logger logger.Logger
	now    func() time.Time
}

func New(client *redis.Client, log logger.Logger) *Service {
	return &Service{
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "chathistory"}),
		now:    time.Now,
	}
}

// GenerateSessionID mints a fresh session identifier.
func (s *Service) GenerateSessionID() string {
	return uuid.NewString()
}

// History is the paged view of one session's messages.
type History struct {
	Messages     []models.ChatMessage `json:"messages"`
	Total        int                  `json:"total"`
	SessionID    string               `json:"session_id,omitempty"`
	CreatedAt    time.Time            `json:"created_at,omitempty"`
	LastActivity time.Time            `json:"last_activity,omitempty"`
}

// MessageSearchResult holds the messages of one session matching a query.
type MessageSearchResult struct {
	Messages []models.ChatMessage `json:"messages"`
	Total    int                  `json:"total"`
	Query    string               `json:"query"`
}

// GetOrCreateSession loads the session or creates an empty one.
func (s *Service) GetOrCreateSession(ctx context.Context, sessionID, userID string) (*models.ChatSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	if userID == "" {
		userID = "anonymous"
	}
	now := s.now()
	session = &models.ChatSession{
		SessionID:    sessionID,
		UserID:       userID,
		Messages:     []models.ChatMessage{},
		CreatedAt:    now,
		UpdatedAt:    now,
		LastActivity: now,
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("created chat session", map[string]interface{}{
		"sessionId": sessionID,
		"userId":    userID,
	})
	return session, nil
}

// AddMessage appends one message, creating the session when needed.
func (s *Service) AddMessage(ctx context.Context, sessionID string, message models.ChatMessage) (*models.ChatSession, error) {
	session, err := s.GetOrCreateSession(ctx, sessionID, "")
	if err != nil {
		return nil, err
	}

	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = s.now()
	}
	if message.Metadata == nil {
		message.Metadata = map[string]interface{}{}
	}

	session.Messages = append(session.Messages, message)
	session.Touch(s.now())

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetHistory returns the most recent messages of a session. A missing session
// yields an empty history, not an error.
func (s *Service) GetHistory(ctx context.Context, sessionID string, limit int) (*History, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &History{Messages: []models.ChatMessage{}}, nil
	}

	messages := session.Messages
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return &History{
		Messages:     messages,
		Total:        session.TotalMessages,
		SessionID:    session.SessionID,
		CreatedAt:    session.CreatedAt,
		LastActivity: session.LastActivity,
	}, nil
}

// GetUserSessions lists a user's sessions, most recently active first.
func (s *Service) GetUserSessions(ctx context.Context, userID string, limit int) ([]models.ChatSessionSummary, error) {
	if limit <= 0 {
		limit = defaultSessionsLimit
	}

	ids, err := s.client.ZRevRange(ctx, userIndexPrefix+userID, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeChatStoreFailed, errors.KindSourceUnavailable, "list user sessions", err)
	}

	summaries := make([]models.ChatSessionSummary, 0, len(ids))
	for _, id := range ids {
		session, err := s.loadSession(ctx, id)
		if err != nil {
			return nil, err
		}
		if session == nil {
			continue // index entry outlived the session value
		}
		summaries = append(summaries, models.ChatSessionSummary{
			SessionID:     session.SessionID,
			TotalMessages: session.TotalMessages,
			CreatedAt:     session.CreatedAt,
			LastActivity:  session.LastActivity,
		})
	}
	return summaries, nil
}

// SearchMessages finds messages whose text contains the query,
// case-insensitive, returning the most recent matches.
func (s *Service) SearchMessages(ctx context.Context, sessionID, query string, limit int) (*MessageSearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	result := &MessageSearchResult{Messages: []models.ChatMessage{}, Query: query}
	if session == nil {
		return result, nil
	}

	queryLower := strings.ToLower(query)
	matches := make([]models.ChatMessage, 0)
	for _, msg := range session.Messages {
		if strings.Contains(strings.ToLower(msg.Text), queryLower) {
			matches = append(matches, msg)
		}
	}
	result.Total = len(matches)
	if len(matches) > limit {
		matches = matches[len(matches)-limit:]
	}
	result.Messages = matches
	return result, nil
}

// DeleteSession removes a session and its index entries. Returns whether a
// session existed.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) (bool, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+sessionID)
	pipe.ZRem(ctx, sessionIndexKey, sessionID)
	pipe.ZRem(ctx, userIndexPrefix+session.UserID, sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, errors.Wrap(errors.ErrCodeChatStoreFailed, errors.KindSourceUnavailable, "delete session", err)
	}
	s.logger.Info("deleted chat session", map[string]interface{}{"sessionId": sessionID})
	return true, nil
}

// CleanupIdleSessions deletes sessions whose last activity is older than the
// cutoff and returns how many were removed.
func (s *Service) CleanupIdleSessions(ctx context.Context, idleFor time.Duration) (int, error) {
	cutoff := s.now().Add(-idleFor)
	ids, err := s.client.ZRangeByScore(ctx, sessionIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", cutoff.UnixMilli()),
	}).Result()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeChatStoreFailed, errors.KindSourceUnavailable, "scan idle sessions", err)
	}

	removed := 0
	for _, id := range ids {
		deleted, err := s.DeleteSession(ctx, id)
		if err != nil {
			return removed, err
		}
		if deleted {
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("cleaned up idle sessions", map[string]interface{}{"removed": removed})
	}
	return removed, nil
}

// Statistics aggregates message counts across every session.
func (s *Service) Statistics(ctx context.Context) (*models.ChatStatistics, error) {
	ids, err := s.client.ZRange(ctx, sessionIndexKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeChatStoreFailed, errors.KindSourceUnavailable, "list sessions", err)
	}

	stats := &models.ChatStatistics{TotalSessions: len(ids)}
	for _, id := range ids {
		session, err := s.loadSession(ctx, id)
		if err != nil {
			return nil, err
		}
		if session != nil {
			stats.TotalMessages += session.TotalMessages
		}
	}
	if stats.TotalSessions > 0 {
		stats.AvgMessagesPerSession = float64(stats.TotalMessages) / float64(stats.TotalSessions)
	}
	return stats, nil
}

// Export renders a session as JSON-ready data or plain text.
func (s *Service) Export(ctx context.Context, sessionID, format string) (interface{}, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.NotFound(errors.ErrCodeSessionNotFound, "session not found: "+sessionID)
	}

	switch format {
	case "", "json":
		return session, nil
	case "text":
		var b strings.Builder
		fmt.Fprintf(&b, "Chat Session: %s\n", session.SessionID)
		fmt.Fprintf(&b, "User: %s\n", session.UserID)
		fmt.Fprintf(&b, "Created: %s\n", session.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(&b, "Last Activity: %s\n", session.LastActivity.Format(time.RFC3339))
		fmt.Fprintf(&b, "Total Messages: %d\n\n", session.TotalMessages)
		b.WriteString("Conversation:\n")
		b.WriteString(strings.Repeat("=", 50) + "\n\n")
		for _, msg := range session.Messages {
			role := "AI"
			if msg.IsUser {
				role = "User"
			}
			fmt.Fprintf(&b, "[%s] %s: %s\n\n", msg.Timestamp.Format(time.RFC3339), role, msg.Text)
		}
		return b.String(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidPayload, errors.KindInvalidInput, "unsupported export format: "+format)
	}
}

func (s *Service) loadSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeChatStoreFailed, errors.KindSourceUnavailable, "load session", err)
	}

	var session models.ChatSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, errors.Wrap(errors.ErrCodeChatStoreFailed, errors.KindInternal, "decode session", err)
	}
	return &session, nil
}

func (s *Service) saveSession(ctx context.Context, session *models.ChatSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(errors.ErrCodeChatStoreFailed, errors.KindInternal, "encode session", err)
	}

	score := float64(session.LastActivity.UnixMilli())
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.SessionID, raw, 0)
	pipe.ZAdd(ctx, sessionIndexKey, redis.Z{Score: score, Member: session.SessionID})
	pipe.ZAdd(ctx, userIndexPrefix+session.UserID, redis.Z{Score: score, Member: session.SessionID})
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeChatStoreFailed, errors.KindSourceUnavailable, "save session", err)
	}
	return nil
}
