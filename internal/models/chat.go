// internal/models/chat.go
package models

import "time"

// ChatMessage is one message inside a chat session.
type ChatMessage struct {
	ID        string                 `json:"id"`
	Text      string                 `json:"text"`
	IsUser    bool                   `json:"isUser"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// ChatSession is a conversation between a user and the assistant, keyed by
// session_id. Messages are embedded; TotalMessages mirrors len(Messages) and
// is maintained on every append.
type ChatSession struct {
	SessionID     string        `json:"session_id"`
	UserID        string        `json:"user_id"`
	JobID         string        `json:"job_id,omitempty"`
	JobTitle      string        `json:"job_title,omitempty"`
	CompanyName   string        `json:"company_name,omitempty"`
	Messages      []ChatMessage `json:"messages"`
	TotalMessages int           `json:"total_messages"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	LastActivity  time.Time     `json:"last_activity"`
}

// Touch updates the activity bookkeeping after a mutation.
func (s *ChatSession) Touch(now time.Time) {
	s.LastActivity = now
	s.UpdatedAt = now
	s.TotalMessages = len(s.Messages)
}

// ChatSessionSummary is the list view of a session, without messages.
type ChatSessionSummary struct {
	SessionID     string    `json:"session_id"`
	TotalMessages int       `json:"total_messages"`
	CreatedAt     time.Time `json:"created_at"`
	LastActivity  time.Time `json:"last_activity"`
}

// ChatStatistics aggregates usage across all sessions.
type ChatStatistics struct {
	TotalSessions         int     `json:"total_sessions"`
	TotalMessages         int     `json:"total_messages"`
	AvgMessagesPerSession float64 `json:"avg_messages_per_session"`
}
