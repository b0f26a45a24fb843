// internal/api/chathistory.go
package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"recruitment-chat/internal/common/errors"
	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/models"
)

type chatHistoryHandler struct {
	chat   ChatStore
	logger logger.Logger
}

type createSessionRequest struct {
	UserID      string `json:"user_id"`
	JobID       string `json:"job_id"`
	JobTitle    string `json:"job_title"`
	CompanyName string `json:"company_name"`
}

func (h *chatHistoryHandler) CreateSession(c *gin.Context) {
	var request createSessionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	session, err := h.chat.GetOrCreateSession(c.Request.Context(), h.chat.GenerateSessionID(), request.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, session)
}

func (h *chatHistoryHandler) History(c *gin.Context) {
	limit := queryInt(c, "limit", 50)

	history, err := h.chat.GetHistory(c.Request.Context(), c.Param("sessionId"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, history)
}

type addMessageRequest struct {
	Message *models.ChatMessage `json:"message"`
}

func (h *chatHistoryHandler) AddMessage(c *gin.Context) {
	var request addMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}
	if request.Message == nil || request.Message.Text == "" {
		respondBadRequest(c, "Message text is required")
		return
	}

	session, err := h.chat.AddMessage(c.Request.Context(), c.Param("sessionId"), *request.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, gin.H{
		"session_id":     session.SessionID,
		"total_messages": session.TotalMessages,
		"last_activity":  session.LastActivity,
	})
}

func (h *chatHistoryHandler) UserSessions(c *gin.Context) {
	limit := queryInt(c, "limit", 20)

	sessions, err := h.chat.GetUserSessions(c.Request.Context(), c.Param("userId"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, sessions)
}

func (h *chatHistoryHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		respondBadRequest(c, "Search query is required")
		return
	}
	limit := queryInt(c, "limit", 20)

	results, err := h.chat.SearchMessages(c.Request.Context(), c.Param("sessionId"), query, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, results)
}

func (h *chatHistoryHandler) Delete(c *gin.Context) {
	deleted, err := h.chat.DeleteSession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		respondError(c, errors.NotFound(errors.ErrCodeSessionNotFound, "Session not found"))
		return
	}
	respondMessage(c, "Chat session deleted successfully")
}

func (h *chatHistoryHandler) Export(c *gin.Context) {
	sessionID := c.Param("sessionId")
	format := c.DefaultQuery("format", "json")

	export, err := h.chat.Export(c.Request.Context(), sessionID, format)
	if err != nil {
		respondError(c, err)
		return
	}

	if format == "text" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "chat-"+sessionID+".txt"))
		c.String(200, "%s", export)
		return
	}
	respondData(c, export)
}

func (h *chatHistoryHandler) Statistics(c *gin.Context) {
	stats, err := h.chat.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, stats)
}

type cleanupRequest struct {
	DaysOld int `json:"daysOld"`
}

func (h *chatHistoryHandler) Cleanup(c *gin.Context) {
	request := cleanupRequest{DaysOld: 30}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			respondBadRequest(c, "invalid JSON body")
			return
		}
	}
	if request.DaysOld <= 0 {
		request.DaysOld = 30
	}

	deleted, err := h.chat.CleanupIdleSessions(c.Request.Context(), time.Duration(request.DaysOld)*24*time.Hour)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, gin.H{
		"deleted_sessions": deleted,
		"days_old":         request.DaysOld,
	})
}

// queryInt reads an integer query parameter, keeping the fallback on absent
// or malformed values.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
