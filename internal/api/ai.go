// internal/api/ai.go
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/models"
)

type aiHandler struct {
	data   DataProvider
	ai     Analyzer
	chat   ChatStore
	logger logger.Logger
}

type analyzeRequest struct {
	Query        string `json:"query"`
	AnalysisType string `json:"analysis_type"`
	SessionID    string `json:"session_id"`
}

// Analyze runs the recruiter query against the current snapshot. When a
// session id is supplied both sides of the exchange are appended to that
// session; a history failure degrades to a warning instead of failing the
// analysis itself.
func (h *aiHandler) Analyze(c *gin.Context) {
	var request analyzeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}
	if request.Query == "" {
		respondBadRequest(c, "Query is required")
		return
	}
	if request.AnalysisType == "" {
		request.AnalysisType = "general_query"
	}

	snapshot, err := h.data.GetSnapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	analysis := h.ai.AnalyzeQuery(c.Request.Context(), request.Query, snapshot)

	if request.SessionID != "" {
		h.persistExchange(c, request, analysis.Response)
	}

	respondData(c, analysis)
}

func (h *aiHandler) persistExchange(c *gin.Context, request analyzeRequest, response string) {
	ctx := c.Request.Context()
	now := time.Now().UTC()

	userMessage := models.ChatMessage{
		ID:        uuid.NewString(),
		Text:      request.Query,
		IsUser:    true,
		Timestamp: now,
		Metadata:  map[string]interface{}{"analysis_type": request.AnalysisType},
	}
	assistantMessage := models.ChatMessage{
		ID:        uuid.NewString(),
		Text:      response,
		IsUser:    false,
		Timestamp: now,
		Metadata: map[string]interface{}{
			"analysis_type": request.AnalysisType,
			"query":         request.Query,
		},
	}

	for _, message := range []models.ChatMessage{userMessage, assistantMessage} {
		if _, err := h.chat.AddMessage(ctx, request.SessionID, message); err != nil {
			h.logger.Warn("failed to save chat history", map[string]interface{}{
				"sessionId": request.SessionID,
				"error":     err.Error(),
			})
			return
		}
	}
}
