// internal/api/router.go
package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/models"
	"recruitment-chat/internal/search"
	"recruitment-chat/internal/services/aiservice"
	"recruitment-chat/internal/services/chathistory"
	"recruitment-chat/internal/services/crm"
)

// DataProvider is the snapshot facade the data routes are served from.
type DataProvider interface {
	GetSnapshot(ctx context.Context) (*models.Snapshot, error)
	GetOverview(ctx context.Context) (*models.Overview, error)
	GetStatistics(ctx context.Context) (*models.Statistics, error)
	GetSearchableData(ctx context.Context) (*models.SearchableData, error)
	Search(ctx context.Context, query string, filters models.SearchFilters) (*models.SearchResult, error)
	GetProfile(ctx context.Context, uuid string) (*models.EnrichedProfile, error)
	GetJob(ctx context.Context, id string) (*models.EnrichedJob, error)
	Refresh(ctx context.Context) (*models.Snapshot, error)
}

// ProfileSearcher is the optional full-text index behind the search route.
// When present the route prefers its relevance ranking and falls back to the
// snapshot scan if the index is unreachable.
type ProfileSearcher interface {
	SearchProfiles(ctx context.Context, query string, filters models.SearchFilters, from, size int) (*search.QueryResult, error)
}

// Analyzer runs a recruiter query against the talent pool context.
type Analyzer interface {
	AnalyzeQuery(ctx context.Context, query string, snapshot *models.Snapshot) *aiservice.Analysis
}

// ChatStore persists chat sessions and messages.
type ChatStore interface {
	GenerateSessionID() string
	GetOrCreateSession(ctx context.Context, sessionID, userID string) (*models.ChatSession, error)
	AddMessage(ctx context.Context, sessionID string, message models.ChatMessage) (*models.ChatSession, error)
	GetHistory(ctx context.Context, sessionID string, limit int) (*chathistory.History, error)
	GetUserSessions(ctx context.Context, userID string, limit int) ([]models.ChatSessionSummary, error)
	SearchMessages(ctx context.Context, sessionID, query string, limit int) (*chathistory.MessageSearchResult, error)
	DeleteSession(ctx context.Context, sessionID string) (bool, error)
	CleanupIdleSessions(ctx context.Context, idleFor time.Duration) (int, error)
	Statistics(ctx context.Context) (*models.ChatStatistics, error)
	Export(ctx context.Context, sessionID, format string) (interface{}, error)
}

// CRMProvider manages placement state and status queries.
type CRMProvider interface {
	MoveToCRM(ctx context.Context, candidateID, jobID string) (*crm.MoveResult, error)
	RemoveFromCRM(ctx context.Context, candidateID string) (*crm.MoveResult, error)
	MoveMultipleToCRM(ctx context.Context, candidateIDs []string, jobID string) (*crm.BulkMoveResult, error)
	GetCandidatesByStatus(ctx context.Context, filters crm.CandidateFilters) (*crm.CandidateList, error)
	GetStatistics(ctx context.Context) (*crm.Statistics, error)
}

// Deps wires the routing layer to the services behind it.
type Deps struct {
	Data        DataProvider
	Index       ProfileSearcher // nil when Elasticsearch is disabled
	AI          Analyzer
	Chat        ChatStore
	CRM         CRMProvider
	Logger      logger.Logger
	Version     string
	CORSOrigins []string
}

// NewRouter assembles the HTTP surface. Gin runs in release mode by default;
// callers flip it for local debugging.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(deps.Logger))
	router.Use(requestMetrics())

	corsConfig := cors.DefaultConfig()
	if len(deps.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = deps.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Authorization", "Content-Type", "X-Requested-With"}
	router.Use(cors.New(corsConfig))

	health := &healthHandler{version: deps.Version}
	data := &dataHandler{data: deps.Data, index: deps.Index, logger: deps.Logger}
	ai := &aiHandler{data: deps.Data, ai: deps.AI, chat: deps.Chat, logger: deps.Logger}
	chatTools := &chatHandler{data: deps.Data, ai: deps.AI, logger: deps.Logger}
	chat := &chatHistoryHandler{chat: deps.Chat, logger: deps.Logger}
	placements := &crmHandler{crm: deps.CRM, logger: deps.Logger}

	router.GET("/health", health.Status)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/data/overview", data.Overview)
		apiGroup.GET("/data/statistics", data.Statistics)
		apiGroup.GET("/data/searchable", data.Searchable)
		apiGroup.POST("/data/refresh", data.Refresh)

		apiGroup.POST("/search/profiles", data.SearchProfiles)
		apiGroup.GET("/profiles/:uuid", data.Profile)
		apiGroup.GET("/jobs/:id", data.Job)

		apiGroup.POST("/ai/analyze", ai.Analyze)

		chatGroup := apiGroup.Group("/chat")
		{
			chatGroup.GET("/suggestions", chatTools.Suggestions)
			chatGroup.GET("/insights", chatTools.Insights)
			chatGroup.GET("/summary", chatTools.Summary)
		}

		history := apiGroup.Group("/chat-history")
		{
			history.POST("/sessions", chat.CreateSession)
			history.GET("/user/:userId/sessions", chat.UserSessions)
			history.GET("/stats/overview", chat.Statistics)
			history.POST("/cleanup", chat.Cleanup)
			history.GET("/:sessionId", chat.History)
			history.POST("/:sessionId/messages", chat.AddMessage)
			history.GET("/:sessionId/search", chat.Search)
			history.GET("/:sessionId/export", chat.Export)
			history.DELETE("/:sessionId", chat.Delete)
		}

		crmGroup := apiGroup.Group("/crm")
		{
			crmGroup.POST("/move/:candidateId", placements.Move)
			crmGroup.POST("/move-multiple", placements.MoveMultiple)
			crmGroup.POST("/remove/:candidateId", placements.Remove)
			crmGroup.GET("/candidates", placements.Candidates)
			crmGroup.GET("/statistics", placements.Statistics)
			crmGroup.GET("/in-crm", placements.InCRM)
			crmGroup.GET("/not-in-crm", placements.NotInCRM)
		}
	}

	return router
}
