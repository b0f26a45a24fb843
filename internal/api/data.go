// internal/api/data.go
package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"recruitment-chat/internal/common/errors"
	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/common/validation"
	"recruitment-chat/internal/models"
)

type healthHandler struct {
	version string
}

func (h *healthHandler) Status(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
		"services": gin.H{
			"data_loader": "active",
			"ai_service":  "active",
			"database":    "connected",
		},
	})
}

type dataHandler struct {
	data   DataProvider
	index  ProfileSearcher
	logger logger.Logger
}

func (h *dataHandler) Overview(c *gin.Context) {
	overview, err := h.data.GetOverview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, overview)
}

func (h *dataHandler) Statistics(c *gin.Context) {
	stats, err := h.data.GetStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, stats)
}

func (h *dataHandler) Searchable(c *gin.Context) {
	searchable, err := h.data.GetSearchableData(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, searchable)
}

func (h *dataHandler) Refresh(c *gin.Context) {
	snapshot, err := h.data.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, gin.H{
		"profiles_count": snapshot.ProfilesCount,
		"jobs_count":     snapshot.JobsCount,
		"last_updated":   snapshot.LastUpdated,
	})
}

func (h *dataHandler) Profile(c *gin.Context) {
	profile, err := h.data.GetProfile(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, profile)
}

func (h *dataHandler) Job(c *gin.Context) {
	job, err := h.data.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, job)
}

// searchPageSize caps one page of full-text hits from the index.
const searchPageSize = 100

var searchRequestSchema = validation.Schema{
	Properties: map[string]validation.Property{
		"query":   {Type: "string"},
		"filters": {Type: "object"},
	},
	AdditionalProperties: false,
}

var searchFiltersSchema = validation.Schema{
	Properties: map[string]validation.Property{
		"skills":         {Type: "array", Items: &validation.Property{Type: "string"}},
		"experience_min": {Type: "number", Minimum: float64Ptr(0)},
		"experience_max": {Type: "number", Minimum: float64Ptr(0)},
		"location":       {Type: "string"},
		"industry":       {Type: "string"},
		"seniority":      {Type: "string"},
	},
	AdditionalProperties: false,
}

func float64Ptr(v float64) *float64 { return &v }

func (h *dataHandler) SearchProfiles(c *gin.Context) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	if result := validation.Validate(raw, searchRequestSchema); !result.Valid {
		respondError(c, errors.InvalidFilter(strings.Join(result.GetErrorMessages(), "; ")))
		return
	}
	if filters, ok := raw["filters"].(map[string]interface{}); ok {
		if result := validation.Validate(filters, searchFiltersSchema); !result.Valid {
			respondError(c, errors.InvalidFilter(strings.Join(result.GetErrorMessages(), "; ")))
			return
		}
	}

	var request struct {
		Query   string               `json:"query"`
		Filters models.SearchFilters `json:"filters"`
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := json.Unmarshal(encoded, &request); err != nil {
		respondError(c, errors.InvalidFilter("invalid filter format: "+err.Error()))
		return
	}

	if h.index != nil {
		hits, err := h.index.SearchProfiles(c.Request.Context(), request.Query, request.Filters, 0, searchPageSize)
		if err == nil {
			respondData(c, models.SearchResult{
				Results: hits.Profiles,
				Total:   int(hits.TotalHits),
				Query:   request.Query,
				Filters: request.Filters,
			})
			return
		}
		h.logger.WithError(err).Warn("index search failed, falling back to snapshot scan", map[string]interface{}{
			"query": request.Query,
		})
	}

	result, err := h.data.Search(c.Request.Context(), request.Query, request.Filters)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, result)
}
