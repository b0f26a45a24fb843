// internal/api/crm.go
package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/models"
	"recruitment-chat/internal/services/crm"
)

type crmHandler struct {
	crm    CRMProvider
	logger logger.Logger
}

type moveRequest struct {
	JobID string `json:"job_id"`
}

func (h *crmHandler) Move(c *gin.Context) {
	request := moveRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			respondBadRequest(c, "invalid JSON body")
			return
		}
	}

	result, err := h.crm.MoveToCRM(c.Request.Context(), c.Param("candidateId"), request.JobID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, result)
}

type moveMultipleRequest struct {
	CandidateIDs []string `json:"candidate_ids"`
	JobID        string   `json:"job_id"`
}

func (h *crmHandler) MoveMultiple(c *gin.Context) {
	var request moveMultipleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}
	if len(request.CandidateIDs) == 0 {
		respondBadRequest(c, "candidate_ids is required")
		return
	}

	result, err := h.crm.MoveMultipleToCRM(c.Request.Context(), request.CandidateIDs, request.JobID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, result)
}

func (h *crmHandler) Remove(c *gin.Context) {
	result, err := h.crm.RemoveFromCRM(c.Request.Context(), c.Param("candidateId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, result)
}

func (h *crmHandler) Candidates(c *gin.Context) {
	filters := crm.CandidateFilters{
		JobID:    c.Query("job_id"),
		Industry: c.Query("industry"),
		Location: c.Query("location"),
		Limit:    queryInt(c, "limit", 100),
	}
	if raw := c.Query("moved"); raw != "" {
		moved, err := strconv.Atoi(raw)
		if err != nil || (moved != models.CRMMoved && moved != models.CRMNotMoved) {
			respondBadRequest(c, "moved must be 0 or 1")
			return
		}
		filters.Moved = &moved
	}
	if raw := c.Query("min_fit_percentage"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondBadRequest(c, "min_fit_percentage must be a number")
			return
		}
		filters.MinFitPercentage = value
	}
	if raw := c.Query("experience_years"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondBadRequest(c, "experience_years must be a number")
			return
		}
		filters.ExperienceYears = value
	}

	h.respondCandidates(c, filters)
}

func (h *crmHandler) InCRM(c *gin.Context) {
	moved := models.CRMMoved
	h.respondCandidates(c, crm.CandidateFilters{Moved: &moved, Limit: queryInt(c, "limit", 100)})
}

func (h *crmHandler) NotInCRM(c *gin.Context) {
	moved := models.CRMNotMoved
	h.respondCandidates(c, crm.CandidateFilters{Moved: &moved, Limit: queryInt(c, "limit", 100)})
}

func (h *crmHandler) respondCandidates(c *gin.Context, filters crm.CandidateFilters) {
	list, err := h.crm.GetCandidatesByStatus(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, list)
}

func (h *crmHandler) Statistics(c *gin.Context) {
	stats, err := h.crm.GetStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, stats)
}
