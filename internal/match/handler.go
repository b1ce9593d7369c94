package match

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/history"
	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/resume"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

// Handler exposes the job-matching endpoint.
type Handler struct {
	Scorer  *Scorer
	History *history.Service
}

func NewHandler(scorer *Scorer, historyService *history.Service) *Handler {
	return &Handler{Scorer: scorer, History: historyService}
}

// RegisterRoutes attaches matching routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/match-jobs", h.match)
}

type matchRequest struct {
	Resume *resume.ParsedResume `json:"resume"`
	Jobs   []jobs.NormalizedJob `json:"jobs"`
}

type matchResponse struct {
	Jobs []MatchedJob `json:"jobs"`
}

func (h *Handler) match(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}
	if req.Resume == nil || strings.TrimSpace(req.Resume.PrimaryRole) == "" {
		respond.Error(c, http.StatusBadRequest, "missing_resume", "Parsed resume is required")
		return
	}
	if len(req.Jobs) == 0 {
		respond.Error(c, http.StatusBadRequest, "missing_jobs", "At least one job is required")
		return
	}

	matches, err := h.Scorer.Score(c.Request.Context(), *req.Resume, req.Jobs)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			respond.Error(c, http.StatusInternalServerError, "config_error", "Language model API key not configured")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "match_failed", "Job matching failed")
		return
	}
	if matches == nil {
		matches = []MatchedJob{}
	}

	if h.History != nil {
		topScore := 0
		if len(matches) > 0 {
			topScore = matches[0].MatchScore
		}
		h.History.RecordMatch(c.Request.Context(), middleware.SessionIDFromContext(c), len(matches), topScore)
	}

	respond.OK(c, matchResponse{Jobs: matches})
}
