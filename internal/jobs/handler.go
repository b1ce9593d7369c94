package jobs

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/history"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

// Handler exposes the job-search endpoint.
type Handler struct {
	Aggregator *Aggregator
	History    *history.Service
}

func NewHandler(aggregator *Aggregator, historyService *history.Service) *Handler {
	return &Handler{Aggregator: aggregator, History: historyService}
}

// RegisterRoutes attaches search routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/search-jobs", h.search)
}

type searchRequest struct {
	Query      string `json:"query"`
	Location   string `json:"location"`
	NumPages   int    `json:"numPages"`
	Source     string `json:"source"`
	RemoteOnly bool   `json:"remoteOnly"`
}

type searchResponse struct {
	Jobs []NormalizedJob `json:"jobs"`
}

func (h *Handler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		respond.Error(c, http.StatusBadRequest, "missing_query", "Search query is required")
		return
	}

	selector := strings.TrimSpace(req.Source)
	if selector == "" {
		selector = SelectorAll
	}
	if !ValidSelector(selector) {
		respond.Error(c, http.StatusBadRequest, "invalid_source", "Unknown job source; use google-jobs, linkedin, or all")
		return
	}

	params := SearchParams{
		Query:      req.Query,
		Location:   strings.TrimSpace(req.Location),
		NumPages:   req.NumPages,
		RemoteOnly: req.RemoteOnly,
	}

	found, err := h.Aggregator.Search(c.Request.Context(), selector, params)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			respond.Error(c, http.StatusInternalServerError, "config_error", "Job search API key not configured")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "search_failed", "Job search failed")
		return
	}

	if found == nil {
		found = []NormalizedJob{}
	}

	if h.History != nil {
		h.History.RecordSearch(c.Request.Context(),
			middleware.SessionIDFromContext(c),
			params.Query, params.Location, selector, params.RemoteOnly, len(found))
	}

	respond.JSON(c, http.StatusOK, searchResponse{Jobs: found})
}
