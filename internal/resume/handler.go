package resume

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/shared/server/respond"
)

// minTextChars is the smallest text length that plausibly holds a resume.
const minTextChars = 50

// Handler wires the interpret-resume endpoint to the interpreter.
type Handler struct {
	Interpreter *Interpreter
}

// NewHandler constructs a Handler.
func NewHandler(interpreter *Interpreter) *Handler {
	return &Handler{Interpreter: interpreter}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/interpret-resume", h.interpret)
}

type interpretRequest struct {
	Text string `json:"text"`
}

func (h *Handler) interpret(c *gin.Context) {
	var req interpretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	if len(strings.TrimSpace(req.Text)) < minTextChars {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Resume text is too short or empty")
		return
	}

	parsed, err := h.Interpreter.Interpret(c.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "config_error", "Language model API key not configured")
		case errors.Is(err, ErrIncompleteExtraction):
			respond.Error(c, http.StatusInternalServerError, "incomplete_extraction", ErrIncompleteExtraction.Error())
		case errors.Is(err, ErrMalformedOutput):
			respond.Error(c, http.StatusInternalServerError, "malformed_output", "Failed to parse resume. Please try again.")
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to parse resume. Please try again.")
		}
		return
	}

	respond.OK(c, parsed)
}
