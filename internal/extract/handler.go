package extract

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires the extract-text endpoint to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches extraction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/extract-text", h.extractText)
}

func (h *Handler) extractText(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No file provided")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Unable to read file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Unable to read file")
		return
	}

	metrics.IncExtraction()

	sessionID := middleware.SessionIDFromContext(c)
	mimeType := fileHeader.Header.Get("Content-Type")
	text, err := h.Svc.Extract(c.Request.Context(), sessionID, fileHeader.Filename, mimeType, data)
	if err != nil {
		metrics.IncExtractionFailed()
		switch {
		case errors.Is(err, ErrUnsupportedFormat):
			respond.Error(c, http.StatusBadRequest, "unsupported_format", ErrUnsupportedFormat.Error())
		case errors.Is(err, ErrPasswordProtected):
			respond.Error(c, http.StatusInternalServerError, "password_protected", ErrPasswordProtected.Error())
		case errors.Is(err, ErrCorruptedFile):
			respond.Error(c, http.StatusInternalServerError, "corrupted_file", ErrCorruptedFile.Error())
		case errors.Is(err, ErrNoExtractableText):
			respond.Error(c, http.StatusInternalServerError, "no_extractable_text", ErrNoExtractableText.Error())
		default:
			respond.Error(c, http.StatusInternalServerError, "extraction_failed", "Failed to process file")
		}
		return
	}

	respond.OK(c, gin.H{"text": text})
}
