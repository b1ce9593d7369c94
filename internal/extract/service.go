package extract

import (
	"bytes"
	"context"
	"strings"

	"jobmatch-backend/internal/shared/storage/object"
	"jobmatch-backend/internal/shared/telemetry"
)

// Service extracts text from uploads and optionally keeps audit copies of the
// original file and its extracted text in the object store.
type Service struct {
	Store object.ObjectStore
}

// Extract runs text extraction. A configured store receives the original
// payload and a .extracted.txt derivative; storage failures are logged and do
// not fail the extraction.
func (s *Service) Extract(ctx context.Context, sessionID, fileName, mimeType string, data []byte) (string, error) {
	text, err := ExtractTextFromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		return "", err
	}

	if s.Store != nil {
		s.saveAuditCopies(ctx, sessionID, fileName, data, text)
	}

	return text, nil
}

func (s *Service) saveAuditCopies(ctx context.Context, sessionID, fileName string, data []byte, text string) {
	storageKey, _, _, err := s.Store.Save(ctx, sessionID, fileName, bytes.NewReader(data))
	if err != nil {
		telemetry.Error("extract.store.original_failed", map[string]any{
			"file_name": fileName,
			"err":       err.Error(),
		})
		return
	}

	extractedKey := storageKey + ".extracted.txt"
	if _, err := s.Store.SaveWithKey(ctx, extractedKey, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		telemetry.Error("extract.store.text_failed", map[string]any{
			"storage_key": extractedKey,
			"err":         err.Error(),
		})
	}
}
