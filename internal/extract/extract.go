package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOC  = "application/msword"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type fileKind int

const (
	kindUnsupported fileKind = iota
	kindPDF
	kindWord
)

// ExtractTextFromBytes extracts plain text from an in-memory resume payload.
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/nguyenthenguyen/docx (DOC/DOCX).
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch classify(mimeType, fileName) {
	case kindPDF:
		text, err = extractPDF(data)
	case kindWord:
		text, err = extractWord(data)
	default:
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", classifyError(err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoExtractableText
	}
	return text, nil
}

func classify(mimeType, fileName string) fileKind {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	ext := strings.ToLower(filepath.Ext(fileName))

	switch {
	case clean == mimePDF || ext == ".pdf":
		return kindPDF
	case clean == mimeDOCX || ext == ".docx":
		return kindWord
	case clean == mimeDOC || ext == ".doc":
		return kindWord
	default:
		return kindUnsupported
	}
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractWord(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNoExtractableText
	}
	reader := bytes.NewReader(data)
	doc, err := docx.ReadDocxFromMemory(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	return stripWordXML(doc.Editable().GetContent()), nil
}

// stripWordXML flattens the raw document XML content into plain text,
// inserting newlines at paragraph and break boundaries.
func stripWordXML(raw string) string {
	raw = strings.ReplaceAll(raw, "</w:p>", "\n")
	raw = strings.ReplaceAll(raw, "<w:br/>", "\n")
	raw = strings.ReplaceAll(raw, "<w:tab/>", "\t")

	var buf strings.Builder
	inTag := false
	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			buf.WriteRune(r)
		}
	}
	return strings.TrimSpace(buf.String())
}

// classifyError maps library errors onto the typed failure set by matching
// substrings in the underlying message. Best effort only; anything
// unrecognized is wrapped as a generic extraction failure.
func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "password") || strings.Contains(msg, "encrypted"):
		return fmt.Errorf("%w: %v", ErrPasswordProtected, err)
	case strings.Contains(msg, "corrupt") || strings.Contains(msg, "malformed") ||
		strings.Contains(msg, "not a valid zip") || strings.Contains(msg, "zip: not a valid"):
		return fmt.Errorf("%w: %v", ErrCorruptedFile, err)
	case strings.Contains(msg, "no extractable") || strings.Contains(msg, "empty"):
		return fmt.Errorf("%w: %v", ErrNoExtractableText, err)
	default:
		return fmt.Errorf("failed to process file: %w", err)
	}
}
