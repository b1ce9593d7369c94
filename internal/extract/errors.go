package extract

import "errors"

// Typed extraction failures surfaced to the user with a human-readable reason.
var (
	ErrUnsupportedFormat = errors.New("unsupported file type, please upload a PDF, DOC, or DOCX file")
	ErrPasswordProtected = errors.New("the file is password-protected")
	ErrCorruptedFile     = errors.New("the file appears to be corrupted")
	ErrNoExtractableText = errors.New("could not extract text from the file, it may be empty or an image-only scan")
)
