package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyFile         = errors.New("empty file")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoText            = errors.New("no text could be extracted")
)

// maxPlainTextSize caps files accepted on the plain-text path.
const maxPlainTextSize = 2 << 20

// Text extracts plain text from an uploaded resume file, dispatching on
// the file extension. Supported: .pdf, .docx, .txt.
func Text(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return pdfText(data)
	case ".docx":
		return docxText(data)
	case ".txt":
		return plainText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func plainText(data []byte) (string, error) {
	if len(data) > maxPlainTextSize {
		return "", fmt.Errorf("%w: file too large", ErrUnsupportedFormat)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not valid UTF-8 text", ErrUnsupportedFormat)
	}
	s := strings.TrimSpace(string(data))
	if s == "" {
		return "", ErrNoText
	}
	return s, nil
}
