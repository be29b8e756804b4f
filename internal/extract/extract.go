// Package extract turns uploaded résumé files into plain text.
//
// Dispatch relies only on the declared media type. A file labeled with the wrong
// type is routed to the wrong parser and normally fails with ErrExtractionFailed.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText = "text/plain"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrExtractionFailed  = errors.New("document text extraction failed")
)

type parser func(data []byte) (string, error)

var parsers = map[string]parser{
	MediaTypePDF:  parsePDF,
	MediaTypeDOCX: parseDOCX,
	MediaTypeText: parseText,
}

var extensions = map[string]string{
	MediaTypePDF:  ".pdf",
	MediaTypeDOCX: ".docx",
	MediaTypeText: ".txt",
}

// Extract returns the plain text of data interpreted as mediaType.
func Extract(data []byte, mediaType string) (string, error) {
	kind := Normalize(mediaType)

	parse, ok := parsers[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, mediaType)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrExtractionFailed)
	}

	text, err := parse(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtractionFailed, kind, err)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s: no text found", ErrExtractionFailed, kind)
	}

	return text, nil
}

// Normalize lower-cases the media type and drops its parameters.
func Normalize(mediaType string) string {
	mediaType = strings.TrimSpace(mediaType)
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		return parsed
	}
	return strings.ToLower(mediaType)
}

// Supported reports whether mediaType has a parser.
func Supported(mediaType string) bool {
	_, ok := parsers[Normalize(mediaType)]
	return ok
}

// MediaTypes lists the supported media types in sorted order.
func MediaTypes() []string {
	types := make([]string, 0, len(parsers))
	for mediaType := range parsers {
		types = append(types, mediaType)
	}
	sort.Strings(types)
	return types
}

// Extension returns the file extension used when storing artifacts of mediaType.
func Extension(mediaType string) string {
	return extensions[Normalize(mediaType)]
}

func parseText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
}

// collapse joins all whitespace-separated runs with a single space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ForExtension returns the media type stored under ext, or "" when the
// extension is unknown. It is meant for callers that declare a type on behalf
// of a local file.
func ForExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	for mediaType, known := range extensions {
		if known == ext {
			return mediaType
		}
	}
	return ""
}
