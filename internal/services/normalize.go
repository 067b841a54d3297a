package services

import (
	"encoding/base64"
	"strings"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"

	"studyai-backend/internal/models"
)

// MaxContentLength bounds the normalized text fed to every prompt, in characters.
const MaxContentLength = 15000

// minBinaryLineLength is the trimmed length a decoded line must exceed to be kept.
const minBinaryLineLength = 20

// Normalize turns a submitted payload into bounded plain text for prompting.
// Binary content is base64 (optionally data-URI prefixed) and only printable ASCII survives;
// this is a best-effort filter, not PDF text extraction.
func Normalize(content string, contentType models.ContentType) (string, error) {
	if contentType == models.ContentTypeText {
		return normalizeText(content), nil
	}
	return normalizeBinary(content)
}

func normalizeText(content string) string {
	return truncateContent(collapseWhitespace(content))
}

func normalizeBinary(content string) (string, error) {
	raw, err := decodeBase64Payload(content)
	if err != nil {
		return "", &DecodeError{Err: err}
	}

	text := decodeLossy(raw)

	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || (r >= 0x20 && r <= 0x7E) {
			return r
		}
		return ' '
	}, text)
	text = collapseWhitespace(text)

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if len(strings.TrimSpace(line)) > minBinaryLineLength {
			kept = append(kept, line)
		}
	}

	return truncateContent(strings.TrimSpace(strings.Join(kept, "\n"))), nil
}

// decodeBase64Payload strips a data URI prefix and decodes standard base64.
// ASCII whitespace is ignored and trailing padding is optional.
func decodeBase64Payload(content string) ([]byte, error) {
	payload := content
	if strings.HasPrefix(payload, "data:") {
		if _, rest, ok := strings.Cut(payload, ","); ok {
			payload = rest
		}
	}

	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			return -1
		}
		return r
	}, payload)
	payload = strings.TrimRight(payload, "=")

	return base64.RawStdEncoding.DecodeString(payload)
}

// decodeLossy decodes UTF-8, replacing invalid sequences with U+FFFD.
func decodeLossy(raw []byte) string {
	decoded, err := xunicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "\uFFFD")
	}
	return string(decoded)
}

// collapseWhitespace replaces every whitespace run with a single space and trims the ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateContent(s string) string {
	count := 0
	for i := range s {
		if count == MaxContentLength {
			return strings.TrimRightFunc(s[:i], unicode.IsSpace)
		}
		count++
	}
	return s
}
