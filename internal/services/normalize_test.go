package services

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyai-backend/internal/models"
)

func TestNormalize_Text(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"collapses whitespace", "  The   mitochondria\n\nis the\tpowerhouse  ", "The mitochondria is the powerhouse"},
		{"only whitespace", " \n\t\r ", ""},
		{"unicode whitespace", "a  b", "a b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.input, models.ContentTypeText)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNormalize_TextIsIdempotent(t *testing.T) {
	inputs := []string{
		"hello   world\n\nagain",
		strings.Repeat("word ", 5000),
		strings.Repeat("x", MaxContentLength-1) + "   y",
		"\t leading and trailing \n",
	}

	for _, in := range inputs {
		once, err := Normalize(in, models.ContentTypeText)
		require.NoError(t, err)
		twice, err := Normalize(once, models.ContentTypeText)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestNormalize_TruncatesToMaxLength(t *testing.T) {
	long := strings.Repeat("abcdefghij", 2000)

	got, err := Normalize(long, models.ContentTypeText)
	require.NoError(t, err)
	assert.Equal(t, MaxContentLength, utf8.RuneCountInString(got))
	assert.Equal(t, long[:MaxContentLength], got)

	multiByte := strings.Repeat("é", MaxContentLength+10)
	got, err = Normalize(multiByte, models.ContentTypeText)
	require.NoError(t, err)
	assert.Equal(t, MaxContentLength, utf8.RuneCountInString(got))

	encoded := base64.StdEncoding.EncodeToString([]byte(long))
	got, err = Normalize(encoded, models.ContentTypeBinary)
	require.NoError(t, err)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxContentLength)
}

func TestNormalize_BinaryDataURI(t *testing.T) {
	body := "This sentence is clearly longer than twenty characters."
	encoded := base64.StdEncoding.EncodeToString([]byte(body))

	got, err := Normalize("data:application/pdf;base64,"+encoded, models.ContentTypeBinary)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	got, err = Normalize(encoded, models.ContentTypeBinary)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestNormalize_BinaryReplacesNonPrintable(t *testing.T) {
	raw := []byte("%PDF-1.4\x00\x01\x02 stream\xff\xfe of text \xe2\x80\x94 that goes on long enough\n")
	encoded := base64.StdEncoding.EncodeToString(raw)

	got, err := Normalize(encoded, models.ContentTypeBinary)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, r := range got {
		ok := r == '\n' || r == '\r' || (r >= 0x20 && r <= 0x7E)
		assert.Truef(t, ok, "unexpected rune %q", r)
	}
	assert.Equal(t, "%PDF-1.4 stream of text that goes on long enough", got)
}

func TestNormalize_BinaryDropsShortLines(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"exactly twenty characters", "12345678901234567890", ""},
		{"twenty one characters", "123456789012345678901", "123456789012345678901"},
		{"short after collapsing", "  short \n\n text  ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded := base64.StdEncoding.EncodeToString([]byte(tc.raw))
			got, err := Normalize(encoded, models.ContentTypeBinary)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
			for _, line := range strings.Split(got, "\n") {
				if line == "" {
					continue
				}
				assert.Greater(t, len(strings.TrimSpace(line)), minBinaryLineLength)
			}
		})
	}
}

func TestNormalize_BinaryToleratesMissingPaddingAndWhitespace(t *testing.T) {
	body := "Padding is optional when decoding this payload."
	encoded := strings.TrimRight(base64.StdEncoding.EncodeToString([]byte(body)), "=")
	wrapped := encoded[:10] + "\n" + encoded[10:]

	got, err := Normalize(wrapped, models.ContentTypeBinary)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestNormalize_BinaryMalformedBase64(t *testing.T) {
	for _, in := range []string{"not*base64!", "data:application/pdf;base64,%%%%", "A"} {
		_, err := Normalize(in, models.ContentTypeBinary)
		require.Error(t, err)
		var decodeErr *DecodeError
		assert.True(t, errors.As(err, &decodeErr), "input %q", in)
	}
}
