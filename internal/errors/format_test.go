package errors

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForCLI_MissingInput(t *testing.T) {
	// Given: a missing input error
	err := MissingInput("dictionary.txt", nil)

	// When: formatting for CLI
	result := FormatForCLI(err)

	// Then: contains message, hint and code
	assert.Contains(t, result, "Error: input file not found: dictionary.txt")
	assert.Contains(t, result, "Hint:")
	assert.Contains(t, result, "ERR_201_INPUT_NOT_FOUND")
}

func TestFormatForCLI_StandardError(t *testing.T) {
	// Given: a standard Go error
	err := errors.New("something went wrong")

	// When: formatting for CLI
	result := FormatForCLI(err)

	// Then: wrapped as internal
	assert.Contains(t, result, "something went wrong")
	assert.Contains(t, result, ErrCodeInternal)
	assert.NotContains(t, result, "Hint:")
}

func TestFormatForCLI_NilError(t *testing.T) {
	assert.Empty(t, FormatForCLI(nil))
}

func TestFormatForCLI_ShortFormat(t *testing.T) {
	// Given: a simple error
	err := New(ErrCodeOutputWrite, "write failed", nil)

	// When: formatting for CLI
	result := FormatForCLI(err)

	// Then: is concise
	lines := strings.Split(strings.TrimSpace(result), "\n")
	assert.LessOrEqual(t, len(lines), 3, "Should be concise")
}

func TestFormatJSON_BasicError(t *testing.T) {
	// Given: an Error with details
	err := New(ErrCodeInputNotFound, "input file not found", nil).
		WithDetail("path", "/foo/dictionary.txt").
		WithSuggestion("Check the file path")

	// When: formatting as JSON
	data, jsonErr := FormatJSON(err)

	// Then: valid JSON
	require.NoError(t, jsonErr)

	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))

	// And: contains expected fields
	assert.Equal(t, ErrCodeInputNotFound, result["code"])
	assert.Equal(t, "input file not found", result["message"])
	assert.Equal(t, string(CategoryIO), result["category"])
	assert.Equal(t, string(SeverityFatal), result["severity"])
	assert.Equal(t, "Check the file path", result["suggestion"])

	details, ok := result["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/foo/dictionary.txt", details["path"])
}

func TestFormatJSON_StandardError(t *testing.T) {
	data, jsonErr := FormatJSON(errors.New("generic error"))
	require.NoError(t, jsonErr)

	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, ErrCodeInternal, result["code"])
	assert.Equal(t, "generic error", result["message"])
}

func TestFormatJSON_NilError(t *testing.T) {
	data, err := FormatJSON(nil)

	assert.NoError(t, err)
	assert.Equal(t, "null", strings.TrimSpace(string(data)))
}

func TestFormatJSON_WithCause(t *testing.T) {
	// Given: an error with cause
	err := New(ErrCodeExportFailed, "export failed", errors.New("underlying error"))

	// When: formatting as JSON
	data, jsonErr := FormatJSON(err)

	// Then: includes cause
	require.NoError(t, jsonErr)
	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "underlying error", result["cause"])
}

func TestLogAttrs(t *testing.T) {
	t.Run("structured error", func(t *testing.T) {
		err := New(ErrCodeOutputWrite, "write failed", errors.New("disk full")).
			WithDetail("path", "words.txt")

		attrs := LogAttrs(err)

		keys := make([]string, 0, len(attrs))
		for _, a := range attrs {
			keys = append(keys, a.(slog.Attr).Key)
		}
		assert.Equal(t, []string{"error_code", "message", "category", "severity", "cause", "detail_path"}, keys)
	})

	t.Run("standard error", func(t *testing.T) {
		attrs := LogAttrs(errors.New("plain"))
		require.Len(t, attrs, 1)
		assert.Equal(t, "plain", attrs[0].(slog.Attr).Value.String())
	})

	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, LogAttrs(nil))
	})
}
