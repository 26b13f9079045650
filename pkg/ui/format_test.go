package ui_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		format   ui.Format
		expected string
	}{
		{ui.FormatAuto, "auto"},
		{ui.FormatTerminal, "terminal"},
		{ui.FormatText, "text"},
		{ui.FormatJSON, "json"},
		{ui.FormatYAML, "yaml"},
		{ui.Format(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.format.String())
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ui.Format
		wantErr  bool
	}{
		{"parse auto", "auto", ui.FormatAuto, false},
		{"parse empty string as auto", "", ui.FormatAuto, false},
		{"parse term", "term", ui.FormatTerminal, false},
		{"parse terminal", "terminal", ui.FormatTerminal, false},
		{"parse text", "text", ui.FormatText, false},
		{"parse plain", "plain", ui.FormatText, false},
		{"parse json", "json", ui.FormatJSON, false},
		{"parse yaml", "yaml", ui.FormatYAML, false},
		{"parse yml", "yml", ui.FormatYAML, false},
		{"parse mixed case JSON", "Json", ui.FormatJSON, false},
		{"parse invalid format", "invalid", ui.FormatAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := ui.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidFormat))
				assert.Contains(t, err.Error(), "unknown format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"auto", "terminal", "text", "json", "yaml"}, ui.Formats())
}

func TestIsStructured(t *testing.T) {
	assert.True(t, ui.FormatJSON.IsStructured())
	assert.True(t, ui.FormatYAML.IsStructured())
	assert.False(t, ui.FormatText.IsStructured())
	assert.False(t, ui.FormatTerminal.IsStructured())
}

func TestDetectFormat(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	t.Run("regular file is not a terminal", func(t *testing.T) {
		assert.Equal(t, ui.FormatText, ui.DetectFormat(f))
	})

	t.Run("NO_COLOR forces text", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, ui.FormatText, ui.DetectFormat(f))
	})
}
