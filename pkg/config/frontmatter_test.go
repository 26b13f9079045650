package config_test

import (
	"testing"

	"github.com/A2-ai/spackle/pkg/config"
	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantHeader string
		wantBody   string
		wantErr    bool
	}{
		{
			name:       "dashes",
			content:    "---\nname = \"x\"\n---\nbody\n",
			wantHeader: "name = \"x\"\n",
			wantBody:   "body\n",
		},
		{
			name:       "pluses",
			content:    "+++\nname = \"x\"\n+++\n",
			wantHeader: "name = \"x\"\n",
			wantBody:   "",
		},
		{
			name:       "crlf",
			content:    "---\r\nname = \"x\"\r\n---\r\nbody",
			wantHeader: "name = \"x\"\r\n",
			wantBody:   "body",
		},
		{
			name:    "unterminated",
			content: "---\nname = \"x\"\n",
			wantErr: true,
		},
		{
			name:    "missing",
			content: "just text",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body, err := config.SplitFrontmatter(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, header)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
