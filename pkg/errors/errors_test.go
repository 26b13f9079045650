// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, categories and aggregation

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "manifest_parse",
			code:    errors.ErrManifestParse,
			message: "bad toml",
			wantStr: "[MANIFEST_PARSE] bad toml",
		},
		{
			name:    "path_invalid",
			code:    errors.ErrPathInvalidOutput,
			message: "output inside project",
			wantStr: "[PATH_INVALID_OUTPUT] output inside project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	base := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrapf(base, errors.ErrFileWrite, "write %s", "a.txt")
		require.NotNil(t, err)
		assert.Equal(t, "[FILE_WRITE] write a.txt: base error", err.Error())
		assert.True(t, stderrors.Is(err, base))
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "internal error"))
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrManifestCycle, "cycle").
		WithDetail("cycle", []string{"a", "b", "a"})

	assert.Equal(t, []string{"a", "b", "a"}, errors.GetErrorDetails(err)["cycle"])
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrManifestCycle, "one")
	err2 := errors.New(errors.ErrManifestCycle, "two")
	err3 := errors.New(errors.ErrRender, "three")

	assert.True(t, stderrors.Is(err1, err2))
	assert.False(t, stderrors.Is(err1, err3))
}

func TestCategory(t *testing.T) {
	tests := []struct {
		code errors.ErrorCode
		want errors.Category
	}{
		{errors.ErrManifestDuplicateKey, errors.ManifestError},
		{errors.ErrManifestAmbiguousNeed, errors.ManifestError},
		{errors.ErrValueTypeMismatch, errors.ValueError},
		{errors.ErrValueNotOptional, errors.ValueError},
		{errors.ErrRender, errors.RenderError},
		{errors.ErrTemplateValidate, errors.RenderError},
		{errors.ErrPathExists, errors.PathError},
		{errors.ErrHookExecution, errors.HookExecutionError},
		{errors.ErrFileWrite, errors.InternalError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.Category())
		})
	}
}

func TestIsCategory(t *testing.T) {
	wrapped := errors.Wrap(stderrors.New("io"), errors.ErrPathInvalidOutput, "bad output")
	assert.True(t, errors.IsCategory(wrapped, errors.PathError))
	assert.False(t, errors.IsCategory(wrapped, errors.ManifestError))
	assert.False(t, errors.IsCategory(stderrors.New("plain"), errors.PathError))
	assert.False(t, errors.IsCategory(nil, errors.PathError))
}

func TestMultiError(t *testing.T) {
	t.Run("empty_is_nil", func(t *testing.T) {
		var m errors.MultiError
		m.Append(nil)
		assert.NoError(t, m.ErrorOrNil())
	})

	t.Run("single_is_unwrapped", func(t *testing.T) {
		var m errors.MultiError
		only := errors.New(errors.ErrValueTypeMismatch, "port")
		m.Append(only)
		assert.Same(t, only, m.ErrorOrNil())
	})

	t.Run("many_are_aggregated", func(t *testing.T) {
		var m errors.MultiError
		m.Append(errors.New(errors.ErrValueTypeMismatch, "port"))
		m.Append(errors.New(errors.ErrValueUnknownSlot, "nope"))
		err := m.ErrorOrNil()

		require.Error(t, err)
		assert.Equal(t, "[VALUE_TYPE_MISMATCH] port; [VALUE_UNKNOWN_SLOT] nope", err.Error())
		assert.True(t, errors.IsErrorCode(err, errors.ErrValueUnknownSlot))
		assert.True(t, errors.IsCategory(err, errors.ValueError))
	})
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	fileErr := errors.Wrap(rootCause, errors.ErrFileAccess, "cannot read file")
	manifestErr := errors.Wrap(fileErr, errors.ErrManifestNotFound, "failed to load manifest")

	assert.True(t, errors.IsErrorCode(manifestErr, errors.ErrManifestNotFound))
	assert.Equal(t, errors.ErrManifestNotFound, errors.GetErrorCode(manifestErr))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(rootCause))
	assert.True(t, stderrors.Is(manifestErr, rootCause))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "output exists", errors.MessageOf(errors.New(errors.ErrPathExists, "output exists")))
	assert.Equal(t, "write a.txt: disk full",
		errors.MessageOf(errors.Wrap(stderrors.New("disk full"), errors.ErrFileWrite, "write a.txt")))
	assert.Equal(t, "plain", errors.MessageOf(stderrors.New("plain")))
}
