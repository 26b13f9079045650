// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	stderrors "errors"
	"io"

	"github.com/A2-ai/spackle/pkg/errors"
)

// Renderer provides JSON output for machine consumption
type Renderer struct {
	output  io.Writer
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) (*Renderer, error) {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return &Renderer{
		output:  output,
		encoder: encoder,
	}, nil
}

// RenderResult renders any result type as JSON
func (r *Renderer) RenderResult(result interface{}) error {
	return r.encoder.Encode(result)
}

// ErrorEntry is the serialized form of one error
type ErrorEntry struct {
	Code     errors.ErrorCode       `json:"code" yaml:"code"`
	Category errors.Category        `json:"category" yaml:"category"`
	Message  string                 `json:"message" yaml:"message"`
	Details  map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// ErrorEntries flattens err into serializable entries
func ErrorEntries(err error) []ErrorEntry {
	errs := []error{err}
	var multi *errors.MultiError
	if stderrors.As(err, &multi) && len(multi.Errors) > 0 {
		errs = multi.Errors
	}
	entries := make([]ErrorEntry, 0, len(errs))
	for _, e := range errs {
		code := errors.GetErrorCode(e)
		entries = append(entries, ErrorEntry{
			Code:     code,
			Category: code.Category(),
			Message:  errors.MessageOf(e),
			Details:  errors.GetErrorDetails(e),
		})
	}
	return entries
}

// RenderError renders an error as JSON
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]interface{}{
		"errors": ErrorEntries(err),
	})
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{
		"message": msg,
	})
}
