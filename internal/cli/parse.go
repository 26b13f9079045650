package cli

import (
	"strings"

	"github.com/A2-ai/spackle/pkg/errors"
)

// parseAssignments turns repeated key=value flag values into a map. The
// value may itself contain '='; a later assignment of a key wins.
func parseAssignments(flag string, pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	var problems errors.MultiError
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			problems.Append(errors.Newf(errors.ErrValueMalformed, "--%s %q is not of the form key=value", flag, pair).
				WithDetail("flag", flag).WithDetail("value", pair))
			continue
		}
		out[key] = value
	}
	if err := problems.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}
