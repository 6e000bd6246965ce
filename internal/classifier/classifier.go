// Package classifier turns free text into raw action records. It is the
// only place that knows about prompts, models and credentials.
package classifier

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable reports that the classifier could not produce usable
// output. Callers may retry or fall back to entering the action by hand.
var ErrUnavailable = errors.New("classifier unavailable")

// Classifier extracts raw action records from a single utterance such as
// "Paid 900 for dinner split between me, Sam and Tom". today anchors
// relative dates in the utterance.
type Classifier interface {
	Classify(ctx context.Context, utterance string, today time.Time) ([]map[string]any, error)
}

// Static returns the same records for every utterance.
type Static []map[string]any

func (s Static) Classify(ctx context.Context, _ string, _ time.Time) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	out := make([]map[string]any, len(s))
	for i, r := range s {
		cp := make(map[string]any, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out[i] = cp
	}
	return out, nil
}
