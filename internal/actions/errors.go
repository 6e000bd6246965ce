package actions

import (
	"errors"
	"fmt"
)

// MalformedActionError describes a raw action that cannot be turned into a
// valid Action. Index is the position of the offending record in the raw
// input; derived actions report the index of the record they came from.
type MalformedActionError struct {
	Index  int
	Field  string
	Reason string
}

func (e MalformedActionError) Error() string {
	return fmt.Sprintf("action %d: %s: %s", e.Index, e.Field, e.Reason)
}

func malformed(index int, field, format string, args ...any) MalformedActionError {
	return MalformedActionError{Index: index, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Malformed unpacks every MalformedActionError contained in err, which is
// typically the joined error returned by Normalize.
func Malformed(err error) []MalformedActionError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []MalformedActionError
		for _, e := range joined.Unwrap() {
			out = append(out, Malformed(e)...)
		}
		return out
	}
	var me MalformedActionError
	if errors.As(err, &me) {
		return []MalformedActionError{me}
	}
	return nil
}
