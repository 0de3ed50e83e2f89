package storage

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound is returned when a requested text does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError collects per-field problems with a Text submitted for
// creation.
type ValidationError struct {
	Fields map[string]string
}

// Add records a message for field. The first message per field wins.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	if _, ok := v.Fields[field]; !ok {
		v.Fields[field] = msg
	}
}

// Empty reports whether no field has a message.
func (v *ValidationError) Empty() bool {
	return len(v.Fields) == 0
}

func (v *ValidationError) Error() string {
	names := make([]string, 0, len(v.Fields))
	for name := range v.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, v.Fields[name])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
