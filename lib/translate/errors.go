package translate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RomeoSajina/relax/lib/source"
)

// Message keys for user-facing translation errors. Resolving a key plus its
// parameters to display text is the caller's concern.
const (
	KeyRelationNotFound  = "relationNotFound"
	KeyDuplicateRelation = "duplicateRelation"
)

// TranslationError is a user-facing translation failure: a message key,
// named substitution parameters, and the source position of the offending
// construct. It always aborts the translation that raised it.
type TranslationError struct {
	Key    string
	Params map[string]string
	Pos    source.Range
	Err    error
}

func (e *TranslationError) Error() string {
	var b strings.Builder
	b.WriteString("translate: ")
	b.WriteString(e.Key)
	if len(e.Params) > 0 {
		keys := make([]string, 0, len(e.Params))
		for k := range e.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + e.Params[k]
		}
		b.WriteString(" {" + strings.Join(parts, ", ") + "}")
	}
	if e.Pos.IsValid() {
		fmt.Fprintf(&b, " at line %d, column %d", e.Pos.Start.Line, e.Pos.Start.Column)
	}
	return b.String()
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

func relationNotFound(name string, pos source.Range) *TranslationError {
	return &TranslationError{
		Key:    KeyRelationNotFound,
		Params: map[string]string{"name": name},
		Pos:    pos,
	}
}

func duplicateRelation(name string, pos source.Range) *TranslationError {
	return &TranslationError{
		Key:    KeyDuplicateRelation,
		Params: map[string]string{"name": name},
		Pos:    pos,
	}
}
