// Package idgen implements the three primary-key ID-generation strategies:
// cuid, uuid (v7, time-ordered), and nanoid. Generate is the engine's entry
// point; it also carries the runtime guard that rejects generate on a
// logical type that isn't string-like.
package idgen

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/google/uuid"

	"github.com/quillorm/quill/column"
)

// nanoidLength is the length of the generated nanoid, per spec: 21 chars.
const nanoidLength = 21

// stringLike reports whether t is one of the logical types generate is
// allowed on.
func stringLike(t column.SQLType) bool {
	switch t {
	case column.TypeText, column.TypeVarchar, column.TypeUUID:
		return true
	default:
		return false
	}
}

// Generate produces a new ID value for a column carrying strategy s.
// Returns an UnsupportedTypeError if t is not string-like; the caller
// (the CRUD engine) maps this to quill.KindUnsupportedOperation.
func Generate(s column.GenerateStrategy, t column.SQLType) (string, error) {
	if !stringLike(t) {
		return "", &UnsupportedTypeError{Strategy: s, Type: t}
	}
	switch s {
	case column.GenerateCUID:
		return cuid(), nil
	case column.GenerateUUID:
		id, err := uuid.NewV7()
		if err != nil {
			return "", err
		}
		return id.String(), nil
	case column.GenerateNanoID:
		return gonanoid.New(nanoidLength)
	default:
		return "", fmt.Errorf("idgen: unknown generate strategy %q", s)
	}
}

// UnsupportedTypeError is raised when generate is configured on a column
// whose logical type is not string-like (text, varchar, uuid).
type UnsupportedTypeError struct {
	Strategy column.GenerateStrategy
	Type     column.SQLType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("idgen: generate strategy %q is not supported on column type %q", e.Strategy, e.Type)
}
