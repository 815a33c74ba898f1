package quill

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundSentinelMatchesErrorsIs(t *testing.T) {
	err := NotFound("users")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestKindOfReturnsUnknownForPlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
}

func TestIsHelpersMatchTheirKind(t *testing.T) {
	cases := []struct {
		err  *Error
		want func(error) bool
	}{
		{NewError(KindUniqueViolation, "users", "", nil), IsUniqueViolation},
		{NewError(KindForeignKeyViolation, "users", "", nil), IsForeignKeyViolation},
		{NewError(KindCheckViolation, "users", "", nil), IsCheckViolation},
		{NewError(KindNotNullViolation, "users", "", nil), IsNotNullViolation},
		{Validation("bad input"), IsValidation},
		{Unsupported("nope"), IsUnsupportedOperation},
		{NewError(KindConnection, "", "", nil), IsConnection},
	}
	for _, c := range cases {
		assert.True(t, c.want(c.err))
	}
}

func TestErrorMessageIncludesTableWhenSet(t *testing.T) {
	err := NewError(KindValidation, "users", "bad", nil)
	assert.Contains(t, err.Error(), "users")
}

func TestErrorUnwrapReturnsCause(t *testing.T) {
	cause := errors.New("driver exploded")
	err := NewError(KindUnknown, "users", "wrapped", cause)
	assert.Same(t, cause, errors.Unwrap(err))
}
