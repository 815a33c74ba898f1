package sqlconv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeCodeError struct{ code string }

func (e fakeCodeError) Error() string { return "pq: duplicate key value violates unique constraint" }
func (e fakeCodeError) Code() string  { return e.code }

type fakeNumberError struct{ num uint16 }

func (e fakeNumberError) Error() string { return "Error 1062: Duplicate entry" }
func (e fakeNumberError) Number() uint16 { return e.num }

func TestIsUniqueViolationByCode(t *testing.T) {
	assert.True(t, IsUniqueViolation(fakeCodeError{code: pgUniqueViolation}))
	assert.True(t, IsUniqueViolation(fakeNumberError{num: mysqlDuplicateEntry}))
}

func TestIsUniqueViolationByStringFallback(t *testing.T) {
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, IsUniqueViolation(errors.New("some other error")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(fakeCodeError{code: pgForeignKeyViolation}))
	assert.True(t, IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
}

func TestIsCheckViolation(t *testing.T) {
	assert.True(t, IsCheckViolation(fakeCodeError{code: pgCheckViolation}))
	assert.True(t, IsCheckViolation(errors.New("CHECK constraint failed: age")))
}

func TestIsNotNullViolation(t *testing.T) {
	assert.True(t, IsNotNullViolation(fakeCodeError{code: pgNotNullViolation}))
	assert.True(t, IsNotNullViolation(errors.New("NOT NULL constraint failed: users.name")))
}

func TestIsNilErrorsAreFalse(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsForeignKeyViolation(nil))
	assert.False(t, IsCheckViolation(nil))
	assert.False(t, IsNotNullViolation(nil))
	assert.False(t, IsConnection(nil))
}
