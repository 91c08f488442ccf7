package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyDistinct(t *testing.T) {
	types := []ErrorType{
		ErrorTypeUnknownColumn,
		ErrorTypeDuplicateColumn,
		ErrorTypeLengthMismatch,
		ErrorTypeIndexMismatch,
		ErrorTypeOutOfBounds,
		ErrorTypeNonContiguousInsert,
		ErrorTypeNonExistentTarget,
		ErrorTypeShapeMismatch,
		ErrorTypeEmptyResult,
	}

	seen := make(map[ErrorType]bool)
	for _, typ := range types {
		assert.False(t, seen[typ], "duplicate error type %s", typ)
		seen[typ] = true

		err := New(typ, "boom")
		assert.True(t, IsType(err, typ))
		for _, other := range types {
			if other != typ {
				assert.False(t, IsType(err, other), "%s matched %s", typ, other)
			}
		}
	}
}

func TestErrorsAs(t *testing.T) {
	err := Newf(ErrorTypeOutOfBounds, "row %d outside %d rows", 9, 3)
	wrapped := fmt.Errorf("outer: %w", err)

	var e *Error
	require.True(t, stderrors.As(wrapped, &e))
	assert.Equal(t, ErrorTypeOutOfBounds, e.Type)
	assert.Equal(t, "row 9 outside 3 rows", e.Message)
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeData, "parse failed")
	outer := Wrap(inner, ErrorTypeFile, "load failed")

	require.NotNil(t, outer)
	assert.Equal(t, inner.Stack[0], outer.Stack[0], "wrap of structured error keeps original stack")
	assert.Equal(t, inner, outer.Unwrap())
	assert.Contains(t, outer.Error(), "file: load failed")
	assert.Contains(t, outer.Error(), "data: parse failed")
}

func TestWrapNil(t *testing.T) {
	var got *Error = Wrap(nil, ErrorTypeInternal, "ignored")
	assert.Nil(t, got)
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeLengthMismatch, "bad length").
		WithDetail("got", 2).
		WithDetail("want", 4)

	assert.Equal(t, 2, err.Details["got"])
	assert.Equal(t, 4, err.Details["want"])
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeShapeMismatch, TypeOf(New(ErrorTypeShapeMismatch, "x")))
	assert.Equal(t, ErrorTypeInternal, TypeOf(stderrors.New("foreign")))
}

func TestStackCaptured(t *testing.T) {
	err := New(ErrorTypeInternal, "with stack")
	require.NotEmpty(t, err.Stack)
	assert.Contains(t, err.Stack[0].Function, "TestStackCaptured")
}
