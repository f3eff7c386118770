package rop

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultStates(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	s := Success(42)
	assert.True(t, s.IsSuccess())
	assert.True(t, s.HasResult())
	assert.False(t, s.IsFailure())
	assert.False(t, s.IsEmpty())
	assert.Equal(t, 42, s.Result())

	f := Fail[int](errBoom)
	assert.True(t, f.IsFailure())
	assert.False(t, f.IsCancel())
	assert.ErrorIs(t, f.Err(), errBoom)

	c := Cancel[int](context.Canceled)
	assert.True(t, c.IsCancel())
	assert.True(t, c.IsFailure())

	n := None[int]()
	assert.True(t, n.IsEmpty())
	assert.True(t, n.IsFailure())
	assert.NoError(t, n.Err())

	assert.NotEqual(t, s.Id(), f.Id())
}

func TestFromPair(t *testing.T) {
	t.Parallel()

	assert.True(t, FromPair(1, nil).IsSuccess())

	r := FromPair(0, errors.New("bad"))
	assert.True(t, r.IsFailure())
	assert.False(t, r.IsCancel())

	r = FromPair(0, fmt.Errorf("wrapped: %w", context.DeadlineExceeded))
	assert.True(t, r.IsCancel())
}

func TestResultUnwrap(t *testing.T) {
	t.Parallel()

	v, err := Success("x").Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	errBoom := errors.New("boom")
	_, err = Fail[string](errBoom).Unwrap()
	assert.Same(t, errBoom, err)

	_, err = None[string]().Unwrap()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestEraseKeepsIdentity(t *testing.T) {
	t.Parallel()

	r := Cancel[int](context.Canceled)
	e := Erase(r)

	assert.Equal(t, r.Id(), e.Id())
	assert.Equal(t, r.CreatedAt(), e.CreatedAt())
	assert.True(t, e.IsCancel())
}

func TestGetErrors(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetErrors(nil))

	a, b := errors.New("a"), errors.New("b")
	assert.Equal(t, []error{a, b}, GetErrors(errors.Join(a, b)))
	assert.Equal(t, []error{a}, GetErrors(a))

	var typed *os.PathError
	assert.True(t, IsNil(typed))
	assert.Empty(t, GetErrors(typed))
}
