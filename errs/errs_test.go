package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectError(t *testing.T) {
	t.Run("with stage", func(t *testing.T) {
		err := NewObject("schema", 0x40, ErrSignatureMismatch)

		require.ErrorIs(t, err, ErrSignatureMismatch)
		require.Equal(t, "schema object at 0x40: object signature mismatch", err.Error())

		var oe *ObjectError
		require.True(t, errors.As(err, &oe))
		require.Equal(t, uint64(0x40), oe.Offset)
		require.Equal(t, "schema", oe.Stage)
	})

	t.Run("without stage", func(t *testing.T) {
		err := NewObject("", 0x10, ErrOutOfBounds)
		require.Equal(t, "object at 0x10: read out of bounds", err.Error())
	})

	t.Run("nil error stays nil", func(t *testing.T) {
		require.NoError(t, NewObject("root", 0, nil))
	})
}

func TestUnknownObjectTypeError(t *testing.T) {
	err := fmt.Errorf("decode: %w", &UnknownObjectTypeError{Tag: 0x43})

	require.ErrorIs(t, err, ErrUnknownObjectType)
	require.Contains(t, err.Error(), "0x43")
}

func TestInvalidTableShapeError(t *testing.T) {
	err := &InvalidTableShapeError{Offset: 0x100, Length: 3}

	require.ErrorIs(t, err, ErrInvalidTableShape)
	require.Equal(t, "invalid table object length at 0x100: 3, expected 2", err.Error())
}

func TestDepthExceededMatchesCycle(t *testing.T) {
	require.ErrorIs(t, ErrDepthExceeded, ErrCyclicReference)
	require.NotErrorIs(t, ErrCyclicReference, ErrDepthExceeded)
}

func TestOutOfBounds(t *testing.T) {
	err := OutOfBounds(0x20, 8, 0x24)

	require.ErrorIs(t, err, ErrOutOfBounds)
	require.Equal(t, "read out of bounds: 8 bytes at 0x20, size 0x24", err.Error())
}
