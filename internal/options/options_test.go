package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type settings struct {
	depth int
	name  string
	trace []string
}

func withDepth(depth int) Option[*settings] {
	return New(func(s *settings) error {
		if depth < 1 {
			return errors.New("depth must be positive")
		}
		s.depth = depth
		s.trace = append(s.trace, "depth")

		return nil
	})
}

func withName(name string) Option[*settings] {
	return NoError(func(s *settings) {
		s.name = name
		s.trace = append(s.trace, "name")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		s := &settings{}
		require.NoError(t, Apply(s, withName("a"), withDepth(3), withName("b")))
		require.Equal(t, 3, s.depth)
		require.Equal(t, "b", s.name)
		require.Equal(t, []string{"name", "depth", "name"}, s.trace)
	})

	t.Run("no options", func(t *testing.T) {
		s := &settings{depth: 7}
		require.NoError(t, Apply(s))
		require.Equal(t, 7, s.depth)
	})

	t.Run("skips nil options", func(t *testing.T) {
		s := &settings{}
		require.NoError(t, Apply(s, nil, withDepth(2)))
		require.Equal(t, 2, s.depth)
	})

	t.Run("stops at first error", func(t *testing.T) {
		s := &settings{}
		err := Apply(s, withName("a"), withDepth(0), withName("b"))
		require.EqualError(t, err, "depth must be positive")
		require.Equal(t, "a", s.name)
		require.Equal(t, []string{"name"}, s.trace)
	})
}
