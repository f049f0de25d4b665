package orderedset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"jlite.dev/jlitec/internal/orderedset"
)

func TestInsertOrderPreserved(t *testing.T) {
	s := orderedset.New[string]()
	assert.True(t, s.Insert("b"))
	assert.True(t, s.Insert("a"))
	assert.False(t, s.Insert("b"))
	assert.Equal(t, []string{"b", "a"}, s.Values())
	assert.Equal(t, 2, s.Len())
}

func TestContainsAndIndexOf(t *testing.T) {
	s := orderedset.New[string]()
	s.Insert("x")
	s.Insert("y")

	assert.True(t, s.Contains("x"))
	assert.False(t, s.Contains("z"))

	idx, ok := s.IndexOf("y")
	require := assert.New(t)
	require.True(ok)
	require.Equal(1, idx)

	_, ok = s.IndexOf("z")
	assert.False(t, ok)
}
