package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jettpy/himpy-go/internal/index"
)

func TestAddAndLookup(t *testing.T) {
	idx := index.New()
	idx.Add("e1", 0)
	idx.Add("e1", 2)
	idx.Add("e2", 1)

	b, ok := idx.Lookup("e1")
	require.True(t, ok)
	assert.True(t, b.Contains(0))
	assert.True(t, b.Contains(2))
	assert.False(t, b.Contains(1))

	assert.Equal(t, 2, idx.Len())
}

func TestLookupMissingKey(t *testing.T) {
	idx := index.New()
	_, ok := idx.Lookup("nope")
	assert.False(t, ok)
}

func TestKeysListsEveryIndexedKey(t *testing.T) {
	idx := index.New()
	idx.Add("e1", 0)
	idx.Add("e2", 0)
	keys := idx.Keys()
	assert.ElementsMatch(t, []string{"e1", "e2"}, keys)
}
