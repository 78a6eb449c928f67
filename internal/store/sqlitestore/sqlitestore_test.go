package sqlitestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	_, ok, err := s.Get("cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("cart", "[]"))
	require.NoError(t, s.Set("cart", `[{"_id":"b"}]`), "set overwrites")

	v, ok, err := s.Get("cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"_id":"b"}]`, v)
	require.NoError(t, s.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()
	v, ok, err = s2.Get("cart")
	require.NoError(t, err)
	assert.True(t, ok, "value survives reopen")
	assert.Equal(t, `[{"_id":"b"}]`, v)

	require.NoError(t, s2.Remove("cart"))
	require.NoError(t, s2.Remove("cart"), "remove of a missing key is fine")
	_, ok, _ = s2.Get("cart")
	assert.False(t, ok)
}
