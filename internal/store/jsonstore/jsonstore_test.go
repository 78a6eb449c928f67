package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGetRemove(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	_, ok, err := s.Get("cart")
	require.NoError(t, err)
	assert.False(t, ok, "fresh store has no keys")

	require.NoError(t, s.Set("cart", `[{"_id":"a"}]`))
	require.NoError(t, s.Set("language", "te"))

	v, ok, err := s.Get("cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"_id":"a"}]`, v)

	require.NoError(t, s.Remove("cart"))
	_, ok, _ = s.Get("cart")
	assert.False(t, ok)

	v, _, _ = s.Get("language")
	assert.Equal(t, "te", v, "removing one key leaves the others")

	require.NoError(t, s.Remove("missing"))
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set("language", "hi"))

	s2, err := Open(dir)
	require.NoError(t, err)
	v, ok, err := s2.Get("language")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hi", v)

	_, err = os.Stat(filepath.Join(dir, DataFileName+".tmp"))
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")
}

func TestStore_CorruptFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DataFileName), []byte("not json"), 0o644))

	s, err := Open(dir)
	require.NoError(t, err)
	_, ok, err := s.Get("cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("cart", "[]"), "a write replaces the corrupt file")
	v, _, _ := s.Get("cart")
	assert.Equal(t, "[]", v)
}

func TestStore_ConcurrentWritersShareDir(t *testing.T) {
	dir := t.TempDir()
	a, err := Open(dir)
	require.NoError(t, err)
	b, err := Open(dir)
	require.NoError(t, err)

	const n = 200
	errs := make(chan error, 2*n)
	var wg sync.WaitGroup
	for _, s := range []*Store{a, b} {
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- s.Set("cart", fmt.Sprintf(`[{"_id":"%d"}]`, i))
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, DataFileName))
	require.NoError(t, err)
	var m map[string]string
	require.NoError(t, json.Unmarshal(raw, &m), "file is never torn")
	assert.Contains(t, m, "cart")

	left, err := filepath.Glob(filepath.Join(dir, DataFileName+".*"))
	require.NoError(t, err)
	assert.Empty(t, left, "no temp files left behind")
}
