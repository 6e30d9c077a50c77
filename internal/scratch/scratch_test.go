package scratch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, p string) {
	t.Helper()
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
}

func TestPathsAreUnique(t *testing.T) {
	s := New(t.TempDir(), ".mdconv_")
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		p := s.Path(".gro")
		require.False(t, seen[p], "repeated path %s", p)
		require.True(t, strings.HasPrefix(filepath.Base(p), ".mdconv_"))
		require.True(t, strings.HasSuffix(p, ".gro"))
		seen[p] = true
	}
	require.Len(t, s.Paths(), 100)
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, "tmp_")
	a := s.Path(".a")
	b := s.Path(".b")
	kept := s.Path(".c")
	touch(t, a)
	touch(t, kept)
	s.Release(kept)
	other := filepath.Join(dir, "other")
	touch(t, other)
	s.Track(other)

	require.NoError(t, s.Cleanup())
	for _, p := range []string{a, b, other} {
		_, err := os.Stat(p)
		require.True(t, os.IsNotExist(err), "%s still exists", p)
	}
	_, err := os.Stat(kept)
	require.NoError(t, err)
	require.Len(t, s.Paths(), 3)

	//A file created after the first cleanup goes away with the next one.
	touch(t, b)
	require.NoError(t, s.Cleanup())
	_, err = os.Stat(b)
	require.True(t, os.IsNotExist(err))
}

func TestGuardCancel(t *testing.T) {
	s := New(t.TempDir(), "tmp_")
	p := s.Path(".gro")
	touch(t, p)
	ctx, cancel := context.WithCancel(context.Background())
	stop := Guard(ctx, s)
	defer stop()
	cancel()
	require.Eventually(t, func() bool {
		_, err := os.Stat(p)
		return os.IsNotExist(err)
	}, time.Second, 10*time.Millisecond, "scratch file survived the interrupt")
}

func TestGuardStop(t *testing.T) {
	s := New(t.TempDir(), "tmp_")
	p := s.Path(".gro")
	touch(t, p)
	stop := Guard(context.Background(), s)
	stop()
	stop()
	_, err := os.Stat(p)
	require.NoError(t, err)
	require.NoError(t, s.Cleanup())
}
