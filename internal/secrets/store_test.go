package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")
	s := NewStore(dir)

	_, err := s.Load("session")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save("Session", "tok-123"))
	got, err := s.Load("session")
	require.NoError(t, err)
	require.Equal(t, "tok-123", got)

	raw, err := os.ReadFile(filepath.Join(dir, fileName))
	require.NoError(t, err)
	require.NotContains(t, string(raw), "tok-123")

	info, err := os.Stat(filepath.Join(dir, fileName))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Delete("session"))
	require.NoError(t, s.Delete("session"))
	_, err = s.Load("session")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRequiresKey(t *testing.T) {
	s := NewStore(t.TempDir())
	require.Error(t, s.Save(" ", "x"))
	_, err := s.Load("")
	require.Error(t, err)
	require.Error(t, s.Delete(""))
}

func TestStoreRecoversFromCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, fileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	s := NewStore(dir)

	_, err := s.Load("session")
	require.ErrorIs(t, err, ErrCorrupt)
	require.NotErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete("session"))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
	_, err = s.Load("session")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	require.NoError(t, s.Save("session", "tok-456"))
	got, err := s.Load("session")
	require.NoError(t, err)
	require.Equal(t, "tok-456", got)
}
