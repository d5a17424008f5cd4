package credential_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"labelscan/internal/config"
	"labelscan/internal/credential"
	"labelscan/internal/domain"
)

const keyDir = "/srv/keys"

func newTestStore(t *testing.T, fs afero.Fs) *credential.Store {
	t.Helper()
	return credential.NewStore(fs, &config.CredentialConfig{
		Dir:         keyDir,
		Prefix:      ".env_",
		FallbackKey: "fallback-key",
	}, zap.NewNop())
}

func writeKey(t *testing.T, fs afero.Fs, name, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(keyDir, 0o700))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(keyDir, name), []byte(content), 0o600))
}

func listKeys(t *testing.T, fs afero.Fs) []string {
	t.Helper()
	infos, err := afero.ReadDir(fs, keyDir)
	require.NoError(t, err)
	var names []string
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names
}

func TestStore_Resolve_NoDirectory(t *testing.T) {
	s := newTestStore(t, afero.NewMemMapFs())

	assert.Equal(t, "fallback-key", s.Resolve())
}

func TestStore_Resolve_NoKeyFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(keyDir, 0o700))
	writeKey(t, fs, "README", "not a key")

	s := newTestStore(t, fs)

	assert.Equal(t, "fallback-key", s.Resolve())
}

func TestStore_Resolve_LatestFileWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeKey(t, fs, ".env_1", "first\n")
	writeKey(t, fs, ".env_2", "  second  \n")

	s := newTestStore(t, fs)

	assert.Equal(t, "second", s.Resolve())
}

func TestStore_Resolve_LexicographicOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	for i, name := range []string{".env_1", ".env_2", ".env_9", ".env_10"} {
		writeKey(t, fs, name, string(rune('a'+i)))
	}

	s := newTestStore(t, fs)

	// ".env_9" sorts after ".env_10".
	assert.Equal(t, "c", s.Resolve())
}

func TestStore_Append_EmptyRejected(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeKey(t, fs, ".env_1", "first")
	s := newTestStore(t, fs)

	for _, secret := range []string{"", "   ", "\t\n"} {
		_, err := s.Append(secret)
		assert.ErrorIs(t, err, domain.ErrEmptyCredential)
	}

	assert.Equal(t, []string{".env_1"}, listKeys(t, fs))
}

func TestStore_Append_ThirdFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeKey(t, fs, ".env_1", "first")
	writeKey(t, fs, ".env_2", "second")
	s := newTestStore(t, fs)

	path, err := s.Append("  abc123 \n")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(keyDir, ".env_3"), path)
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", string(data))
	assert.Equal(t, "abc123", s.Resolve())
	assert.Len(t, listKeys(t, fs), 3)
}

func TestStore_Append_CreatesDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newTestStore(t, fs)

	path, err := s.Append("new-key")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(keyDir, ".env_1"), path)
	assert.Equal(t, "new-key", s.Resolve())
}

func TestStore_Append_NeverOverwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	// A gap in numbering makes count+1 land on an existing file.
	writeKey(t, fs, ".env_2", "second")
	writeKey(t, fs, ".env_3", "third")

	s := newTestStore(t, fs)

	_, err := s.Append("another")

	require.ErrorIs(t, err, domain.ErrCredentialConflict)
	data, err := afero.ReadFile(fs, filepath.Join(keyDir, ".env_3"))
	require.NoError(t, err)
	assert.Equal(t, "third", string(data))
}
