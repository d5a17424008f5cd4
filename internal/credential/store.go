package credential

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"labelscan/internal/config"
	"labelscan/internal/domain"
)

// Store keeps API keys as an append-only set of files named <prefix><n> in one
// directory. The lexicographically greatest name is the current key.
type Store struct {
	fs       afero.Fs
	dir      string
	prefix   string
	fallback string
	logger   *zap.Logger

	mu sync.Mutex
}

// NewStore creates a Store over fs using the credential config.
func NewStore(fs afero.Fs, cfg *config.CredentialConfig, logger *zap.Logger) *Store {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	return &Store{
		fs:       fs,
		dir:      dir,
		prefix:   cfg.Prefix,
		fallback: cfg.FallbackKey,
		logger:   logger,
	}
}

// Resolve returns the trimmed contents of the latest versioned file, or the
// fallback key when there is none or it cannot be read.
func (s *Store) Resolve() string {
	names, err := s.versionedFiles()
	if err != nil {
		s.logger.Warn("credential.Resolve: listing key files failed, using fallback",
			zap.String("dir", s.dir), zap.Error(err))
		return s.fallback
	}
	if len(names) == 0 {
		s.logger.Debug("credential.Resolve: no key files, using fallback", zap.String("dir", s.dir))
		return s.fallback
	}

	latest := names[len(names)-1]
	data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, latest))
	if err != nil {
		s.logger.Warn("credential.Resolve: reading key file failed, using fallback",
			zap.String("file", latest), zap.Error(err))
		return s.fallback
	}

	s.logger.Debug("credential.Resolve: using key file", zap.String("file", latest))
	return strings.TrimSpace(string(data))
}

// Append writes secret (trimmed) to the next versioned file, numbered as the
// count of existing files plus one, and returns the file path. Existing files
// are never overwritten: a name collision returns ErrCredentialConflict.
func (s *Store) Append(secret string) (string, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "", domain.ErrEmptyCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(s.dir, 0o700); err != nil {
		return "", fmt.Errorf("creating key directory: %w", err)
	}

	names, err := s.versionedFiles()
	if err != nil {
		return "", fmt.Errorf("listing key files: %w", err)
	}

	path := filepath.Join(s.dir, s.prefix+strconv.Itoa(len(names)+1))
	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrCredentialConflict, path)
		}
		return "", fmt.Errorf("creating key file: %w", err)
	}

	if _, err := f.WriteString(secret); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing key file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing key file: %w", err)
	}

	s.logger.Info("credential.Append: stored new key", zap.String("file", path))
	return path, nil
}

// versionedFiles lists the names in dir carrying the prefix, sorted.
func (s *Store) versionedFiles() ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, info := range infos {
		if info.IsDir() || !strings.HasPrefix(info.Name(), s.prefix) {
			continue
		}
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names, nil
}
