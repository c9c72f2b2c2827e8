package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type fileRecord struct {
	ExpiresAt time.Time `json:"expires_at"`
	Entry     *Entry    `json:"entry"`
}

// FileStore keeps one file per key in a directory. Expired files are
// removed lazily on read.
type FileStore struct {
	dir    string
	ttl    time.Duration
	sealer *Sealer
	now    func() time.Time
}

var _ Store = (*FileStore)(nil)

type FileStoreOption func(*FileStore)

func WithSealer(sealer *Sealer) FileStoreOption {
	return func(s *FileStore) {
		s.sealer = sealer
	}
}

func WithClock(now func() time.Time) FileStoreOption {
	return func(s *FileStore) {
		s.now = now
	}
}

func NewFileStore(dir string, ttl time.Duration, opts ...FileStoreOption) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}

	store := &FileStore{
		dir: dir,
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}

	return store, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".cache")
}

func (s *FileStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache file: %w", err)
	}

	if s.sealer != nil {
		data, err = s.sealer.Open(data)
		if err != nil {
			return nil, false, err
		}
	}

	var record fileRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cache record: %w", err)
	}

	if s.ttl > 0 && s.now().After(record.ExpiresAt) {
		if err := os.Remove(s.path(key)); err != nil {
			slog.Warn("failed to remove expired cache file", "key", key, "error", err)
		}
		return nil, false, nil
	}

	return record.Entry, record.Entry != nil, nil
}

func (s *FileStore) Set(ctx context.Context, key string, entry *Entry) error {
	data, err := json.Marshal(fileRecord{
		ExpiresAt: s.now().Add(s.ttl),
		Entry:     entry,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cache record: %w", err)
	}

	if s.sealer != nil {
		data, err = s.sealer.Seal(data)
		if err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return os.Rename(tmp.Name(), s.path(key))
}
