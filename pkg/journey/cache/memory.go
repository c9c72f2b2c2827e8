package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const DefaultMemorySize = 128

type MemoryStore struct {
	lru *expirable.LRU[string, *Entry]
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = DefaultMemorySize
	}

	return &MemoryStore{
		lru: expirable.NewLRU[string, *Entry](size, nil, ttl),
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	entry, ok := s.lru.Get(key)
	return entry, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, entry *Entry) error {
	s.lru.Add(key, entry)
	return nil
}
