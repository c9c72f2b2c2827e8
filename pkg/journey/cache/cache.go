// Package cache keeps downloaded bot replies so a repeated prompt does not
// need a new browser session.
package cache

import (
	"context"
	"time"
)

const DefaultTTL = 24 * time.Hour

// Entry holds the raw downloads of one reply, in attachment order.
type Entry struct {
	SourceUrls []string `json:"source_urls"`
	Images     [][]byte `json:"images"`
}

type Store interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Set(ctx context.Context, key string, entry *Entry) error
}
