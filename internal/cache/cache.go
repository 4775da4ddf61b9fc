// Package cache keeps parsed documents keyed by content hash so repeated
// uploads of the same bytes skip parsing.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Kinds of cached values.
const (
	KindLines = "lines"
	KindSpans = "spans"
)

// DocCache is a TTL cache of parse results. Cached values are shared between
// callers and must be treated as read-only.
type DocCache struct {
	c      *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports cache effectiveness.
type Stats struct {
	Items  int   `json:"items"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// New returns a cache whose entries expire after ttl.
func New(ttl time.Duration) *DocCache {
	return &DocCache{c: gocache.New(ttl, 2*ttl)}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// Key combines a value kind, a discriminator such as the file extension, and
// the content hash.
func Key(kind, variant string, data []byte) string {
	return kind + ":" + variant + ":" + ContentHashHex(data)
}

// GetOrLoad returns the cached value for key or calls load and caches its
// result. Errors are returned but never cached. A nil cache always loads.
func GetOrLoad[T any](d *DocCache, key string, load func() (T, error)) (T, error) {
	if d == nil {
		return load()
	}
	if v, ok := d.c.Get(key); ok {
		if t, ok := v.(T); ok {
			d.hits.Add(1)
			return t, nil
		}
	}
	d.misses.Add(1)
	v, err := load()
	if err != nil {
		return v, err
	}
	d.c.SetDefault(key, v)
	return v, nil
}

// Stats returns the current item count and hit ratio counters.
func (d *DocCache) Stats() Stats {
	return Stats{
		Items:  d.c.ItemCount(),
		Hits:   d.hits.Load(),
		Misses: d.misses.Load(),
	}
}

// Flush drops every entry.
func (d *DocCache) Flush() {
	d.c.Flush()
}
