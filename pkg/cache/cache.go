// Package cache stores computed linkage matrices and rendered figures.
//
// Clustering is the only expensive step of building a board, and its result
// depends on nothing but the matrix and the clustering parameters. The CLI
// keeps linkages in a [FileCache] under the user cache directory; the HTTP
// server can share them between instances through a [RedisCache].
//
// # Keys
//
// A [Keyer] derives keys from a content hash plus the options that affect the
// result, so two requests that differ only in presentation share a linkage:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LinkageKey(cache.Hash(raw), cache.LinkageKeyOpts{
//	    Axis:   "row",
//	    Method: "average",
//	    Metric: "cosine",
//	})
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the server
//   - [NullCache]: caching disabled
//
// Wrap any backend with [Observe] to report hits and misses to
// observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the data for key. A miss is reported as ok=false with a nil
	// error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Default TTLs per entry kind.
const (
	TTLLinkage = 30 * 24 * time.Hour
	TTLRender  = 24 * time.Hour
)

// Key prefixes. The prefix doubles as the key type reported to hooks.
const (
	PrefixLinkage = "linkage"
	PrefixRender  = "render"
)

// Keyer builds cache keys.
type Keyer interface {
	// LinkageKey addresses the linkages of one clustered axis.
	LinkageKey(dataHash string, opts LinkageKeyOpts) string

	// RenderKey addresses a rendered figure.
	RenderKey(specHash string, opts RenderKeyOpts) string
}

// LinkageKeyOpts are the inputs that change a linkage.
type LinkageKeyOpts struct {
	Axis   string `json:"axis"`
	Method string `json:"method"`
	Metric string `json:"metric"`
	// Chunks is the chunk segmentation of the axis. Unsplit axes leave it nil.
	Chunks [][]int `json:"chunks,omitempty"`
}

// RenderKeyOpts are the inputs that change a rendered figure.
type RenderKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale"`
	DPI    float64 `json:"dpi,omitempty"`
	Debug  bool    `json:"debug,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LinkageKey implements Keyer.
func (DefaultKeyer) LinkageKey(dataHash string, opts LinkageKeyOpts) string {
	return hashKey(PrefixLinkage, dataHash, opts)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(specHash string, opts RenderKeyOpts) string {
	return hashKey(PrefixRender, specHash, opts)
}
