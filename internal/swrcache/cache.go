// Package swrcache is a file-backed stale-while-revalidate cache for
// read-mostly API lists such as the domain list.
//
// Entries live under <dir>/<endpoint hash>/<user>/<name>.json so that
// logging out of an endpoint can drop every user's lists at once.
package swrcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// formatVersion is bumped whenever the on-disk layout of entry changes.
// Entries of another version are treated as misses.
const formatVersion = 2

const (
	defaultFreshFor = 5 * time.Minute
	defaultMaxStale = time.Hour
	refreshTimeout  = 30 * time.Second
)

// Scope is one user on one API endpoint.
type Scope struct {
	Endpoint string
	User     string
}

func (s Scope) dir(root string) string {
	return filepath.Join(root, endpointDir(s.Endpoint), safeName(s.User))
}

func endpointDir(endpoint string) string {
	sum := sha256.Sum256([]byte(endpoint))
	return hex.EncodeToString(sum[:6])
}

type entry[T any] struct {
	Version   int       `json:"version"`
	FetchedAt time.Time `json:"fetched_at"`
	Data      T         `json:"data"`
}

// Cache serves entries younger than freshFor without calling fetch,
// serves entries younger than maxStale while refreshing them in the
// background, and fetches synchronously otherwise.
type Cache struct {
	dir      string
	freshFor time.Duration
	maxStale time.Duration

	flight singleflight.Group
	bg     sync.WaitGroup
}

// Option configures a Cache.
type Option func(*Cache)

// WithFreshFor sets how long an entry is served without revalidation.
func WithFreshFor(d time.Duration) Option {
	return func(c *Cache) { c.freshFor = d }
}

// WithMaxStale sets the age after which an entry is no longer served at
// all. Zero serves stale entries of any age.
func WithMaxStale(d time.Duration) Option {
	return func(c *Cache) { c.maxStale = d }
}

// New returns a cache rooted at dir.
func New(dir string, opts ...Option) *Cache {
	c := &Cache{dir: dir, freshFor: defaultFreshFor, maxStale: defaultMaxStale}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDefault returns a cache under the user cache directory.
func NewDefault(opts ...Option) *Cache {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return New(filepath.Join(base, "d0ctl", "lists"), opts...)
}

// Get returns the named list of scope, calling fetch on a miss. Concurrent
// callers for the same entry share one fetch. A nil Cache always fetches.
func Get[T any](ctx context.Context, c *Cache, scope Scope, name string, fetch func(context.Context) (T, error)) (T, error) {
	if c == nil || c.dir == "" {
		return fetch(ctx)
	}
	path := c.path(scope, name)

	e, ok := read[T](path)
	if ok {
		age := time.Since(e.FetchedAt)
		switch {
		case age >= 0 && age <= c.freshFor:
			return e.Data, nil
		case age >= 0 && (c.maxStale <= 0 || age <= c.maxStale):
			refresh(c, path, fetch)
			return e.Data, nil
		}
	}

	v, err, _ := c.flight.Do(path, func() (any, error) {
		return store(ctx, path, fetch)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// refresh revalidates path in the background. A refresh that starts
// while another fetch of path is in flight joins it.
func refresh[T any](c *Cache, path string, fetch func(context.Context) (T, error)) {
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		_, _, _ = c.flight.Do(path, func() (any, error) {
			return store(ctx, path, fetch)
		})
	}()
}

func store[T any](ctx context.Context, path string, fetch func(context.Context) (T, error)) (T, error) {
	data, err := fetch(ctx)
	if err != nil {
		return data, err
	}
	_ = write(path, entry[T]{Version: formatVersion, FetchedAt: time.Now(), Data: data})
	return data, nil
}

// Invalidate drops one named list of scope.
func (c *Cache) Invalidate(scope Scope, name string) error {
	if c == nil || c.dir == "" {
		return nil
	}
	return ignoreMissing(os.Remove(c.path(scope, name)))
}

// DropEndpoint drops the lists of every user of endpoint.
func (c *Cache) DropEndpoint(endpoint string) error {
	if c == nil || c.dir == "" {
		return nil
	}
	return os.RemoveAll(filepath.Join(c.dir, endpointDir(endpoint)))
}

// Clear drops everything.
func (c *Cache) Clear() error {
	if c == nil || c.dir == "" {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// wait blocks until background refreshes have finished.
func (c *Cache) wait() { c.bg.Wait() }

func (c *Cache) path(scope Scope, name string) string {
	return filepath.Join(scope.dir(c.dir), safeName(name)+".json")
}

func read[T any](path string) (entry[T], bool) {
	var e entry[T]
	raw, err := os.ReadFile(path)
	if err != nil {
		return e, false
	}
	if err := json.Unmarshal(raw, &e); err != nil || e.Version != formatVersion || e.FetchedAt.IsZero() {
		return e, false
	}
	return e, true
}

// write replaces path atomically so readers never see a partial entry.
func write[T any](path string, e entry[T]) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".pending-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func ignoreMissing(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// safeName maps s onto a file name of lowercase letters, digits and '-'.
func safeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, s)
}
