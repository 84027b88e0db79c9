package oracle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Cache stores the last quote of each asset.
type Cache interface {
	// Get returns the quote stored under key and its age, or ErrCacheMiss.
	Get(key string) (Quote, time.Duration, error)
	// Find returns the first quote whose name contains name, ignoring case.
	Find(name string) (Quote, time.Duration, error)
	Put(key string, q Quote) error
}

// Fresh reports whether an entry of that age can be used without refreshing.
func Fresh(age, ttl time.Duration) bool { return age >= 0 && age < ttl }

// FileCache is a Cache saved as a single JSON object, keyed by ISIN and by
// lower case name.
//
// It is safe for concurrent use.
type FileCache struct {
	Path string
	// Now defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	entries map[string]Quote
}

func (c *FileCache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// load reads the file once. A missing or corrupt file is an empty cache.
func (c *FileCache) load() {
	if c.entries != nil {
		return
	}
	c.entries = make(map[string]Quote)
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.entries = make(map[string]Quote)
	}
}

func (c *FileCache) Get(key string) (Quote, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	for _, k := range []string{key, strings.ToLower(key)} {
		if q, ok := c.entries[k]; ok {
			return q, c.now().Sub(q.FetchedAt), nil
		}
	}
	return Quote{}, 0, ErrCacheMiss
}

func (c *FileCache) Find(name string) (Quote, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Quote{}, 0, ErrCacheMiss
	}
	var best string
	for k := range c.entries {
		if strings.Contains(k, name) || strings.Contains(strings.ToLower(c.entries[k].Name), name) {
			// smallest key for a deterministic result.
			if best == "" || k < best {
				best = k
			}
		}
	}
	if best == "" {
		return Quote{}, 0, ErrCacheMiss
	}
	q := c.entries[best]
	return q, c.now().Sub(q.FetchedAt), nil
}

// Put stores q under key and under its lower case name, then saves the file.
func (c *FileCache) Put(key string, q Quote) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	c.entries[key] = q
	if name := strings.ToLower(strings.TrimSpace(q.Name)); name != "" {
		c.entries[name] = q
	}
	return c.save()
}

func (c *FileCache) save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode quote cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	tmp := c.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.Path)
}
