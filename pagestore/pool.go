package pagestore

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
)

// Pool is a shared in-memory cache of file pages, keyed by file path and
// record number. All record files of one database environment share a single
// pool. Entries are copied on the way in and on the way out, so a cached page
// can never alias a buffer held by a caller.
type Pool struct {
	cache *ristretto.Cache[string, []byte]
}

// NewPool creates a pool that holds at most maxBytes of page data.
func NewPool(maxBytes int64) (*Pool, error) {
	counters := maxBytes / RecordSize * 10
	if counters < 1e4 {
		counters = 1e4
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: counters,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create page pool: %w", err)
	}
	return &Pool{cache: cache}, nil
}

func poolKey(path string, recno uint32) string {
	return fmt.Sprintf("%s#%d", path, recno)
}

// Get returns a copy of the cached page, or false on a miss.
func (p *Pool) Get(path string, recno uint32) ([]byte, bool) {
	cached, ok := p.cache.Get(poolKey(path, recno))
	if !ok {
		return nil, false
	}
	page := make([]byte, len(cached))
	copy(page, cached)
	return page, true
}

// Put caches a copy of the page under (path, recno).
func (p *Pool) Put(path string, recno uint32, page []byte) {
	cached := make([]byte, len(page))
	copy(cached, page)
	p.cache.Set(poolKey(path, recno), cached, RecordSize)
}

// Evict drops the entry for (path, recno) if present.
func (p *Pool) Evict(path string, recno uint32) {
	p.cache.Del(poolKey(path, recno))
}

// Wait blocks until buffered Set operations have been applied.
func (p *Pool) Wait() {
	p.cache.Wait()
}

// Close releases the pool's resources.
func (p *Pool) Close() {
	p.cache.Close()
}
