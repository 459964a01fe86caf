// Package cache implements the blob content cache and the cache-reuse
// policy that decides which cached per-file tech can be retained across
// runs without reclassifying a blob.
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/pierrec/lz4/v4"
	"github.com/stackmuncher/stm-app/internal/gitcli"
)

// DefaultBlobCacheSize is the default maximum memory size for the LRU
// blob cache (256 MB of decompressed content).
const DefaultBlobCacheSize = 256 * 1024 * 1024

const bytesPerKB = 1024.0

// BlobCache provides a cross-commit LRU cache for blob content, keyed by
// git blob hash. Entries are stored lz4-compressed; the size budget counts
// decompressed bytes, so compression lowers resident memory rather than
// letting more content fit within the budget.
type BlobCache struct {
	mu          sync.RWMutex
	entries     map[gitcli.Hash]*blobEntry
	head        *blobEntry
	tail        *blobEntry
	maxSize     int64
	currentSize int64

	hits   atomic.Int64
	misses atomic.Int64
}

type blobEntry struct {
	hash        gitcli.Hash
	compressed  []byte
	rawSize     int64
	accessCount int64
	prev        *blobEntry
	next        *blobEntry
}

func (e *blobEntry) evictionCost() float64 {
	if e.rawSize == 0 {
		return float64(e.accessCount)
	}

	sizeKB := float64(e.rawSize) / bytesPerKB
	if sizeKB < 1 {
		sizeKB = 1
	}

	return float64(e.accessCount) / sizeKB
}

// NewBlobCache creates a blob cache with the given maximum raw-content
// size in bytes; 0 or negative selects DefaultBlobCacheSize.
func NewBlobCache(maxSize int64) *BlobCache {
	if maxSize <= 0 {
		maxSize = DefaultBlobCacheSize
	}

	return &BlobCache{
		entries: make(map[gitcli.Hash]*blobEntry),
		maxSize: maxSize,
	}
}

// Get returns the decompressed content for hash, or ok=false on a miss.
func (c *BlobCache) Get(hash gitcli.Hash) (content []byte, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.entries[hash]
	if !found {
		c.misses.Add(1)

		return nil, false
	}

	c.hits.Add(1)
	entry.accessCount++
	c.moveToFront(entry)

	raw, err := decompress(entry.compressed, entry.rawSize)
	if err != nil {
		return nil, false
	}

	return raw, true
}

// Put stores content under hash, evicting lower-value entries if needed
// to stay within the cache's size budget. Content larger than the entire
// budget is not cached.
func (c *BlobCache) Put(hash gitcli.Hash, content []byte) {
	rawSize := int64(len(content))
	if rawSize > c.maxSize {
		return
	}

	compressed := compress(content)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[hash]; ok {
		entry.accessCount++
		c.moveToFront(entry)

		return
	}

	for c.currentSize+rawSize > c.maxSize && c.tail != nil {
		c.evictLowestCost()
	}

	entry := &blobEntry{
		hash:        hash,
		compressed:  compressed,
		rawSize:     rawSize,
		accessCount: 1,
	}

	c.entries[hash] = entry
	c.currentSize += rawSize
	c.addToFront(entry)
}

// Stats reports cache hit/miss and sizing counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Entries     int
	CurrentSize int64
	MaxSize     int64
}

// HitRate returns the hit rate in [0,1], or 0 if the cache has never been
// queried.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// Stats returns a snapshot of the cache's counters.
func (c *BlobCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Entries:     len(c.entries),
		CurrentSize: c.currentSize,
		MaxSize:     c.maxSize,
	}
}

// Clear empties the cache.
func (c *BlobCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[gitcli.Hash]*blobEntry)
	c.head = nil
	c.tail = nil
	c.currentSize = 0
}

func (c *BlobCache) moveToFront(entry *blobEntry) {
	if entry == c.head {
		return
	}

	c.removeFromList(entry)
	c.addToFront(entry)
}

func (c *BlobCache) addToFront(entry *blobEntry) {
	entry.prev = nil
	entry.next = c.head

	if c.head != nil {
		c.head.prev = entry
	}

	c.head = entry

	if c.tail == nil {
		c.tail = entry
	}
}

func (c *BlobCache) removeFromList(entry *blobEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}

	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}
}

// evictionSampleSize bounds the LRU-tail scan for size-aware eviction to
// O(k) instead of O(n).
const evictionSampleSize = 5

func (c *BlobCache) evictLowestCost() {
	if c.tail == nil {
		return
	}

	var candidates [evictionSampleSize]*blobEntry

	count := 0
	entry := c.tail

	for entry != nil && count < evictionSampleSize {
		candidates[count] = entry
		count++
		entry = entry.prev
	}

	victim := candidates[0]
	lowestCost := victim.evictionCost()

	for i := 1; i < count; i++ {
		if cost := candidates[i].evictionCost(); cost < lowestCost {
			lowestCost = cost
			victim = candidates[i]
		}
	}

	c.removeFromList(victim)
	delete(c.entries, victim.hash)
	c.currentSize -= victim.rawSize
}

func compress(raw []byte) []byte {
	out := make([]byte, lz4.CompressBlockBound(len(raw)))

	n, err := lz4.CompressBlock(raw, out, nil)
	if err != nil || n == 0 {
		// Incompressible or too small to benefit; store raw behind a
		// leading 0 marker byte, which decompress recognizes.
		return append([]byte{0}, raw...)
	}

	return append([]byte{1}, out[:n]...)
}

func decompress(stored []byte, rawSize int64) ([]byte, error) {
	if len(stored) == 0 {
		return nil, nil
	}

	marker, payload := stored[0], stored[1:]
	if marker == 0 {
		return payload, nil
	}

	out := make([]byte, rawSize)

	n, err := lz4.UncompressBlock(payload, out)
	if err != nil {
		return nil, err
	}

	return out[:n], nil
}
