// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package feedcache keeps recently rendered RSS documents in memory.

Documents are keyed by feed ID and evicted least-recently-used first. When
compression is enabled, documents are stored zstd-compressed whenever that
makes them smaller; [Cache.Get] always returns the original bytes.

A document rendered from storage must not be cached if the feed changed while
it was being rendered. Callers read [Cache.Generation] before loading and store
the result with [Cache.AddIfCurrent], which drops it if any [Cache.Remove] ran
in between.
*/
package feedcache

import (
	"container/list"
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/atomic"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity LRU of rendered documents, safe for concurrent use.
//
// The zero value is not ready for use; construct with [New].
type Cache struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
	lock      sync.Mutex

	// generation counts calls to Remove. Guarded by lock.
	generation uint64

	enc *zstd.Encoder
	dec *zstd.Decoder

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type entry struct {
	key        string
	data       []byte
	compressed bool
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Len       int
	Hits      int64
	Misses    int64
	Evictions int64
}

// New creates a cache holding at most size documents.
func New(size int, compress bool) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &Cache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}

	if compress {
		// nil writer/reader: only EncodeAll/DecodeAll are used.
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}

		c.enc = enc
		c.dec = dec
	}

	return c, nil
}

// Add stores doc under key, making it the most recently used entry.
//
// Add reports whether another entry was evicted to make room.
func (c *Cache) Add(key string, doc []byte) bool {
	data, compressed := c.pack(doc)

	c.lock.Lock()
	defer c.lock.Unlock()

	return c.add(key, data, compressed)
}

// Generation returns a token to pass to [Cache.AddIfCurrent].
func (c *Cache) Generation() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.generation
}

// AddIfCurrent stores doc under key unless [Cache.Remove] has been called
// since gen was read. It reports whether doc was stored.
func (c *Cache) AddIfCurrent(key string, doc []byte, gen uint64) bool {
	data, compressed := c.pack(doc)

	c.lock.Lock()
	defer c.lock.Unlock()

	if c.generation != gen {
		return false
	}

	c.add(key, data, compressed)

	return true
}

func (c *Cache) add(key string, data []byte, compressed bool) bool {
	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)

		ent := el.Value.(*entry)
		ent.data = data
		ent.compressed = compressed

		return false
	}

	c.items[key] = c.evictList.PushFront(&entry{key: key, data: data, compressed: compressed})

	if c.evictList.Len() <= c.size {
		return false
	}

	if oldest := c.evictList.Back(); oldest != nil {
		c.removeElement(oldest)
		c.evictions.Inc()
	}

	return true
}

// Get returns a copy of the document stored under key.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.lock.Lock()

	el, ok := c.items[key]
	if !ok {
		c.lock.Unlock()
		c.misses.Inc()

		return nil, false
	}

	c.evictList.MoveToFront(el)
	ent := el.Value.(*entry)
	data, compressed := ent.data, ent.compressed

	c.lock.Unlock()

	doc, ok := c.unpack(data, compressed)
	if !ok {
		c.misses.Inc()

		return nil, false
	}

	c.hits.Inc()

	return doc, true
}

// Remove drops the document stored under key and reports whether it was present.
//
// Remove always advances the generation, even when key was not cached, since a
// render of key may be in flight.
func (c *Cache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.generation++

	el, ok := c.items[key]
	if ok {
		c.removeElement(el)
	}

	return ok
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Len:       c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

func (c *Cache) removeElement(el *list.Element) {
	c.evictList.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}

// pack copies doc, compressing it when enabled and worthwhile.
func (c *Cache) pack(doc []byte) ([]byte, bool) {
	if c.enc != nil && len(doc) > 0 {
		if packed := c.enc.EncodeAll(doc, nil); len(packed) < len(doc) {
			return packed, true
		}
	}

	return append([]byte(nil), doc...), false
}

func (c *Cache) unpack(data []byte, compressed bool) ([]byte, bool) {
	if !compressed {
		return append([]byte(nil), data...), true
	}

	doc, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, false
	}

	return doc, true
}
