// Package highlighter is the classification service a host renderer talks
// to: it caches span sequences per code block and can classify blocks on
// background workers so rendering never blocks on the scan.
package highlighter

import (
	"container/list"
	"sync"

	"lumehl/internal/classifier"
	"lumehl/internal/grammar"
	"lumehl/internal/lang"
)

type Request struct {
	Lang lang.ID
	Text string
}

type cacheKey struct {
	Lang lang.ID
	Text string
}

type cacheEntry struct {
	key   cacheKey
	spans []classifier.Span
}

type spanLRU struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[cacheKey]*list.Element
}

func newSpanLRU(capacity int) *spanLRU {
	if capacity <= 0 {
		capacity = 1
	}
	return &spanLRU{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[cacheKey]*list.Element, capacity),
	}
}

func (c *spanLRU) Get(key cacheKey) ([]classifier.Span, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(elem)
	entry := elem.Value.(cacheEntry)
	return entry.spans, true
}

func (c *spanLRU) Set(key cacheKey, spans []classifier.Span) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value = cacheEntry{key: key, spans: spans}
		c.ll.MoveToFront(elem)
		return
	}

	elem := c.ll.PushFront(cacheEntry{key: key, spans: spans})
	c.items[key] = elem

	if c.ll.Len() <= c.capacity {
		return
	}

	back := c.ll.Back()
	if back == nil {
		return
	}
	entry := back.Value.(cacheEntry)
	delete(c.items, entry.key)
	c.ll.Remove(back)
}

type Config struct {
	CacheSize int
	Workers   int

	// MaxSourceBytes bounds the scan cost per block. Oversized input is
	// returned as a single plain span instead of being scanned.
	MaxSourceBytes int
}

type Highlighter struct {
	cache *spanLRU
	tasks chan Request

	pendingMu sync.Mutex
	pending   map[cacheKey]struct{}

	maxSourceBytes int
}

func New(cfg Config) *Highlighter {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	maxBytes := cfg.MaxSourceBytes
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}

	h := &Highlighter{
		cache:          newSpanLRU(cfg.CacheSize),
		tasks:          make(chan Request, workers*256),
		pending:        make(map[cacheKey]struct{}),
		maxSourceBytes: maxBytes,
	}

	for i := 0; i < workers; i++ {
		go h.worker()
	}

	return h
}

// Highlight classifies synchronously, consulting the cache first.
func (h *Highlighter) Highlight(req Request) []classifier.Span {
	key := cacheKey{Lang: req.Lang, Text: req.Text}
	if spans, ok := h.cache.Get(key); ok {
		return spans
	}

	spans := h.classify(req)
	h.cache.Set(key, spans)
	return spans
}

// Lookup returns cached spans without classifying.
func (h *Highlighter) Lookup(req Request) ([]classifier.Span, bool) {
	return h.cache.Get(cacheKey{Lang: req.Lang, Text: req.Text})
}

// Queue schedules background classification; results land in the cache. A
// full task queue drops the request rather than blocking the caller.
func (h *Highlighter) Queue(req Request) {
	if req.Text == "" {
		return
	}

	key := cacheKey{Lang: req.Lang, Text: req.Text}
	if _, ok := h.cache.Get(key); ok {
		return
	}

	h.pendingMu.Lock()
	if _, ok := h.pending[key]; ok {
		h.pendingMu.Unlock()
		return
	}
	h.pending[key] = struct{}{}
	h.pendingMu.Unlock()

	select {
	case h.tasks <- req:
	default:
		h.pendingMu.Lock()
		delete(h.pending, key)
		h.pendingMu.Unlock()
	}
}

func (h *Highlighter) worker() {
	for req := range h.tasks {
		spans := h.classify(req)
		key := cacheKey{Lang: req.Lang, Text: req.Text}
		h.cache.Set(key, spans)

		h.pendingMu.Lock()
		delete(h.pending, key)
		h.pendingMu.Unlock()
	}
}

func (h *Highlighter) classify(req Request) []classifier.Span {
	if req.Text == "" {
		return nil
	}
	if req.Lang != lang.Lumen || len(req.Text) > h.maxSourceBytes {
		return plainSpans(req.Text)
	}
	return classifier.Classify(req.Text)
}

func plainSpans(text string) []classifier.Span {
	if text == "" {
		return nil
	}
	return []classifier.Span{{Start: 0, End: len(text), Kind: grammar.KindPlain}}
}
