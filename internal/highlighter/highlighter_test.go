package highlighter

import (
	"testing"
	"time"

	"lumehl/internal/grammar"
	"lumehl/internal/lang"
)

func TestHighlightClassifiesLumen(t *testing.T) {
	h := New(Config{CacheSize: 8, Workers: 1})

	spans := h.Highlight(Request{Lang: lang.Lumen, Text: "let x = 1"})
	if len(spans) == 0 {
		t.Fatalf("no spans")
	}
	if spans[0].Kind != grammar.KindKeyword {
		t.Fatalf("first span kind = %q, want keyword", spans[0].Kind)
	}
}

func TestHighlightPlainPassthrough(t *testing.T) {
	h := New(Config{CacheSize: 8, Workers: 1})

	spans := h.Highlight(Request{Lang: lang.Plain, Text: "let x = 1"})
	if len(spans) != 1 || spans[0].Kind != grammar.KindPlain {
		t.Fatalf("plain text must yield one plain span, got %v", spans)
	}
}

func TestHighlightCaches(t *testing.T) {
	h := New(Config{CacheSize: 8, Workers: 1})
	req := Request{Lang: lang.Lumen, Text: "// cached"}

	if _, ok := h.Lookup(req); ok {
		t.Fatalf("unexpected cache hit before highlight")
	}
	h.Highlight(req)
	if _, ok := h.Lookup(req); !ok {
		t.Fatalf("expected cache hit after highlight")
	}
}

func TestQueueFillsCache(t *testing.T) {
	h := New(Config{CacheSize: 8, Workers: 2})
	req := Request{Lang: lang.Lumen, Text: "func f() { return 1 }"}

	h.Queue(req)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := h.Lookup(req); ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("queued request never reached the cache")
}

func TestMaxSourceBytesDegradesToPlain(t *testing.T) {
	h := New(Config{CacheSize: 8, Workers: 1, MaxSourceBytes: 4})

	spans := h.Highlight(Request{Lang: lang.Lumen, Text: "let x = 1"})
	if len(spans) != 1 || spans[0].Kind != grammar.KindPlain {
		t.Fatalf("oversized input must degrade to one plain span, got %v", spans)
	}
}

func TestLRUEvicts(t *testing.T) {
	c := newSpanLRU(2)
	a := cacheKey{Lang: lang.Lumen, Text: "a"}
	b := cacheKey{Lang: lang.Lumen, Text: "b"}
	d := cacheKey{Lang: lang.Lumen, Text: "d"}

	c.Set(a, nil)
	c.Set(b, nil)
	c.Get(a)
	c.Set(d, nil)

	if _, ok := c.Get(b); ok {
		t.Fatalf("least recently used entry survived eviction")
	}
	if _, ok := c.Get(a); !ok {
		t.Fatalf("recently used entry evicted")
	}
	if _, ok := c.Get(d); !ok {
		t.Fatalf("new entry missing")
	}
}
