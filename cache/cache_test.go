package cache

import (
	"errors"
	"testing"
)

func TestKeyStable(t *testing.T) {
	a := Key("fetch", "https://example.com", 1)
	b := Key("fetch", "https://example.com", 1)
	if a != b {
		t.Fatalf("same inputs produced different keys: %s vs %s", a, b)
	}
	c := Key("fetch", "https://example.com", 2)
	if a == c {
		t.Fatalf("different inputs produced the same key")
	}
}

func TestMemoryCacheComputesOnce(t *testing.T) {
	c := NewMemoryCache()
	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("value"), nil
	}

	for i := 0; i < 3; i++ {
		val, err := c.GetOrCompute("k", compute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(val) != "value" {
			t.Fatalf("unexpected value %q", val)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 compute call, got %d", calls)
	}
}

func TestMemoryCacheDoesNotStoreErrors(t *testing.T) {
	c := NewMemoryCache()
	boom := errors.New("boom")
	_, err := c.GetOrCompute("k", func() ([]byte, error) { return nil, boom })
	if err != boom {
		t.Fatalf("expected compute error, got %v", err)
	}

	val, err := c.GetOrCompute("k", func() ([]byte, error) { return []byte("ok"), nil })
	if err != nil || string(val) != "ok" {
		t.Fatalf("expected recomputed value, got %q err %v", val, err)
	}
}
