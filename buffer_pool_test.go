package serialkw

import "testing"

func TestBufferPool(t *testing.T) {
	bp := newBufferPool(64)

	buf := bp.Get()
	if len(buf) != 64 {
		t.Fatalf("len = %d", len(buf))
	}
	buf[0] = 0xff
	bp.Put(buf)

	again := bp.Get()
	if again[0] != 0 {
		t.Fatal("pooled buffer should be cleared on Put")
	}
	bp.Put(again)

	stats := bp.Stats()
	if stats.Gets != 2 || stats.Puts != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.Creates < 1 {
		t.Fatalf("creates = %d", stats.Creates)
	}
}

func TestBufferPoolRejectsWrongSize(t *testing.T) {
	bp := newBufferPool(64)
	bp.Put(make([]byte, 32))
	if got := bp.Stats().Puts; got != 0 {
		t.Fatalf("Puts = %d", got)
	}
}
