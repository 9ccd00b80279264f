package mem

import "testing"

func TestNewPageTable_CoversAddressSpace(t *testing.T) {
	pt := NewPageTable(3, 16) // 64 KiB / 4 KiB pages

	if pt.TaskID() != 3 {
		t.Fatalf("expected task id 3, got %d", pt.TaskID())
	}
	if pt.Pages() != 16 {
		t.Fatalf("expected 16 pages, got %d", pt.Pages())
	}
	if pt.Released() {
		t.Fatalf("fresh table must not be released")
	}
}

func TestNewPageTable_TinyAddressSpace_HasOnePage(t *testing.T) {
	pt := NewPageTable(0, 8) // 256 bytes, below one page
	if pt.Pages() != 1 {
		t.Fatalf("expected 1 page minimum, got %d", pt.Pages())
	}
}

func TestPageTable_MapAndLookup(t *testing.T) {
	pt := NewPageTable(1, 16)

	if err := pt.Map(2, 41); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frame, ok := pt.Frame(2)
	if !ok || frame != 41 {
		t.Fatalf("expected frame 41, got %d (ok=%v)", frame, ok)
	}
	if _, ok := pt.Frame(3); ok {
		t.Fatalf("unmapped page must not resolve")
	}
	if err := pt.Map(16, 1); err == nil {
		t.Fatalf("expected error for out-of-range page")
	}
}

func TestPageTable_DeallocatePages_IsTerminalAndIdempotent(t *testing.T) {
	pt := NewPageTable(1, 16)
	pt.Map(0, 10)
	pt.Map(1, 11)

	pt.DeallocatePages()
	if !pt.Released() {
		t.Fatalf("expected table released")
	}
	if pt.Mapped() != 0 {
		t.Fatalf("expected all mappings dropped, got %d", pt.Mapped())
	}
	if err := pt.Map(0, 10); err == nil {
		t.Fatalf("released table must reject Map")
	}

	// A second deallocation is a no-op.
	pt.DeallocatePages()
	if pt.Mapped() != 0 || !pt.Released() {
		t.Fatalf("idempotent deallocation violated")
	}
}
