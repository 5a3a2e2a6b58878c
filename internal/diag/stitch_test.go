package diag

import "testing"

func syntheticPCs(n int, base uintptr) []uintptr {
	pcs := make([]uintptr, n)
	for i := range pcs {
		pcs[i] = base + uintptr(i)
	}
	return pcs
}

func TestStitchWithoutBoundaryHit(t *testing.T) {
	pcs := syntheticPCs(6, 0x100)
	segs := stitch(pcs, func(uintptr) bool { return false }, nil)
	if len(segs) != 1 {
		t.Fatalf("segments = %d, want 1", len(segs))
	}
	if segs[0].shift != 0 || len(segs[0].pcs) != 6 {
		t.Fatalf("segment = {shift:%d len:%d}, want {shift:0 len:6}", segs[0].shift, len(segs[0].pcs))
	}
}

func TestStitchNilBoundary(t *testing.T) {
	pcs := syntheticPCs(4, 0x100)
	segs := stitch(pcs, nil, func() []uintptr { return syntheticPCs(2, 0x900) })
	if len(segs) != 1 {
		t.Fatalf("segments = %d, want 1 (no boundary, nothing spliced)", len(segs))
	}
}

func TestStitchSplicesSuspendedFrames(t *testing.T) {
	pcs := syntheticPCs(10, 0x100)
	boundary := func(pc uintptr) bool { return pc >= 0x104 } // hit at index 4
	suspended := func() []uintptr { return syntheticPCs(3, 0x900) }

	segs := stitch(pcs, boundary, suspended)
	if len(segs) != 3 {
		t.Fatalf("segments = %d, want 3", len(segs))
	}

	tests := []struct {
		name      string
		seg       segment
		wantLen   int
		wantShift int
		wantFirst uintptr
	}{
		{"pre-scheduler", segs[0], 4, 0, 0x100},
		{"suspended", segs[1], 3, 4, 0x900},
		{"scheduler", segs[2], 6, 7, 0x104},
	}
	for _, tt := range tests {
		if len(tt.seg.pcs) != tt.wantLen {
			t.Fatalf("%s: len = %d, want %d", tt.name, len(tt.seg.pcs), tt.wantLen)
		}
		if tt.seg.shift != tt.wantShift {
			t.Fatalf("%s: shift = %d, want %d", tt.name, tt.seg.shift, tt.wantShift)
		}
		if tt.seg.pcs[0] != tt.wantFirst {
			t.Fatalf("%s: first pc = %#x, want %#x", tt.name, tt.seg.pcs[0], tt.wantFirst)
		}
	}
}

func TestStitchEmptySupplierLeavesNoGap(t *testing.T) {
	pcs := syntheticPCs(5, 0x100)
	boundary := func(pc uintptr) bool { return pc >= 0x102 }

	segs := stitch(pcs, boundary, func() []uintptr { return nil })
	if len(segs) != 3 {
		t.Fatalf("segments = %d, want 3", len(segs))
	}
	if segs[1].shift != 2 || len(segs[1].pcs) != 0 {
		t.Fatalf("middle segment = {shift:%d len:%d}, want {shift:2 len:0}", segs[1].shift, len(segs[1].pcs))
	}
	if segs[2].shift != 2 {
		t.Fatalf("tail shift = %d, want 2 (no gap from empty supplier)", segs[2].shift)
	}
}

func TestStitchBoundaryAtFirstFrame(t *testing.T) {
	pcs := syntheticPCs(4, 0x100)
	segs := stitch(pcs, func(uintptr) bool { return true }, func() []uintptr { return syntheticPCs(2, 0x900) })
	if len(segs) != 3 {
		t.Fatalf("segments = %d, want 3", len(segs))
	}
	if len(segs[0].pcs) != 0 {
		t.Fatalf("pre segment len = %d, want 0", len(segs[0].pcs))
	}
	if segs[1].shift != 0 {
		t.Fatalf("suspended shift = %d, want 0", segs[1].shift)
	}
	if segs[2].shift != 2 || len(segs[2].pcs) != 4 {
		t.Fatalf("tail = {shift:%d len:%d}, want {shift:2 len:4}", segs[2].shift, len(segs[2].pcs))
	}
}

func TestRangeBoundaryInclusive(t *testing.T) {
	r := Range{Start: 0x100, End: 0x1ff}
	tests := []struct {
		pc   uintptr
		want bool
	}{
		{0x0ff, false},
		{0x100, true},
		{0x180, true},
		{0x1ff, true},
		{0x200, false},
	}
	b := r.Boundary()
	for _, tt := range tests {
		if got := b(tt.pc); got != tt.want {
			t.Fatalf("Boundary()(%#x) = %v, want %v", tt.pc, got, tt.want)
		}
	}
}
