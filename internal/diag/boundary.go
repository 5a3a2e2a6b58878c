package diag

// BoundaryFunc reports whether a captured program counter belongs to the
// scheduler. Frames from the first boundary hit downward ran the executor
// loop, not the logical task.
type BoundaryFunc func(pc uintptr) bool

// StackFunc supplies the suspended frames of the logical task that was
// current when the scheduler took over, innermost first. An empty result
// means nothing is spliced in.
type StackFunc func() []uintptr

// Range is an address-range boundary for hosts whose scheduler occupies one
// contiguous text region. Both ends are inclusive.
type Range struct {
	Start uintptr
	End   uintptr
}

// Contains reports whether pc lies inside the range.
func (r Range) Contains(pc uintptr) bool {
	return r.Start <= pc && pc <= r.End
}

// Boundary adapts the range to a BoundaryFunc.
func (r Range) Boundary() BoundaryFunc {
	return func(pc uintptr) bool { return r.Contains(pc) }
}
