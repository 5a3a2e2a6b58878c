package diag

// segment is a run of frames rendered at a fixed numbering shift, innermost
// first. Shifts keep numbering contiguous across the physically separate
// stacks of a stitched backtrace.
type segment struct {
	pcs   []uintptr
	shift int
}

// stitch splits captured frames at the scheduler boundary and splices in the
// suspended task frames so the backtrace reads as one logical stack.
//
// Without a boundary hit the capture is one segment at shift 0. With a hit
// at index k the result is three segments: frames [0,k) at shift 0, the m
// suspended frames at shift k, and frames [k,len) at shift k+m. Empty
// segments stay in place so the shifts keep no gaps.
func stitch(pcs []uintptr, boundary BoundaryFunc, suspended StackFunc) []segment {
	if boundary != nil {
		for k, pc := range pcs {
			if !boundary(pc) {
				continue
			}
			var mid []uintptr
			if suspended != nil {
				mid = suspended()
			}
			return []segment{
				{pcs: pcs[:k], shift: 0},
				{pcs: mid, shift: k},
				{pcs: pcs[k:], shift: k + len(mid)},
			}
		}
	}
	return []segment{{pcs: pcs, shift: 0}}
}
