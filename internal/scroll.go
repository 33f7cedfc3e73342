package internal

// ScrollAnchor keeps a viewport steady across a Prepend. The caller captures
// the container's height and offset before mutating, prepends, then asks for
// the compensated offset on the next paint. A manual scroll in the interim
// cancels the restore; losing the anchor is cosmetic, so this is best-effort
// by design of the pagination flow, not a data invariant.
type ScrollAnchor struct {
	prevHeight   int
	prevOffset   int
	userScrolled bool
}

// CaptureScroll records the pre-mutation scroll geometry.
func CaptureScroll(height, offset int) *ScrollAnchor {
	return &ScrollAnchor{prevHeight: height, prevOffset: offset}
}

// MarkUserScrolled cancels the pending restore.
func (a *ScrollAnchor) MarkUserScrolled() {
	a.userScrolled = true
}

// Restore returns the offset that keeps the previously visible content in
// place after content of the given new total height was inserted above it.
// ok is false when the user scrolled in the interim or nothing was inserted.
func (a *ScrollAnchor) Restore(newHeight int) (offset int, ok bool) {
	if a.userScrolled {
		return a.prevOffset, false
	}
	delta := newHeight - a.prevHeight
	if delta <= 0 {
		return a.prevOffset, false
	}
	return a.prevOffset + delta, true
}
