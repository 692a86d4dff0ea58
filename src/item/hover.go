package item

// HoverTracker remembers which item the pointer is over.
// It is owned by the UI thread.
type HoverTracker struct {
	current *Item
}

func (h *HoverTracker) Enter(it *Item) { h.current = it }

// Leave clears the hovered item only if it is still it; a late leave from a
// previous item must not clobber a newer enter.
func (h *HoverTracker) Leave(it *Item) {
	if h.current == it {
		h.current = nil
	}
}

// Forget drops it if hovered; used when an item is deleted.
func (h *HoverTracker) Forget(it *Item) { h.Leave(it) }

func (h *HoverTracker) Reset() { h.current = nil }

func (h *HoverTracker) Current() *Item { return h.current }
