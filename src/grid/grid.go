// Package grid keeps the ordered item collection and computes its layout.
package grid

import "snap-mosaic/src/item"

// Spacing is the gap between cells and around the grid, in pixels.
const Spacing = 10

// Cell places one item.
type Cell struct {
	Item *item.Item
	Row  int
	Col  int
	X    int
	Y    int
}

// Layout is the result of a re-flow.
type Layout struct {
	Columns    int
	Cells      []Cell
	RowHeights []int
	Width      int
	Height     int
}

// Columns returns max(1, floor((viewport-spacing)/(itemWidth+spacing))).
func Columns(viewport, itemWidth, spacing int) int {
	step := itemWidth + spacing
	if step <= 0 {
		return 1
	}
	avail := viewport - spacing
	if avail < step {
		return 1
	}
	return avail / step
}

// Compositor holds items newest first. It is owned by the UI thread.
type Compositor struct {
	items   []*item.Item
	spacing int
}

func New() *Compositor {
	return &Compositor{spacing: Spacing}
}

// Insert places it at the front.
func (c *Compositor) Insert(it *item.Item) {
	c.items = append([]*item.Item{it}, c.items...)
}

// Remove detaches it. Removing an absent item is a no-op.
func (c *Compositor) Remove(it *item.Item) bool {
	for i, cur := range c.items {
		if cur == it {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every item and returns what was removed.
func (c *Compositor) Clear() []*item.Item {
	old := c.items
	c.items = nil
	return old
}

func (c *Compositor) Len() int { return len(c.items) }

// Newest returns the most recently inserted item, or nil.
func (c *Compositor) Newest() *item.Item {
	if len(c.items) == 0 {
		return nil
	}
	return c.items[0]
}

// Items returns a snapshot of the collection, newest first.
func (c *Compositor) Items() []*item.Item {
	out := make([]*item.Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Compositor) Contains(it *item.Item) bool {
	for _, cur := range c.items {
		if cur == it {
			return true
		}
	}
	return false
}

// Rescale refits every item to maxWidth.
func (c *Compositor) Rescale(maxWidth int) {
	for _, it := range c.items {
		it.Rescale(maxWidth)
	}
}

// Reflow lays the items out row-major for a viewport of the given width.
// The column width is taken from the first item.
func (c *Compositor) Reflow(viewport int) Layout {
	if len(c.items) == 0 {
		return Layout{}
	}
	s := c.spacing
	w, _ := c.items[0].DisplaySize()
	cols := Columns(viewport, w, s)

	rows := (len(c.items) + cols - 1) / cols
	l := Layout{
		Columns:    cols,
		Cells:      make([]Cell, len(c.items)),
		RowHeights: make([]int, rows),
	}
	for i, it := range c.items {
		row, col := i/cols, i%cols
		_, h := it.DisplaySize()
		if h > l.RowHeights[row] {
			l.RowHeights[row] = h
		}
		l.Cells[i] = Cell{Item: it, Row: row, Col: col, X: s + col*(w+s)}
	}

	y := s
	rowY := make([]int, rows)
	for r, h := range l.RowHeights {
		rowY[r] = y
		y += h + s
	}
	for i := range l.Cells {
		l.Cells[i].Y = rowY[l.Cells[i].Row]
	}
	l.Width = s + cols*(w+s)
	l.Height = y
	return l
}
