package item

import "image"

// Hotspot identifies a clickable action area on a rendered item.
type Hotspot int

const (
	HotspotNone Hotspot = iota
	HotspotCopy
	HotspotSave
	HotspotDelete
)

const (
	IconSize   = 24
	IconMargin = 5
)

// hotspot order from the right edge inward
var rightToLeft = []Hotspot{HotspotDelete, HotspotSave, HotspotCopy}

func (h Hotspot) String() string {
	switch h {
	case HotspotCopy:
		return "copy"
	case HotspotSave:
		return "save"
	case HotspotDelete:
		return "delete"
	default:
		return "none"
	}
}

func (h Hotspot) Tooltip() string {
	switch h {
	case HotspotCopy:
		return "Copy to Clipboard"
	case HotspotSave:
		return "Save Image"
	case HotspotDelete:
		return "Delete Image"
	default:
		return ""
	}
}

// Hotspots lists the actionable hotspots in display order, left to right.
func Hotspots() []Hotspot {
	return []Hotspot{HotspotCopy, HotspotSave, HotspotDelete}
}

// Rect returns the hotspot's rectangle on an item of the given width.
func (h Hotspot) Rect(width int) image.Rectangle {
	for i, hs := range rightToLeft {
		if hs == h {
			x := width - (i+1)*(IconSize+IconMargin)
			return image.Rect(x, IconMargin, x+IconSize, IconMargin+IconSize)
		}
	}
	return image.Rectangle{}
}

// HitTest resolves p, relative to the item's top-left corner, to a hotspot.
func HitTest(p image.Point, width, height int) Hotspot {
	if p.X < 0 || p.Y < 0 || p.X >= width || p.Y >= height {
		return HotspotNone
	}
	for _, h := range rightToLeft {
		if p.In(h.Rect(width)) {
			return h
		}
	}
	return HotspotNone
}
