package tray

import "fyne.io/fyne/v2"

// SVGContent is the application and tray icon: a 2x2 mosaic with a capture frame.
const SVGContent = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16" width="16" height="16">
  <rect x="1" y="1" width="6" height="6" rx="1" fill="#0078d4"/>
  <rect x="9" y="1" width="6" height="6" rx="1" fill="#2b88d8" opacity="0.85"/>
  <rect x="1" y="9" width="6" height="6" rx="1" fill="#2b88d8" opacity="0.85"/>
  <rect x="9" y="9" width="6" height="6" rx="1" fill="none" stroke="#333333" stroke-width="1.2" stroke-dasharray="2,1"/>
</svg>`

// Icon returns the icon as a fyne resource.
func Icon() fyne.Resource {
	return fyne.NewStaticResource("snap-mosaic.svg", []byte(SVGContent))
}
