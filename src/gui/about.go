package gui

import (
	"fmt"
	"image"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"snap-mosaic/src/config"
)

const projectURL = "https://github.com/MiDevel/SnapMosaic"

// ShowAbout shows the application name, version and links.
func (u *UI) ShowAbout() {
	title := widget.NewLabelWithStyle(config.AppName, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	link, _ := url.Parse(projectURL)
	body := container.NewVBox(
		title,
		widget.NewLabel(fmt.Sprintf("Version: %s", u.version)),
		widget.NewLabel("Capture a screen region repeatedly and collect the shots in a grid."),
		widget.NewHyperlink(projectURL, link),
		widget.NewLabel("License: MIT with attribution required"),
	)
	dialog.ShowCustom("About "+config.AppName, "OK", body, u.win)
}

// onScreen reports whether g overlaps a connected display. With no display
// information the geometry is trusted.
func onScreen(g config.Geometry, displays []image.Rectangle) bool {
	if len(displays) == 0 {
		return true
	}
	r := image.Rect(g.X, g.Y, g.X+g.Width, g.Y+g.Height)
	for _, d := range displays {
		if r.Overlaps(d) {
			return true
		}
	}
	return false
}
