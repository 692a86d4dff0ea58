// Package notification reports events to the user outside the main window.
package notification

import (
	"log"

	"fyne.io/fyne/v2"
)

const maxBody = 200

// Send shows a desktop notification. It always logs, and is a no-op beyond
// that when no fyne app is running.
func Send(title, body string) {
	body = truncate(body)
	log.Printf("notification: %s: %s", title, body)
	app := fyne.CurrentApp()
	if app == nil {
		return
	}
	app.SendNotification(fyne.NewNotification(title, body))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxBody {
		return s
	}
	return string(r[:maxBody]) + "..."
}
