//go:build windows

package notification

import (
	"log"

	"golang.org/x/sys/windows"
)

const (
	mbOK        = 0x00000000
	mbIconError = 0x00000010
	mbTopmost   = 0x00040000
)

// ShowBlockingError shows a modal message box and waits for it to be dismissed.
func ShowBlockingError(title, message string) {
	log.Printf("%s: %s", title, message)
	t, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return
	}
	m, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return
	}
	if _, err := windows.MessageBox(0, m, t, mbOK|mbIconError|mbTopmost); err != nil {
		log.Printf("message box failed: %v", err)
	}
}
