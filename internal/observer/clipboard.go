package observer

import "golang.design/x/clipboard"

// SystemClipboard returns a Clipboard reader over the OS clipboard, or nil
// when the clipboard is unavailable (headless sessions), which disables
// paste-triggered expansion.
func SystemClipboard() func() (string, bool) {
	if err := clipboard.Init(); err != nil {
		return nil
	}
	return func() (string, bool) {
		data := clipboard.Read(clipboard.FmtText)
		return string(data), len(data) > 0
	}
}
