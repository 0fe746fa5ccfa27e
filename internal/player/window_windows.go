//go:build windows

package player

import (
	"fmt"
	"syscall"
)

var (
	user32            = syscall.NewLazyDLL("user32.dll")
	procForegroundWnd = user32.NewProc("GetForegroundWindow")
)

// GetWindowHandle returns the Win32 HWND of the foreground window, which is
// the ebiten window when called right after it gains focus. mpv embeds into
// it via the wid option.
func GetWindowHandle() (int64, error) {
	hwnd, _, _ := procForegroundWnd.Call()
	if hwnd == 0 {
		return 0, fmt.Errorf("no foreground window to embed into")
	}
	return int64(hwnd), nil
}
