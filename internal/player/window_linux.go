//go:build linux

package player

/*
#cgo LDFLAGS: -lX11
#include <X11/Xlib.h>

long sublingoFocusedWindow() {
    Display *d = XOpenDisplay(NULL);
    if (!d) return 0;
    Window w = 0;
    int revert;
    XGetInputFocus(d, &w, &revert);
    XCloseDisplay(d);
    if (w == PointerRoot || w == None) return 0;
    return (long)w;
}
*/
import "C"

import (
	"fmt"
	"os"
)

// GetWindowHandle returns the X11 id of the focused window, which is the
// ebiten window when called right after it gains focus. mpv embeds into it
// via the wid option. Pure Wayland sessions have no X11 id to embed into;
// XWayland (the common case) does.
func GetWindowHandle() (int64, error) {
	if os.Getenv("DISPLAY") == "" {
		return 0, fmt.Errorf("no X11 display; wayland-only sessions cannot embed mpv")
	}
	wid := int64(C.sublingoFocusedWindow())
	if wid == 0 {
		return 0, fmt.Errorf("no focused X11 window to embed into")
	}
	return wid, nil
}
