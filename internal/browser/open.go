package browser

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Open opens the specified URL in the user's default browser. Only
// http(s) URLs are handed to the OS; anything else is rejected so a
// malformed store link can't invoke an arbitrary protocol handler.
func Open(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("refusing to open non-http URL %q", url)
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}
