package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// browserCommand maps GOOS values to the command that hands a URL to the
// default browser.
var browserCommand = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"windows": {"cmd", "/c", "start"},
}

// OpenBrowser launches the system browser at url, used by the OAuth login flow.
func OpenBrowser(url string) error {
	argv, ok := browserCommand[runtime.GOOS]
	if !ok {
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	args := append(append([]string{}, argv[1:]...), url)
	if err := exec.Command(argv[0], args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
