// Package platform classifies the runtime environment once at startup.
// Every other component picks its strategy from the result instead of
// re-branching on runtime.GOOS per call.
package platform

import (
	"os"
	"runtime"
	"strings"
)

// Environment identifies the host platform class.
type Environment int

const (
	OtherUnix Environment = iota
	NativeWindows
	WSL
	MacOS
)

func (e Environment) String() string {
	switch e {
	case NativeWindows:
		return "windows"
	case WSL:
		return "wsl"
	case MacOS:
		return "macos"
	default:
		return "unix"
	}
}

// Kernel identification files checked for WSL markers, in order.
var wslProbeFiles = []string{
	"/proc/sys/kernel/osrelease",
	"/proc/version",
}

// Detect classifies the current host. It never fails: an unreadable
// kernel identification file means "not WSL".
func Detect() Environment {
	switch runtime.GOOS {
	case "windows":
		return NativeWindows
	case "darwin":
		return MacOS
	case "linux":
		for _, p := range wslProbeFiles {
			b, err := os.ReadFile(p)
			if err != nil {
				continue
			}
			if hasWSLMarker(string(b)) {
				return WSL
			}
		}
		return OtherUnix
	default:
		return OtherUnix
	}
}

func hasWSLMarker(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "microsoft") || strings.Contains(s, "wsl")
}
