package platform

import "testing"

func TestHasWSLMarker(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"wsl2 osrelease", "5.15.167.4-microsoft-standard-WSL2", true},
		{"wsl1 version", "Linux version 4.4.0-19041-Microsoft (Microsoft@Microsoft.com)", true},
		{"lowercase marker", "5.10.0-wsl-custom", true},
		{"native linux", "6.8.0-45-generic", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := hasWSLMarker(tc.in); got != tc.want {
				t.Fatalf("hasWSLMarker(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestEnvironmentString(t *testing.T) {
	cases := map[Environment]string{
		NativeWindows: "windows",
		WSL:           "wsl",
		MacOS:         "macos",
		OtherUnix:     "unix",
	}
	for env, want := range cases {
		if got := env.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", env, got, want)
		}
	}
}
