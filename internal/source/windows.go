package source

import (
	"context"
	"encoding/base64"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
)

// inlinePrefix marks a helper response carrying base64 PNG bytes inline
// instead of a temp file path. The temp file is preferred because it
// avoids pipe buffer limits on large captures; inline is the fallback
// when the helper cannot write to %TEMP%.
const inlinePrefix = "b64:"

// psClipImage saves the clipboard image as PNG to a unique file under
// %TEMP% and prints its Windows path. No image prints nothing. The @NAME@
// placeholder is replaced per invocation.
const psClipImage = `$ErrorActionPreference = 'Stop'
Add-Type -AssemblyName System.Windows.Forms,System.Drawing
$img = [System.Windows.Forms.Clipboard]::GetImage()
if ($img -eq $null) { exit 0 }
$path = Join-Path $env:TEMP '@NAME@'
try {
  $img.Save($path, [System.Drawing.Imaging.ImageFormat]::Png)
  Write-Output $path
} catch {
  $ms = New-Object System.IO.MemoryStream
  $img.Save($ms, [System.Drawing.Imaging.ImageFormat]::Png)
  Write-Output ('b64:' + [Convert]::ToBase64String($ms.ToArray()))
}`

// windowsSource reads the clipboard image via a PowerShell helper. The
// same strategy serves native Windows and WSL; under WSL the interop
// binary is powershell.exe and the returned path is translated with
// wslpath before reading.
type windowsSource struct {
	shell   string
	wsl     bool
	timeout time.Duration
}

func newWindowsSource(wsl bool, timeout time.Duration) *windowsSource {
	shell := "powershell"
	if wsl {
		shell = "powershell.exe"
	}
	return &windowsSource{shell: shell, wsl: wsl, timeout: timeout}
}

func (s *windowsSource) Acquire(ctx context.Context) []byte {
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	script := strings.Replace(psClipImage, "@NAME@", "clipshot-"+uuid.NewString()+".png", 1)
	// -Sta: Clipboard.GetImage requires a single-threaded apartment.
	out, err := exec.CommandContext(tctx, s.shell,
		"-NoProfile", "-NonInteractive", "-Sta", "-Command", script).Output()
	if err != nil {
		return nil
	}

	reply := strings.TrimSpace(string(out))
	if reply == "" {
		return nil
	}
	if enc, ok := strings.CutPrefix(reply, inlinePrefix); ok {
		b, err := base64.StdEncoding.DecodeString(enc)
		if err != nil || len(b) == 0 {
			return nil
		}
		return b
	}
	return s.readTempFile(tctx, reply)
}

// readTempFile reads and removes the helper's temp PNG, translating the
// Windows path into the WSL mount namespace when needed.
func (s *windowsSource) readTempFile(ctx context.Context, winPath string) []byte {
	path := winPath
	if s.wsl {
		out, err := exec.CommandContext(ctx, "wslpath", "-u", winPath).Output()
		if err != nil {
			return nil
		}
		path = strings.TrimSpace(string(out))
	}
	b, err := os.ReadFile(path)
	_ = os.Remove(path)
	if err != nil || len(b) == 0 {
		return nil
	}
	return b
}
