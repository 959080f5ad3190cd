package sink

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// sshBinary is overridable so tests can substitute a fake transport.
var sshBinary = "ssh"

// remoteSink streams image bytes over ssh. The remote side creates the
// target directory and copies stdin into the destination file; addressing
// is ~-relative so delivery works even when the local home-directory hint
// is wrong.
type remoteSink struct {
	spec      string
	timeout   time.Duration
	multiplex bool
	home      string // remote home hint, resolved once at construction
}

// newRemoteSink resolves the home hint up front: the target never
// changes for the life of the process, and resolving a bare alias costs
// an ssh client-configuration query.
func newRemoteSink(spec string, timeout time.Duration, multiplex bool) *remoteSink {
	s := &remoteSink{spec: spec, timeout: timeout, multiplex: multiplex}
	s.home = s.resolveHome()
	return s
}

func (s *remoteSink) Deliver(ctx context.Context, b []byte, filename string) Result {
	resultPath := path.Join(s.home, RemoteDirName, filename)

	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	remoteCmd := fmt.Sprintf("mkdir -p ~/%s && cat > ~/%s/%s", RemoteDirName, RemoteDirName, filename)
	cmd := exec.CommandContext(tctx, sshBinary, s.sshArgs(remoteCmd)...)
	cmd.Stdin = bytes.NewReader(b)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return Result{Path: resultPath, Detail: detail}
	}
	return Result{OK: true, Path: resultPath}
}

func (s *remoteSink) sshArgs(remoteCmd string) []string {
	var args []string
	if s.multiplex {
		args = append(args,
			"-o", "ControlMaster=auto",
			"-o", "ControlPath="+filepath.Join(os.TempDir(), "clipshot-%C"),
			"-o", "ControlPersist=60",
		)
	}
	return append(args, s.spec, remoteCmd)
}

// resolveHome guesses the remote home directory for the result path
// written back to the clipboard. A user@host spec is derived directly; a
// bare alias is resolved through the ssh client configuration, falling
// back to "~" when nothing can be learned.
func (s *remoteSink) resolveHome() string {
	user := ""
	if i := strings.Index(s.spec, "@"); i > 0 {
		user = s.spec[:i]
	} else {
		user = s.queryConfiguredUser()
	}
	switch user {
	case "":
		return "~"
	case "root":
		return "/root"
	default:
		return "/home/" + user
	}
}

func (s *remoteSink) queryConfiguredUser() string {
	tctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := exec.CommandContext(tctx, sshBinary, "-G", s.spec).Output()
	if err != nil {
		return ""
	}
	return parseConfiguredUser(string(out))
}

// parseConfiguredUser extracts the effective user from `ssh -G` output.
func parseConfiguredUser(out string) string {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[0] == "user" {
			return fields[1]
		}
	}
	return ""
}
