package sink

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseTarget(t *testing.T) {
	cases := []struct {
		in     string
		remote bool
		spec   string
	}{
		{"local", false, ""},
		{"", false, ""},
		{"alice@dev-box", true, "alice@dev-box"},
		{"build-server", true, "build-server"},
	}
	for _, tc := range cases {
		got := ParseTarget(tc.in)
		if got.Remote != tc.remote || got.HostSpec != tc.spec {
			t.Fatalf("ParseTarget(%q) = %+v", tc.in, got)
		}
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 8, 31, 14, 5, 9, 123456, time.UTC)
	got := Filename(ts)
	want := "screenshot-2026-08-31T14-05-09.png"
	if got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}
}

func TestLocalSink_TwoFilenamesRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots") // does not exist yet
	s := New(Target{}, Options{LocalDir: dir})

	img := bytes.Repeat([]byte{0x89, 0x50, 0x4E, 0x47}, 64)

	r1 := s.Deliver(context.Background(), img, "one.png")
	r2 := s.Deliver(context.Background(), img, "two.png")
	if !r1.OK || !r2.OK {
		t.Fatalf("expected both deliveries to succeed: %+v %+v", r1, r2)
	}
	if r1.Path == r2.Path {
		t.Fatalf("distinct filenames produced the same path %s", r1.Path)
	}
	for _, r := range []Result{r1, r2} {
		if !filepath.IsAbs(r.Path) {
			t.Fatalf("expected absolute path, got %s", r.Path)
		}
		b, err := os.ReadFile(r.Path)
		if err != nil {
			t.Fatalf("read back %s: %v", r.Path, err)
		}
		if !bytes.Equal(b, img) {
			t.Fatalf("content mismatch at %s", r.Path)
		}
	}
}

func TestLocalSink_FailureKeepsPath(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission bits not enforced")
	}
	parent := t.TempDir()
	if err := os.Chmod(parent, 0o500); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(parent, 0o755)

	s := New(Target{}, Options{LocalDir: filepath.Join(parent, "shots")})
	r := s.Deliver(context.Background(), []byte("x"), "a.png")
	if r.OK {
		t.Fatal("expected failure under read-only parent")
	}
	if r.Path == "" || r.Detail == "" {
		t.Fatalf("failure must keep attempted path and detail: %+v", r)
	}
}

// fakeSSH installs a shell script in place of the ssh binary.
func fakeSSH(t *testing.T, script string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ssh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	prev := sshBinary
	sshBinary = path
	t.Cleanup(func() { sshBinary = prev })
}

func TestRemoteSink_StreamsStdin(t *testing.T) {
	out := filepath.Join(t.TempDir(), "delivered.bin")
	t.Setenv("CLIPSHOT_TEST_SSH_OUT", out)
	fakeSSH(t, `cat > "$CLIPSHOT_TEST_SSH_OUT"`)

	s := New(ParseTarget("root@example"), Options{RemoteTimeout: 5 * time.Second})
	img := []byte("fake-png-bytes")

	r := s.Deliver(context.Background(), img, "shot.png")
	if !r.OK {
		t.Fatalf("expected success: %+v", r)
	}
	if r.Path != "/root/clipshot-screenshots/shot.png" {
		t.Fatalf("unexpected result path %s", r.Path)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("transport never received bytes: %v", err)
	}
	if !bytes.Equal(b, img) {
		t.Fatalf("transport received %q, want %q", b, img)
	}
}

func TestRemoteSink_FailureCapturesStderr(t *testing.T) {
	fakeSSH(t, `echo "connection refused" >&2; exit 1`)

	s := New(ParseTarget("alice@unreachable"), Options{RemoteTimeout: 5 * time.Second})
	r := s.Deliver(context.Background(), []byte("x"), "shot.png")
	if r.OK {
		t.Fatal("expected failure")
	}
	if !strings.Contains(r.Detail, "connection refused") {
		t.Fatalf("expected remote stderr in detail, got %q", r.Detail)
	}
	if r.Path != "/home/alice/clipshot-screenshots/shot.png" {
		t.Fatalf("failure must still carry the attempted path, got %s", r.Path)
	}
}

func TestRemoteSink_AliasResolvesUser(t *testing.T) {
	// The fake handles both the -G query and the transfer.
	out := filepath.Join(t.TempDir(), "delivered.bin")
	t.Setenv("CLIPSHOT_TEST_SSH_OUT", out)
	fakeSSH(t, `if [ "$1" = "-G" ]; then
  echo "hostname example.internal"
  echo "user deploy"
  exit 0
fi
cat > "$CLIPSHOT_TEST_SSH_OUT"`)

	s := New(ParseTarget("build-server"), Options{RemoteTimeout: 5 * time.Second})
	r := s.Deliver(context.Background(), []byte("y"), "shot.png")
	if !r.OK {
		t.Fatalf("expected success: %+v", r)
	}
	if r.Path != "/home/deploy/clipshot-screenshots/shot.png" {
		t.Fatalf("alias user not resolved: %s", r.Path)
	}
}

func TestRemoteSink_AliasUserResolvedOnce(t *testing.T) {
	calls := filepath.Join(t.TempDir(), "queries")
	t.Setenv("CLIPSHOT_TEST_SSH_CALLS", calls)
	fakeSSH(t, `if [ "$1" = "-G" ]; then
  echo q >> "$CLIPSHOT_TEST_SSH_CALLS"
  echo "user deploy"
  exit 0
fi
cat > /dev/null`)

	s := New(ParseTarget("build-server"), Options{RemoteTimeout: time.Second})
	s.Deliver(context.Background(), []byte("a"), "one.png")
	s.Deliver(context.Background(), []byte("b"), "two.png")

	b, err := os.ReadFile(calls)
	if err != nil {
		t.Fatalf("client configuration never queried: %v", err)
	}
	if got := strings.Count(string(b), "q"); got != 1 {
		t.Fatalf("configuration queried %d times, want once", got)
	}
}

func TestParseConfiguredUser(t *testing.T) {
	out := "host example\nuser deploy\nport 22\n"
	if got := parseConfiguredUser(out); got != "deploy" {
		t.Fatalf("parseConfiguredUser = %q", got)
	}
	if got := parseConfiguredUser("port 22\n"); got != "" {
		t.Fatalf("expected empty user, got %q", got)
	}
}

func TestRemoteSink_MultiplexAddsControlOptions(t *testing.T) {
	s := &remoteSink{spec: "alice@dev", timeout: time.Second, multiplex: true}
	args := s.sshArgs("true")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "ControlMaster=auto") || !strings.Contains(joined, "ControlPersist=60") {
		t.Fatalf("missing control options: %v", args)
	}
	if args[len(args)-2] != "alice@dev" {
		t.Fatalf("host spec must precede remote command: %v", args)
	}
}
