package ssh

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeSSH stands in for OpenSSH. The master touches its socket path and
// sleeps; control commands act on that file. Every invocation is appended
// to the log file.
const fakeSSH = `#!/bin/sh
echo "$*" >> "$FAKE_SSH_LOG"
case "$*" in
  *"-O check"*)
    [ -e "$2" ] && exit 0
    echo "Control socket connect($2): No such file or directory" >&2
    exit 255
    ;;
  *"-O forward"*)
    if [ -n "$FAKE_SSH_FORWARD_FAIL" ]; then
      echo "$FAKE_SSH_FORWARD_FAIL" >&2
      exit 255
    fi
    exit 0
    ;;
  *"-O cancel"*)
    exit 0
    ;;
  *"-O exit"*)
    rm -f "$2"
    exit 0
    ;;
  -M*)
    if [ -n "$FAKE_SSH_MASTER_FAIL" ]; then
      echo "$FAKE_SSH_MASTER_FAIL" >&2
      exit 255
    fi
    if [ -n "$FAKE_SSH_MASTER_SILENT_FAIL" ]; then
      exit 255
    fi
    if [ -n "$FAKE_SSH_MASTER_DETACH" ]; then
      touch "$3"
      exit 0
    fi
    touch "$3"
    exec sleep 30
    ;;
esac
exit 1
`

type fakeEnv struct {
	binary    string
	log       string
	socketDir string
}

func setupFakeSSH(t *testing.T) fakeEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "ssh")
	if err := os.WriteFile(bin, []byte(fakeSSH), 0o755); err != nil {
		t.Fatalf("write fake ssh: %v", err)
	}
	logPath := filepath.Join(dir, "calls.log")
	t.Setenv("FAKE_SSH_LOG", logPath)
	t.Setenv("FAKE_SSH_FORWARD_FAIL", "")
	t.Setenv("FAKE_SSH_MASTER_FAIL", "")
	t.Setenv("FAKE_SSH_MASTER_SILENT_FAIL", "")
	t.Setenv("FAKE_SSH_MASTER_DETACH", "")

	return fakeEnv{
		binary:    bin,
		log:       logPath,
		socketDir: filepath.Join(dir, "sockets"),
	}
}

func (f fakeEnv) calls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.log)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read fake ssh log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func (f fakeEnv) called(t *testing.T, fragment string) bool {
	t.Helper()
	for _, c := range f.calls(t) {
		if strings.Contains(c, fragment) {
			return true
		}
	}
	return false
}
