package cli_test

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/calvinalkan/agent-todo/internal/cli"
)

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func waitFor(t *testing.T, buf *syncBuffer, substr string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), substr) {
			return
		}

		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("timed out waiting for %q\noutput:\n%s", substr, buf.String())
}

func Test_Watch_Redraws_On_Change_When_Invoked(t *testing.T) {
	t.Parallel()

	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.MustRun("--backend="+backend, "stats") // creates the data dir

			var stdout, stderr syncBuffer

			sigCh := make(chan os.Signal, 1)
			done := make(chan int, 1)

			go func() {
				done <- cli.Run(nil, &stdout, &stderr, []string{"td", "--cwd", c.Dir, "--backend=" + backend, "watch"}, c.Env, sigCh)
			}()

			waitFor(t, &stdout, "0 total, 0 active, 0 completed")

			c.MustRun("--backend="+backend, "add", "appears live")
			waitFor(t, &stdout, "appears live")
			waitFor(t, &stdout, "1 total, 1 active, 0 completed")

			sigCh <- syscall.SIGTERM

			select {
			case code := <-done:
				if code != 0 {
					t.Errorf("exitCode=%d, stderr=%s", code, stderr.String())
				}
			case <-time.After(5 * time.Second):
				t.Fatal("watch did not stop after signal")
			}
		})
	}
}

func Test_Watch_Rejects_Memory_Backend_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--backend=memory", "watch")
	cli.AssertContains(t, stderr, "persistent backend")
}
