// Package tester implements the conformance test client: a line-framed
// stdio transport to a server subprocess, a strictly sequential JSON-RPC
// client on top of it, and the probe suite that produces a report.
package tester

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"mcp-forge/internal/protocol"
)

// DefaultStopTimeout is how long Stop waits for the peer to exit before
// leaving it orphaned.
const DefaultStopTimeout = 5 * time.Second

// stderrTailSize bounds the retained tail of the peer's stderr
const stderrTailSize = 8 * 1024

// Transport owns one child-process lifecycle and exposes byte-line I/O
// over its standard streams. It is not safe for concurrent use; the test
// run is strictly sequential.
type Transport struct {
	command []string
	dir     string

	// StopTimeout overrides DefaultStopTimeout when positive
	StopTimeout time.Duration

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	stderr *tailBuffer

	started bool
	stopped bool
	exited  chan struct{}
	waitErr error
}

// NewTransport creates a transport for the given command line. The command
// is not started until Start is called.
func NewTransport(command []string, dir string) *Transport {
	return &Transport{
		command: command,
		dir:     dir,
		stderr:  newTailBuffer(stderrTailSize),
	}
}

// Start spawns the configured command with its own stdio pipes. A launch
// failure is fatal to the test run.
func (t *Transport) Start() error {
	if len(t.command) == 0 {
		return protocol.NewProcessStartError("no server command given", nil)
	}
	if t.started {
		return protocol.NewProcessStartError("transport already started", nil)
	}

	t.cmd = exec.Command(t.command[0], t.command[1:]...)
	t.cmd.Dir = t.dir

	stdin, err := t.cmd.StdinPipe()
	if err != nil {
		return protocol.NewProcessStartError("failed to create stdin pipe", map[string]string{
			"error": err.Error(),
		})
	}

	stdout, err := t.cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return protocol.NewProcessStartError("failed to create stdout pipe", map[string]string{
			"error": err.Error(),
		})
	}

	stderr, err := t.cmd.StderrPipe()
	if err != nil {
		stdin.Close()
		return protocol.NewProcessStartError("failed to create stderr pipe", map[string]string{
			"error": err.Error(),
		})
	}

	if err := t.cmd.Start(); err != nil {
		stdin.Close()
		return protocol.NewProcessStartError(fmt.Sprintf("failed to start server: %v", err), map[string]string{
			"command": t.command[0],
		})
	}

	t.stdin = stdin
	t.stdout = bufio.NewReader(stdout)
	t.exited = make(chan struct{})

	// Drain stderr into a bounded tail so a chatty peer can never fill
	// the pipe and stall while we block on stdout.
	go func() {
		io.Copy(t.stderr, stderr)
	}()

	go func() {
		t.waitErr = t.cmd.Wait()
		close(t.exited)
	}()

	t.started = true
	return nil
}

// WriteLine writes one message followed by a newline. Writing to a stopped
// transport or a dead pipe fails with a transport-closed error.
func (t *Transport) WriteLine(line []byte) error {
	if !t.started || t.stopped {
		return protocol.NewTransportClosedError("transport is not running", nil)
	}

	select {
	case <-t.exited:
		return protocol.NewTransportClosedError("server process has exited", map[string]string{
			"stderr": t.stderr.Tail(),
		})
	default:
	}

	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')
	if _, err := t.stdin.Write(buf); err != nil {
		return protocol.NewTransportClosedError("failed to write to server", map[string]string{
			"error": err.Error(),
		})
	}
	return nil
}

// ReadLine blocks until one newline-terminated message arrives on the
// peer's stdout. A pipe closed with no pending data is reported as io.EOF,
// which callers must treat as "no response" rather than a crash.
func (t *Transport) ReadLine() ([]byte, error) {
	if !t.started {
		return nil, protocol.NewTransportClosedError("transport is not running", nil)
	}

	line, err := t.stdout.ReadBytes('\n')
	if err != nil {
		if err == io.EOF {
			if len(line) == 0 {
				return nil, io.EOF
			}
			// Tolerate a final line without a trailing newline
			return line, nil
		}
		return nil, protocol.NewTransportClosedError("failed to read from server", map[string]string{
			"error": err.Error(),
		})
	}
	return line[:len(line)-1], nil
}

// Stop requests graceful termination and waits up to the stop timeout for
// the process to exit. A process still running after the timeout is left
// orphaned; Stop never blocks indefinitely. Calling Stop on a stopped or
// never-started transport is a no-op.
func (t *Transport) Stop() error {
	if !t.started || t.stopped {
		return nil
	}
	t.stopped = true

	// Closing stdin is the usual shutdown signal for stdio servers
	if t.stdin != nil {
		t.stdin.Close()
	}

	select {
	case <-t.exited:
		return nil
	default:
	}

	if t.cmd.Process != nil {
		t.cmd.Process.Signal(syscall.SIGTERM)
	}

	timeout := t.StopTimeout
	if timeout <= 0 {
		timeout = DefaultStopTimeout
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-t.exited:
	case <-timer.C:
		// Still running after the timeout: leave it orphaned rather
		// than block the run.
	}
	return nil
}

// Stderr returns the retained tail of the peer's stderr output
func (t *Transport) Stderr() string {
	return t.stderr.Tail()
}

// Exited reports whether the peer process has terminated
func (t *Transport) Exited() bool {
	if !t.started {
		return false
	}
	select {
	case <-t.exited:
		return true
	default:
		return false
	}
}

// tailBuffer is an io.Writer that keeps only the most recent bytes
type tailBuffer struct {
	mu   sync.Mutex
	max  int
	data []byte
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, p...)
	if len(b.data) > b.max {
		b.data = b.data[len(b.data)-b.max:]
	}
	return len(p), nil
}

// Tail returns the buffered stderr tail as a string
func (b *tailBuffer) Tail() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.data)
}
