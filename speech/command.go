package speech

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
)

// errAlreadyCapturing reports a Start while a capture is still running.
// It is a caller-order fault, not a capability signal like ErrUnsupported
// or ErrDenied.
var errAlreadyCapturing = errors.New("capture already running")

// CommandCapture runs a user-configured transcriber command (for example
// a whisper CLI piped from the microphone) and emits one Update per
// stdout line, each carrying the transcript accumulated so far.
type CommandCapture struct {
	command string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCommandCapture builds a capture around the given shell command. An
// empty command yields a capture that reports ErrUnsupported.
func NewCommandCapture(command string) *CommandCapture {
	return &CommandCapture{command: command}
}

// Start launches the transcriber and begins streaming updates. The
// returned channel closes when the process exits or capture is stopped.
func (c *CommandCapture) Start(ctx context.Context) (<-chan Update, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(c.command) == "" {
		return nil, ErrUnsupported
	}
	if c.cancel != nil {
		return nil, errAlreadyCapturing
	}

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, "sh", "-c", c.command)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, ErrUnsupported
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, ErrUnsupported
	}

	updates := make(chan Update)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done

	go func() {
		defer close(updates)
		defer close(done)
		defer cmd.Wait()

		var transcript strings.Builder
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if transcript.Len() > 0 {
				transcript.WriteString(" ")
			}
			transcript.WriteString(line)

			select {
			case updates <- Update{Transcript: transcript.String()}:
			case <-runCtx.Done():
				return
			}
		}
	}()

	return updates, nil
}

// Stop terminates the transcriber process. Idempotent; a second call is
// a no-op.
func (c *CommandCapture) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
