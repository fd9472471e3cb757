// Package speech provides the voice-capture collaborator: a cancellable
// subscription delivering partial transcript updates. Recognition itself
// is delegated to an external transcriber process; when none is
// configured, capture reports itself unsupported and the session falls
// back to typed input.
package speech

import (
	"context"
	"errors"
)

var (
	// ErrUnsupported means no capture capability is available.
	ErrUnsupported = errors.New("speech capture not supported")
	// ErrDenied means the platform refused microphone access.
	ErrDenied = errors.New("microphone access denied")
)

// Update carries the full transcript accumulated so far.
type Update struct {
	Transcript string
}

// Capture is a best-effort transcript source. Start returns a channel of
// transcript updates that closes when capture ends; it returns
// ErrUnsupported or ErrDenied when capture cannot begin. Stop tears the
// capture down and is safe to call repeatedly.
type Capture interface {
	Start(ctx context.Context) (<-chan Update, error)
	Stop()
}

// Unsupported is a Capture for platforms with no transcriber configured.
type Unsupported struct{}

func (Unsupported) Start(ctx context.Context) (<-chan Update, error) {
	return nil, ErrUnsupported
}

func (Unsupported) Stop() {}
