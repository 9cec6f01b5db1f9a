package scanning

import (
	"context"
	"fmt"
	"sync"
)

// Lazy is a process-scoped Scanner handle. Loading an OCR model is expensive, so the
// real scanner is only constructed on first use and then shared by every caller.
// A failed construction is retried on the next call.
type Lazy struct {
	newScanner func(ctx context.Context) (Scanner, error)

	mu      sync.Mutex
	scanner Scanner
	closed  bool
}

// NewLazy returns a handle that builds its scanner with newScanner on first use
func NewLazy(newScanner func(ctx context.Context) (Scanner, error)) *Lazy {
	return &Lazy{newScanner: newScanner}
}

func (l *Lazy) get(ctx context.Context) (Scanner, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, fmt.Errorf("scanner is closed")
	}
	if l.scanner == nil {
		s, err := l.newScanner(ctx)
		if err != nil {
			return nil, fmt.Errorf("initializing scanner: %w", err)
		}
		l.scanner = s
	}
	return l.scanner, nil
}

// ReadText initializes the scanner if needed and delegates to it
func (l *Lazy) ReadText(ctx context.Context, imageData []byte, contentType string) ([]string, error) {
	s, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.ReadText(ctx, imageData, contentType)
}

// Close closes the scanner if it was ever initialized
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.scanner == nil {
		return nil
	}
	err := l.scanner.Close()
	l.scanner = nil
	return err
}
