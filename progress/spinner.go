package progress

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

var spinnerParts = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type Spinner struct {
	mu sync.Mutex

	message      string
	messageWidth int

	parts []string
	value int

	started time.Time
	stopped time.Time
	done    chan struct{}
}

func NewSpinner(message string) *Spinner {
	s := &Spinner{
		message: message,
		parts:   spinnerParts,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	go s.start()
	return s
}

func (s *Spinner) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	if len(s.message) > 0 {
		message := strings.TrimSpace(s.message)
		if s.messageWidth > 0 && len(message) > s.messageWidth {
			message = message[:s.messageWidth]
		}

		fmt.Fprintf(&sb, "%s", message)
		if padding := s.messageWidth - sb.Len(); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" ")
	}

	if s.stopped.IsZero() {
		sb.WriteString(s.parts[s.value])
		sb.WriteString(" ")
	}

	return sb.String()
}

func (s *Spinner) start() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.value = (s.value + 1) % len(s.parts)
			s.mu.Unlock()
		}
	}
}

// Stop freezes the spinner and ends its animation goroutine. Only the
// first call has an effect.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped.IsZero() {
		s.stopped = time.Now()
		close(s.done)
	}
}

func (s *Spinner) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped.IsZero()
}
