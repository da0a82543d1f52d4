package progress

import (
	"io"
	"sync"
)

// Indicator is a restartable busy spinner. Each Start draws a fresh
// spinner on w and the matching Stop erases it.
type Indicator struct {
	w       io.Writer
	message string

	mu sync.Mutex
	p  *Progress
}

func NewIndicator(w io.Writer, message string) *Indicator {
	return &Indicator{w: w, message: message}
}

func (i *Indicator) Start() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.p != nil {
		return
	}

	i.p = NewProgress(i.w)
	i.p.Add("", NewSpinner(i.message))
}

// Stop is a no-op when no spinner is running.
func (i *Indicator) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.p == nil {
		return
	}

	i.p.StopAndClear()
	i.p = nil
}
