package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner shows an animated progress indicator while a long operation
// runs. It only animates on interactive text-mode terminals; everywhere
// else Start is a no-op and only the final status line is printed.
type Spinner struct {
	out     io.Writer
	term    *termenv.Output
	styles  *Styles
	msg     string
	enabled bool

	mu     sync.Mutex
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewSpinner creates a spinner bound to the renderer's output.
func (r *Renderer) NewSpinner(msg string) *Spinner {
	return &Spinner{
		out:     r.out,
		term:    termenv.NewOutput(r.out),
		styles:  r.styles,
		msg:     msg,
		enabled: r.isTTY && r.EffectiveMode() == ModeText,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}

	s.ticker = time.NewTicker(spinnerInterval)
	s.done = make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		frame := 0
		for {
			select {
			case <-s.done:
				return
			case <-s.ticker.C:
				fmt.Fprintf(s.out, "\r%s %s", spinnerFrames[frame%len(spinnerFrames)], s.msg)
				frame++
			}
		}
	}()
}

// Stop halts the animation and clears the spinner line.
func (s *Spinner) Stop() {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return
	}

	s.ticker.Stop()
	close(s.done)
	s.wg.Wait()
	s.done = nil

	fmt.Fprint(s.out, "\r")
	s.term.ClearLine()
}

// Success stops the spinner and prints a check-marked line.
func (s *Spinner) Success(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, s.styles.StatusSuccess.String()+" "+msg)
}

// Fail stops the spinner and prints a cross-marked line.
func (s *Spinner) Fail(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, s.styles.StatusFailed.String()+" "+msg)
}
