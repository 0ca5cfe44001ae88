package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// ProgressReporter reports row progress for an export. It satisfies
// export.Progress.
type ProgressReporter interface {
	Start(total int64)
	Update(current int64)
	Finish()
	Error(err error)
}

// defaultRenderInterval bounds how often the progress line is redrawn.
const defaultRenderInterval = 100 * time.Millisecond

// SimpleProgress implements a single-line text progress reporter. When the
// total is unknown it shows the row count and rate only.
type SimpleProgress struct {
	mu       sync.Mutex
	total    int64
	current  int64
	started  time.Time
	rendered time.Time
	interval time.Duration
	writer   io.Writer
	now      func() time.Time
}

// NewProgressReporter creates a new progress reporter that writes to w.
// If w is nil, it defaults to os.Stderr.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{
		writer:   w,
		interval: defaultRenderInterval,
		now:      time.Now,
	}
}

// Start initializes the progress reporter with the total number of rows.
// A total of zero means unknown.
func (p *SimpleProgress) Start(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.current = 0
	p.started = p.now()
	p.rendered = time.Time{}

	p.render()
}

// Update updates the current progress. Redraws are throttled.
func (p *SimpleProgress) Update(current int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	if p.now().Sub(p.rendered) < p.interval {
		return
	}
	p.render()
}

// Finish marks the progress as complete.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total > 0 {
		p.current = p.total
	}
	p.render()
	fmt.Fprintln(p.writer)
}

// Error reports an error during progress.
func (p *SimpleProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "\n✗ Error: %v\n", err)
}

func (p *SimpleProgress) render() {
	now := p.now()
	p.rendered = now

	rate := 0.0
	if elapsed := now.Sub(p.started).Seconds(); elapsed > 0 {
		rate = float64(p.current) / elapsed
	}

	if p.total <= 0 {
		fmt.Fprintf(p.writer, "\rRows: %s %s rows/s",
			humanize.Comma(p.current), humanize.CommafWithDigits(rate, 1))
		return
	}

	percent := float64(p.current) / float64(p.total) * 100
	if percent > 100 {
		percent = 100
	}
	barWidth := 40
	filled := int(float64(barWidth) * percent / 100)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Fprintf(p.writer, "\rRows: [%s] %.1f%% (%s/%s) %s rows/s",
		bar, percent, humanize.Comma(p.current), humanize.Comma(p.total),
		humanize.CommafWithDigits(rate, 1))
}

// NoopProgress discards all progress updates.
type NoopProgress struct{}

func (NoopProgress) Start(int64)  {}
func (NoopProgress) Update(int64) {}
func (NoopProgress) Finish()      {}
func (NoopProgress) Error(error)  {}
