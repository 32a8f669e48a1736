// Package progress draws terminal progress bars for long file passes.
package progress

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Bar is a single progress bar.
type Bar interface {
	Increment()
	Done()
}

// Reporter creates bars. A disabled Reporter hands out no-op bars.
type Reporter struct {
	output  io.Writer
	enabled bool
	width   int

	mu     sync.Mutex
	active *mpb.Progress
}

// New returns a Reporter drawing to stderr when it is a terminal and enabled is true.
func New(enabled bool) *Reporter {
	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return NewWriter(os.Stderr, enabled && tty)
}

// NewWriter returns a Reporter drawing to w.
func NewWriter(w io.Writer, enabled bool) *Reporter {
	return &Reporter{output: w, enabled: enabled, width: 64}
}

// Enabled reports whether bars are drawn.
func (r *Reporter) Enabled() bool {
	return r != nil && r.enabled
}

// Start begins a bar labelled description counting to total.
func (r *Reporter) Start(description string, total int) Bar {
	if !r.Enabled() || total <= 0 {
		return noop{}
	}

	p := mpb.New(mpb.WithOutput(r.output), mpb.WithWidth(r.width), mpb.WithAutoRefresh())
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(description+" "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.Name(" "),
			decor.EwmaETA(decor.ET_STYLE_GO, 60),
		),
	)

	r.mu.Lock()
	r.active = p
	r.mu.Unlock()
	return &mpbBar{reporter: r, progress: p, bar: bar}
}

func (r *Reporter) release(p *mpb.Progress) {
	r.mu.Lock()
	if r.active == p {
		r.active = nil
	}
	r.mu.Unlock()
}

// LogWriter returns a writer that prints above the running bar, or to
// fallback when no bar is drawing.
func (r *Reporter) LogWriter(fallback io.Writer) io.Writer {
	if !r.Enabled() {
		return fallback
	}
	return &logWriter{reporter: r, fallback: fallback}
}

type logWriter struct {
	reporter *Reporter
	fallback io.Writer
}

func (w *logWriter) Write(b []byte) (int, error) {
	w.reporter.mu.Lock()
	defer w.reporter.mu.Unlock()

	if p := w.reporter.active; p != nil {
		if n, err := p.Write(b); err == nil {
			return n, nil
		}
	}
	return w.fallback.Write(b)
}

type mpbBar struct {
	reporter *Reporter
	progress *mpb.Progress
	bar      *mpb.Bar
}

func (b *mpbBar) Increment() {
	b.bar.Increment()
}

// Done completes the bar even if fewer increments arrived than announced,
// then waits for the final render.
func (b *mpbBar) Done() {
	if !b.bar.Completed() {
		b.bar.SetTotal(-1, true)
	}
	b.progress.Wait()
	b.reporter.release(b.progress)
}

type noop struct{}

func (noop) Increment() {}
func (noop) Done()      {}
