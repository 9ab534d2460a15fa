package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// profiler appends per-section frame timings as CSV. A nil profiler is a no-op.
type profiler struct {
	out   io.WriteCloser
	start time.Time
	last  time.Time
	now   func() time.Time
}

func newProfiler(path string, logger *log.Logger) *profiler {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		if logger != nil {
			logger.Printf("profiler disabled: %v", err)
		}
		return nil
	}
	return newProfilerWriter(f)
}

func newProfilerWriter(w io.WriteCloser) *profiler {
	p := &profiler{out: w, now: time.Now}
	fmt.Fprintln(p.out, "timestamp,section,delta_ms")
	return p
}

func (p *profiler) beginFrame() {
	if p == nil {
		return
	}
	now := p.now()
	p.start = now
	p.last = now
}

func (p *profiler) markSection(name string) {
	if p == nil {
		return
	}
	now := p.now()
	delta := now.Sub(p.last).Seconds() * 1000
	p.last = now
	p.write(now, name, delta)
}

func (p *profiler) endFrame() {
	if p == nil {
		return
	}
	now := p.now()
	p.write(now, "frame_total", now.Sub(p.start).Seconds()*1000)
}

func (p *profiler) Close() error {
	if p == nil {
		return nil
	}
	return p.out.Close()
}

func (p *profiler) write(ts time.Time, section string, deltaMs float64) {
	fmt.Fprintf(p.out, "%s,%s,%.3f\n", ts.Format(time.RFC3339Nano), section, deltaMs)
}
