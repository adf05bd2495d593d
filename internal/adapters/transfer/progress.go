package transfer

import (
	"io"
	"time"
)

// progressWriter counts written bytes and reports the running total at
// most once per interval.
type progressWriter struct {
	w        io.Writer
	interval time.Duration
	report   func(sent int64)
	now      func() time.Time

	sent int64
	last time.Time
}

func newProgressWriter(w io.Writer, interval time.Duration, report func(sent int64)) *progressWriter {
	return &progressWriter{
		w:        w,
		interval: interval,
		report:   report,
		now:      time.Now,
		last:     time.Now(),
	}
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.sent += int64(n)

	if now := p.now(); now.Sub(p.last) >= p.interval {
		p.last = now
		p.report(p.sent)
	}
	return n, err
}
