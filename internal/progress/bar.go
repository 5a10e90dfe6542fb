// Package progress renders a terminal progress bar for the sieve loop. It is
// a visual side channel only; dropping it never changes computed results.
package progress

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	barWidth = 40
	// redrawInterval throttles terminal writes; the sieve reports every
	// single number.
	redrawInterval = 125 * time.Millisecond
)

// Bar is a single-line progress bar rewritten in place with \r.
// It is not safe for concurrent use; the sieve loop is the only writer.
type Bar struct {
	w        io.Writer
	total    uint64
	done     uint64
	start    time.Time
	lastDraw time.Time
}

// New creates a bar for total units of work, writing to w.
func New(w io.Writer, total uint64) *Bar {
	return &Bar{
		w:     w,
		total: total,
		start: time.Now(),
	}
}

// Set updates the completed count and redraws if enough time has passed
// since the last draw. Completion always draws.
func (b *Bar) Set(done uint64) {
	b.done = done
	now := time.Now()
	if done < b.total && now.Sub(b.lastDraw) < redrawInterval {
		return
	}
	b.lastDraw = now
	b.draw()
}

// Finish draws the completed bar and terminates the line.
func (b *Bar) Finish() {
	b.done = b.total
	b.draw()
	fmt.Fprintln(b.w)
}

func (b *Bar) draw() {
	elapsed := time.Since(b.start)

	var frac float64
	if b.total > 0 {
		frac = float64(b.done) / float64(b.total)
	}

	filled := int(frac * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	var bar string
	if filled >= barWidth {
		bar = strings.Repeat("#", barWidth)
	} else {
		bar = strings.Repeat("#", filled) + ">" + strings.Repeat("-", barWidth-filled-1)
	}

	eta := "?"
	if frac > 0 {
		remaining := time.Duration(float64(elapsed)/frac) - elapsed
		eta = fmt.Sprintf("%.1fs", remaining.Seconds())
	}

	fmt.Fprintf(b.w, "\r[%s] [%s] %d/%d (%s)", formatClock(elapsed), bar, b.done, b.total, eta)
}

// formatClock formats a duration as HH:MM:SS.
func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
