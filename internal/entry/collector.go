// Package entry collects timed password entries key by key.
package entry

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/verte-zerg/pwtrain/internal/model"
	"github.com/verte-zerg/pwtrain/internal/terminal"
)

// Keys that end an entry.
const (
	KeyInterrupt = 3
	KeyNewline   = 10
	KeyEnter     = 13
)

// Collector reads one entry at a time and stamps every keystroke.
type Collector struct {
	keys terminal.CharReader
	out  io.Writer
	echo string
	now  func() time.Time
}

// NewCollector builds a collector. An empty echo string disables echo; a nil
// clock defaults to time.Now.
func NewCollector(keys terminal.CharReader, out io.Writer, echo string, now func() time.Time) *Collector {
	if now == nil {
		now = time.Now
	}
	if out == nil {
		out = io.Discard
	}
	return &Collector{keys: keys, out: out, echo: echo, now: now}
}

// Collect reads keys until Enter or the interrupt key. The interrupt key ends
// the entry immediately and marks it cancelled.
func (c *Collector) Collect() (model.Attempt, error) {
	var text strings.Builder
	stamps := make([]time.Time, 0, 32)
	cancelled := false
	for {
		ch, err := c.keys.ReadRune()
		if err != nil {
			return model.Attempt{}, fmt.Errorf("failed to read key: %w", err)
		}
		stamps = append(stamps, c.now())
		if ch == KeyInterrupt {
			cancelled = true
			break
		}
		if ch == KeyEnter || ch == KeyNewline {
			break
		}
		text.WriteRune(ch)
		if c.echo != "" {
			c.write(c.echo)
		}
	}
	c.write("\n")
	return model.Attempt{
		Text:      text.String(),
		Deltas:    Deltas(stamps),
		Cancelled: cancelled,
	}, nil
}

func (c *Collector) write(s string) {
	if _, err := io.WriteString(c.out, s); err != nil {
		// Best-effort echo.
		_ = err
	}
}

// Deltas converts keystroke timestamps into the seconds elapsed between
// consecutive keys. Fewer than two stamps yield an empty slice.
func Deltas(stamps []time.Time) []float64 {
	if len(stamps) < 2 {
		return []float64{}
	}
	out := make([]float64, len(stamps)-1)
	for i := 1; i < len(stamps); i++ {
		out[i-1] = stamps[i].Sub(stamps[i-1]).Seconds()
	}
	return out
}
