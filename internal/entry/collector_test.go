package entry

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
	"time"
)

type scriptedKeys struct {
	keys []rune
	err  error
}

func (s *scriptedKeys) ReadRune() (rune, error) {
	if len(s.keys) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		return 0, io.EOF
	}
	ch := s.keys[0]
	s.keys = s.keys[1:]
	return ch, nil
}

// stepClock advances by the given offsets on every call.
func stepClock(steps ...time.Duration) func() time.Time {
	now := time.Unix(1000, 0)
	i := 0
	return func() time.Time {
		if i < len(steps) {
			now = now.Add(steps[i])
			i++
		}
		return now
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCollectMeasuresBetweenKeys(t *testing.T) {
	keys := &scriptedKeys{keys: []rune("ab1\r")}
	clock := stepClock(0, 200*time.Millisecond, 300*time.Millisecond, 100*time.Millisecond)
	var out bytes.Buffer
	c := NewCollector(keys, &out, "", clock)

	attempt, err := c.Collect()
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if attempt.Text != "ab1" {
		t.Fatalf("expected text ab1, got %q", attempt.Text)
	}
	if attempt.Cancelled {
		t.Fatalf("expected attempt not cancelled")
	}
	want := []float64{0.2, 0.3, 0.1}
	if len(attempt.Deltas) != len(want) {
		t.Fatalf("expected %d deltas, got %d", len(want), len(attempt.Deltas))
	}
	for i := range want {
		if !approx(attempt.Deltas[i], want[i]) {
			t.Fatalf("delta %d: expected %.3f, got %.3f", i, want[i], attempt.Deltas[i])
		}
	}
	if attempt.Keystrokes() != len(attempt.Deltas)+1 {
		t.Fatalf("expected keystrokes = deltas+1, got %d and %d", attempt.Keystrokes(), len(attempt.Deltas))
	}
	if out.String() != "\n" {
		t.Fatalf("expected only a newline without echo, got %q", out.String())
	}
}

func TestCollectEchoesGlyph(t *testing.T) {
	keys := &scriptedKeys{keys: []rune("pw\r")}
	var out bytes.Buffer
	c := NewCollector(keys, &out, "*", nil)

	if _, err := c.Collect(); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if out.String() != "**\n" {
		t.Fatalf("unexpected echo: %q", out.String())
	}
}

func TestCollectEnterOnlyHasNoDeltas(t *testing.T) {
	keys := &scriptedKeys{keys: []rune("\r")}
	c := NewCollector(keys, nil, "", nil)

	attempt, err := c.Collect()
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if attempt.Text != "" {
		t.Fatalf("expected empty text, got %q", attempt.Text)
	}
	if len(attempt.Deltas) != 0 {
		t.Fatalf("expected no deltas, got %v", attempt.Deltas)
	}
}

func TestCollectAcceptsNewlineTerminator(t *testing.T) {
	keys := &scriptedKeys{keys: []rune("ab\nc")}
	c := NewCollector(keys, nil, "", nil)

	attempt, err := c.Collect()
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if attempt.Text != "ab" {
		t.Fatalf("expected text ab, got %q", attempt.Text)
	}
}

func TestCollectCancel(t *testing.T) {
	keys := &scriptedKeys{keys: []rune{'a', KeyInterrupt, 'b', KeyEnter}}
	var out bytes.Buffer
	c := NewCollector(keys, &out, "*", stepClock(0, time.Second))

	attempt, err := c.Collect()
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if !attempt.Cancelled {
		t.Fatalf("expected cancelled attempt")
	}
	if len(keys.keys) != 2 {
		t.Fatalf("expected collector to stop at cancel, %d keys left", len(keys.keys))
	}
	if len(attempt.Deltas) != 1 || !approx(attempt.Deltas[0], 1) {
		t.Fatalf("unexpected deltas: %v", attempt.Deltas)
	}
	if out.String() != "*\n" {
		t.Fatalf("unexpected echo: %q", out.String())
	}
}

func TestCollectPropagatesEOF(t *testing.T) {
	keys := &scriptedKeys{keys: []rune("ab")}
	c := NewCollector(keys, nil, "", nil)

	_, err := c.Collect()
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestDeltas(t *testing.T) {
	base := time.Unix(0, 0)
	if got := Deltas(nil); len(got) != 0 {
		t.Fatalf("expected no deltas for nil, got %v", got)
	}
	if got := Deltas([]time.Time{base}); len(got) != 0 {
		t.Fatalf("expected no deltas for one stamp, got %v", got)
	}
	got := Deltas([]time.Time{base, base.Add(500 * time.Millisecond), base.Add(2 * time.Second)})
	if len(got) != 2 || !approx(got[0], 0.5) || !approx(got[1], 1.5) {
		t.Fatalf("unexpected deltas: %v", got)
	}
}
