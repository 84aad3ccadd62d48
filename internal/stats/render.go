package stats

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/verte-zerg/pwtrain/internal/model"
)

// rhythmResolution is the smallest spread of means worth drawing.
const rhythmResolution = 0.001

var rhythmGlyphs = []rune("▁▂▃▄▅▆▇█")

// RenderTimings prints per-position timing statistics in the requested format.
func RenderTimings(w io.Writer, rows []model.PositionStat, format model.SummaryFormat) error {
	if format == model.FormatTable {
		return renderTimingTable(w, rows)
	}
	return renderTimingLines(w, rows)
}

func renderTimingLines(w io.Writer, rows []model.PositionStat) error {
	if _, err := fmt.Fprintln(w, "Showing statistics per entered password character:"); err != nil {
		return err
	}
	for i, r := range rows {
		if _, err := fmt.Fprintf(w, "Correct #%d: mean %.3fs, min: %.3fs, max: %.3fs, std: %.3fs\n",
			i+1, r.Mean, r.Min, r.Max, r.Std); err != nil {
			return err
		}
	}
	return nil
}

func renderTimingTable(w io.Writer, rows []model.PositionStat) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No correct attempts recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Timing per keystroke position"); err != nil {
		return err
	}
	headers := []string{"#", "Mean (s)", "Min (s)", "Max (s)", "Std (s)"}
	tableRows := make([][]string, 0, len(rows))
	means := make([]float64, 0, len(rows))
	for i, r := range rows {
		tableRows = append(tableRows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.3f", r.Mean),
			fmt.Sprintf("%.3f", r.Min),
			fmt.Sprintf("%.3f", r.Max),
			fmt.Sprintf("%.3f", r.Std),
		})
		means = append(means, r.Mean)
	}
	for _, line := range formatTable(headers, tableRows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Rhythm: [%s]\n", Rhythm(means)); err != nil {
		return err
	}
	return nil
}

// Rhythm draws one block glyph per keystroke position, taller for slower
// positions. Positions within a millisecond of each other share a height.
func Rhythm(means []float64) string {
	if len(means) == 0 {
		return ""
	}
	lo, hi := slices.Min(means), slices.Max(means)
	spread := hi - lo
	var b strings.Builder
	for _, m := range means {
		level := len(rhythmGlyphs) / 2
		if spread >= rhythmResolution {
			level = int((m - lo) / spread * float64(len(rhythmGlyphs)-1))
		}
		b.WriteRune(rhythmGlyphs[level])
	}
	return b.String()
}
