// Package transcript renders aligned records for display and for
// summarization input. All functions are pure.
package transcript

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/align"
)

// Lines formats one display line per record: "[speaker] (start–end): text".
func Lines(records []align.Record) []string {
	return lo.Map(records, func(r align.Record, _ int) string {
		return fmt.Sprintf("[%s] (%s–%s): %s", r.Speaker, formatSeconds(r.Start), formatSeconds(r.End), r.Text)
	})
}

// FlatText concatenates record texts in order, separated by single spaces,
// with no speaker metadata. This is the exact input surface for
// summarization.
func FlatText(records []align.Record) string {
	texts := lo.Map(records, func(r align.Record, _ int) string {
		return r.Text
	})
	return strings.Join(texts, " ")
}

// Markdown renders the full speaker-labeled transcript as a markdown
// document, one paragraph per record.
func Markdown(title string, records []align.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, line := range Lines(records) {
		b.WriteString(line)
		b.WriteString("\n\n")
	}
	return b.String()
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.2fs", s)
}
