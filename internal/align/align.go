// Package align merges word-level transcription timestamps with
// speaker-labeled diarization intervals into one speaker-attributed timeline.
package align

import (
	"errors"
	"math"
	"strings"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/diarizer"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/transcriber"
)

// ErrNoSpeakerSegments indicates there is no diarization data to attribute
// words to. Alignment cannot proceed without it.
var ErrNoSpeakerSegments = errors.New("no speaker segments to align against")

// Record is a contiguous run of words attributed to one speaker.
// Records are ordered by start time and every input word appears in exactly
// one record.
type Record struct {
	Speaker string
	Text    string
	Start   float64
	End     float64
}

// Align assigns every word to a speaker and merges consecutive same-speaker
// words into records. Words must be ordered by start time; segments must be
// ordered by start time.
//
// A word belongs to the segment with the largest temporal overlap against its
// [start, end) span. Ties go to the earliest-starting segment. A word that
// overlaps no segment at all is attributed to the nearest segment by midpoint
// distance; no word is ever dropped.
func Align(words []transcriber.Word, segments []diarizer.Segment) ([]Record, error) {
	if len(words) == 0 {
		return nil, nil
	}
	if len(segments) == 0 {
		return nil, ErrNoSpeakerSegments
	}

	var records []Record
	for _, w := range words {
		speaker := attribute(w, segments)

		if n := len(records); n > 0 && records[n-1].Speaker == speaker {
			records[n-1].Text += " " + w.Text
			records[n-1].End = w.End
			continue
		}

		records = append(records, Record{
			Speaker: speaker,
			Text:    w.Text,
			Start:   w.Start,
			End:     w.End,
		})
	}

	return records, nil
}

// attribute picks the owning speaker for a single word. Segments are scanned
// in order, so a strict comparison resolves ties to the earliest segment.
func attribute(w transcriber.Word, segments []diarizer.Segment) string {
	bestOverlap := 0.0
	bestIdx := -1

	for i, s := range segments {
		ov := overlap(w, s)
		if ov > bestOverlap {
			bestOverlap = ov
			bestIdx = i
		}
	}

	if bestIdx >= 0 {
		return segments[bestIdx].Speaker
	}

	// No segment overlaps the word: nearest-wins by midpoint distance.
	wordMid := (w.Start + w.End) / 2
	bestDist := math.Inf(1)
	for i, s := range segments {
		dist := math.Abs(wordMid - (s.Start+s.End)/2)
		if dist < bestDist {
			bestDist = dist
			bestIdx = i
		}
	}
	return segments[bestIdx].Speaker
}

func overlap(w transcriber.Word, s diarizer.Segment) float64 {
	start := math.Max(w.Start, s.Start)
	end := math.Min(w.End, s.End)
	if end <= start {
		return 0
	}
	return end - start
}

// Words reports the total word count across records. Useful for coverage
// checks against the input transcription.
func (r Record) Words() int {
	return len(strings.Fields(r.Text))
}
