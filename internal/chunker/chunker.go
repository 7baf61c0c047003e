// Package chunker splits long text into bounded, overlapping chunks for
// per-chunk summarization.
package chunker

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalidOverlap indicates the configured overlap is not smaller than the
// chunk size. Rejected before any model call is attempted.
var ErrInvalidOverlap = errors.New("chunk overlap must be smaller than chunk size")

// Chunk is one bounded piece of the input text. Each chunk after the first
// starts with the trailing overlap of the previous chunk's un-overlapped
// content, so the summarizer keeps cross-chunk context.
type Chunk struct {
	Text  string
	Index int
}

// Split cuts text into chunks of at most size runes. Cuts prefer a paragraph
// break, then a sentence end, then whitespace, searched within a lookahead
// window at the tail of each chunk; a hard cut is the last resort.
//
// Concatenating the un-overlapped cores of all chunks reconstructs the input
// exactly.
func Split(text string, size, overlap int) ([]Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d, size %d", ErrInvalidOverlap, overlap, size)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	var chunks []Chunk
	var prefix []rune
	pos := 0

	for pos < len(runes) {
		budget := size - len(prefix)
		remaining := len(runes) - pos

		coreLen := remaining
		if remaining > budget {
			coreLen = cut(runes[pos : pos+budget])
		}
		core := runes[pos : pos+coreLen]

		chunks = append(chunks, Chunk{
			Text:  string(prefix) + string(core),
			Index: len(chunks),
		})

		if overlap < len(core) {
			prefix = core[len(core)-overlap:]
		} else {
			prefix = core
		}
		pos += coreLen
	}

	return chunks, nil
}

// cut picks a split point in (0, len(window)], scanning a lookahead zone at
// the tail of the window for the best boundary.
func cut(window []rune) int {
	n := len(window)
	lookahead := n / 4
	if lookahead < 1 {
		lookahead = 1
	}
	zone := n - lookahead
	if zone < 0 {
		zone = 0
	}

	// Paragraph boundary: cut after the blank line.
	for i := n - 1; i >= zone && i >= 1; i-- {
		if window[i] == '\n' && window[i-1] == '\n' {
			return i + 1
		}
	}

	// Sentence boundary: terminator followed by whitespace, cut after both.
	for i := n - 2; i >= zone; i-- {
		if isSentenceEnd(window[i]) && unicode.IsSpace(window[i+1]) {
			return i + 2
		}
	}

	// Any whitespace.
	for i := n - 1; i >= zone; i-- {
		if unicode.IsSpace(window[i]) {
			return i + 1
		}
	}

	// No boundary in the lookahead window: hard character cut.
	return n
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?':
		return true
	}
	return false
}
