package ingest

import "strings"

// Separators ordered from "best" to "worst" for semantic meaning.
// The empty string means character-level fallback.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter cuts normalized text into overlapping chunks. Limit and Overlap
// are character counts, fixed per instance.
type Splitter struct {
	Limit   int
	Overlap int
}

func NewSplitter(limit int, overlap int) Splitter {
	if limit <= 0 {
		limit = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= limit {
		overlap = limit / 4
	}
	return Splitter{Limit: limit, Overlap: overlap}
}

// Split covers the whole input: concatenating the chunks minus the overlap
// spans reconstructs the text. Empty input yields no chunks.
func (s Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= s.Limit {
		return []string{text}
	}

	sep, found := pickSeparator(text)
	if !found {
		return s.splitByWindow(text)
	}

	parts := strings.Split(text, sep)
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
		}
	}

	for _, part := range parts {
		// A part that alone exceeds the limit has no occurrence of sep,
		// so the recursive call descends to the next separator.
		if len(part) > s.Limit {
			flush()
			current.Reset()
			chunks = append(chunks, s.Split(part)...)
			continue
		}

		addition := len(part)
		if current.Len() > 0 {
			addition += len(sep)
		}
		if current.Len()+addition > s.Limit {
			flush()

			// Start the next chunk with the tail of the previous one so
			// adjacent chunks share context across the boundary.
			tail := current.String()
			if len(tail) > s.Overlap {
				tail = tail[len(tail)-s.Overlap:]
			}
			current.Reset()
			if len(tail)+len(sep)+len(part) <= s.Limit {
				current.WriteString(tail)
			}
		}

		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(part)
	}
	flush()
	return chunks
}

// pickSeparator returns the highest-priority separator present in the text.
func pickSeparator(text string) (string, bool) {
	for _, sep := range separators {
		if sep == "" {
			return "", false
		}
		if strings.Contains(text, sep) {
			return sep, true
		}
	}
	return "", false
}

// splitByWindow is the character-level fallback for separator-free text:
// fixed windows of Limit characters advancing by Limit-Overlap.
func (s Splitter) splitByWindow(text string) []string {
	stride := s.Limit - s.Overlap
	var chunks []string
	for start := 0; ; start += stride {
		end := start + s.Limit
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			return chunks
		}
		chunks = append(chunks, text[start:end])
	}
}
