// Package ingest builds a small embedding index over local markdown
// documents so assistants can be grounded on private notes.
package ingest

import "strings"

// DefaultChunkSize is the target chunk length in characters.
const DefaultChunkSize = 1000

// Chunker splits documents into roughly fixed-size chunks along a
// separator, never splitting inside a separator-delimited segment unless
// the segment alone exceeds the chunk size.
type Chunker struct {
	size      int
	separator string
}

// NewChunker creates a Chunker. A non-positive size falls back to
// DefaultChunkSize; an empty separator falls back to newline.
func NewChunker(size int, separator string) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if separator == "" {
		separator = "\n"
	}
	return &Chunker{size: size, separator: separator}
}

// Split chunks the text. Empty segments are dropped and chunks are
// trimmed of surrounding whitespace.
func (c *Chunker) Split(text string) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		chunk := strings.TrimSpace(current.String())
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
	}

	for _, segment := range strings.Split(text, c.separator) {
		if segment == "" {
			continue
		}

		// Oversized segment: hard-split on its own.
		if len(segment) > c.size {
			flush()
			for len(segment) > c.size {
				chunks = append(chunks, strings.TrimSpace(segment[:c.size]))
				segment = segment[c.size:]
			}
			if strings.TrimSpace(segment) != "" {
				current.WriteString(segment)
			}
			continue
		}

		if current.Len() > 0 && current.Len()+len(c.separator)+len(segment) > c.size {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(c.separator)
		}
		current.WriteString(segment)
	}
	flush()

	return chunks
}
