package rag

import (
	"fmt"
	"strings"

	"github.com/elvispulaj/insight-forge/internal/domain/commonModels"
)

// NoContextSentinel is returned whenever retrieval produces nothing usable,
// so downstream prompts always receive a well-formed context string.
const NoContextSentinel = "No relevant context found in the knowledge base."

// AssembleContext renders retrieval matches into the delimited block format
// the prompts expect, plus a deduplicated list of source names.
func AssembleContext(results []commonModels.RetrievalResult) (string, []string) {
	if len(results) == 0 {
		return NoContextSentinel, nil
	}

	blocks := make([]string, 0, len(results))
	sources := make([]string, 0, len(results))
	seen := make(map[string]bool)

	for i, r := range results {
		blocks = append(blocks, fmt.Sprintf("--- Context %d (Source: %s) ---\n%s", i+1, r.Source, r.Content))
		if !seen[r.Source] {
			seen[r.Source] = true
			sources = append(sources, r.Source)
		}
	}

	return strings.Join(blocks, "\n\n"), sources
}
