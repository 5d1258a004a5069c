package collector

import "strings"

const (
	DefaultBatchSize = 20
	MinBatchSize     = 1
	MaxBatchSize     = 50
)

// ParseTerms splits comma-separated input into trimmed, non-empty terms
func ParseTerms(input string) []string {
	var terms []string
	for _, term := range strings.Split(input, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// Batches splits terms into consecutive slices of at most size terms
func Batches(terms []string, size int) [][]string {
	if size < MinBatchSize {
		size = MinBatchSize
	}
	var batches [][]string
	for start := 0; start < len(terms); start += size {
		end := min(start+size, len(terms))
		batches = append(batches, terms[start:end])
	}
	return batches
}
