package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTerms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single term", input: "saturn", want: []string{"saturn"}},
		{name: "trims items", input: " Saturn , octave,golden ratio ", want: []string{"Saturn", "octave", "golden ratio"}},
		{name: "drops empty items", input: "saturn,, ,octave,", want: []string{"saturn", "octave"}},
		{name: "empty input", input: "   ", want: nil},
		{name: "newlines inside the text area", input: "saturn,\noctave", want: []string{"saturn", "octave"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseTerms(tc.input))
		})
	}
}

func TestBatches(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		size  int
		want  [][]string
	}{
		{
			name:  "even split",
			terms: []string{"a", "b", "c", "d"},
			size:  2,
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "last batch is shorter",
			terms: []string{"a", "b", "c"},
			size:  2,
			want:  [][]string{{"a", "b"}, {"c"}},
		},
		{
			name:  "size larger than terms",
			terms: []string{"a", "b"},
			size:  20,
			want:  [][]string{{"a", "b"}},
		},
		{
			name:  "non-positive size falls back to one",
			terms: []string{"a", "b"},
			size:  0,
			want:  [][]string{{"a"}, {"b"}},
		},
		{
			name:  "no terms",
			terms: nil,
			size:  20,
			want:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Batches(tc.terms, tc.size))
		})
	}
}

func TestBatches_EmptyItemsDoNotCount(t *testing.T) {
	batches := Batches(ParseTerms("a,,b"), 1)
	assert.Equal(t, [][]string{{"a"}, {"b"}}, batches)
}
