// Package knowledge holds the knowledge base of described terms.
package knowledge

import (
	"strings"

	"github.com/michaelanticoli/quantumelodic/internal/inference"
)

// Entry is one described term. Term is always the normalized key.
type Entry struct {
	Term        string                           `json:"term" yaml:"term"`
	Astrology   inference.AstrologyDescription   `json:"astrology" yaml:"astrology"`
	Music       inference.MusicDescription       `json:"music" yaml:"music"`
	Mathematics inference.MathematicsDescription `json:"mathematics" yaml:"mathematics"`
}

// NewEntry builds the entry stored for term from the generated descriptions
func NewEntry(term string, descriptions inference.Descriptions) Entry {
	return Entry{
		Term:        Key(term),
		Astrology:   descriptions.Astrology,
		Music:       descriptions.Music,
		Mathematics: descriptions.Mathematics,
	}
}

// Descriptions returns the per-domain part of the entry
func (e Entry) Descriptions() inference.Descriptions {
	return inference.Descriptions{
		Astrology:   e.Astrology,
		Music:       e.Music,
		Mathematics: e.Mathematics,
	}
}

// Key normalizes a term into the knowledge base key
func Key(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
