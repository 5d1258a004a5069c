package inference

import (
	"fmt"
	"strings"
)

const SystemPrompt = "You are a helpful assistant that explains terms through astrology, music, and mathematics."

// UserPrompt builds the request for a single term.
// The text mode variant spells out the section headers that ParseSections relies on.
func UserPrompt(term string, mode OutputMode) string {
	prompt := fmt.Sprintf(`Provide a detailed description for the term '%s' in the context of astrology, music, and mathematics.
For astrology, include the definition, key points, and an example.
For music, include an analogy, key points, and an example.
For mathematics, include the concept, key points, and an example.`, term)

	if mode != OutputModeText {
		return prompt + `
Return the answer as a JSON object with the keys "astrology", "music" and "mathematics".
Key points must be short phrases without commas.`
	}

	return prompt + `

Use exactly this layout and these headers, with the key points separated by commas:
For astrology: <definition>
Key Points: <point>, <point>, <point>
Example: <example>
For music: <analogy>
Key Points: <point>, <point>, <point>
Example: <example>
For mathematics: <concept>
Key Points: <point>, <point>, <point>
Example: <example>`
}

// DescriptionsSchema returns the JSON schema of Descriptions.
// Every object is closed and every property is required so that it can be used in strict mode.
func DescriptionsSchema() map[string]any {
	section := func(lead string) map[string]any {
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				lead: map[string]any{"type": "string"},
				"key_points": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"example": map[string]any{"type": "string"},
			},
			"required":             []string{lead, "key_points", "example"},
			"additionalProperties": false,
		}
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"astrology":   section("definition"),
			"music":       section("analogy"),
			"mathematics": section("concept"),
		},
		"required":             []string{"astrology", "music", "mathematics"},
		"additionalProperties": false,
	}
}

// SectionLeads maps each domain to the name of its leading field
var SectionLeads = map[string]string{
	"astrology":   "definition",
	"music":       "analogy",
	"mathematics": "concept",
}

// StripCodeFences removes markdown code fence lines that models like to wrap JSON in
func StripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
