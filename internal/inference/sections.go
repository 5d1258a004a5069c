package inference

import (
	"fmt"
	"sort"
	"strings"
)

const (
	HeaderAstrology   = "For astrology:"
	HeaderMusic       = "For music:"
	HeaderMathematics = "For mathematics:"

	labelKeyPoints = "Key Points:"
	labelExample   = "Example:"
)

var emphasisReplacer = strings.NewReplacer("**", "", "__", "")

type section struct {
	header string
	start  int
	body   string
}

type sectionParts struct {
	lead      string
	keyPoints []string
	example   string
}

// ParseSections parses a free-text reply laid out as
//
//	For astrology: <definition> Key Points: a, b Example: <example>
//	For music: <analogy> Key Points: a, b Example: <example>
//	For mathematics: <concept> Key Points: a, b Example: <example>
//
// Headers are matched case-insensitively and each section ends where the next header starts.
func ParseSections(content string) (Descriptions, error) {
	content = emphasisReplacer.Replace(content)

	var sections []section
	var missing []string
	for _, header := range []string{HeaderAstrology, HeaderMusic, HeaderMathematics} {
		index := indexFold(content, header, 0)
		if index < 0 {
			missing = append(missing, header)
			continue
		}
		sections = append(sections, section{header: header, start: index})
	}
	if len(missing) > 0 {
		return Descriptions{}, fmt.Errorf("%w: %s", ErrMissingHeader, strings.Join(missing, ", "))
	}

	sort.Slice(sections, func(i, j int) bool {
		return sections[i].start < sections[j].start
	})
	bodies := make(map[string]string, len(sections))
	for i, s := range sections {
		end := len(content)
		if i+1 < len(sections) {
			end = sections[i+1].start
		}
		bodies[s.header] = content[s.start+len(s.header) : end]
	}

	astrology, err := parseSection(HeaderAstrology, bodies[HeaderAstrology], "Definition:")
	if err != nil {
		return Descriptions{}, err
	}
	music, err := parseSection(HeaderMusic, bodies[HeaderMusic], "Analogy:")
	if err != nil {
		return Descriptions{}, err
	}
	mathematics, err := parseSection(HeaderMathematics, bodies[HeaderMathematics], "Concept:")
	if err != nil {
		return Descriptions{}, err
	}

	descriptions := Descriptions{
		Astrology: AstrologyDescription{
			Definition: astrology.lead,
			KeyPoints:  astrology.keyPoints,
			Example:    astrology.example,
		},
		Music: MusicDescription{
			Analogy:   music.lead,
			KeyPoints: music.keyPoints,
			Example:   music.example,
		},
		Mathematics: MathematicsDescription{
			Concept:   mathematics.lead,
			KeyPoints: mathematics.keyPoints,
			Example:   mathematics.example,
		},
	}
	if err := Validate(descriptions); err != nil {
		return Descriptions{}, err
	}
	return descriptions, nil
}

func parseSection(header, body, leadLabel string) (sectionParts, error) {
	keyPointsIndex := indexFold(body, labelKeyPoints, 0)
	if keyPointsIndex < 0 {
		return sectionParts{}, fmt.Errorf("%w: %q section has no %q", ErrMalformedResponse, header, labelKeyPoints)
	}
	exampleIndex := indexFold(body, labelExample, keyPointsIndex+len(labelKeyPoints))
	if exampleIndex < 0 {
		return sectionParts{}, fmt.Errorf("%w: %q section has no %q", ErrMalformedResponse, header, labelExample)
	}

	lead := trimItem(body[:keyPointsIndex])
	if indexFold(lead, leadLabel, 0) == 0 {
		lead = trimItem(lead[len(leadLabel):])
	}

	var keyPoints []string
	for _, point := range strings.Split(body[keyPointsIndex+len(labelKeyPoints):exampleIndex], ",") {
		if point = trimItem(point); point != "" {
			keyPoints = append(keyPoints, point)
		}
	}

	return sectionParts{
		lead:      lead,
		keyPoints: keyPoints,
		example:   trimItem(body[exampleIndex+len(labelExample):]),
	}, nil
}

func trimItem(s string) string {
	return strings.Trim(s, " \t\r\n-*•")
}

// indexFold is a case-insensitive strings.Index starting at byte offset from
func indexFold(s, substr string, from int) int {
	for i := from; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}
