package db

import "fmt"

// JLPT is a Japanese Language Proficiency Test level in the modern N-scale.
// 5 is N5 (most elementary), 1 is N1 (most advanced). The zero value means
// the character is not classified for any level.
type JLPT int

func (l JLPT) String() string {
	if l == 0 {
		return "-"
	}
	return fmt.Sprintf("N%d", int(l))
}

// Character is the canonical lexical record for a single code point, either
// a full kanji or a radical component. Reading and meaning slices preserve
// source order; the first element is conventionally the most common.
type Character struct {
	Codepoint   rune
	Literal     string
	StrokeCount int
	Grade       int
	JLPT        JLPT
	Frequency   int
	RadicalName string
	OnReadings  []string
	KunReadings []string
	Nanori      []string
	Meanings    []string
}

// Composition is an edge between a kanji and one of its radical
// constituents. Position is the zero-based order of the radical within the
// kanji's decomposition.
type Composition struct {
	Kanji    rune
	Radical  rune
	Position int
}

// Glyph is a stroke-order vector image for a single character. SVG holds
// the raw markup text. Variant names the stroke-order variant the source
// file was tagged with, empty for the default diagram.
type Glyph struct {
	Codepoint rune
	Variant   string
	SVG       string
}

// Stats summarizes the record collections of a built database.
type Stats struct {
	Characters   int
	Compositions int
	Glyphs       int
	ByJLPT       map[JLPT]int
}
