// Package kanjidic parses the kanjidic2 XML character dictionary.
//
// Entries are streamed one <character> element at a time so the full
// dictionary (~13k entries) never needs to be materialized. Missing
// optional fields (JLPT grade, readings of one kind) leave the record's
// zero values; only corrupt container markup is fatal.
package kanjidic

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Character is one normalized dictionary entry.
type Character struct {
	Codepoint   rune
	Literal     string
	StrokeCount int
	Grade       int
	JLPT        int // modern N level (N5=5 ... N1=1), 0 when unclassified
	Frequency   int
	RadicalName string
	OnReadings  []string
	KunReadings []string
	Nanori      []string
	Meanings    []string
}

// ParseError indicates corrupt container markup. A single entry with
// missing fields never produces one.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("kanjidic: malformed document: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// kanjidic2 carries pre-2010 JLPT levels 1-4. Map them onto the modern
// five-level scale the way learners' resources do: old 4 is N5, old 3 is
// N4, old 2 spans N2/N3 (kept as N2), old 1 is N1.
var jlptToN = map[int]int{1: 1, 2: 2, 3: 4, 4: 5}

// XML shapes of a kanjidic2 <character> element. Only the fields the
// normalized record needs are mapped; the rest of the entry is ignored.
type xmlCharacter struct {
	Literal    string       `xml:"literal"`
	Codepoints []xmlCPValue `xml:"codepoint>cp_value"`
	Misc       struct {
		Grade        string   `xml:"grade"`
		StrokeCounts []string `xml:"stroke_count"`
		Frequency    string   `xml:"freq"`
		JLPT         string   `xml:"jlpt"`
		RadicalNames []string `xml:"rad_name"`
	} `xml:"misc"`
	ReadingMeaning struct {
		Groups []struct {
			Readings []xmlReading `xml:"reading"`
			Meanings []xmlMeaning `xml:"meaning"`
		} `xml:"rmgroup"`
		Nanori []string `xml:"nanori"`
	} `xml:"reading_meaning"`
}

type xmlCPValue struct {
	Type string `xml:"cp_type,attr"`
	Text string `xml:",chardata"`
}

type xmlReading struct {
	Type string `xml:"r_type,attr"`
	Text string `xml:",chardata"`
}

type xmlMeaning struct {
	Lang string `xml:"m_lang,attr"`
	Text string `xml:",chardata"`
}

// Parse reads the whole dictionary, keeping meanings in the default target
// language English.
func Parse(r io.Reader) ([]Character, error) {
	var out []Character
	err := ParseFunc(r, "en", func(c Character) error {
		out = append(out, c)
		return nil
	})
	return out, err
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) ([]Character, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// ParseFunc streams <character> elements, calling fn for each normalized
// record. Meanings tagged for a language other than lang are discarded; an
// absent m_lang attribute implies English. An error from fn stops the
// stream and is returned as-is.
func ParseFunc(r io.Reader, lang string, fn func(Character) error) error {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ParseError{err}
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "character" {
			continue
		}

		var xc xmlCharacter
		if err := dec.DecodeElement(&xc, &se); err != nil {
			return &ParseError{err}
		}
		c, ok := xc.normalize(lang)
		if !ok {
			continue
		}
		if err := fn(c); err != nil {
			return err
		}
	}
}

func (xc xmlCharacter) normalize(lang string) (Character, bool) {
	literal := strings.TrimSpace(xc.Literal)
	if literal == "" {
		return Character{}, false
	}

	c := Character{
		Literal:   literal,
		Codepoint: codepointOf(xc.Codepoints, literal),
	}

	c.Grade, _ = strconv.Atoi(strings.TrimSpace(xc.Misc.Grade))
	c.Frequency, _ = strconv.Atoi(strings.TrimSpace(xc.Misc.Frequency))
	if len(xc.Misc.StrokeCounts) > 0 {
		// First stroke count is the accepted one, the rest are common miscounts.
		c.StrokeCount, _ = strconv.Atoi(strings.TrimSpace(xc.Misc.StrokeCounts[0]))
	}
	if old, err := strconv.Atoi(strings.TrimSpace(xc.Misc.JLPT)); err == nil {
		c.JLPT = jlptToN[old]
	}
	if len(xc.Misc.RadicalNames) > 0 {
		c.RadicalName = strings.TrimSpace(xc.Misc.RadicalNames[0])
	}

	for _, g := range xc.ReadingMeaning.Groups {
		for _, rd := range g.Readings {
			text := strings.TrimSpace(rd.Text)
			if text == "" {
				continue
			}
			switch rd.Type {
			case "ja_on":
				c.OnReadings = append(c.OnReadings, text)
			case "ja_kun":
				c.KunReadings = append(c.KunReadings, text)
			}
		}
		for _, m := range g.Meanings {
			text := strings.TrimSpace(m.Text)
			if text == "" {
				continue
			}
			mlang := m.Lang
			if mlang == "" {
				mlang = "en"
			}
			if mlang == lang {
				c.Meanings = append(c.Meanings, text)
			}
		}
	}
	for _, n := range xc.ReadingMeaning.Nanori {
		if text := strings.TrimSpace(n); text != "" {
			c.Nanori = append(c.Nanori, text)
		}
	}

	return c, true
}

// codepointOf prefers the ucs cp_value; entries without one take the code
// point of the literal's first rune.
func codepointOf(values []xmlCPValue, literal string) rune {
	for _, v := range values {
		if v.Type != "ucs" {
			continue
		}
		if cp, err := strconv.ParseUint(strings.TrimSpace(v.Text), 16, 32); err == nil {
			return rune(cp)
		}
	}
	r, _ := utf8.DecodeRuneInString(literal)
	return r
}
