package kanjidic

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const waterEntry = `
<character>
	<literal>水</literal>
	<codepoint>
		<cp_value cp_type="ucs">6c34</cp_value>
		<cp_value cp_type="jis208">31-69</cp_value>
	</codepoint>
	<misc>
		<grade>1</grade>
		<stroke_count>4</stroke_count>
		<freq>223</freq>
		<jlpt>4</jlpt>
	</misc>
	<reading_meaning>
		<rmgroup>
			<reading r_type="pinyin">shui3</reading>
			<reading r_type="ja_on">スイ</reading>
			<reading r_type="ja_kun">みず</reading>
			<meaning>water</meaning>
			<meaning m_lang="fr">eau</meaning>
		</rmgroup>
		<nanori>うず</nanori>
	</reading_meaning>
</character>`

func document(entries ...string) string {
	return "<kanjidic2><header><file_version>4</file_version></header>" +
		strings.Join(entries, "") + "</kanjidic2>"
}

func TestParseWaterEntry(t *testing.T) {
	chars, err := Parse(strings.NewReader(document(waterEntry)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(chars) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(chars))
	}

	want := Character{
		Codepoint:   0x6c34,
		Literal:     "水",
		StrokeCount: 4,
		Grade:       1,
		JLPT:        5, // kanjidic old level 4 is N5
		Frequency:   223,
		OnReadings:  []string{"スイ"},
		KunReadings: []string{"みず"},
		Nanori:      []string{"うず"},
		Meanings:    []string{"water"},
	}
	if diff := cmp.Diff(want, chars[0]); diff != "" {
		t.Errorf("entry (-want +got):\n%s", diff)
	}
}

func TestParseMissingOptionalFields(t *testing.T) {
	entry := `
<character>
	<literal>龠</literal>
	<codepoint><cp_value cp_type="ucs">9fa0</cp_value></codepoint>
	<misc><stroke_count>17</stroke_count></misc>
	<reading_meaning>
		<rmgroup>
			<reading r_type="ja_on">ヤク</reading>
			<meaning>flute</meaning>
		</rmgroup>
	</reading_meaning>
</character>`

	chars, err := Parse(strings.NewReader(document(entry)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(chars) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(chars))
	}

	c := chars[0]
	if c.JLPT != 0 {
		t.Errorf("expected unclassified JLPT, got %d", c.JLPT)
	}
	if c.Grade != 0 || c.Frequency != 0 {
		t.Errorf("expected zero grade/frequency, got %d/%d", c.Grade, c.Frequency)
	}
	if len(c.KunReadings) != 0 {
		t.Errorf("expected no kun readings, got %v", c.KunReadings)
	}
	if diff := cmp.Diff([]string{"flute"}, c.Meanings); diff != "" {
		t.Errorf("meanings (-want +got):\n%s", diff)
	}
}

func TestParseMeaningOrderPreserved(t *testing.T) {
	entry := `
<character>
	<literal>生</literal>
	<codepoint><cp_value cp_type="ucs">751f</cp_value></codepoint>
	<reading_meaning>
		<rmgroup>
			<meaning>life</meaning>
			<meaning>genuine</meaning>
			<meaning m_lang="es">vida</meaning>
			<meaning>birth</meaning>
		</rmgroup>
	</reading_meaning>
</character>`

	chars, err := Parse(strings.NewReader(document(entry)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"life", "genuine", "birth"}
	if diff := cmp.Diff(want, chars[0].Meanings); diff != "" {
		t.Errorf("meanings must keep source order and drop non-English (-want +got):\n%s", diff)
	}
}

func TestParseCodepointFallback(t *testing.T) {
	entry := `
<character>
	<literal>水</literal>
	<codepoint><cp_value cp_type="jis208">31-69</cp_value></codepoint>
</character>`

	chars, err := Parse(strings.NewReader(document(entry)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if chars[0].Codepoint != '水' {
		t.Errorf("expected fallback to literal code point, got %U", chars[0].Codepoint)
	}
}

func TestParseMalformedDocument(t *testing.T) {
	// Truncated mid-element: corrupt container, not a missing optional field.
	_, err := Parse(strings.NewReader("<kanjidic2><character><literal>水</literal>"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError for corrupt markup, got %v", err)
	}
}

func TestParseFuncStopsOnCallbackError(t *testing.T) {
	stop := fmt.Errorf("stop")
	calls := 0
	err := ParseFunc(strings.NewReader(document(waterEntry, waterEntry)), "en", func(Character) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected callback error to propagate, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected stream to stop after first callback, got %d calls", calls)
	}
}
