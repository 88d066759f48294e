package kradfile

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStrokeCountLayout(t *testing.T) {
	input := "亜 7 二,口\n唖 10 口,亜\n# test\n"

	entries, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []Entry{
		{Literal: '亜', StrokeCount: 7, Radicals: []rune{'二', '口'}},
		{Literal: '唖', StrokeCount: 10, Radicals: []rune{'口', '亜'}},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
}

func TestParseColonLayout(t *testing.T) {
	input := "# kradfile2 excerpt\n亜 : ｜ 一 口\n\n付 : 亻 寸\n"

	entries, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []Entry{
		{Literal: '亜', Radicals: []rune{'｜', '一', '口'}},
		{Literal: '付', Radicals: []rune{'亻', '寸'}},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
}

func TestParseRoundTrip(t *testing.T) {
	input := "亜 7 二,口\n唖 10 口,亜\n"

	entries, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var rendered []string
	for _, e := range entries {
		rendered = append(rendered, e.String())
	}
	again, err := Parse(strings.NewReader(strings.Join(rendered, "\n")))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if diff := cmp.Diff(entries, again); diff != "" {
		t.Errorf("round trip lost data (-first +second):\n%s", diff)
	}
}

func TestParseMalformedLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing radicals", "亜 7\n"},
		{"bad stroke count", "亜 seven 二,口\n"},
		{"negative stroke count", "亜 -1 二,口\n"},
		{"multi-rune literal", "亜唖 7 二,口\n"},
		{"multi-rune radical", "亜 7 二口\n唖 10 口,亜口\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			perr, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if perr.Line == 0 {
				t.Errorf("parse error missing line number: %v", perr)
			}
		})
	}
}

func TestParseLenientCollectsBadLines(t *testing.T) {
	input := "亜 7 二,口\nbogus line here extra\n唖 10 口,亜\n"

	entries, bad, err := ParseLenient(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 good entries, got %d", len(entries))
	}
	if len(bad) != 1 {
		t.Fatalf("expected 1 bad line, got %d", len(bad))
	}
	if bad[0].Line != 2 {
		t.Errorf("expected failure on line 2, got line %d", bad[0].Line)
	}
}

func TestParseRadk(t *testing.T) {
	input := strings.Join([]string{
		"# radkfilex excerpt",
		"$ 口 3",
		"古可右叶号司只",
		"史",
		"$ 一 1",
		"一丁七万",
	}, "\n")

	clusters, err := ParseRadk(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []Cluster{
		{Radical: '口', StrokeCount: 3, Kanji: []rune("古可右叶号司只史")},
		{Radical: '一', StrokeCount: 1, Kanji: []rune("一丁七万")},
	}
	if diff := cmp.Diff(want, clusters); diff != "" {
		t.Errorf("clusters (-want +got):\n%s", diff)
	}
}

func TestParseRadkErrors(t *testing.T) {
	if _, err := ParseRadk(strings.NewReader("古可右\n")); err == nil {
		t.Error("expected error for kanji run before header")
	}
	if _, err := ParseRadk(strings.NewReader("$ 口\n")); err == nil {
		t.Error("expected error for header without stroke count")
	}
}
