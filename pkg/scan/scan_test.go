package scan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	s, err := NewScanner()
	if err != nil {
		t.Fatalf("scanner: %v", err)
	}
	return s
}

func TestScanCountsKanji(t *testing.T) {
	s := newTestScanner(t)

	got := s.Scan("水を飲む。水は美味しい。")

	want := []Usage{
		{Literal: '水', Count: 2, Words: []string{"水"}},
		{Literal: '飲', Count: 1, Words: []string{"飲む"}},
		{Literal: '美', Count: 1, Words: []string{"美味しい"}},
		{Literal: '味', Count: 1, Words: []string{"美味しい"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("usages (-want +got):\n%s", diff)
	}
}

func TestScanReportsBaseForms(t *testing.T) {
	s := newTestScanner(t)

	got := s.Scan("飲んだ")
	if len(got) != 1 {
		t.Fatalf("expected one kanji, got %v", got)
	}
	if got[0].Literal != '飲' || len(got[0].Words) != 1 || got[0].Words[0] != "飲む" {
		t.Errorf("飲んだ should report the base form 飲む, got %+v", got[0])
	}
}

func TestScanIgnoresKanaOnlyText(t *testing.T) {
	s := newTestScanner(t)
	if got := s.Scan("これはひらがなとカタカナだけ"); len(got) != 0 {
		t.Errorf("expected no kanji, got %v", got)
	}
}

func TestStripRuby(t *testing.T) {
	in := `<ruby>水<rp>(</rp><rt>みず</rt><rp>)</rp></ruby>を<ruby>飲<rt>の</rt></ruby>む`
	if got := StripRuby(in); got != "水を飲む" {
		t.Errorf("StripRuby = %q", got)
	}
}

func TestIsKanji(t *testing.T) {
	for _, r := range "水龠㐂" {
		if !IsKanji(r) {
			t.Errorf("%c should be kanji", r)
		}
	}
	for _, r := range "aあアー。1" {
		if IsKanji(r) {
			t.Errorf("%c should not be kanji", r)
		}
	}
}
