// Package scan produces per-kanji usage reports for arbitrary Japanese
// text. Text is tokenized morphologically so each kanji can be tied back
// to the dictionary forms of the words it appeared in.
package scan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Usage aggregates the occurrences of one kanji across a text.
type Usage struct {
	Literal rune
	Count   int
	Words   []string // dictionary forms the kanji appeared in, first seen first
}

// Scanner tokenizes Japanese text with the IPA dictionary.
type Scanner struct {
	tok *tokenizer.Tokenizer
}

// NewScanner loads the bundled IPA dictionary. Loading is the expensive
// part; reuse one Scanner for many texts.
func NewScanner() (*Scanner, error) {
	tok, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("initialize tokenizer: %w", err)
	}
	return &Scanner{tok: tok}, nil
}

// Scan counts every kanji in text, ordered by first appearance. Each
// usage carries the base forms of the words the kanji occurred in, so 飲
// in 飲んだ reports the word 飲む.
func (s *Scanner) Scan(text string) []Usage {
	index := map[rune]int{}
	var usages []Usage

	for _, token := range s.tok.Tokenize(text) {
		word, ok := token.BaseForm()
		if !ok || word == "*" {
			word = token.Surface
		}
		for _, r := range token.Surface {
			if !IsKanji(r) {
				continue
			}
			i, seen := index[r]
			if !seen {
				i = len(usages)
				index[r] = i
				usages = append(usages, Usage{Literal: r})
			}
			usages[i].Count++
			if !contains(usages[i].Words, word) {
				usages[i].Words = append(usages[i].Words, word)
			}
		}
	}
	return usages
}

// IsKanji reports whether r falls in the CJK unified ideograph ranges
// used by Japanese text.
func IsKanji(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // Extension A
		return true
	case r >= 0xF900 && r <= 0xFAFF: // Compatibility Ideographs
		return true
	}
	return false
}

var rubyMarkup = regexp.MustCompile(`(?is)<rt[^>]*>.*?</rt>|<rp[^>]*>.*?</rp>|</?ruby[^>]*>`)

// StripRuby removes ruby annotation markup so furigana readings are not
// scanned as if they were running text.
func StripRuby(html string) string {
	return rubyMarkup.ReplaceAllString(html, "")
}

func contains(words []string, w string) bool {
	for _, have := range words {
		if have == w {
			return true
		}
	}
	return false
}

// Summary is a convenience for logging: "水 x3 (水, 水曜日)".
func (u Usage) Summary() string {
	return fmt.Sprintf("%s x%d (%s)", string(u.Literal), u.Count, strings.Join(u.Words, ", "))
}
