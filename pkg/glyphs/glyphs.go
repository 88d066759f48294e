// Package glyphs indexes a directory tree of stroke-order SVG files named
// by hexadecimal code point, e.g. 06c34.svg or 04e9c-Kaisho.svg.
package glyphs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Glyph pairs a code point with the raw markup of its stroke-order diagram.
type Glyph struct {
	Codepoint rune
	Variant   string
	SVG       string
}

// Stats counts what the walk encountered.
type Stats struct {
	Files   int // candidate .svg files seen
	Skipped int // files with unparseable names
}

// fileNamePattern matches <hex>[-Variant].svg names case-insensitively.
var fileNamePattern = regexp.MustCompile(`^(?i)([0-9a-f]{4,6})(?:-([0-9A-Za-z]+))?\.svg$`)

// Index walks dir and returns one glyph per code point, ordered by code
// point. When several files map to the same character the unsuffixed file
// wins over variant-suffixed ones; among variants the lexicographically
// first filename wins. The walk itself is lexical, so the result is
// deterministic. Files with unparseable names are reported through warn
// and counted, never fatal.
func Index(dir string, warn func(path string, reason string)) ([]Glyph, Stats, error) {
	var st Stats
	best := map[rune]Glyph{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".svg") {
			return nil
		}
		st.Files++

		m := fileNamePattern.FindStringSubmatch(d.Name())
		if m == nil {
			st.Skipped++
			if warn != nil {
				warn(path, "file name does not encode a code point")
			}
			return nil
		}
		cp, perr := strconv.ParseUint(m[1], 16, 32)
		if perr != nil {
			st.Skipped++
			if warn != nil {
				warn(path, "invalid code point: "+perr.Error())
			}
			return nil
		}
		variant := m[2]

		// Precedence: the default diagram beats variants; the first variant
		// seen (lexical walk order) beats later ones.
		if cur, ok := best[rune(cp)]; ok && !(variant == "" && cur.Variant != "") {
			return nil
		}

		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return fmt.Errorf("read glyph %s: %w", path, rerr)
		}
		best[rune(cp)] = Glyph{Codepoint: rune(cp), Variant: variant, SVG: string(data)}
		return nil
	})
	if err != nil {
		return nil, st, err
	}

	out := make([]Glyph, 0, len(best))
	for _, g := range best {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codepoint < out[j].Codepoint })
	return out, st, nil
}
