// Package kradfile parses line-oriented radical decomposition tables.
//
// Two layouts are accepted and detected per line:
//
//	亜 7 二,口        literal, total stroke count, comma-separated radicals
//	亜 : ｜ 一 口     classic kradfile layout, space-separated radicals
//
// The classic layout carries no stroke count; entries parsed from it have
// StrokeCount zero. Comment lines starting with '#' and blank lines are
// skipped.
package kradfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Entry is one kanji with its ordered radical constituents.
type Entry struct {
	Literal     rune
	StrokeCount int
	Radicals    []rune
}

// String renders the entry in the stroke-count layout. Parsing the result
// yields the entry back, radical order included.
func (e Entry) String() string {
	rads := make([]string, len(e.Radicals))
	for i, r := range e.Radicals {
		rads[i] = string(r)
	}
	return fmt.Sprintf("%s %d %s", string(e.Literal), e.StrokeCount, strings.Join(rads, ","))
}

// ParseError reports a line that violates the expected field structure.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("radical table line %d: %s", e.Line, e.Msg)
}

// Parse reads the whole table and fails on the first malformed line.
func Parse(r io.Reader) ([]Entry, error) {
	entries, bad, err := parse(r)
	if err != nil {
		return nil, err
	}
	if len(bad) > 0 {
		return nil, bad[0]
	}
	return entries, nil
}

// ParseLenient reads the whole table, collecting malformed lines instead of
// failing on them. Only I/O errors are fatal.
func ParseLenient(r io.Reader) ([]Entry, []*ParseError, error) {
	return parse(r)
}

func parse(r io.Reader) ([]Entry, []*ParseError, error) {
	var entries []Entry
	var bad []*ParseError

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := parseLine(line, lineNo)
		if err != nil {
			bad = append(bad, err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read radical table: %w", err)
	}
	return entries, bad, nil
}

func parseLine(line string, lineNo int) (Entry, *ParseError) {
	if strings.Contains(line, ":") {
		return parseColonLine(line, lineNo)
	}

	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Entry{}, &ParseError{lineNo, fmt.Sprintf("expected 3 fields, got %d", len(fields))}
	}

	literal, perr := singleRune(fields[0], lineNo)
	if perr != nil {
		return Entry{}, perr
	}

	strokes, err := strconv.Atoi(fields[1])
	if err != nil || strokes <= 0 {
		return Entry{}, &ParseError{lineNo, fmt.Sprintf("invalid stroke count %q", fields[1])}
	}

	var radicals []rune
	for _, part := range strings.Split(fields[2], ",") {
		rad, perr := singleRune(part, lineNo)
		if perr != nil {
			return Entry{}, perr
		}
		radicals = append(radicals, rad)
	}

	return Entry{Literal: literal, StrokeCount: strokes, Radicals: radicals}, nil
}

func parseColonLine(line string, lineNo int) (Entry, *ParseError) {
	parts := strings.SplitN(line, ":", 2)
	literal, perr := singleRune(strings.TrimSpace(parts[0]), lineNo)
	if perr != nil {
		return Entry{}, perr
	}

	var radicals []rune
	for _, part := range strings.Fields(parts[1]) {
		rad, perr := singleRune(part, lineNo)
		if perr != nil {
			return Entry{}, perr
		}
		radicals = append(radicals, rad)
	}
	if len(radicals) == 0 {
		return Entry{}, &ParseError{lineNo, "no radicals listed"}
	}

	return Entry{Literal: literal, Radicals: radicals}, nil
}

func singleRune(s string, lineNo int) (rune, *ParseError) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, &ParseError{lineNo, fmt.Sprintf("expected a single character, got %q", s)}
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return 0, &ParseError{lineNo, fmt.Sprintf("invalid UTF-8 in %q", s)}
	}
	return r, nil
}
