package kradfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Cluster is one radkfile block: a radical, its stroke count, and every
// kanji it appears in. The inverse of the kradfile mapping.
type Cluster struct {
	Radical     rune
	StrokeCount int
	Kanji       []rune
}

// ParseRadk reads a radkfile-style cluster table. Each cluster starts with
// a `$ <radical> <strokes>` header line followed by lines of kanji runs.
// Comment lines starting with '#' are skipped. Malformed headers are
// reported with their line number.
func ParseRadk(r io.Reader) ([]Cluster, error) {
	var clusters []Cluster
	var current *Cluster

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "$") {
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return nil, &ParseError{lineNo, fmt.Sprintf("cluster header needs radical and stroke count, got %q", line)}
			}
			rad, perr := singleRune(fields[1], lineNo)
			if perr != nil {
				return nil, perr
			}
			strokes, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, &ParseError{lineNo, fmt.Sprintf("invalid stroke count %q", fields[2])}
			}
			clusters = append(clusters, Cluster{Radical: rad, StrokeCount: strokes})
			current = &clusters[len(clusters)-1]
			continue
		}

		if current == nil {
			return nil, &ParseError{lineNo, "kanji run before any cluster header"}
		}
		for _, k := range line {
			if k == ' ' {
				continue
			}
			current.Kanji = append(current.Kanji, k)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read radk table: %w", err)
	}
	return clusters, nil
}
