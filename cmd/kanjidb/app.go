package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/sarumaj/kanji-reader/pkg/db"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "kanjidb",
		Usage:   "build and query the kanji learning database",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "path to the kanji database `FILE`",
				Value:   "kanjidic.db",
				EnvVars: []string{"KANJIDB"},
			},
		},
		Commands: []*cli.Command{
			buildCommand(),
			fetchCommand(),
			lookupCommand(),
			randomCommand(),
			kanjiCommand(),
			glyphCommand(),
			scanCommand(),
			statsCommand(),
		},
	}
}

func openReader(c *cli.Context) (*db.Reader, error) {
	return db.Open(c.String("db"))
}

// parseCodepoint accepts a literal kanji, a bare hex code point, or the
// U+XXXX form.
func parseCodepoint(arg string) (rune, error) {
	if utf8.RuneCountInString(arg) == 1 {
		r, _ := utf8.DecodeRuneInString(arg)
		return r, nil
	}
	hex := strings.TrimPrefix(strings.TrimPrefix(arg, "U+"), "u+")
	cp, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is neither a kanji nor a code point", arg)
	}
	return rune(cp), nil
}

func printCharacter(c *db.Character, radicals []db.Character) {
	tbl := table.New("Field", "Value")
	tbl.AddRow("Kanji", c.Literal)
	tbl.AddRow("Code point", fmt.Sprintf("U+%04X", c.Codepoint))
	tbl.AddRow("Strokes", orDash(c.StrokeCount))
	tbl.AddRow("Grade", orDash(c.Grade))
	tbl.AddRow("JLPT", c.JLPT.String())
	tbl.AddRow("Frequency", orDash(c.Frequency))
	if c.RadicalName != "" {
		tbl.AddRow("Radical name", c.RadicalName)
	}
	tbl.AddRow("On readings", strings.Join(c.OnReadings, ", "))
	tbl.AddRow("Kun readings", strings.Join(c.KunReadings, ", "))
	if len(c.Nanori) > 0 {
		tbl.AddRow("Nanori", strings.Join(c.Nanori, ", "))
	}
	tbl.AddRow("Meanings", strings.Join(c.Meanings, ", "))
	if len(radicals) > 0 {
		parts := make([]string, len(radicals))
		for i, r := range radicals {
			parts[i] = r.Literal
		}
		tbl.AddRow("Radicals", strings.Join(parts, " "))
	}
	tbl.Print()
}

func printCharacterList(chars []db.Character) {
	tbl := table.New("Kanji", "Strokes", "JLPT", "Meanings")
	for _, c := range chars {
		tbl.AddRow(c.Literal, orDash(c.StrokeCount), c.JLPT.String(), strings.Join(c.Meanings, ", "))
	}
	tbl.Print()
}

func orDash(v int) string {
	if v == 0 {
		return "-"
	}
	return strconv.Itoa(v)
}

// dataPath resolves a dataset file name under the --data-dir flag.
func dataPath(c *cli.Context, name string) string {
	return filepath.Join(c.String("data-dir"), name)
}
