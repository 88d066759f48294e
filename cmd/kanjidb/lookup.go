package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/sarumaj/kanji-reader/pkg/db"
)

func lookupCommand() *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "show the record for a kanji",
		ArgsUsage: "KANJI|CODEPOINT",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one kanji or code point argument")
			}
			cp, err := parseCodepoint(c.Args().First())
			if err != nil {
				return err
			}

			reader, err := openReader(c)
			if err != nil {
				return err
			}
			defer reader.Close()

			char, err := reader.Character(cp)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("no record for %s", string(cp))
			}
			if err != nil {
				return err
			}
			radicals, err := reader.Radicals(cp)
			if err != nil {
				return err
			}
			printCharacter(char, radicals)
			return nil
		},
	}
}

func randomCommand() *cli.Command {
	return &cli.Command{
		Name:  "random",
		Usage: "pick a random kanji, optionally from one JLPT level",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "jlpt",
				Usage: "restrict to JLPT level `N` (1-5)",
			},
		},
		Action: func(c *cli.Context) error {
			level := db.JLPT(c.Int("jlpt"))
			if level < 0 || level > 5 {
				return fmt.Errorf("invalid JLPT level %d", level)
			}

			reader, err := openReader(c)
			if err != nil {
				return err
			}
			defer reader.Close()

			char, err := reader.Random(level)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("no characters at JLPT %s", level)
			}
			if err != nil {
				return err
			}
			radicals, err := reader.Radicals(char.Codepoint)
			if err != nil {
				return err
			}
			printCharacter(char, radicals)
			return nil
		},
	}
}

func kanjiCommand() *cli.Command {
	return &cli.Command{
		Name:      "kanji",
		Usage:     "list the kanji containing a radical",
		ArgsUsage: "RADICAL",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one radical argument")
			}
			cp, err := parseCodepoint(c.Args().First())
			if err != nil {
				return err
			}

			reader, err := openReader(c)
			if err != nil {
				return err
			}
			defer reader.Close()

			chars, err := reader.KanjiWithRadical(cp)
			if err != nil {
				return err
			}
			if len(chars) == 0 {
				return fmt.Errorf("no kanji recorded with radical %s", string(cp))
			}
			printCharacterList(chars)
			return nil
		},
	}
}

func glyphCommand() *cli.Command {
	return &cli.Command{
		Name:      "glyph",
		Usage:     "print the stroke-order SVG for a kanji",
		ArgsUsage: "KANJI|CODEPOINT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the SVG to `FILE` instead of stdout",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one kanji or code point argument")
			}
			cp, err := parseCodepoint(c.Args().First())
			if err != nil {
				return err
			}

			reader, err := openReader(c)
			if err != nil {
				return err
			}
			defer reader.Close()

			glyph, err := reader.Glyph(cp)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("no stroke-order diagram for %s", string(cp))
			}
			if err != nil {
				return err
			}

			if out := c.String("output"); out != "" {
				return os.WriteFile(out, []byte(glyph.SVG), 0o644)
			}
			fmt.Println(glyph.SVG)
			return nil
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "summarize the database contents",
		Action: func(c *cli.Context) error {
			reader, err := openReader(c)
			if err != nil {
				return err
			}
			defer reader.Close()

			st, err := reader.Counts()
			if err != nil {
				return err
			}

			tbl := table.New("Collection", "Records")
			tbl.AddRow("characters", st.Characters)
			tbl.AddRow("compositions", st.Compositions)
			tbl.AddRow("glyphs", st.Glyphs)
			for level := db.JLPT(5); level >= 1; level-- {
				if n, ok := st.ByJLPT[level]; ok {
					tbl.AddRow("JLPT "+level.String(), n)
				}
			}
			tbl.Print()
			return nil
		},
	}
}
