package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/sarumaj/kanji-reader/pkg/build"
	"github.com/sarumaj/kanji-reader/pkg/dataset"
)

// Default dataset file names under --data-dir.
const (
	kradfileName = "kradfile.utf8"
	kanjidicName = "kanjidic2.xml"
	svgDirName   = "svg"
)

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "rebuild the database from the source datasets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "directory holding the source datasets",
				Value: "data",
			},
			&cli.StringFlag{
				Name:  "kradfile",
				Usage: "radical decomposition table (default: <data-dir>/" + kradfileName + ")",
			},
			&cli.StringFlag{
				Name:  "radkfile",
				Usage: "optional radical→kanji cluster table",
			},
			&cli.StringFlag{
				Name:  "kanjidic",
				Usage: "kanjidic2 XML dictionary (default: <data-dir>/" + kanjidicName + ")",
			},
			&cli.StringFlag{
				Name:  "svg-dir",
				Usage: "stroke-order SVG directory (default: <data-dir>/" + svgDirName + ")",
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "meaning gloss language",
				Value: "en",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "treat malformed lines and orphaned records as fatal",
			},
			&cli.BoolFlag{
				Name:  "fetch",
				Usage: "download missing datasets before building",
			},
		},
		Action: runBuild,
	}
}

func runBuild(c *cli.Context) error {
	cfg := build.Config{
		KradfilePath: c.String("kradfile"),
		RadkfilePath: c.String("radkfile"),
		KanjidicPath: c.String("kanjidic"),
		SVGDir:       c.String("svg-dir"),
		OutputPath:   c.String("db"),
		Lang:         c.String("lang"),
		Strict:       c.Bool("strict"),
		Logger:       log.New(os.Stderr, "", 0),
	}
	if cfg.KradfilePath == "" {
		cfg.KradfilePath = dataPath(c, kradfileName)
	}
	if cfg.KanjidicPath == "" {
		cfg.KanjidicPath = dataPath(c, kanjidicName)
	}
	if cfg.SVGDir == "" {
		cfg.SVGDir = dataPath(c, svgDirName)
	}

	if c.Bool("fetch") {
		if err := dataset.EnsureKradfile(c.Context, cfg.KradfilePath, ""); err != nil {
			return err
		}
		if err := dataset.EnsureKanjidic(c.Context, cfg.KanjidicPath, ""); err != nil {
			return err
		}
	}

	cfg.OnProgress = func(stage string, records int) {
		fmt.Fprintf(os.Stderr, "\r%-14s %d", stage, records)
	}

	st, err := build.Run(c.Context, cfg)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	log.Printf("built %s: %d characters, %d compositions, %d glyphs",
		cfg.OutputPath, st.Characters, st.Compositions, st.Glyphs)
	if st.SkippedLines+st.SkippedEdges+st.SkippedGlyphs > 0 {
		log.Printf("skipped: %d lines, %d edges, %d glyphs",
			st.SkippedLines, st.SkippedEdges, st.SkippedGlyphs)
	}
	return nil
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "download the public source datasets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "directory to download into",
				Value: "data",
			},
			&cli.StringFlag{
				Name:  "kanjidic-url",
				Usage: "override the kanjidic2 download location",
			},
			&cli.StringFlag{
				Name:  "kradfile-url",
				Usage: "override the kradfile download location",
			},
		},
		Action: func(c *cli.Context) error {
			kradfile := dataPath(c, kradfileName)
			if err := dataset.EnsureKradfile(c.Context, kradfile, c.String("kradfile-url")); err != nil {
				return err
			}
			log.Printf("radical table ready at %s", kradfile)

			kanjidic := dataPath(c, kanjidicName)
			if err := dataset.EnsureKanjidic(c.Context, kanjidic, c.String("kanjidic-url")); err != nil {
				return err
			}
			log.Printf("dictionary ready at %s", kanjidic)
			return nil
		},
	}
}
