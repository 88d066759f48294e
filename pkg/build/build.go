// Package build runs the one-shot batch pipeline that materializes the
// kanji database from the radical table, the kanjidic2 dictionary, and a
// directory of stroke-order SVG files.
//
// The pipeline is single-threaded by design: compositions and glyphs have
// referential dependencies on character rows, so stages run to completion
// in order, each inside its own transaction. The database is built at a
// temporary path and atomically renamed over the target only on full
// success, so a failed rebuild never disturbs a working database.
package build

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sarumaj/kanji-reader/pkg/db"
	"github.com/sarumaj/kanji-reader/pkg/glyphs"
	"github.com/sarumaj/kanji-reader/pkg/kanjidic"
	"github.com/sarumaj/kanji-reader/pkg/kradfile"
)

// ErrSourceNotFound indicates a missing input file or directory. Always
// fatal: a build from partial sources would silently produce an
// incomplete database.
var ErrSourceNotFound = errors.New("source dataset not found")

// progressEvery is how many records pass between OnProgress callbacks.
const progressEvery = 500

// Config names the source datasets and the build target.
type Config struct {
	KradfilePath string // radical decomposition table
	RadkfilePath string // optional radical→kanji cluster table
	KanjidicPath string // kanjidic2 XML dictionary
	SVGDir       string // stroke-order SVG tree
	OutputPath   string // database file to (re)build

	// Lang selects the meaning gloss language, default "en".
	Lang string

	// Strict turns skippable conditions (malformed radical-table lines,
	// orphaned composition edges and glyphs) into fatal errors. The default
	// lenient policy skips and counts them.
	Strict bool

	// Logger receives warnings about skipped records. nil means no logging.
	Logger *log.Logger

	// OnProgress is called periodically with the running record count of
	// the named stage.
	OnProgress func(stage string, records int)
}

// Stats summarizes a completed build.
type Stats struct {
	Characters    int
	Compositions  int
	Glyphs        int
	SkippedLines  int // malformed radical-table lines
	SkippedEdges  int // composition edges referencing unknown characters
	SkippedGlyphs int // glyph files with unparseable names or no character
}

// source is one input dataset feeding the writer. The orchestrator treats
// all of them uniformly regardless of their on-disk format.
type source interface {
	name() string
	ingest(ctx context.Context, conn *sql.DB, st *Stats) error
}

// Run executes the full pipeline and reports what was written. On any
// error the target database is left exactly as it was.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	if err := cfg.checkSources(); err != nil {
		return nil, err
	}

	edges := newEdgeSet()
	sources := []source{
		&radicalTableSource{cfg: &cfg, edges: edges},
		&kanjidicSource{cfg: &cfg},
	}
	if cfg.RadkfilePath != "" {
		sources = append(sources, &radkSource{cfg: &cfg, edges: edges})
	}
	sources = append(sources,
		&compositionSource{cfg: &cfg, edges: edges},
		&glyphSource{cfg: &cfg},
	)

	tmp := filepath.Join(filepath.Dir(cfg.OutputPath),
		fmt.Sprintf(".%s.build-%d", filepath.Base(cfg.OutputPath), os.Getpid()))
	defer os.Remove(tmp) // no-op after the rename on success

	conn, err := sql.Open("sqlite3", tmp)
	if err != nil {
		return nil, fmt.Errorf("create build database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	st := &Stats{}
	if err := runStages(ctx, conn, sources, st); err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.Close(); err != nil {
		return nil, fmt.Errorf("close build database: %w", err)
	}

	if err := os.Rename(tmp, cfg.OutputPath); err != nil {
		return nil, fmt.Errorf("replace database: %w", err)
	}
	return st, nil
}

func runStages(ctx context.Context, conn *sql.DB, sources []source, st *Stats) error {
	if err := db.Init(conn); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := src.ingest(ctx, conn, st); err != nil {
			return fmt.Errorf("%s stage: %w", src.name(), err)
		}
	}
	return nil
}

func (cfg *Config) checkSources() error {
	required := []string{cfg.KradfilePath, cfg.KanjidicPath, cfg.SVGDir}
	if cfg.RadkfilePath != "" {
		required = append(required, cfg.RadkfilePath)
	}
	for _, path := range required {
		if path == "" {
			return fmt.Errorf("%w: path not configured", ErrSourceNotFound)
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
	}
	if cfg.OutputPath == "" {
		return fmt.Errorf("output path not configured")
	}
	return nil
}

func (cfg *Config) logf(format string, args ...interface{}) {
	if cfg.Logger != nil {
		cfg.Logger.Printf(format, args...)
	}
}

func (cfg *Config) progress(stage string, n int) {
	if cfg.OnProgress != nil && (n%progressEvery == 0 || n == 0) {
		cfg.OnProgress(stage, n)
	}
}

func (cfg *Config) progressDone(stage string, n int) {
	if cfg.OnProgress != nil {
		cfg.OnProgress(stage, n)
	}
}

// edgeSet accumulates composition edges across the radical-table and
// radkfile stages, deduplicating pairs while preserving the decomposition
// order of each kanji.
type edgeSet struct {
	edges []db.Composition
	seen  map[[2]rune]bool
	next  map[rune]int
}

func newEdgeSet() *edgeSet {
	return &edgeSet{seen: map[[2]rune]bool{}, next: map[rune]int{}}
}

func (s *edgeSet) add(kanji, radical rune) {
	key := [2]rune{kanji, radical}
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.edges = append(s.edges, db.Composition{Kanji: kanji, Radical: radical, Position: s.next[kanji]})
	s.next[kanji]++
}

// radicalTableSource upserts a stub character row per kanji line (literal
// and stroke count) and collects the decomposition edges. Edges are
// written only after the dictionary stage so radicals parsed later can
// still satisfy referential integrity.
type radicalTableSource struct {
	cfg   *Config
	edges *edgeSet
}

func (s *radicalTableSource) name() string { return "radical-table" }

func (s *radicalTableSource) ingest(ctx context.Context, conn *sql.DB, st *Stats) error {
	f, err := os.Open(s.cfg.KradfilePath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, s.cfg.KradfilePath)
	}
	defer f.Close()

	var entries []kradfile.Entry
	if s.cfg.Strict {
		entries, err = kradfile.Parse(f)
		if err != nil {
			return err
		}
	} else {
		var bad []*kradfile.ParseError
		entries, bad, err = kradfile.ParseLenient(f)
		if err != nil {
			return err
		}
		for _, perr := range bad {
			s.cfg.logf("skipping %s: %v", s.cfg.KradfilePath, perr)
		}
		st.SkippedLines += len(bad)
	}

	return db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		for i, e := range entries {
			err := db.UpsertCharacter(tx, db.Character{
				Codepoint:   e.Literal,
				Literal:     string(e.Literal),
				StrokeCount: e.StrokeCount,
			})
			if err != nil {
				return err
			}
			for _, rad := range e.Radicals {
				s.edges.add(e.Literal, rad)
			}
			s.cfg.progress(s.name(), i+1)
		}
		s.cfg.progressDone(s.name(), len(entries))
		return nil
	})
}

// kanjidicSource streams dictionary entries into full character upserts.
type kanjidicSource struct {
	cfg *Config
}

func (s *kanjidicSource) name() string { return "kanjidic" }

func (s *kanjidicSource) ingest(ctx context.Context, conn *sql.DB, st *Stats) error {
	f, err := os.Open(s.cfg.KanjidicPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, s.cfg.KanjidicPath)
	}
	defer f.Close()

	return db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		n := 0
		err := kanjidic.ParseFunc(f, s.cfg.Lang, func(c kanjidic.Character) error {
			err := db.UpsertCharacter(tx, db.Character{
				Codepoint:   c.Codepoint,
				Literal:     c.Literal,
				StrokeCount: c.StrokeCount,
				Grade:       c.Grade,
				JLPT:        db.JLPT(c.JLPT),
				Frequency:   c.Frequency,
				RadicalName: c.RadicalName,
				OnReadings:  c.OnReadings,
				KunReadings: c.KunReadings,
				Nanori:      c.Nanori,
				Meanings:    c.Meanings,
			})
			if err != nil {
				return err
			}
			n++
			st.Characters = n
			s.cfg.progress(s.name(), n)
			return nil
		})
		if err != nil {
			return err
		}
		s.cfg.progressDone(s.name(), n)
		return nil
	})
}

// radkSource merges the inverse radical→kanji clusters into the edge set
// and upserts a character row per radical, carrying the cluster's stroke
// count. Many radkfile radicals are not kanjidic entries, so these rows
// are what keeps their edges referentially valid.
type radkSource struct {
	cfg   *Config
	edges *edgeSet
}

func (s *radkSource) name() string { return "radkfile" }

func (s *radkSource) ingest(ctx context.Context, conn *sql.DB, st *Stats) error {
	f, err := os.Open(s.cfg.RadkfilePath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, s.cfg.RadkfilePath)
	}
	defer f.Close()

	clusters, err := kradfile.ParseRadk(f)
	if err != nil {
		return err
	}

	return db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		for i, cl := range clusters {
			err := db.UpsertCharacter(tx, db.Character{
				Codepoint:   cl.Radical,
				Literal:     string(cl.Radical),
				StrokeCount: cl.StrokeCount,
			})
			if err != nil {
				return err
			}
			for _, kanji := range cl.Kanji {
				s.edges.add(kanji, cl.Radical)
			}
			s.cfg.progress(s.name(), i+1)
		}
		s.cfg.progressDone(s.name(), len(clusters))
		return nil
	})
}

// compositionSource writes the accumulated edges once every character
// source has run. Edges referencing characters absent from the lexical
// data are dropped and logged, or abort the build under Strict.
type compositionSource struct {
	cfg   *Config
	edges *edgeSet
}

func (s *compositionSource) name() string { return "compositions" }

func (s *compositionSource) ingest(ctx context.Context, conn *sql.DB, st *Stats) error {
	return db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		n := 0
		for _, edge := range s.edges.edges {
			err := db.UpsertComposition(tx, edge)
			if errors.Is(err, db.ErrIntegrity) {
				if s.cfg.Strict {
					return err
				}
				s.cfg.logf("skipping composition: %v", err)
				st.SkippedEdges++
				continue
			}
			if err != nil {
				return err
			}
			n++
			st.Compositions = n
			s.cfg.progress(s.name(), n)
		}
		s.cfg.progressDone(s.name(), n)
		return nil
	})
}

// glyphSource attaches stroke-order markup last, once all character rows
// exist. Orphan glyphs are dropped and logged, or abort under Strict.
type glyphSource struct {
	cfg *Config
}

func (s *glyphSource) name() string { return "glyphs" }

func (s *glyphSource) ingest(ctx context.Context, conn *sql.DB, st *Stats) error {
	indexed, gst, err := glyphs.Index(s.cfg.SVGDir, func(path, reason string) {
		s.cfg.logf("skipping glyph %s: %s", path, reason)
	})
	if err != nil {
		return err
	}
	st.SkippedGlyphs += gst.Skipped

	return db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		n := 0
		for _, g := range indexed {
			err := db.UpsertGlyph(tx, db.Glyph{Codepoint: g.Codepoint, Variant: g.Variant, SVG: g.SVG})
			if errors.Is(err, db.ErrIntegrity) {
				if s.cfg.Strict {
					return err
				}
				s.cfg.logf("skipping glyph: %v", err)
				st.SkippedGlyphs++
				continue
			}
			if err != nil {
				return err
			}
			n++
			st.Glyphs = n
			s.cfg.progress(s.name(), n)
		}
		s.cfg.progressDone(s.name(), n)
		return nil
	})
}
