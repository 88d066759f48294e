package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Executor allows store functions to accept either *sql.DB or *sql.Tx.
type Executor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// ErrIntegrity indicates a record referencing a character that does not
// exist in the database. Callers decide whether to skip the record or
// abort the build.
var ErrIntegrity = errors.New("referential integrity violation")

// UpsertCharacter inserts the character or overwrites the non-key fields of
// an existing row with the same code point. Empty incoming values never
// clobber populated columns, so the radical-table stage's stroke counts
// survive the dictionary stage and vice versa.
func UpsertCharacter(ex Executor, c Character) error {
	if c.Codepoint == 0 || c.Literal == "" {
		return fmt.Errorf("character must have a code point and a literal")
	}

	query := `INSERT INTO characters
		(codepoint, literal, stroke_count, grade, jlpt, frequency, radical_name,
		 on_readings, kun_readings, nanori, meanings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(codepoint) DO UPDATE SET
		  literal      = excluded.literal,
		  stroke_count = COALESCE(excluded.stroke_count, characters.stroke_count),
		  grade        = COALESCE(excluded.grade, characters.grade),
		  jlpt         = COALESCE(excluded.jlpt, characters.jlpt),
		  frequency    = COALESCE(excluded.frequency, characters.frequency),
		  radical_name = CASE WHEN excluded.radical_name = '' THEN characters.radical_name ELSE excluded.radical_name END,
		  on_readings  = CASE WHEN excluded.on_readings = '[]' THEN characters.on_readings ELSE excluded.on_readings END,
		  kun_readings = CASE WHEN excluded.kun_readings = '[]' THEN characters.kun_readings ELSE excluded.kun_readings END,
		  nanori       = CASE WHEN excluded.nanori = '[]' THEN characters.nanori ELSE excluded.nanori END,
		  meanings     = CASE WHEN excluded.meanings = '[]' THEN characters.meanings ELSE excluded.meanings END`

	_, err := ex.Exec(query,
		c.Codepoint, c.Literal,
		nullableInt(c.StrokeCount), nullableInt(c.Grade), nullableInt(int(c.JLPT)), nullableInt(c.Frequency),
		c.RadicalName,
		marshalList(c.OnReadings), marshalList(c.KunReadings), marshalList(c.Nanori), marshalList(c.Meanings))
	if err != nil {
		return fmt.Errorf("upsert character %s: %w", c.Literal, err)
	}
	return nil
}

// UpsertComposition records a kanji→radical edge. Both endpoints must
// already exist as characters; otherwise the edge is rejected with
// ErrIntegrity.
func UpsertComposition(ex Executor, c Composition) error {
	for _, cp := range []rune{c.Kanji, c.Radical} {
		ok, err := characterExists(ex, cp)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: edge %U -> %U references unknown character %U", ErrIntegrity, c.Kanji, c.Radical, cp)
		}
	}

	_, err := ex.Exec(`INSERT INTO compositions (kanji_codepoint, radical_codepoint, position)
		VALUES (?, ?, ?)
		ON CONFLICT(kanji_codepoint, radical_codepoint) DO UPDATE SET position = excluded.position`,
		c.Kanji, c.Radical, c.Position)
	if err != nil {
		return fmt.Errorf("upsert composition %U -> %U: %w", c.Kanji, c.Radical, err)
	}
	return nil
}

// UpsertGlyph stores the stroke-order markup for a character. Glyphs whose
// code point has no character row are rejected with ErrIntegrity so the
// caller can drop or log them.
func UpsertGlyph(ex Executor, g Glyph) error {
	ok, err := characterExists(ex, g.Codepoint)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: glyph %U has no character record", ErrIntegrity, g.Codepoint)
	}

	_, err = ex.Exec(`INSERT INTO glyphs (codepoint, variant, svg) VALUES (?, ?, ?)
		ON CONFLICT(codepoint) DO UPDATE SET variant = excluded.variant, svg = excluded.svg`,
		g.Codepoint, g.Variant, g.SVG)
	if err != nil {
		return fmt.Errorf("upsert glyph %U: %w", g.Codepoint, err)
	}
	return nil
}

// WithTx runs fn inside a transaction. The transaction commits only when fn
// returns nil; any error rolls back every write of the unit.
func WithTx(ctx context.Context, conn *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func characterExists(ex Executor, cp rune) (bool, error) {
	var one int
	err := ex.QueryRow(`SELECT 1 FROM characters WHERE codepoint = ?`, cp).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// marshalList stores ordered string sequences as JSON arrays. nil and empty
// slices both serialize to "[]" so column defaults stay comparable.
func marshalList(vals []string) string {
	if len(vals) == 0 {
		return "[]"
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalList(s string) []string {
	if s == "" || s == "[]" {
		return nil
	}
	var vals []string
	if err := json.Unmarshal([]byte(s), &vals); err != nil {
		return nil
	}
	return vals
}

// nullableInt returns nil for 0 (meaning unknown/unclassified) else the value.
func nullableInt(v int) interface{} {
	if v == 0 {
		return nil
	}
	return v
}
