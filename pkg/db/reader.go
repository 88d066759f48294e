package db

import (
	"database/sql"
	"fmt"
	"math/rand/v2"
	"os"
)

// characterColumns is the column list every character query selects, in the
// order scanCharacter expects.
const characterColumns = `codepoint, literal, stroke_count, grade, jlpt, frequency,
	radical_name, on_readings, kun_readings, nanori, meanings`

// Reader provides the read-only query operations the display application
// consumes. The database file must exist; a build is required first.
type Reader struct {
	conn *sql.DB
}

// Open opens the database at path read-only. A missing or unreadable file
// is an error since nothing works without the built database.
func Open(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("kanji database not found at %s (run a build first): %w", path, err)
	}
	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("open kanji database %s: %w", path, err)
	}
	return &Reader{conn: conn}, nil
}

// NewReader wraps an existing connection, used by tests and the build
// verification pass.
func NewReader(conn *sql.DB) *Reader {
	return &Reader{conn: conn}
}

// Close releases the underlying connection.
func (r *Reader) Close() error {
	return r.conn.Close()
}

// Character fetches the record for an exact code point.
func (r *Reader) Character(cp rune) (*Character, error) {
	row := r.conn.QueryRow(`SELECT `+characterColumns+` FROM characters WHERE codepoint = ?`, cp)
	return scanCharacter(row)
}

// CharacterByLiteral fetches the record whose literal text matches exactly.
func (r *Reader) CharacterByLiteral(lit string) (*Character, error) {
	row := r.conn.QueryRow(`SELECT `+characterColumns+` FROM characters WHERE literal = ?`, lit)
	return scanCharacter(row)
}

// Radicals returns the radical constituents of a kanji in decomposition order.
func (r *Reader) Radicals(cp rune) ([]Character, error) {
	rows, err := r.conn.Query(`SELECT `+characterColumns+` FROM characters c
		JOIN compositions e ON e.radical_codepoint = c.codepoint
		WHERE e.kanji_codepoint = ?
		ORDER BY e.position`, cp)
	if err != nil {
		return nil, err
	}
	return collectCharacters(rows)
}

// KanjiWithRadical returns every kanji that contains the given radical,
// ordered by stroke count then code point.
func (r *Reader) KanjiWithRadical(radical rune) ([]Character, error) {
	rows, err := r.conn.Query(`SELECT `+characterColumns+` FROM characters c
		JOIN compositions e ON e.kanji_codepoint = c.codepoint
		WHERE e.radical_codepoint = ?
		ORDER BY c.stroke_count, c.codepoint`, radical)
	if err != nil {
		return nil, err
	}
	return collectCharacters(rows)
}

// Glyph fetches the stroke-order markup for a code point. Returns
// sql.ErrNoRows when no glyph was ingested for the character.
func (r *Reader) Glyph(cp rune) (*Glyph, error) {
	var g Glyph
	err := r.conn.QueryRow(`SELECT codepoint, variant, svg FROM glyphs WHERE codepoint = ?`, cp).
		Scan(&g.Codepoint, &g.Variant, &g.SVG)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Random picks a pseudo-random character, optionally restricted to a JLPT
// level (0 means any). Selection counts through the jlpt index and offsets
// into the filtered ordering instead of sorting the whole table randomly.
func (r *Reader) Random(level JLPT) (*Character, error) {
	where, args := "", []interface{}{}
	if level != 0 {
		where = ` WHERE jlpt = ?`
		args = append(args, int(level))
	}

	var total int
	if err := r.conn.QueryRow(`SELECT COUNT(*) FROM characters`+where, args...).Scan(&total); err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, sql.ErrNoRows
	}

	args = append(args, rand.IntN(total))
	row := r.conn.QueryRow(`SELECT `+characterColumns+` FROM characters`+where+
		` ORDER BY codepoint LIMIT 1 OFFSET ?`, args...)
	return scanCharacter(row)
}

// Counts reports the size of each record collection and the per-level JLPT
// distribution.
func (r *Reader) Counts() (*Stats, error) {
	st := &Stats{ByJLPT: map[JLPT]int{}}
	tables := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM characters`, &st.Characters},
		{`SELECT COUNT(*) FROM compositions`, &st.Compositions},
		{`SELECT COUNT(*) FROM glyphs`, &st.Glyphs},
	}
	for _, t := range tables {
		if err := r.conn.QueryRow(t.query).Scan(t.dst); err != nil {
			return nil, err
		}
	}

	rows, err := r.conn.Query(`SELECT jlpt, COUNT(*) FROM characters WHERE jlpt IS NOT NULL GROUP BY jlpt`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var level, n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		st.ByJLPT[JLPT(level)] = n
	}
	return st, rows.Err()
}

func scanCharacter(row *sql.Row) (*Character, error) {
	var c Character
	var strokes, grade, jlpt, freq sql.NullInt64
	var on, kun, nanori, meanings string
	err := row.Scan(&c.Codepoint, &c.Literal, &strokes, &grade, &jlpt, &freq,
		&c.RadicalName, &on, &kun, &nanori, &meanings)
	if err != nil {
		return nil, err
	}
	c.StrokeCount = int(strokes.Int64)
	c.Grade = int(grade.Int64)
	c.JLPT = JLPT(jlpt.Int64)
	c.Frequency = int(freq.Int64)
	c.OnReadings = unmarshalList(on)
	c.KunReadings = unmarshalList(kun)
	c.Nanori = unmarshalList(nanori)
	c.Meanings = unmarshalList(meanings)
	return &c, nil
}

func collectCharacters(rows *sql.Rows) ([]Character, error) {
	defer rows.Close()
	var out []Character
	for rows.Next() {
		var c Character
		var strokes, grade, jlpt, freq sql.NullInt64
		var on, kun, nanori, meanings string
		if err := rows.Scan(&c.Codepoint, &c.Literal, &strokes, &grade, &jlpt, &freq,
			&c.RadicalName, &on, &kun, &nanori, &meanings); err != nil {
			return nil, err
		}
		c.StrokeCount = int(strokes.Int64)
		c.Grade = int(grade.Int64)
		c.JLPT = JLPT(jlpt.Int64)
		c.Frequency = int(freq.Int64)
		c.OnReadings = unmarshalList(on)
		c.KunReadings = unmarshalList(kun)
		c.Nanori = unmarshalList(nanori)
		c.Meanings = unmarshalList(meanings)
		out = append(out, c)
	}
	return out, rows.Err()
}
