package db

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// schemaSQL defines the three record collections and the indexes backing
// the runtime reader's point lookups and filtered random selection. Every
// statement is idempotent so Init can double as the finalize step of a
// rebuild.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS characters (
	codepoint    INTEGER PRIMARY KEY,
	literal      TEXT NOT NULL,
	stroke_count INTEGER,
	grade        INTEGER,
	jlpt         INTEGER,
	frequency    INTEGER,
	radical_name TEXT NOT NULL DEFAULT '',
	on_readings  TEXT NOT NULL DEFAULT '[]',
	kun_readings TEXT NOT NULL DEFAULT '[]',
	nanori       TEXT NOT NULL DEFAULT '[]',
	meanings     TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS compositions (
	kanji_codepoint   INTEGER NOT NULL,
	radical_codepoint INTEGER NOT NULL,
	position          INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (kanji_codepoint, radical_codepoint)
);

CREATE TABLE IF NOT EXISTS glyphs (
	codepoint INTEGER PRIMARY KEY,
	variant   TEXT NOT NULL DEFAULT '',
	svg       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_characters_jlpt ON characters(jlpt);
CREATE INDEX IF NOT EXISTS idx_compositions_radical ON compositions(radical_codepoint)
`

// Init creates the schema on the given connection using the embedded SQL.
func Init(conn *sql.DB) error {
	stmts := strings.Split(schemaSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := conn.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
