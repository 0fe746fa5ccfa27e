// Package vocab persists the user's saved vocabulary in SQLite.
package vocab

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Word is one saved vocabulary item. Level is the user's self-assessed
// familiarity, 1 (new) to 5 (known).
type Word struct {
	Word     string
	Sentence string
	Level    int
	AddedAt  time.Time
}

// Store persists vocabulary in a local SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS words (
    word TEXT PRIMARY KEY,
    sentence TEXT NOT NULL DEFAULT '',
    level INTEGER NOT NULL DEFAULT 1,
    added_at INTEGER NOT NULL
);
`

// Open opens (creating if needed) the vocabulary database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("vocabulary path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping vocabulary db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// HasWord reports whether the word is already saved.
func (s *Store) HasWord(word string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM words WHERE word = ?`, normalize(word)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query word: %w", err)
	}
	return true, nil
}

// AddWord saves a word with the sentence it was encountered in. Saving a word
// that already exists overwrites its sentence and level.
func (s *Store) AddWord(word, sentence string, level int) error {
	w := normalize(word)
	if w == "" {
		return fmt.Errorf("word is required")
	}
	_, err := s.db.Exec(
		`INSERT INTO words (word, sentence, level, added_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(word) DO UPDATE SET sentence = excluded.sentence, level = excluded.level`,
		w, sentence, clampLevel(level), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert word: %w", err)
	}
	return nil
}

// UpdateLevel changes the familiarity level of a saved word.
func (s *Store) UpdateLevel(word string, level int) error {
	res, err := s.db.Exec(`UPDATE words SET level = ? WHERE word = ?`, clampLevel(level), normalize(word))
	if err != nil {
		return fmt.Errorf("update level: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update level: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("word %q is not saved", word)
	}
	return nil
}

// Words returns all saved words, most recently added first.
func (s *Store) Words() ([]Word, error) {
	rows, err := s.db.Query(`SELECT word, sentence, level, added_at FROM words ORDER BY added_at DESC, word`)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	defer rows.Close()

	var out []Word
	for rows.Next() {
		var w Word
		var addedAt int64
		if err := rows.Scan(&w.Word, &w.Sentence, &w.Level, &addedAt); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		w.AddedAt = time.UnixMilli(addedAt).UTC()
		out = append(out, w)
	}
	return out, rows.Err()
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 5 {
		return 5
	}
	return level
}
