// Package sqlitestore is a user dictionary provider backed by SQLite, for
// several spelld processes sharing one dictionary.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sagerenn/spelld/internal/userdict"
	"github.com/sagerenn/spelld/internal/wordlist"
)

type Provider struct {
	userdict.Broadcaster
	db *sql.DB
}

var _ userdict.Provider = (*Provider)(nil)

// Open opens (creating if needed) the database at path.
func Open(path string) (*Provider, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &Provider{db: db}, nil
}

func createTables(db *sql.DB) error {
	wordsTable := `
	CREATE TABLE IF NOT EXISTS learned_words (
		lang TEXT NOT NULL,
		word TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (lang, word)
	);`
	if _, err := db.Exec(wordsTable); err != nil {
		return fmt.Errorf("failed to create learned_words table: %w", err)
	}
	return nil
}

func (p *Provider) Close() error {
	return p.db.Close()
}

func (p *Provider) Load(ctx context.Context) (userdict.Dictionary, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT lang, word FROM learned_words ORDER BY lang, word`)
	if err != nil {
		return nil, fmt.Errorf("query learned words: %w", err)
	}
	defer rows.Close()
	d := userdict.Dictionary{}
	for rows.Next() {
		var lang, word string
		if err := rows.Scan(&lang, &word); err != nil {
			return nil, fmt.Errorf("scan learned word: %w", err)
		}
		d[lang] = append(d[lang], word)
	}
	return d, rows.Err()
}

func (p *Provider) Add(ctx context.Context, lang, word string) error {
	word = wordlist.Normalize(word)
	if word == "" {
		return nil
	}
	if _, err := p.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO learned_words (lang, word) VALUES (?, ?)`, lang, word); err != nil {
		return fmt.Errorf("insert learned word: %w", err)
	}
	return p.Refresh(ctx)
}

func (p *Provider) Remove(ctx context.Context, lang, word string) error {
	word = wordlist.Normalize(word)
	if _, err := p.db.ExecContext(ctx,
		`DELETE FROM learned_words WHERE lang = ? AND word = ?`, lang, word); err != nil {
		return fmt.Errorf("delete learned word: %w", err)
	}
	return p.Refresh(ctx)
}

// Refresh publishes the current table contents to subscribers. Call it to
// pick up rows written by another process.
func (p *Provider) Refresh(ctx context.Context) error {
	d, err := p.Load(ctx)
	if err != nil {
		return err
	}
	p.Publish(d)
	return nil
}
