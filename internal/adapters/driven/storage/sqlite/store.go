package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // compiled-in SQLite driver

	"github.com/xuie0000/wordbook/internal/core/domain"
	"github.com/xuie0000/wordbook/internal/core/ports/driven"
	"github.com/xuie0000/wordbook/internal/logger"
)

// queryTimeout bounds every storage operation so that lock contention on
// the database file cannot stall callers indefinitely.
const queryTimeout = 3 * time.Second

// maxOpenConns keeps the connection pool small; the wordbook is a single
// table with light traffic.
const maxOpenConns = 4

const createTableSQL = `
CREATE TABLE IF NOT EXISTS wordbook (
	"_id"       INTEGER PRIMARY KEY,
	word        TEXT COLLATE NOCASE NOT NULL,
	source_lang TEXT NOT NULL,
	target_lang TEXT NOT NULL,
	phonetic    TEXT,
	explanation TEXT,
	tags        TEXT,
	created_at  TIMESTAMP NOT NULL
)`

const createIndexSQL = `
CREATE UNIQUE INDEX IF NOT EXISTS wordbook_unique_index
	ON wordbook (word, source_lang, target_lang)`

// Ensure Store implements the interface.
var _ driven.WordStore = (*Store)(nil)

// Store is the SQLite-backed word store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens the wordbook database at dbPath through the driver named
// by handle. The parent directory is created if absent.
func NewStore(handle driven.DriverHandle, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open(handle.Name, dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CreateSchema creates the wordbook table and its unique index if they do
// not already exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("%w: creating wordbook table: %w", domain.ErrStorage, err)
	}
	if _, err := s.db.ExecContext(ctx, createIndexSQL); err != nil {
		return fmt.Errorf("%w: creating unique index: %w", domain.ErrStorage, err)
	}
	return nil
}

// Insert adds a new entry and returns its generated identity. The identity
// is assigned onto the entry; CreatedAt is fixed now if unset. Uniqueness
// violations surface as domain.ErrAlreadyExists.
func (s *Store) Insert(ctx context.Context, entry *domain.WordEntry) (int64, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO wordbook (word, source_lang, target_lang, phonetic, explanation, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, strings.TrimSpace(entry.Word), string(entry.SourceLang), string(entry.TargetLang),
		nullString(entry.Phonetic), nullString(entry.Explanation),
		nullString(entry.JoinedTags()), entry.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %q (%s -> %s)", domain.ErrAlreadyExists,
				entry.Word, entry.SourceLang, entry.TargetLang)
		}
		return 0, fmt.Errorf("%w: inserting word: %w", domain.ErrStorage, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: reading generated id: %w", domain.ErrStorage, err)
	}
	entry.ID = id
	return id, nil
}

// Update rewrites phonetic, explanation and tags for the row matching the
// entry's identity. Returns whether a row was affected.
func (s *Store) Update(ctx context.Context, entry *domain.WordEntry) (bool, error) {
	if !entry.Persisted() {
		return false, domain.ErrMissingID
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE wordbook SET phonetic = ?, explanation = ?, tags = ? WHERE "_id" = ?
	`, nullString(entry.Phonetic), nullString(entry.Explanation),
		nullString(entry.JoinedTags()), entry.ID)
	if err != nil {
		return false, fmt.Errorf("%w: updating word %d: %w", domain.ErrStorage, entry.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: reading affected rows: %w", domain.ErrStorage, err)
	}
	return affected > 0, nil
}

// Remove deletes the row with the given identity, if any.
func (s *Store) Remove(ctx context.Context, id int64) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM wordbook WHERE "_id" = ?`, id); err != nil {
		return fmt.Errorf("%w: removing word %d: %w", domain.ErrStorage, id, err)
	}
	return nil
}

// RemoveAll deletes every row whose identity is in ids.
func (s *Store) RemoveAll(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`DELETE FROM wordbook WHERE "_id" IN (%s)`, placeholders)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: removing %d words: %w", domain.ErrStorage, len(ids), err)
	}
	return nil
}

// FindID returns the identity of the row matching word (case-insensitive,
// via the NOCASE collation) and the language pair. The word is trimmed
// first; a blank word returns not-found without touching storage. Storage
// errors are logged and degrade to not-found.
func (s *Store) FindID(ctx context.Context, word string, src, dst domain.Lang) (int64, bool) {
	word = strings.TrimSpace(word)
	if word == "" {
		return 0, false
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT "_id" FROM wordbook WHERE word = ? AND source_lang = ? AND target_lang = ?
	`, word, string(src), string(dst)).Scan(&id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Warn("wordbook: looking up %q: %v", word, err)
		}
		return 0, false
	}
	return id, true
}

// List returns all entries ordered by creation time, newest first.
// Storage errors are logged and degrade to an empty result.
func (s *Store) List(ctx context.Context) []*domain.WordEntry {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT "_id", word, source_lang, target_lang, phonetic, explanation, tags, created_at
		FROM wordbook ORDER BY created_at DESC, "_id" DESC
	`)
	if err != nil {
		logger.Warn("wordbook: listing words: %v", err)
		return nil
	}
	defer rows.Close()

	var entries []*domain.WordEntry
	for rows.Next() {
		entry, err := scanWord(rows)
		if err != nil {
			logger.Warn("wordbook: scanning word: %v", err)
			return nil
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		logger.Warn("wordbook: iterating words: %v", err)
		return nil
	}
	return entries
}

// HasAny reports whether the store contains at least one entry.
// Errors degrade to false.
func (s *Store) HasAny(ctx context.Context) bool {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wordbook`).Scan(&count)
	if err != nil {
		logger.Warn("wordbook: counting words: %v", err)
		return false
	}
	return count > 0
}

// opCtx bounds a storage operation with the fixed query timeout.
func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// scanWord scans one wordbook row.
func scanWord(rows *sql.Rows) (*domain.WordEntry, error) {
	var (
		entry                       domain.WordEntry
		srcLang, dstLang            string
		phonetic, explanation, tags sql.NullString
	)
	if err := rows.Scan(&entry.ID, &entry.Word, &srcLang, &dstLang,
		&phonetic, &explanation, &tags, &entry.CreatedAt); err != nil {
		return nil, err
	}
	entry.SourceLang = domain.Lang(srcLang)
	entry.TargetLang = domain.Lang(dstLang)
	entry.Phonetic = phonetic.String
	entry.Explanation = explanation.String
	entry.Tags = domain.SplitTags(tags.String)
	return &entry, nil
}

// nullString stores the empty string as SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isUniqueViolation reports whether err is a uniqueness-constraint failure.
// Matching on the error text keeps this portable across SQLite drivers,
// which do not share typed constraint errors.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "constraint failed")
}
