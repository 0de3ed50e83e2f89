package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const defaultListLimit = 50

// sqliteTimeFormat is the layout used for created_at; it is one of the
// layouts the sqlite3 driver parses back for DATETIME columns.
const sqliteTimeFormat = "2006-01-02 15:04:05"

// Store defines the interface for catalog data operations.
type Store interface {
	AddText(ctx context.Context, text *Text) error
	GetText(ctx context.Context, id int64) (*Text, error)
	ListTexts(ctx context.Context, query ListQuery) ([]Text, error)
	DeleteText(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]Category, error)
	EnsureCategories(ctx context.Context, names []string) error
	ListTags(ctx context.Context) ([]Tag, error)
	GetStats(ctx context.Context) (*Stats, error)
	PurgeAll(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	getText    *sql.Stmt
	getTags    *sql.Stmt
	deleteText *sql.Stmt
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getText, err = s.db.Prepare(`
		SELECT t.id, t.title, c.name, t.body, t.created_at
		FROM texts t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = ?
	`)
	if err != nil {
		return err
	}

	s.getTags, err = s.db.Prepare(`
		SELECT g.name
		FROM text_tags tt
		JOIN tags g ON g.id = tt.tag_id
		WHERE tt.text_id = ?
		ORDER BY tt.position
	`)
	if err != nil {
		return err
	}

	s.deleteText, err = s.db.Prepare(`DELETE FROM texts WHERE id = ?`)
	if err != nil {
		return err
	}

	return nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		sqliteTimeFormat,
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05.999999999-07:00",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// likePattern escapes LIKE wildcards in s and wraps it for substring matching.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// AddText validates and inserts a text together with its tags in a single
// transaction. Unknown tags are created; an unknown category is a
// validation error. ID and CreatedAt are populated on success.
func (s *SQLiteStore) AddText(ctx context.Context, text *Text) error {
	text.Normalize()
	if err := text.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var categoryID int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM categories WHERE name = ?", text.Category,
	).Scan(&categoryID)
	if errors.Is(err, sql.ErrNoRows) {
		v := &ValidationError{}
		v.Add("category", fmt.Sprintf("unknown category %q", text.Category))
		return v
	}
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}

	createdAt := text.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.UTC().Truncate(time.Second)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO texts (title, body, category_id, byte_size, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		text.Title, text.Body, categoryID, len(text.Body), createdAt.Format(sqliteTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert text: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("text id: %w", err)
	}

	for i, name := range text.Tags {
		tagID, err := upsertTag(ctx, tx, name)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO text_tags (text_id, tag_id, position) VALUES (?, ?, ?)",
			id, tagID, i,
		); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit text: %w", err)
	}

	text.ID = id
	text.CreatedAt = createdAt
	return nil
}

// upsertTag returns the id of the named tag, creating it if needed.
func upsertTag(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO tags (name) VALUES (?)", name); err != nil {
		return 0, fmt.Errorf("insert tag %q: %w", name, err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", name).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup tag %q: %w", name, err)
	}
	return id, nil
}

// GetText retrieves a single text by ID, tags included.
func (s *SQLiteStore) GetText(ctx context.Context, id int64) (*Text, error) {
	var t Text
	var tsStr string

	err := s.getText.QueryRowContext(ctx, id).Scan(&t.ID, &t.Title, &t.Category, &t.Body, &tsStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("text %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get text: %w", err)
	}
	t.CreatedAt, _ = parseTimestamp(tsStr)

	rows, err := s.getTags.QueryContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	defer rows.Close()

	t.Tags = []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		t.Tags = append(t.Tags, name)
	}

	return &t, rows.Err()
}

// ListTexts returns texts matching q, newest first.
func (s *SQLiteStore) ListTexts(ctx context.Context, q ListQuery) ([]Text, error) {
	if q.Limit <= 0 {
		q.Limit = defaultListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	var clauses []string
	var args []interface{}

	baseQuery := `
		SELECT t.id, t.title, c.name, t.body, t.created_at
		FROM texts t
		JOIN categories c ON c.id = t.category_id
	`

	if q.Category != "" {
		clauses = append(clauses, "c.name = ?")
		args = append(args, q.Category)
	}
	if q.Title != "" {
		clauses = append(clauses, "t.title = ?")
		args = append(args, q.Title)
	}
	if q.Tag != "" {
		clauses = append(clauses, `EXISTS (
			SELECT 1 FROM text_tags tt JOIN tags g ON g.id = tt.tag_id
			WHERE tt.text_id = t.id AND g.name = ?
		)`)
		args = append(args, q.Tag)
	}
	if q.Query != "" {
		pattern := likePattern(q.Query)
		clauses = append(clauses, `(t.title LIKE ? ESCAPE '\' OR t.body LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	fullQuery := baseQuery + where + " ORDER BY t.id DESC LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	texts, err := s.scanTexts(ctx, fullQuery, args...)
	if err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, texts); err != nil {
		return nil, err
	}

	return texts, nil
}

// scanTexts executes a query and scans results into a Text slice. Rows are
// fully drained before returning so the connection is free for follow-up
// queries.
func (s *SQLiteStore) scanTexts(ctx context.Context, query string, args ...interface{}) ([]Text, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query texts: %w", err)
	}
	defer rows.Close()

	texts := []Text{}
	for rows.Next() {
		var t Text
		var tsStr string
		if err := rows.Scan(&t.ID, &t.Title, &t.Category, &t.Body, &tsStr); err != nil {
			return nil, fmt.Errorf("scan text: %w", err)
		}
		t.CreatedAt, _ = parseTimestamp(tsStr)
		t.Tags = []string{}
		texts = append(texts, t)
	}

	return texts, rows.Err()
}

// attachTags loads the ordered tag lists for texts in one query.
func (s *SQLiteStore) attachTags(ctx context.Context, texts []Text) error {
	if len(texts) == 0 {
		return nil
	}

	index := make(map[int64]int, len(texts))
	placeholders := make([]string, len(texts))
	args := make([]interface{}, len(texts))
	for i, t := range texts {
		index[t.ID] = i
		placeholders[i] = "?"
		args[i] = t.ID
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tt.text_id, g.name
		FROM text_tags tt
		JOIN tags g ON g.id = tt.tag_id
		WHERE tt.text_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY tt.text_id, tt.position
	`, args...)
	if err != nil {
		return fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var textID int64
		var name string
		if err := rows.Scan(&textID, &name); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if i, ok := index[textID]; ok {
			texts[i].Tags = append(texts[i].Tags, name)
		}
	}

	return rows.Err()
}

// DeleteText removes a text by ID along with its tag links.
func (s *SQLiteStore) DeleteText(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM text_tags WHERE text_id = ?", id); err != nil {
		return fmt.Errorf("delete tag links: %w", err)
	}

	res, err := tx.StmtContext(ctx, s.deleteText).ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete text: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("text %d: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

// ListCategories returns every category with its text count, alphabetically.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.description, COUNT(t.id)
		FROM categories c
		LEFT JOIN texts t ON t.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.TextCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// EnsureCategories inserts any of names not yet in the category set.
func (s *SQLiteStore) EnsureCategories(ctx context.Context, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, insertCategorySQL, name, categoryDescription(name)); err != nil {
			return fmt.Errorf("ensure category %q: %w", name, err)
		}
	}
	return nil
}

// ListTags returns every tag with its text count, alphabetically.
func (s *SQLiteStore) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, COUNT(tt.text_id)
		FROM tags g
		LEFT JOIN text_tags tt ON tt.tag_id = g.id
		GROUP BY g.id
		ORDER BY g.name
	`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.TextCount); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}

	return tags, rows.Err()
}

// PurgeAll deletes all texts and tags. Categories are kept.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmts := []string{
		"DELETE FROM text_tags",
		"DELETE FROM texts",
		"DELETE FROM tags",
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("purge (%s): %w", stmt, err)
		}
	}

	return tx.Commit()
}

// GetStats returns aggregate statistics about the catalog.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(byte_size), 0) FROM texts",
	).Scan(&stats.TotalTexts, &stats.TotalBytes)
	if err != nil {
		return nil, fmt.Errorf("count texts: %w", err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&stats.TotalCategories)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags").Scan(&stats.TotalTags)
	if err != nil {
		return nil, fmt.Errorf("count tags: %w", err)
	}

	// Oldest and newest (handle empty DB)
	if stats.TotalTexts > 0 {
		var oldestStr, newestStr string
		err = s.db.QueryRowContext(ctx, "SELECT MIN(created_at), MAX(created_at) FROM texts").Scan(&oldestStr, &newestStr)
		if err != nil {
			return nil, fmt.Errorf("text time range: %w", err)
		}
		stats.OldestText, _ = parseTimestamp(oldestStr)
		stats.NewestText, _ = parseTimestamp(newestStr)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, COUNT(*) AS cnt
		FROM texts t
		JOIN categories c ON c.id = t.category_id
		GROUP BY c.name
		ORDER BY cnt DESC, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, err
		}
		stats.Categories = append(stats.Categories, cc)
	}

	return stats, rows.Err()
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{s.getText, s.getTags, s.deleteText}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
