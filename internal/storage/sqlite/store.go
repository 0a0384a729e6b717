// internal/storage/sqlite/store.go
// Package sqlite provides a SQLite-backed catalog and user store.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bookmanager/internal/auth"
	"github.com/bookmanager/internal/catalog"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

//go:embed schema.sql
var schema string

// Store persists the catalog and users in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path, creates the schema and seeds an empty
// catalog with the default publishers and books.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.seed(context.Background(), catalog.SeedPublishers(), catalog.SeedBooks()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return store, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) seed(ctx context.Context, publishers []catalog.Publisher, books []catalog.Book) error {
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM publishers`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range publishers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO publishers (id, name, location) VALUES (?, ?, ?)`,
			p.ID, p.Name, p.Location,
		); err != nil {
			return fmt.Errorf("insert publisher %d: %w", p.ID, err)
		}
	}
	for _, b := range books {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO books (id, title, author, year, genre, is_available, audio_book_available, publisher_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.Title, b.Author, b.Year, b.Genre, b.IsAvailable, b.AudioBookAvailable, nullableID(b.PublisherID),
		); err != nil {
			return fmt.Errorf("insert book %d: %w", b.ID, err)
		}
	}
	return tx.Commit()
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

const bookColumns = `b.id, b.title, b.author, b.year, b.genre, b.is_available, b.audio_book_available, b.publisher_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner, extra ...any) (catalog.Book, error) {
	var (
		b           catalog.Book
		publisherID sql.NullInt64
	)
	dest := append([]any{&b.ID, &b.Title, &b.Author, &b.Year, &b.Genre, &b.IsAvailable, &b.AudioBookAvailable, &publisherID}, extra...)
	if err := row.Scan(dest...); err != nil {
		return catalog.Book{}, err
	}
	b.PublisherID = publisherID.Int64
	return b, nil
}

// ListBooks returns books matching filter ordered by id. Availability is
// filtered in SQL; text matching uses catalog.Filter so case folding covers
// non-ASCII letters, which SQLite's lower() does not.
func (s *Store) ListBooks(ctx context.Context, filter catalog.Filter) ([]catalog.Book, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + bookColumns + ` FROM books b`
	var args []any
	if filter.Available != nil {
		query += ` WHERE b.is_available = ?`
		args = append(args, *filter.Available)
	}
	query += ` ORDER BY b.id`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []catalog.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		if filter.Matches(b) {
			books = append(books, b)
		}
	}
	return books, rows.Err()
}

// ListBooksWithPublishers returns every book with its publisher embedded.
func (s *Store) ListBooksWithPublishers(ctx context.Context) ([]catalog.Book, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+bookColumns+`, p.id, p.name, p.location
		 FROM books b LEFT JOIN publishers p ON p.id = b.publisher_id
		 ORDER BY b.id`)
	if err != nil {
		return nil, fmt.Errorf("list books with publishers: %w", err)
	}
	defer rows.Close()

	books := []catalog.Book{}
	for rows.Next() {
		var (
			pID       sql.NullInt64
			pName     sql.NullString
			pLocation sql.NullString
		)
		b, err := scanBook(rows, &pID, &pName, &pLocation)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		if pID.Valid {
			b.Publisher = &catalog.Publisher{ID: pID.Int64, Name: pName.String, Location: pLocation.String}
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// GetBook returns one book by id.
func (s *Store) GetBook(ctx context.Context, id int64) (catalog.Book, error) {
	if err := s.ready(ctx); err != nil {
		return catalog.Book{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books b WHERE b.id = ?`, id)
	b, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Book{}, catalog.ErrNotFound
		}
		return catalog.Book{}, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

func checkPublisher(ctx context.Context, tx *sql.Tx, id int64) error {
	if id == 0 {
		return nil
	}
	var found int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM publishers WHERE id = ?`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.ErrUnknownPublisher
	}
	return err
}

// CreateBook inserts a book and returns it with its new id.
func (s *Store) CreateBook(ctx context.Context, book catalog.Book) (catalog.Book, error) {
	if err := s.ready(ctx); err != nil {
		return catalog.Book{}, err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return catalog.Book{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := checkPublisher(ctx, tx, book.PublisherID); err != nil {
		return catalog.Book{}, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO books (title, author, year, genre, is_available, audio_book_available, publisher_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		book.Title, book.Author, book.Year, book.Genre, book.IsAvailable, book.AudioBookAvailable, nullableID(book.PublisherID),
	)
	if err != nil {
		return catalog.Book{}, fmt.Errorf("create book: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return catalog.Book{}, fmt.Errorf("create book: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return catalog.Book{}, fmt.Errorf("commit: %w", err)
	}
	book.ID = id
	book.Publisher = nil
	return book, nil
}

// UpdateBook overwrites title, author, year, genre and availability. The
// publisher and audiobook flag are left as stored.
func (s *Store) UpdateBook(ctx context.Context, id int64, book catalog.Book) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, year = ?, genre = ?, is_available = ? WHERE id = ?`,
		book.Title, book.Author, book.Year, book.Genre, book.IsAvailable, id,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return requireAffected(res)
}

// SetAvailability flips the availability flag of a book.
func (s *Store) SetAvailability(ctx context.Context, id int64, available bool) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `UPDATE books SET is_available = ? WHERE id = ?`, available, id)
	if err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	return requireAffected(res)
}

// DeleteBook removes a book.
func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// ListPublishers returns all publishers ordered by id.
func (s *Store) ListPublishers(ctx context.Context) ([]catalog.Publisher, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, name, location FROM publishers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list publishers: %w", err)
	}
	defer rows.Close()

	publishers := []catalog.Publisher{}
	for rows.Next() {
		var p catalog.Publisher
		if err := rows.Scan(&p.ID, &p.Name, &p.Location); err != nil {
			return nil, fmt.Errorf("scan publisher: %w", err)
		}
		publishers = append(publishers, p)
	}
	return publishers, rows.Err()
}

// UserByEmail returns the user registered under email.
func (s *Store) UserByEmail(ctx context.Context, email string) (auth.User, error) {
	if err := s.ready(ctx); err != nil {
		return auth.User{}, err
	}
	var (
		u         auth.User
		createdAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`,
		auth.NormalizeEmail(email),
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}

// CreateUser inserts a user; the email must be unused.
func (s *Store) CreateUser(ctx context.Context, user auth.User) (auth.User, error) {
	if err := s.ready(ctx); err != nil {
		return auth.User{}, err
	}
	user.Email = auth.NormalizeEmail(user.Email)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash, toMillis(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.User{}, auth.ErrUserExists
		}
		return auth.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return auth.User{}, fmt.Errorf("create user: %w", err)
	}
	user.ID = id
	return user, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
