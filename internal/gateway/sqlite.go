package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lepinkainen/bookshelf/internal/book"
	errs "github.com/lepinkainen/bookshelf/internal/errors"

	_ "modernc.org/sqlite"
)

// BooksSchema is the table backing SQLiteGateway. Row order (rowid) is the catalog order.
const BooksSchema = `
CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY NOT NULL,
	catalog_number TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	isbn TEXT NOT NULL,
	publication_date TEXT NOT NULL,
	genre TEXT NOT NULL,
	pages INTEGER NOT NULL,
	rating REAL NOT NULL,
	is_available INTEGER NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	publisher TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT ''
);
`

const bookColumns = `id, catalog_number, title, author, isbn, publication_date, genre,
	pages, rating, is_available, description, publisher, language, location`

// SQLiteGateway stores the catalog in a local SQLite database
type SQLiteGateway struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteGateway creates a new SQLiteGateway instance
func NewSQLiteGateway(dbPath string) *SQLiteGateway {
	return &SQLiteGateway{
		dbPath: dbPath,
	}
}

// Connect opens the database and makes sure the books table exists
func (s *SQLiteGateway) Connect() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(BooksSchema); err != nil {
		closeErr := db.Close()
		return errors.Join(fmt.Errorf("failed to create books table: %w", err), closeErr)
	}
	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLiteGateway) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Count returns the number of stored books.
func (s *SQLiteGateway) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM books").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return n, nil
}

// Seed inserts books in a single transaction. Used to populate an empty database.
func (s *SQLiteGateway) Seed(ctx context.Context, books []book.Book) error {
	if len(books) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback if we don't commit - ignore errors as they're expected if transaction was committed
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, insertQuery())
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range books {
		if _, err := stmt.ExecContext(ctx, bookArgs(b)...); err != nil {
			return fmt.Errorf("failed to insert book %d: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FetchAll returns every stored book in insertion order.
func (s *SQLiteGateway) FetchAll(ctx context.Context) ([]book.Book, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+bookColumns+" FROM books ORDER BY rowid")
	if err != nil {
		return nil, errs.NewTransportError(errs.OpFetchAll, err)
	}
	defer func() { _ = rows.Close() }()

	books := []book.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, errs.NewTransportError(errs.OpFetchAll, err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewTransportError(errs.OpFetchAll, err)
	}
	return books, nil
}

// Create inserts b. A duplicate id is reported as a failure.
func (s *SQLiteGateway) Create(ctx context.Context, b book.Book) (book.Book, error) {
	if _, err := s.db.ExecContext(ctx, insertQuery(), bookArgs(b)...); err != nil {
		return book.Book{}, errs.NewTransportError(errs.OpCreate, err)
	}
	return b, nil
}

// Replace updates the row with b's id in place so its position is kept.
func (s *SQLiteGateway) Replace(ctx context.Context, b book.Book) (book.Book, error) {
	args := append(bookArgs(b)[1:], b.ID)
	res, err := s.db.ExecContext(ctx, `UPDATE books SET
		catalog_number = ?, title = ?, author = ?, isbn = ?, publication_date = ?, genre = ?,
		pages = ?, rating = ?, is_available = ?, description = ?, publisher = ?, language = ?, location = ?
		WHERE id = ?`, args...)
	if err != nil {
		return book.Book{}, errs.NewTransportError(errs.OpReplace, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return book.Book{}, errs.NewTransportError(errs.OpReplace, err)
	}
	if affected == 0 {
		return book.Book{}, errs.NewTransportError(errs.OpReplace, fmt.Errorf("book %d not found", b.ID))
	}
	return b, nil
}

// Remove deletes the row with id. Removing a missing id is not an error.
func (s *SQLiteGateway) Remove(ctx context.Context, id int) (int, error) {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM books WHERE id = ?", id); err != nil {
		return 0, errs.NewTransportError(errs.OpRemove, err)
	}
	return id, nil
}

func insertQuery() string {
	return "INSERT INTO books (" + bookColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
}

func bookArgs(b book.Book) []any {
	available := 0
	if b.IsAvailable {
		available = 1
	}
	return []any{
		b.ID, b.CatalogNumber, b.Title, b.Author, b.ISBN, b.PublicationDate.String(), b.Genre,
		b.Pages, b.Rating, available, b.Description, b.Publisher, b.Language, b.Location,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (book.Book, error) {
	var (
		b         book.Book
		published string
		available int
	)
	err := row.Scan(&b.ID, &b.CatalogNumber, &b.Title, &b.Author, &b.ISBN, &published, &b.Genre,
		&b.Pages, &b.Rating, &available, &b.Description, &b.Publisher, &b.Language, &b.Location)
	if err != nil {
		return book.Book{}, fmt.Errorf("failed to scan book: %w", err)
	}
	if published != "" {
		date, err := book.ParseDate(published)
		if err != nil {
			return book.Book{}, err
		}
		b.PublicationDate = date
	}
	b.IsAvailable = available != 0
	return b, nil
}
