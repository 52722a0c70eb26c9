// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const dialectPostgres = "postgres"

const (
	tableBooks         = "books"
	tableBorrowRecords = "borrow_records"
)

// PostgresStore persists books and borrow records in Postgres.
// SQL is built with goqu and executed through sqlx.
type PostgresStore struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{
		db:     db,
		tracer: otel.Tracer("librarium/store"),
	}
}

// EnsureSchema creates the two tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			isbn TEXT UNIQUE NOT NULL,
			total_copies INTEGER NOT NULL,
			available_copies INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS borrow_records (
			id BIGSERIAL PRIMARY KEY,
			patron_id TEXT NOT NULL,
			book_id BIGINT NOT NULL REFERENCES books (id),
			borrow_date TIMESTAMPTZ NOT NULL,
			due_date TIMESTAMPTZ NOT NULL,
			return_date TIMESTAMPTZ
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) FindBook(ctx context.Context, id int64) (*Book, error) {
	ctx, span := s.tracer.Start(ctx, "store.find_book",
		trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	query, args, err := goqu.Dialect(dialectPostgres).
		From(tableBooks).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build find book query: %w", err)
	}

	var book Book
	if err := s.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return &book, nil
}

func (s *PostgresStore) FindBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	ctx, span := s.tracer.Start(ctx, "store.find_book_by_isbn")
	defer span.End()

	query, args, err := goqu.Dialect(dialectPostgres).
		From(tableBooks).
		Where(goqu.C("isbn").Eq(isbn)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build find book by isbn query: %w", err)
	}

	var book Book
	if err := s.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find book by isbn: %w", err)
	}
	return &book, nil
}

func (s *PostgresStore) InsertBook(ctx context.Context, book *Book) error {
	ctx, span := s.tracer.Start(ctx, "store.insert_book")
	defer span.End()

	query, args, err := goqu.Dialect(dialectPostgres).
		Insert(tableBooks).
		Rows(goqu.Record{
			"title":            book.Title,
			"author":           book.Author,
			"isbn":             book.ISBN,
			"total_copies":     book.TotalCopies,
			"available_copies": book.AvailableCopies,
		}).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert book query: %w", err)
	}

	if err := s.db.GetContext(ctx, &book.ID, query, args...); err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (s *PostgresStore) AdjustBookAvailability(ctx context.Context, id int64, delta int) error {
	ctx, span := s.tracer.Start(ctx, "store.adjust_book_availability",
		trace.WithAttributes(attribute.Int64("book.id", id), attribute.Int("delta", delta)))
	defer span.End()

	// Single conditional update: clamp increments at total_copies,
	// refuse decrements below zero.
	query, args, err := goqu.Dialect(dialectPostgres).
		Update(tableBooks).
		Set(goqu.Record{
			"available_copies": goqu.L("LEAST(available_copies + ?, total_copies)", delta),
		}).
		Where(
			goqu.C("id").Eq(id),
			goqu.L("available_copies + ? >= 0", delta),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build adjust availability query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("adjust availability: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust availability rows affected: %w", err)
	}
	if affected == 0 {
		book, err := s.FindBook(ctx, id)
		if err != nil {
			return err
		}
		if book == nil {
			return ErrBookNotFound
		}
		return ErrNoAvailability
	}
	return nil
}

func (s *PostgresStore) SearchBooks(ctx context.Context, term, field string) ([]Book, error) {
	ctx, span := s.tracer.Start(ctx, "store.search_books",
		trace.WithAttributes(attribute.String("search.field", NormalizeSearchField(field))))
	defer span.End()

	column := NormalizeSearchField(field)
	pattern := "%" + term + "%"

	query, args, err := goqu.Dialect(dialectPostgres).
		From(tableBooks).
		Where(goqu.L("LOWER("+column+") LIKE LOWER(?)", pattern)).
		Order(goqu.C("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	var books []Book
	if err := s.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}

func (s *PostgresStore) InsertBorrowRecord(ctx context.Context, patronID string, bookID int64, borrowDate, dueDate time.Time) error {
	ctx, span := s.tracer.Start(ctx, "store.insert_borrow_record",
		trace.WithAttributes(attribute.Int64("book.id", bookID)))
	defer span.End()

	query, args, err := goqu.Dialect(dialectPostgres).
		Insert(tableBorrowRecords).
		Rows(goqu.Record{
			"patron_id":   patronID,
			"book_id":     bookID,
			"borrow_date": borrowDate,
			"due_date":    dueDate,
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert borrow record query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert borrow record: %w", err)
	}
	return nil
}

func (s *PostgresStore) CloseBorrowRecord(ctx context.Context, patronID string, bookID int64, returnDate time.Time) error {
	ctx, span := s.tracer.Start(ctx, "store.close_borrow_record",
		trace.WithAttributes(attribute.Int64("book.id", bookID)))
	defer span.End()

	latestOpen := goqu.Dialect(dialectPostgres).
		From(tableBorrowRecords).
		Select("id").
		Where(
			goqu.C("patron_id").Eq(patronID),
			goqu.C("book_id").Eq(bookID),
			goqu.C("return_date").IsNull(),
		).
		Order(goqu.C("id").Desc()).
		Limit(1)

	query, args, err := goqu.Dialect(dialectPostgres).
		Update(tableBorrowRecords).
		Set(goqu.Record{"return_date": returnDate}).
		Where(goqu.C("id").Eq(latestOpen)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build close borrow record query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("close borrow record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("close borrow record rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNoActiveLoan
	}
	return nil
}

func (s *PostgresStore) ActiveBorrowCount(ctx context.Context, patronID string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "store.active_borrow_count")
	defer span.End()

	query, args, err := goqu.Dialect(dialectPostgres).
		From(tableBorrowRecords).
		Select(goqu.COUNT("*")).
		Where(
			goqu.C("patron_id").Eq(patronID),
			goqu.C("return_date").IsNull(),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build active borrow count query: %w", err)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("active borrow count: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) ActiveBorrowDueDate(ctx context.Context, patronID string, bookID int64) (*time.Time, error) {
	ctx, span := s.tracer.Start(ctx, "store.active_borrow_due_date",
		trace.WithAttributes(attribute.Int64("book.id", bookID)))
	defer span.End()

	query, args, err := goqu.Dialect(dialectPostgres).
		From(tableBorrowRecords).
		Select("due_date").
		Where(
			goqu.C("patron_id").Eq(patronID),
			goqu.C("book_id").Eq(bookID),
			goqu.C("return_date").IsNull(),
		).
		Order(goqu.C("id").Desc()).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build active due date query: %w", err)
	}

	var due time.Time
	if err := s.db.GetContext(ctx, &due, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("active due date: %w", err)
	}
	return &due, nil
}

func (s *PostgresStore) ActiveLoans(ctx context.Context, patronID string) ([]ActiveLoan, error) {
	ctx, span := s.tracer.Start(ctx, "store.active_loans")
	defer span.End()

	query, args, err := goqu.Dialect(dialectPostgres).
		From(goqu.T(tableBorrowRecords).As("br")).
		Join(goqu.T(tableBooks).As("b"), goqu.On(goqu.Ex{"br.book_id": goqu.I("b.id")})).
		Select(
			goqu.I("br.book_id").As("book_id"),
			goqu.I("b.title").As("title"),
			goqu.I("b.author").As("author"),
			goqu.I("br.borrow_date").As("borrow_date"),
			goqu.I("br.due_date").As("due_date"),
		).
		Where(
			goqu.I("br.patron_id").Eq(patronID),
			goqu.I("br.return_date").IsNull(),
		).
		Order(goqu.I("br.borrow_date").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build active loans query: %w", err)
	}

	var loans []ActiveLoan
	if err := s.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, fmt.Errorf("active loans: %w", err)
	}
	return loans, nil
}

func (s *PostgresStore) History(ctx context.Context, patronID string) ([]BorrowRecord, error) {
	ctx, span := s.tracer.Start(ctx, "store.history")
	defer span.End()

	query, args, err := goqu.Dialect(dialectPostgres).
		From(tableBorrowRecords).
		Where(goqu.C("patron_id").Eq(patronID)).
		Order(goqu.C("borrow_date").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	var records []BorrowRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return records, nil
}
