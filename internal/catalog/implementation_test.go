// internal/catalog/implementation_test.go
package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarium/internal/fault"
	"librarium/internal/store"
)

// brokenStore fails selected operations on top of a working MemoryStore.
type brokenStore struct {
	store.Store
	failLookup bool
	failInsert bool
}

func (b *brokenStore) FindBookByISBN(ctx context.Context, isbn string) (*store.Book, error) {
	if b.failLookup {
		return nil, errors.New("connection reset")
	}
	return b.Store.FindBookByISBN(ctx, isbn)
}

func (b *brokenStore) InsertBook(ctx context.Context, book *store.Book) error {
	if b.failInsert {
		return errors.New("connection reset")
	}
	return b.Store.InsertBook(ctx, book)
}

func TestAddBookValidation(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	ctx := context.Background()

	tests := []struct {
		name        string
		title       string
		author      string
		isbn        string
		totalCopies int
		wantMsg     string
	}{
		{"empty title", "", "Author", "1234567890123", 1, "Title is required."},
		{"blank title", "   ", "Author", "1234567890123", 1, "Title is required."},
		{"title too long", strings.Repeat("x", 201), "Author", "1234567890123", 1, "Title must be less than 200 characters."},
		{"multibyte title too long", strings.Repeat("图", 201), "Author", "1234567890123", 1, "Title must be less than 200 characters."},
		{"empty author", "Title", "", "1234567890123", 1, "Author is required."},
		{"blank author", "Title", "  ", "1234567890123", 1, "Author is required."},
		{"author too long", "Title", strings.Repeat("x", 101), "1234567890123", 1, "Author must be less than 100 characters."},
		{"multibyte author too long", "Title", strings.Repeat("図", 101), "1234567890123", 1, "Author must be less than 100 characters."},
		{"isbn too short", "Title", "Author", "123456789012", 1, "ISBN must be exactly 13 digits."},
		{"isbn too long", "Title", "Author", "12345678901234", 1, "ISBN must be exactly 13 digits."},
		{"isbn with letters", "Title", "Author", "12345678901ab", 1, "ISBN must be exactly 13 digits."},
		{"zero copies", "Title", "Author", "1234567890123", 0, "Total copies must be a positive integer."},
		{"negative copies", "Title", "Author", "1234567890123", -2, "Total copies must be a positive integer."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddBook(ctx, tc.title, tc.author, tc.isbn, tc.totalCopies)
			require.EqualError(t, err, tc.wantMsg)
			assert.Equal(t, fault.CodeValidation, fault.CodeOf(err))
		})
	}
}

func TestAddBookValidationOrder(t *testing.T) {
	// First failing rule wins: an empty title masks a broken ISBN.
	svc := NewService(store.NewMemoryStore())

	_, err := svc.AddBook(context.Background(), "", "Author", "bad", 0)
	require.EqualError(t, err, "Title is required.")
}

func TestAddBookSuccess(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	svc := NewService(mem)

	msg, err := svc.AddBook(ctx, "  The Pragmatic Programmer  ", " Hunt ", "9780201616224", 3)
	require.NoError(t, err)
	assert.Equal(t, `Book "The Pragmatic Programmer" has been successfully added to the catalog.`, msg)

	book, err := mem.FindBookByISBN(ctx, "9780201616224")
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, "The Pragmatic Programmer", book.Title, "title is stored trimmed")
	assert.Equal(t, "Hunt", book.Author, "author is stored trimmed")
	assert.Equal(t, 3, book.TotalCopies)
	assert.Equal(t, 3, book.AvailableCopies, "all copies start available")
}

func TestAddBookLengthLimitsCountCharacters(t *testing.T) {
	// Limits are per character, not per byte: 150 CJK characters are
	// 450 bytes of UTF-8 but well under the 200-character limit.
	ctx := context.Background()
	svc := NewService(store.NewMemoryStore())

	msg, err := svc.AddBook(ctx, strings.Repeat("图", 150), "Author", "1234567890123", 1)
	require.NoError(t, err)
	assert.Contains(t, msg, "has been successfully added to the catalog.")

	msg, err = svc.AddBook(ctx, "Title", strings.Repeat("図", 100), "9780000000001", 1)
	require.NoError(t, err)
	assert.Contains(t, msg, "has been successfully added to the catalog.")
}

func TestAddBookDuplicateISBN(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryStore())

	_, err := svc.AddBook(ctx, "First", "Author", "9780201616224", 1)
	require.NoError(t, err)

	_, err = svc.AddBook(ctx, "Second", "Author", "9780201616224", 1)
	require.EqualError(t, err, "A book with this ISBN already exists.")
	assert.Equal(t, fault.CodeConflict, fault.CodeOf(err))
}

func TestAddBookPersistenceFailures(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name  string
		store *brokenStore
	}{
		{"lookup fails", &brokenStore{Store: store.NewMemoryStore(), failLookup: true}},
		{"insert fails", &brokenStore{Store: store.NewMemoryStore(), failInsert: true}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(tc.store)
			_, err := svc.AddBook(ctx, "Title", "Author", "1234567890123", 1)
			require.EqualError(t, err, "Database error occurred while adding the book.")
			assert.Equal(t, fault.CodePersistence, fault.CodeOf(err))
		})
	}
}

func TestGetBook(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	svc := NewService(mem)

	_, err := svc.AddBook(ctx, "Title", "Author", "1234567890123", 1)
	require.NoError(t, err)

	book, err := svc.GetBook(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Title", book.Title)

	_, err = svc.GetBook(ctx, 42)
	require.EqualError(t, err, "Book not found.")
	assert.Equal(t, fault.CodeNotFound, fault.CodeOf(err))
}

func TestSearchBooksNormalizesType(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryStore())

	_, err := svc.AddBook(ctx, "Clean Code", "Robert Martin", "9780132350884", 1)
	require.NoError(t, err)

	books, err := svc.SearchBooks(ctx, "CLEAN", "not-a-field")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Clean Code", books[0].Title)

	books, err = svc.SearchBooks(ctx, "martin", "author")
	require.NoError(t, err)
	assert.Len(t, books, 1)
}
