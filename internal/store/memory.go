// internal/store/memory.go
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps the record store in process memory. It backs the
// test suites and driverless local runs; semantics match PostgresStore.
type MemoryStore struct {
	mu           sync.Mutex
	books        map[int64]*Book
	records      []*BorrowRecord
	nextBookID   int64
	nextRecordID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		books:        make(map[int64]*Book),
		nextBookID:   1,
		nextRecordID: 1,
	}
}

func (m *MemoryStore) FindBook(_ context.Context, id int64) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (m *MemoryStore) FindBookByISBN(_ context.Context, isbn string) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.books {
		if b.ISBN == isbn {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) InsertBook(_ context.Context, book *Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	book.ID = m.nextBookID
	m.nextBookID++
	copied := *book
	m.books[book.ID] = &copied
	return nil
}

func (m *MemoryStore) AdjustBookAvailability(_ context.Context, id int64, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[id]
	if !ok {
		return ErrBookNotFound
	}

	next := b.AvailableCopies + delta
	if next < 0 {
		return ErrNoAvailability
	}
	if next > b.TotalCopies {
		next = b.TotalCopies
	}
	b.AvailableCopies = next
	return nil
}

func (m *MemoryStore) SearchBooks(_ context.Context, term, field string) ([]Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(term)
	var out []Book
	for _, b := range m.books {
		var haystack string
		switch NormalizeSearchField(field) {
		case SearchByAuthor:
			haystack = b.Author
		case SearchByISBN:
			haystack = b.ISBN
		default:
			haystack = b.Title
		}
		if strings.Contains(strings.ToLower(haystack), needle) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) InsertBorrowRecord(_ context.Context, patronID string, bookID int64, borrowDate, dueDate time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, &BorrowRecord{
		ID:         m.nextRecordID,
		PatronID:   patronID,
		BookID:     bookID,
		BorrowDate: borrowDate,
		DueDate:    dueDate,
	})
	m.nextRecordID++
	return nil
}

func (m *MemoryStore) CloseBorrowRecord(_ context.Context, patronID string, bookID int64, returnDate time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec := m.latestOpenRecord(patronID, bookID); rec != nil {
		closed := returnDate
		rec.ReturnDate = &closed
		return nil
	}
	return ErrNoActiveLoan
}

func (m *MemoryStore) ActiveBorrowCount(_ context.Context, patronID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, rec := range m.records {
		if rec.PatronID == patronID && rec.Active() {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) ActiveBorrowDueDate(_ context.Context, patronID string, bookID int64) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec := m.latestOpenRecord(patronID, bookID); rec != nil {
		due := rec.DueDate
		return &due, nil
	}
	return nil, nil
}

func (m *MemoryStore) ActiveLoans(_ context.Context, patronID string) ([]ActiveLoan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []ActiveLoan
	for _, rec := range m.sortedRecords(patronID) {
		if !rec.Active() {
			continue
		}
		loan := ActiveLoan{
			BookID:     rec.BookID,
			BorrowDate: rec.BorrowDate,
			DueDate:    rec.DueDate,
		}
		if b, ok := m.books[rec.BookID]; ok {
			loan.Title = b.Title
			loan.Author = b.Author
		}
		out = append(out, loan)
	}
	return out, nil
}

func (m *MemoryStore) History(_ context.Context, patronID string) ([]BorrowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []BorrowRecord
	for _, rec := range m.sortedRecords(patronID) {
		out = append(out, *rec)
	}
	return out, nil
}

// Seed loads the demo catalog: three classics, one of them fully lent
// out to patron 123456 so the borrow rejection path is visible locally.
func (m *MemoryStore) Seed(ctx context.Context) error {
	samples := []Book{
		{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: "9780743273565", TotalCopies: 3, AvailableCopies: 3},
		{Title: "To Kill a Mockingbird", Author: "Harper Lee", ISBN: "9780061120084", TotalCopies: 2, AvailableCopies: 2},
		{Title: "1984", Author: "George Orwell", ISBN: "9780451524935", TotalCopies: 1, AvailableCopies: 1},
	}
	for i := range samples {
		if err := m.InsertBook(ctx, &samples[i]); err != nil {
			return err
		}
	}

	now := time.Now()
	lentOut := samples[2]
	if err := m.InsertBorrowRecord(ctx, "123456", lentOut.ID, now.AddDate(0, 0, -5), now.AddDate(0, 0, 9)); err != nil {
		return err
	}
	return m.AdjustBookAvailability(ctx, lentOut.ID, -1)
}

// latestOpenRecord assumes the caller holds the lock.
func (m *MemoryStore) latestOpenRecord(patronID string, bookID int64) *BorrowRecord {
	for i := len(m.records) - 1; i >= 0; i-- {
		rec := m.records[i]
		if rec.PatronID == patronID && rec.BookID == bookID && rec.Active() {
			return rec
		}
	}
	return nil
}

// sortedRecords assumes the caller holds the lock.
func (m *MemoryStore) sortedRecords(patronID string) []*BorrowRecord {
	var out []*BorrowRecord
	for _, rec := range m.records {
		if rec.PatronID == patronID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BorrowDate.Before(out[j].BorrowDate) })
	return out
}
