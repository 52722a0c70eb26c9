// internal/store/domain.go
package store

import "time"

// Book is a catalog entry with its copy counts.
// AvailableCopies stays within [0, TotalCopies]; only borrow/return
// operations move it, one copy at a time.
type Book struct {
	ID              int64  `db:"id" json:"id"`
	Title           string `db:"title" json:"title"`
	Author          string `db:"author" json:"author"`
	ISBN            string `db:"isbn" json:"isbn"`
	TotalCopies     int    `db:"total_copies" json:"total_copies"`
	AvailableCopies int    `db:"available_copies" json:"available_copies"`
}

// BorrowRecord is one loan of one book copy to a patron.
// The record is active while ReturnDate is nil.
type BorrowRecord struct {
	ID         int64      `db:"id" json:"id"`
	PatronID   string     `db:"patron_id" json:"patron_id"`
	BookID     int64      `db:"book_id" json:"book_id"`
	BorrowDate time.Time  `db:"borrow_date" json:"borrow_date"`
	DueDate    time.Time  `db:"due_date" json:"due_date"`
	ReturnDate *time.Time `db:"return_date" json:"return_date,omitempty"`
}

// Active reports whether the loan is still open.
func (r BorrowRecord) Active() bool { return r.ReturnDate == nil }

// ActiveLoan is the borrow record joined with its book, as shown on a
// patron's status report. IsOverdue is filled in by the reporting layer.
type ActiveLoan struct {
	BookID     int64     `db:"book_id" json:"book_id"`
	Title      string    `db:"title" json:"title"`
	Author     string    `db:"author" json:"author"`
	BorrowDate time.Time `db:"borrow_date" json:"borrow_date"`
	DueDate    time.Time `db:"due_date" json:"due_date"`
	IsOverdue  bool      `db:"-" json:"is_overdue"`
}
