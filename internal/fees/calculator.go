// internal/fees/calculator.go
package fees

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clock abstracts time.Now so fee computation stays deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation used outside tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FeeCap is the maximum chargeable late fee per book.
var FeeCap = decimal.NewFromInt(15)

var (
	earlyDailyRate = decimal.NewFromFloat(0.50)
	lateDailyRate  = decimal.NewFromInt(1)
)

// First stretch of overdue days billed at the reduced rate.
const earlyOverdueDays = 7

// Calculator computes late fees from a due date and the current time.
type Calculator struct {
	clock Clock
}

func NewCalculator() *Calculator {
	return &Calculator{clock: SystemClock{}}
}

func NewCalculatorWithClock(clock Clock) *Calculator {
	return &Calculator{clock: clock}
}

// LateFee returns the fee owed on a loan with the given due date:
// the first 7 overdue days at 0.50/day, every later day at 1.00/day,
// rounded to 2 decimals and capped at FeeCap. Not yet due means zero.
func (c *Calculator) LateFee(dueDate time.Time) decimal.Decimal {
	days := OverdueDays(c.clock.Now(), dueDate)
	if days <= 0 {
		return decimal.Zero
	}

	early := decimal.NewFromInt(int64(min(days, earlyOverdueDays)))
	late := decimal.NewFromInt(int64(max(days-earlyOverdueDays, 0)))

	fee := earlyDailyRate.Mul(early).Add(lateDailyRate.Mul(late)).Round(2)
	if fee.GreaterThan(FeeCap) {
		fee = FeeCap
	}
	return fee
}

// OverdueDays counts whole calendar days between the due date and now.
// Negative when the due date is still in the future.
func OverdueDays(now, dueDate time.Time) int {
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dueDay := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(nowDay.Sub(dueDay).Hours() / 24)
}
