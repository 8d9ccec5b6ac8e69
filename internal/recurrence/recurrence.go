// Package recurrence expands a recurring base transaction into its monthly
// occurrences.
package recurrence

import (
	"time"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/model"
)

// Months is the number of occurrences generated after the base.
const Months = 24

// Expand returns the Months occurrences that follow base, one per calendar
// month. Each copy gets a fresh id from ids and keeps every other field of
// base. The day of month is taken from base on every step and clamped to the
// length of the target month, so a series starting on the 31st returns to
// the 31st whenever the month allows it.
func Expand(base model.Transaction, ids id.Generator) []model.Transaction {
	out := make([]model.Transaction, 0, Months)
	day := base.Date.Day()
	for i := 1; i <= Months; i++ {
		occ := base
		occ.ID = ids.New()
		occ.Date = AddMonths(base.Date, i, day)
		out = append(out, occ)
	}
	return out
}

// Series returns base followed by its expansion.
func Series(base model.Transaction, ids id.Generator) []model.Transaction {
	return append([]model.Transaction{base}, Expand(base, ids)...)
}

// AddMonths moves d forward n calendar months and sets the day to day,
// clamped to the last day of the resulting month.
func AddMonths(d model.Date, n, day int) model.Date {
	total := int(d.Month()) - 1 + n
	year := d.Year() + total/12
	month := time.Month(total%12 + 1)
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return model.NewDate(year, month, day)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
