// Package csvio reads and writes the monthly CSV report.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/aggregate"
	"github.com/tally-dev/tally/internal/model"
)

// Header is the column header of the transaction table.
const Header = "Date,Name,Type,Amount (USD),Transaction Kind"

const (
	numFields = 5
	bom       = "\ufeff"
	colDate   = 0
	colName   = 1
	colType   = 2
	colAmount = 3
	colKind   = 4
)

// Labeler maps a category key to its display label.
type Labeler interface {
	Label(key string) string
}

// Report is one month's export.
type Report struct {
	Summary      aggregate.Summary
	Transactions []model.Transaction
	Currency     string
	Labels       Labeler
}

// FileName returns the suggested file name for a month's report.
func FileName(year int, month time.Month) string {
	return fmt.Sprintf("Financial-Report-%s-%d.csv", month, year)
}

// FormatAmount renders an amount with two decimals and comma thousands
// grouping, e.g. 1,234.50.
func FormatAmount(d decimal.Decimal) string {
	r := d.Round(2)
	whole, frac, _ := strings.Cut(r.Abs().StringFixed(2), ".")
	n, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return r.StringFixed(2)
	}
	sign := ""
	if r.IsNegative() {
		sign = "-"
	}
	return sign + humanize.BigComma(n) + "." + frac
}

// Write writes the report: BOM, summary lines, a blank line, then the header
// and one row per transaction in date order.
func Write(w io.Writer, r Report) error {
	cur := r.Currency
	if cur == "" {
		cur = "USD"
	}
	var b strings.Builder
	b.WriteString(bom)
	fmt.Fprintf(&b, "Financial report for: %s %d\n", r.Summary.Month, r.Summary.Year)
	fmt.Fprintf(&b, "Total income: %s %s\n", FormatAmount(r.Summary.TotalIncome), cur)
	fmt.Fprintf(&b, "Total expenses: %s %s\n", FormatAmount(r.Summary.TotalExpenses), cur)
	fmt.Fprintf(&b, "Balance: %s %s\n", FormatAmount(r.Summary.Balance), cur)
	b.WriteString("\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	rows := make([]model.Transaction, len(r.Transactions))
	copy(rows, r.Transactions)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date.Time)
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range rows {
		if err := cw.Write(MarshalRow(t, r.Labels)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a transaction to a report row.
func MarshalRow(t model.Transaction, labels Labeler) []string {
	row := make([]string, numFields)
	row[colDate] = t.Date.String()
	row[colName] = t.Name
	row[colType] = t.Description
	if labels != nil {
		row[colType] = labels.Label(t.Description)
	}
	row[colAmount] = FormatAmount(t.Amount)
	row[colKind] = t.Type.Kind()
	return row
}
