package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

var (
	// ErrHeaderNotFound means no line starts with Header.
	ErrHeaderNotFound = errors.New("csv header not found")
	// ErrNoRows means the header was found but no row was usable.
	ErrNoRows = errors.New("no valid transactions in file")
)

var decimalComma = regexp.MustCompile(`^[^,]*,\d{1,2}$`)

var dateLayouts = []string{
	model.DateLayout,
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// Resolver maps labels back to category keys.
type Resolver interface {
	KeyForLabel(label string) (string, bool)
	Exists(t model.TransactionType, key string) bool
}

// RowError explains why an input line was skipped.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Result is the outcome of a tolerant import.
type Result struct {
	Transactions []model.Transaction
	Skipped      []RowError
}

// Read parses a report. Text before the header line is ignored and bad rows
// are skipped and reported in Result.Skipped. Returned transactions carry no
// id and no series key.
func Read(r io.Reader, cats Resolver) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("reading csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte(bom))

	body, headerLine, ok := afterHeader(string(data))
	if !ok {
		return Result{}, ErrHeaderNotFound
	}

	cr := csv.NewReader(strings.NewReader(body))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var res Result
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line := headerLine
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line += pe.StartLine
			}
			res.Skipped = append(res.Skipped, RowError{Line: line, Reason: err.Error()})
			continue
		}
		l, _ := cr.FieldPos(0)
		line += l

		t, err := UnmarshalRow(rec, cats)
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Line: line, Reason: err.Error()})
			continue
		}
		res.Transactions = append(res.Transactions, t)
	}

	if len(res.Transactions) == 0 {
		return res, ErrNoRows
	}
	return res, nil
}

// afterHeader returns the text following the header line and the header's
// 1-based line number.
func afterHeader(text string) (string, int, bool) {
	rest := text
	for n := 1; rest != ""; n++ {
		line, tail, _ := strings.Cut(rest, "\n")
		if strings.HasPrefix(strings.TrimSpace(line), Header) {
			return tail, n, true
		}
		rest = tail
	}
	return "", 0, false
}

// UnmarshalRow converts a report row back to a transaction.
func UnmarshalRow(record []string, cats Resolver) (model.Transaction, error) {
	if len(record) < numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	for i := 0; i < numFields; i++ {
		if strings.TrimSpace(record[i]) == "" {
			return model.Transaction{}, fmt.Errorf("field %d is empty", i+1)
		}
	}

	typ := model.TypeExpense
	if strings.TrimSpace(record[colKind]) == model.TypeIncome.Kind() {
		typ = model.TypeIncome
	}

	label := strings.TrimSpace(record[colType])
	key, byLabel := cats.KeyForLabel(label)
	if !byLabel {
		key = label
	}
	if !cats.Exists(typ, key) {
		if byLabel {
			return model.Transaction{}, fmt.Errorf("category %q is not an %s category", label, strings.ToLower(typ.Kind()))
		}
		return model.Transaction{}, fmt.Errorf("unknown category %q", label)
	}

	amount, err := ParseAmount(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	if !amount.IsPositive() {
		return model.Transaction{}, fmt.Errorf("amount %s is not positive", amount)
	}

	date, err := ParseDate(record[colDate])
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		Date:        date,
		Name:        strings.TrimSpace(record[colName]),
		Description: key,
		Amount:      amount,
		Type:        typ,
	}, nil
}

// ParseAmount reads an amount written with either comma or dot decimals.
// With both separators present the last one is the decimal point and the
// other groups thousands. A single comma followed by one or two digits is a
// decimal comma.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case decimalComma.MatchString(s):
		s = strings.Replace(s, ",", ".", 1)
	default:
		s = strings.ReplaceAll(s, ",", "")
	}
	return decimal.NewFromString(s)
}

// ParseDate accepts the export layout plus a few common alternatives.
func ParseDate(s string) (model.Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DateOf(t), nil
		}
	}
	return model.Date{}, fmt.Errorf("parsing date %q: unsupported format", s)
}
