package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/tally-dev/tally/internal/model"
)

// Header is the CSV header for categories.csv.
const Header = "type,key,label,rank"

const (
	numFields = 4
	colType   = 0
	colKey    = 1
	colLabel  = 2
	colRank   = 3
)

// Entry is one row of categories.csv. Rank is the position in the canonical
// display order (0-based); -1 leaves the category out of the order.
type Entry struct {
	Type  model.TransactionType
	Key   string
	Label string
	Rank  int
}

// Entries flattens the catalog into rows, income first, in form order.
func (c *Catalog) Entries() []Entry {
	var entries []Entry
	for _, t := range []model.TransactionType{model.TypeIncome, model.TypeExpense} {
		order := c.SortOrder(t)
		rank := make(map[string]int, len(order))
		for i, k := range order {
			rank[k] = i
		}
		for _, o := range c.Options(t) {
			r, ok := rank[o.Value]
			if !ok {
				r = -1
			}
			entries = append(entries, Entry{Type: t, Key: o.Value, Label: o.Label, Rank: r})
		}
	}
	return entries
}

// FromEntries builds a Catalog from rows. Row order is form order; Rank
// determines the sort order.
func FromEntries(entries []Entry) (*Catalog, error) {
	var income, expense []model.TypeOption
	var incomeRanked, expenseRanked []Entry
	seen := make(map[string]bool)
	for _, e := range entries {
		if !e.Type.Valid() {
			return nil, fmt.Errorf("category %q: unknown type %q", e.Key, e.Type)
		}
		if e.Key == "" || e.Label == "" {
			return nil, fmt.Errorf("category %q: key and label are required", e.Key)
		}
		id := string(e.Type) + "/" + e.Key
		if seen[id] {
			return nil, fmt.Errorf("duplicate %s category %q", e.Type, e.Key)
		}
		seen[id] = true

		opt := model.TypeOption{Value: e.Key, Label: e.Label}
		if e.Type == model.TypeIncome {
			income = append(income, opt)
			if e.Rank >= 0 {
				incomeRanked = append(incomeRanked, e)
			}
		} else {
			expense = append(expense, opt)
			if e.Rank >= 0 {
				expenseRanked = append(expenseRanked, e)
			}
		}
	}
	return New(income, expense, rankedKeys(incomeRanked), rankedKeys(expenseRanked)), nil
}

func rankedKeys(entries []Entry) []string {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Rank < entries[j].Rank })
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// ReadEntries reads categories.csv.
func ReadEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading categories CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes categories.csv including the header.
func WriteEntries(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colType] = string(e.Type)
	row[colKey] = e.Key
	row[colLabel] = e.Label
	if e.Rank >= 0 {
		row[colRank] = strconv.Itoa(e.Rank)
	}
	return row
}

// UnmarshalEntry converts a CSV row to an Entry. An empty rank means -1.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	t, err := model.ParseType(record[colType])
	if err != nil {
		return Entry{}, err
	}

	rank := -1
	if record[colRank] != "" {
		rank, err = strconv.Atoi(record[colRank])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing rank %q: %w", record[colRank], err)
		}
	}

	return Entry{
		Type:  t,
		Key:   record[colKey],
		Label: record[colLabel],
		Rank:  rank,
	}, nil
}
