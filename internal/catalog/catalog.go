// Package catalog maps category keys to display labels and canonical display
// order, separately for income and expense categories.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tally-dev/tally/internal/model"
)

// FileName is the catalog file inside a tally home.
const FileName = "categories.csv"

// Catalog is an immutable pair of category lists plus their sort orders.
type Catalog struct {
	income       []model.TypeOption
	expense      []model.TypeOption
	incomeOrder  []string
	expenseOrder []string
	labels       map[string]string
	byLabel      map[string]string
	typeOf       map[string]model.TransactionType
}

// New creates a Catalog. Income entries win label lookups over expense
// entries sharing a key.
func New(income, expense []model.TypeOption, incomeOrder, expenseOrder []string) *Catalog {
	c := &Catalog{
		income:       append([]model.TypeOption(nil), income...),
		expense:      append([]model.TypeOption(nil), expense...),
		incomeOrder:  append([]string(nil), incomeOrder...),
		expenseOrder: append([]string(nil), expenseOrder...),
		labels:       make(map[string]string, len(income)+len(expense)),
		byLabel:      make(map[string]string, len(income)+len(expense)),
		typeOf:       make(map[string]model.TransactionType, len(income)+len(expense)),
	}
	for _, t := range []model.TransactionType{model.TypeIncome, model.TypeExpense} {
		for _, o := range c.Options(t) {
			if _, ok := c.labels[o.Value]; !ok {
				c.labels[o.Value] = o.Label
				c.typeOf[o.Value] = t
			}
			if _, ok := c.byLabel[o.Label]; !ok {
				c.byLabel[o.Label] = o.Value
			}
		}
	}
	return c
}

// Options returns the categories for a transaction type in form order.
func (c *Catalog) Options(t model.TransactionType) []model.TypeOption {
	if t == model.TypeIncome {
		return append([]model.TypeOption(nil), c.income...)
	}
	return append([]model.TypeOption(nil), c.expense...)
}

// SortOrder returns the canonical display order of category keys for a type.
func (c *Catalog) SortOrder(t model.TransactionType) []string {
	if t == model.TypeIncome {
		return append([]string(nil), c.incomeOrder...)
	}
	return append([]string(nil), c.expenseOrder...)
}

// Label returns the display label for a key from the combined catalog, or the
// key itself when unknown.
func (c *Catalog) Label(key string) string {
	if l, ok := c.labels[key]; ok {
		return l
	}
	return key
}

// KeyForLabel resolves an exact display label back to its category key.
func (c *Catalog) KeyForLabel(label string) (string, bool) {
	k, ok := c.byLabel[label]
	return k, ok
}

// Exists reports whether key is a category of type t.
func (c *Catalog) Exists(t model.TransactionType, key string) bool {
	for _, o := range c.Options(t) {
		if o.Value == key {
			return true
		}
	}
	return false
}

// TypeOf returns the transaction type a category key belongs to.
func (c *Catalog) TypeOf(key string) (model.TransactionType, bool) {
	t, ok := c.typeOf[key]
	return t, ok
}

// First returns the first category of a type, the form default.
func (c *Catalog) First(t model.TransactionType) string {
	opts := c.Options(t)
	if len(opts) == 0 {
		return ""
	}
	return opts[0].Value
}

// Load reads categories.csv from a home directory. When the file does not
// exist the preset for locale is returned.
func Load(home, locale string) (*Catalog, error) {
	path := filepath.Join(home, FileName)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(locale), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return FromEntries(entries)
}

// Save writes the catalog to <home>/categories.csv.
func (c *Catalog) Save(home string) error {
	path := filepath.Join(home, FileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating catalog file: %w", err)
	}
	defer f.Close()

	if err := WriteEntries(f, c.Entries()); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}
