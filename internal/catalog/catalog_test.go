package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func TestDefault_English(t *testing.T) {
	c := Default("en")

	assert.Len(t, c.Options(model.TypeIncome), 3)
	assert.Len(t, c.Options(model.TypeExpense), 6)
	assert.Equal(t, []string{"full_time", "credit", "additional"}, c.SortOrder(model.TypeIncome))
	assert.Equal(t,
		[]string{"basic", "necessary", "debt_repayment", "wants", "investment", "savings"},
		c.SortOrder(model.TypeExpense))
}

func TestDefault_UnknownLocale(t *testing.T) {
	c := Default("xx")
	assert.Equal(t, "Full-time", c.Label("full_time"))
}

func TestDefault_Polish(t *testing.T) {
	c := Default("pl")
	assert.Equal(t, "Oszczędności", c.Label("savings"))
	key, ok := c.KeyForLabel("Spłata długu")
	require.True(t, ok)
	assert.Equal(t, "debt_repayment", key)
}

func TestLabel(t *testing.T) {
	c := Default("en")

	tests := []struct {
		key  string
		want string
	}{
		{"full_time", "Full-time"},
		{"credit", "Loan"},
		{"debt_repayment", "Debt Repayment"},
		{"unknown_key", "unknown_key"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Label(tt.key), "Label(%q)", tt.key)
	}
}

func TestKeyForLabel(t *testing.T) {
	c := Default("en")

	key, ok := c.KeyForLabel("Loan")
	assert.True(t, ok)
	assert.Equal(t, "credit", key)

	_, ok = c.KeyForLabel("loan")
	assert.False(t, ok, "label match is exact")

	_, ok = c.KeyForLabel("Groceries")
	assert.False(t, ok)
}

func TestExistsAndTypeOf(t *testing.T) {
	c := Default("en")

	assert.True(t, c.Exists(model.TypeExpense, "wants"))
	assert.False(t, c.Exists(model.TypeIncome, "wants"), "catalogs are disjoint")
	assert.False(t, c.Exists(model.TypeExpense, "nope"))

	typ, ok := c.TypeOf("additional")
	require.True(t, ok)
	assert.Equal(t, model.TypeIncome, typ)

	_, ok = c.TypeOf("nope")
	assert.False(t, ok)
}

func TestFirst(t *testing.T) {
	c := Default("en")
	assert.Equal(t, "full_time", c.First(model.TypeIncome))
	assert.Equal(t, "basic", c.First(model.TypeExpense))

	empty := New(nil, nil, nil, nil)
	assert.Empty(t, empty.First(model.TypeIncome))
}

func TestOptionsAreCopies(t *testing.T) {
	c := Default("en")
	opts := c.Options(model.TypeIncome)
	opts[0].Label = "changed"
	assert.Equal(t, "Full-time", c.Label("full_time"))
}

func TestLoad_MissingFileUsesPreset(t *testing.T) {
	c, err := Load(t.TempDir(), "pl")
	require.NoError(t, err)
	assert.Equal(t, "Kredyt", c.Label("credit"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	orig := Default("en")
	require.NoError(t, orig.Save(dir))

	_, err := os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)

	got, err := Load(dir, "pl")
	require.NoError(t, err, "file on disk wins over the locale preset")

	for _, typ := range []model.TransactionType{model.TypeIncome, model.TypeExpense} {
		assert.Equal(t, orig.Options(typ), got.Options(typ))
		assert.Equal(t, orig.SortOrder(typ), got.SortOrder(typ))
	}
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(Header+"\ntransfer,x,X,0\n"), 0o644))

	_, err := Load(dir, "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}
