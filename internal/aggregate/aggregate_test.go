package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/catalog"
	"github.com/tally-dev/tally/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func txn(idStr, category string, day int, amount string) model.Transaction {
	return model.Transaction{
		ID:          idStr,
		Date:        model.NewDate(2025, time.March, day),
		Name:        idStr,
		Description: category,
		Amount:      dec(amount),
		Type:        model.TypeExpense,
	}
}

func keys(groups []model.AggregatedGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Description
	}
	return out
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, []string{"A"}))
}

func TestAggregate_SingleCategory(t *testing.T) {
	groups := Aggregate([]model.Transaction{
		txn("a", "basic", 1, "10.10"),
		txn("b", "basic", 2, "20.20"),
		txn("c", "basic", 3, "0.1"),
	}, nil)

	require.Len(t, groups, 1)
	assert.Equal(t, "basic", groups[0].Description)
	assert.True(t, groups[0].TotalAmount.Equal(dec("30.40")), "got %s", groups[0].TotalAmount)
	assert.Len(t, groups[0].Transactions, 3)
}

func TestAggregate_GroupOrder(t *testing.T) {
	groups := Aggregate([]model.Transaction{
		txn("1", "C", 1, "1"),
		txn("2", "A", 1, "1"),
		txn("3", "Z", 1, "1"),
		txn("4", "B", 1, "1"),
	}, []string{"A", "B", "C"})

	assert.Equal(t, []string{"A", "B", "C", "Z"}, keys(groups))
}

func TestAggregate_UnknownKeepEncounterOrder(t *testing.T) {
	groups := Aggregate([]model.Transaction{
		txn("1", "Y", 1, "1"),
		txn("2", "B", 1, "1"),
		txn("3", "X", 1, "1"),
		txn("4", "A", 1, "1"),
		txn("5", "Y", 2, "1"),
	}, []string{"A", "B"})

	assert.Equal(t, []string{"A", "B", "Y", "X"}, keys(groups))
}

func TestAggregate_MembersNewestFirst(t *testing.T) {
	groups := Aggregate([]model.Transaction{
		txn("mid", "basic", 10, "1"),
		txn("old", "basic", 1, "1"),
		txn("new", "basic", 20, "1"),
		txn("tie", "basic", 10, "1"),
	}, nil)

	require.Len(t, groups, 1)
	var ids []string
	for _, m := range groups[0].Transactions {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"new", "mid", "tie", "old"}, ids)
}

func TestAggregate_DoesNotReorderInput(t *testing.T) {
	in := []model.Transaction{txn("old", "basic", 1, "1"), txn("new", "basic", 2, "1")}
	Aggregate(in, nil)
	assert.Equal(t, "old", in[0].ID)
}

func TestInMonthAndOfType(t *testing.T) {
	all := []model.Transaction{
		txn("mar", "basic", 5, "1"),
		{ID: "apr", Date: model.NewDate(2025, time.April, 1), Type: model.TypeExpense},
		{ID: "mar-inc", Date: model.NewDate(2025, time.March, 9), Type: model.TypeIncome},
		{ID: "mar-prev-year", Date: model.NewDate(2024, time.March, 9), Type: model.TypeIncome},
	}
	march := InMonth(all, 2025, time.March)
	assert.Len(t, march, 2)
	inc := OfType(march, model.TypeIncome)
	require.Len(t, inc, 1)
	assert.Equal(t, "mar-inc", inc[0].ID)
}

func TestShare(t *testing.T) {
	assert.True(t, Share(dec("25"), dec("200")).Equal(dec("12.5")))
	assert.True(t, Share(dec("1"), dec("3")).Equal(dec("33.3")))
	assert.True(t, Share(dec("5"), decimal.Zero).IsZero())
}

func TestSummarize(t *testing.T) {
	all := []model.Transaction{
		{Date: model.NewDate(2025, time.March, 1), Type: model.TypeIncome, Description: "full_time", Amount: dec("4000")},
		{Date: model.NewDate(2025, time.March, 2), Type: model.TypeExpense, Description: "basic", Amount: dec("1500.50")},
		{Date: model.NewDate(2025, time.March, 3), Type: model.TypeExpense, Description: "savings", Amount: dec("500")},
		{Date: model.NewDate(2025, time.February, 3), Type: model.TypeExpense, Description: "savings", Amount: dec("250")},
		{Date: model.NewDate(2025, time.April, 1), Type: model.TypeIncome, Description: "full_time", Amount: dec("4000")},
	}

	s := Summarize(all, 2025, time.March, "savings")
	assert.True(t, s.TotalIncome.Equal(dec("4000")))
	assert.True(t, s.TotalExpenses.Equal(dec("2000.50")))
	assert.True(t, s.Balance.Equal(dec("1999.50")))
	assert.True(t, s.TotalSavings.Equal(dec("750")), "savings are all-time, got %s", s.TotalSavings)

	empty := Summarize(nil, 2025, time.March, "savings")
	assert.True(t, empty.Balance.IsZero())
}

func TestMonth(t *testing.T) {
	all := []model.Transaction{
		{Date: model.NewDate(2025, time.March, 1), Type: model.TypeIncome, Description: "additional", Amount: dec("100")},
		{Date: model.NewDate(2025, time.March, 1), Type: model.TypeIncome, Description: "full_time", Amount: dec("4000")},
		{Date: model.NewDate(2025, time.March, 2), Type: model.TypeExpense, Description: "wants", Amount: dec("50")},
		{Date: model.NewDate(2025, time.March, 2), Type: model.TypeExpense, Description: "debt_repayment", Amount: dec("300")},
	}

	view := Month(all, 2025, time.March, "savings", catalog.Default("en"))
	assert.Equal(t, []string{"full_time", "additional"}, keys(view.Income))
	assert.Equal(t, []string{"debt_repayment", "wants"}, keys(view.Expenses))
	assert.Len(t, view.Transactions, 4)
	assert.True(t, view.Balance.Equal(dec("3750")))
}
