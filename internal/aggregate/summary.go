package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Summary holds the monthly figures shown above the category lists.
type Summary struct {
	Year          int
	Month         time.Month
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
	// TotalSavings is the all-time sum of expenses in the savings category.
	TotalSavings decimal.Decimal
}

// MonthView is everything needed to render one month.
type MonthView struct {
	Summary
	Transactions []model.Transaction
	Income       []model.AggregatedGroup
	Expenses     []model.AggregatedGroup
}

// Orderer supplies the canonical category order for a transaction type.
type Orderer interface {
	SortOrder(t model.TransactionType) []string
}

// Summarize computes the totals for month from the full transaction set.
func Summarize(all []model.Transaction, year int, month time.Month, savingsKey string) Summary {
	monthTxns := InMonth(all, year, month)
	income := Total(OfType(monthTxns, model.TypeIncome))
	expenses := Total(OfType(monthTxns, model.TypeExpense))

	savings := decimal.Zero
	for _, t := range all {
		if t.Type == model.TypeExpense && t.Description == savingsKey {
			savings = savings.Add(t.Amount)
		}
	}

	return Summary{
		Year:          year,
		Month:         month,
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income.Sub(expenses),
		TotalSavings:  savings,
	}
}

// Month builds the full view of one month: totals plus the income and expense
// groups, each in its canonical order.
func Month(all []model.Transaction, year int, month time.Month, savingsKey string, orders Orderer) MonthView {
	monthTxns := InMonth(all, year, month)
	return MonthView{
		Summary:      Summarize(all, year, month, savingsKey),
		Transactions: monthTxns,
		Income:       Aggregate(OfType(monthTxns, model.TypeIncome), orders.SortOrder(model.TypeIncome)),
		Expenses:     Aggregate(OfType(monthTxns, model.TypeExpense), orders.SortOrder(model.TypeExpense)),
	}
}
