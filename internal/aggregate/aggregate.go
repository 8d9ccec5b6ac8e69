// Package aggregate derives display groups and monthly totals from a
// transaction set. Nothing here is persisted.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Aggregate groups txns by category key, sums each group and orders members
// newest first. Groups follow their key's position in order; keys missing
// from order come last, in the order they were first seen.
func Aggregate(txns []model.Transaction, order []string) []model.AggregatedGroup {
	index := make(map[string]int)
	var groups []model.AggregatedGroup
	for _, t := range txns {
		i, ok := index[t.Description]
		if !ok {
			i = len(groups)
			index[t.Description] = i
			groups = append(groups, model.AggregatedGroup{Description: t.Description, TotalAmount: decimal.Zero})
		}
		g := &groups[i]
		g.TotalAmount = g.TotalAmount.Add(t.Amount)
		g.Transactions = append(g.Transactions, t)
	}

	for i := range groups {
		members := groups[i].Transactions
		sort.SliceStable(members, func(a, b int) bool {
			return members[a].Date.After(members[b].Date.Time)
		})
	}

	rank := make(map[string]int, len(order))
	for i, k := range order {
		if _, dup := rank[k]; !dup {
			rank[k] = i
		}
	}
	pos := func(key string) int {
		if r, ok := rank[key]; ok {
			return r
		}
		return len(order)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return pos(groups[a].Description) < pos(groups[b].Description)
	})
	return groups
}

// InMonth returns the transactions dated in the given month.
func InMonth(txns []model.Transaction, year int, month time.Month) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.Date.SameMonth(year, month) {
			out = append(out, t)
		}
	}
	return out
}

// OfType returns the transactions of one type.
func OfType(txns []model.Transaction, typ model.TransactionType) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

// Total sums the amounts of txns.
func Total(txns []model.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// Share returns part as a percentage of whole, rounded to one decimal place.
// Zero when whole is zero.
func Share(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).Div(whole).Round(1)
}
