package ledger

import (
	"sort"

	"github.com/tally-dev/tally/internal/model"
)

func sortByDate(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date.Time)
	})
}
