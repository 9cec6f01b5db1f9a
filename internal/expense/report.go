package expense

import (
	"slices"
	"strings"
)

// StoreSpend is the total spent at one store
type StoreSpend struct {
	Store string `json:"store"`
	Spend int64  `json:"spend"`
	Label string `json:"label"`
}

// Summary is an overview of everything in the ledger
type Summary struct {
	TotalSpend    int64        `json:"total_spend"`
	TotalLabel    string       `json:"total_label"`
	Transactions  int          `json:"transactions"`
	FavoriteStore string       `json:"favorite_store"`
	SpendByStore  []StoreSpend `json:"spend_by_store"`
}

// Summarize builds a report from ledger rows.
// Spend is the sum of item prices; every row counts as one transaction. The favorite
// store is the one appearing on most rows, ties going to the alphabetically first.
func Summarize(rows []Row) *Summary {
	report := &Summary{
		Transactions: len(rows),
		SpendByStore: []StoreSpend{},
	}

	spend := make(map[string]int64)
	visits := make(map[string]int)
	for _, r := range rows {
		report.TotalSpend += r.Price
		spend[r.Store] += r.Price
		visits[r.Store]++
	}
	report.TotalLabel = FormatRupiah(report.TotalSpend)

	stores := make([]string, 0, len(spend))
	for store := range spend {
		stores = append(stores, store)
	}
	slices.SortFunc(stores, strings.Compare)

	mostVisits := 0
	for _, store := range stores {
		report.SpendByStore = append(report.SpendByStore, StoreSpend{
			Store: store,
			Spend: spend[store],
			Label: FormatRupiah(spend[store]),
		})
		if visits[store] > mostVisits {
			report.FavoriteStore = store
			mostVisits = visits[store]
		}
	}

	return report
}
