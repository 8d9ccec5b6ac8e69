package catalog

import "github.com/tally-dev/tally/internal/model"

// Locales lists the built-in label presets.
var Locales = []string{"en", "pl"}

// Default returns the preset catalog for a locale. Unknown locales fall back
// to English.
func Default(locale string) *Catalog {
	switch locale {
	case "pl":
		return New(polishIncome(), polishExpense(), incomeOrder(), expenseOrder())
	default:
		return New(englishIncome(), englishExpense(), incomeOrder(), expenseOrder())
	}
}

func incomeOrder() []string {
	return []string{"full_time", "credit", "additional"}
}

func expenseOrder() []string {
	return []string{"basic", "necessary", "debt_repayment", "wants", "investment", "savings"}
}

func englishIncome() []model.TypeOption {
	return []model.TypeOption{
		{Value: "full_time", Label: "Full-time"},
		{Value: "credit", Label: "Loan"},
		{Value: "additional", Label: "Additional"},
	}
}

func englishExpense() []model.TypeOption {
	return []model.TypeOption{
		{Value: "basic", Label: "Basic"},
		{Value: "necessary", Label: "Necessary"},
		{Value: "wants", Label: "Wants"},
		{Value: "investment", Label: "Investment"},
		{Value: "debt_repayment", Label: "Debt Repayment"},
		{Value: "savings", Label: "Savings"},
	}
}

func polishIncome() []model.TypeOption {
	return []model.TypeOption{
		{Value: "full_time", Label: "Etat"},
		{Value: "credit", Label: "Kredyt"},
		{Value: "additional", Label: "Dodatkowe"},
	}
}

func polishExpense() []model.TypeOption {
	return []model.TypeOption{
		{Value: "basic", Label: "Podstawowe"},
		{Value: "necessary", Label: "Niezbędne"},
		{Value: "wants", Label: "Zachcianki"},
		{Value: "investment", Label: "Inwestycje"},
		{Value: "debt_repayment", Label: "Spłata długu"},
		{Value: "savings", Label: "Oszczędności"},
	}
}
