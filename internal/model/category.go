package model

import "github.com/shopspring/decimal"

// TypeOption is a category key paired with its display label.
type TypeOption struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// AggregatedGroup is a per-category summary derived for display. Never persisted.
type AggregatedGroup struct {
	Description  string
	TotalAmount  decimal.Decimal
	Transactions []Transaction
}
