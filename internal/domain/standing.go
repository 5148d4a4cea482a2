package domain

import "github.com/shopspring/decimal"

// Standing is one leaderboard row, derived from the latest valuations.
// It is computed per run and never persisted.
type Standing struct {
	Rank          int
	Name          string
	TotalValue    decimal.Decimal
	Profit        decimal.Decimal
	ProfitPercent decimal.Decimal
}
