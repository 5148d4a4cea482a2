package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeReceipt is the audit record emitted by a successful wallet operation.
type TradeReceipt struct {
	Side           Decision
	Asset          string
	Quantity       decimal.Decimal
	EffectivePrice decimal.Decimal
	Fee            decimal.Decimal
}

// TradeRecord is a journal entry for one executed trade.
type TradeRecord struct {
	ID             string          `json:"id"`
	Bot            string          `json:"bot"`
	Side           string          `json:"side"`
	Asset          string          `json:"asset"`
	Quantity       decimal.Decimal `json:"quantity"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Fee            decimal.Decimal `json:"fee"`
	Time           time.Time       `json:"time"`
}

// TradeRecordEntry bundles a journal record with its WAL index.
type TradeRecordEntry struct {
	Index  uint64
	Record TradeRecord
}
