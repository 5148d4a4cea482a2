package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SchemaVersion is the current persisted document layout version. Documents
// written before versioning was introduced carry no field and decode as 0.
const SchemaVersion = 1

// InitialCash is the fixed starting balance every competitor wallet gets.
var InitialCash = decimal.NewFromInt(1000)

// timestampLayouts accepted when reading history entries. New entries are
// written as RFC3339; the legacy layouts cover documents produced by the
// previous generation of the state file.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// WalletState is the persisted form of a single wallet. Amounts are kept as
// json.Number so balances round-trip exactly through the document.
type WalletState struct {
	UsdBalance json.Number            `json:"usd_balance"`
	Holdings   map[string]json.Number `json:"holdings"`
}

// NewWalletState builds the persisted form from decimal amounts.
func NewWalletState(cash decimal.Decimal, holdings map[string]decimal.Decimal) WalletState {
	state := WalletState{
		UsdBalance: json.Number(cash.String()),
		Holdings:   make(map[string]json.Number, len(holdings)),
	}
	for symbol, amount := range holdings {
		state.Holdings[symbol] = json.Number(amount.String())
	}
	return state
}

// CashBalance returns the persisted balance. Missing or malformed values fall
// back to the initial cash amount.
func (s WalletState) CashBalance() decimal.Decimal {
	return decimalFromNumber(s.UsdBalance, InitialCash)
}

// HoldingAmounts returns the persisted holdings. Malformed amounts decode as zero.
func (s WalletState) HoldingAmounts() map[string]decimal.Decimal {
	holdings := make(map[string]decimal.Decimal, len(s.Holdings))
	for symbol, amount := range s.Holdings {
		holdings[symbol] = decimalFromNumber(amount, decimal.Zero)
	}
	return holdings
}

// Snapshot is one immutable history entry: every competitor's total portfolio
// value at the reference price. Field names are fixed by the document layout.
type Snapshot struct {
	Timestamp string                 `json:"timestamp"`
	BTCPrice  json.Number            `json:"btc_price"`
	Bots      map[string]json.Number `json:"bots"`
}

// NewSnapshot creates a history entry for the given valuation pass.
func NewSnapshot(ts time.Time, price decimal.Decimal, valuations map[string]decimal.Decimal) Snapshot {
	snapshot := Snapshot{
		Timestamp: ts.Format(time.RFC3339),
		BTCPrice:  json.Number(price.String()),
		Bots:      make(map[string]json.Number, len(valuations)),
	}
	for name, value := range valuations {
		snapshot.Bots[name] = json.Number(value.String())
	}
	return snapshot
}

// Time parses the snapshot timestamp, accepting both the current and legacy layouts.
func (s Snapshot) Time() (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, s.Timestamp)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Value returns the persisted total value for one competitor.
func (s Snapshot) Value(name string) decimal.Decimal {
	return decimalFromNumber(s.Bots[name], decimal.Zero)
}

// Price returns the persisted reference price.
func (s Snapshot) Price() decimal.Decimal {
	return decimalFromNumber(s.BTCPrice, decimal.Zero)
}

// CompetitionState is the whole persisted competition document: one wallet
// state per competitor plus the append-only valuation history.
type CompetitionState struct {
	SchemaVersion int                    `json:"schema_version"`
	Bots          map[string]WalletState `json:"bots"`
	History       []Snapshot             `json:"history"`
	StartDate     string                 `json:"start_date"`
}

// NewCompetitionState synthesizes the initial document: every competitor at
// the initial cash balance with empty holdings and no history.
func NewCompetitionState(names []string, start time.Time) *CompetitionState {
	state := &CompetitionState{
		SchemaVersion: SchemaVersion,
		Bots:          make(map[string]WalletState, len(names)),
		History:       make([]Snapshot, 0),
		StartDate:     start.Format(time.RFC3339),
	}
	for _, name := range names {
		state.Bots[name] = NewWalletState(InitialCash, nil)
	}
	return state
}

func decimalFromNumber(n json.Number, fallback decimal.Decimal) decimal.Decimal {
	if n == "" {
		return fallback
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return fallback
	}
	return d
}
