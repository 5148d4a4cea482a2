package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompetitionState(t *testing.T) {
	start := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	state := NewCompetitionState([]string{"Agent Claude", "RoboQuant"}, start)

	assert.Equal(t, SchemaVersion, state.SchemaVersion)
	assert.Equal(t, "2026-02-01T12:00:00Z", state.StartDate)
	assert.Empty(t, state.History)
	require.Len(t, state.Bots, 2)

	for _, name := range []string{"Agent Claude", "RoboQuant"} {
		bot := state.Bots[name]
		assert.True(t, bot.CashBalance().Equal(InitialCash))
		assert.Empty(t, bot.HoldingAmounts())
	}
}

func TestWalletStateRoundTrip(t *testing.T) {
	cash := decimal.RequireFromString("123.456789012345678901")
	qty := decimal.RequireFromString("0.01798199100899550225")

	state := NewWalletState(cash, map[string]decimal.Decimal{"BTC": qty})

	payload, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded WalletState
	require.NoError(t, json.Unmarshal(payload, &decoded))

	// balances survive the document byte for byte, no float rounding
	assert.True(t, decoded.CashBalance().Equal(cash), "cash %s", decoded.CashBalance())
	assert.True(t, decoded.HoldingAmounts()["BTC"].Equal(qty))
}

func TestWalletStateFallbacks(t *testing.T) {
	var empty WalletState
	assert.True(t, empty.CashBalance().Equal(InitialCash))

	malformed := WalletState{
		UsdBalance: json.Number("not-a-number"),
		Holdings:   map[string]json.Number{"BTC": json.Number("junk")},
	}
	assert.True(t, malformed.CashBalance().Equal(InitialCash))
	assert.True(t, malformed.HoldingAmounts()["BTC"].Equal(decimal.Zero))
}

func TestSnapshot(t *testing.T) {
	ts := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	price := decimal.RequireFromString("67123.45")
	snap := NewSnapshot(ts, price, map[string]decimal.Decimal{
		"Whale Hunter": decimal.RequireFromString("1042.77"),
	})

	parsed, err := snap.Time()
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))

	assert.True(t, snap.Price().Equal(price))
	assert.True(t, snap.Value("Whale Hunter").Equal(decimal.RequireFromString("1042.77")))
	assert.True(t, snap.Value("unknown bot").Equal(decimal.Zero))
}

func TestSnapshotLegacyTimestamps(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"rfc3339", "2026-03-15T09:30:00Z"},
		{"rfc3339 nano", "2026-03-15T09:30:00.123456789Z"},
		{"legacy microseconds", "2026-03-15T09:30:00.123456"},
		{"legacy seconds", "2026-03-15T09:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{Timestamp: tt.raw}
			_, err := snap.Time()
			assert.NoError(t, err)
		})
	}

	snap := Snapshot{Timestamp: "yesterday"}
	_, err := snap.Time()
	assert.Error(t, err)
}
