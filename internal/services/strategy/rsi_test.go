package strategy

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vadiminshakov/paperbots/internal/domain"
	"go.uber.org/zap"
)

func klinesFromCloses(closes ...float64) []domain.Kline {
	klines := make([]domain.Kline, len(closes))
	for i, c := range closes {
		klines[i] = domain.Kline{Close: decimal.NewFromFloat(c)}
	}
	return klines
}

func risingCloses(n int) []domain.Kline {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return klinesFromCloses(closes...)
}

func fallingCloses(n int) []domain.Kline {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 1000 - float64(i)
	}
	return klinesFromCloses(closes...)
}

func TestRSIStrategy_Overbought(t *testing.T) {
	s := NewRSIStrategy(zap.NewNop())

	// a monotone rally has no losses, driving RSI to its ceiling
	decision := s.Decide(context.Background(), decimal.NewFromInt(130), risingCloses(30))
	assert.Equal(t, domain.Sell, decision)
}

func TestRSIStrategy_Oversold(t *testing.T) {
	s := NewRSIStrategy(zap.NewNop())

	// a monotone slide has no gains, driving RSI to its floor
	decision := s.Decide(context.Background(), decimal.NewFromInt(970), fallingCloses(30))
	assert.Equal(t, domain.Buy, decision)
}

func TestRSIStrategy_Neutral(t *testing.T) {
	s := NewRSIStrategy(zap.NewNop())

	// alternating equal moves balance gains and losses around RSI 50
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
		if i%2 == 1 {
			closes[i] = 101
		}
	}

	decision := s.Decide(context.Background(), decimal.NewFromInt(100), klinesFromCloses(closes...))
	assert.Equal(t, domain.Hold, decision)
}

func TestRSIStrategy_InsufficientData(t *testing.T) {
	s := NewRSIStrategy(zap.NewNop())

	assert.Equal(t, domain.Hold, s.Decide(context.Background(), decimal.NewFromInt(100), nil))
	assert.Equal(t, domain.Hold, s.Decide(context.Background(), decimal.NewFromInt(100), risingCloses(13)))

	// 14 candles pass the length gate but the indicator needs one more
	assert.Equal(t, domain.Hold, s.Decide(context.Background(), decimal.NewFromInt(100), risingCloses(14)))
}

func TestRSIStrategy_Name(t *testing.T) {
	assert.Equal(t, NameRoboQuant, NewRSIStrategy(nil).Name())
}
