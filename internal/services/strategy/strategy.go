// Package strategy implements the competing trading strategies.
//
// Every strategy satisfies the same narrow contract: given the current price
// and the historical series, produce a BUY/SELL/HOLD decision. Decide never
// fails past its boundary - internal errors collapse into the variant's safe
// default so the competition runner needs no variant-specific handling.
package strategy

import (
	"context"
	"math/rand"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/paperbots/internal/clients"
	"github.com/vadiminshakov/paperbots/internal/domain"
	"go.uber.org/zap"
)

// Competitor names. They double as keys in the persisted state document, so
// renaming one orphans its wallet.
const (
	NameAgentClaude = "AgentClaude"
	NameRoboQuant   = "RoboQuant"
	NameWhaleHunter = "WhaleHunter"
)

// Strategy produces one trading decision per run.
type Strategy interface {
	Name() string
	Decide(ctx context.Context, currentPrice decimal.Decimal, klines []domain.Kline) domain.Decision
}

// CreateAll builds every competitor in the fixed registration order used for
// wallet rehydration, execution and reporting.
func CreateAll(pair domain.Pair, llm clients.LLMClient, watcher WhaleWatcher, rng *rand.Rand, logger *zap.Logger) []Strategy {
	return []Strategy{
		NewSentimentStrategy(pair, llm, rng, logger),
		NewRSIStrategy(logger),
		NewWhaleStrategy(drawLuckFactor(rng), watcher, rng, logger),
	}
}

var decisions = []domain.Decision{domain.Buy, domain.Sell, domain.Hold}

func randomDecision(rng *rand.Rand) domain.Decision {
	return decisions[rng.Intn(len(decisions))]
}
