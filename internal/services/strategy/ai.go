package strategy

import (
	"context"
	"math/rand"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/paperbots/internal/clients"
	"github.com/vadiminshakov/paperbots/internal/domain"
	"github.com/vadiminshakov/paperbots/internal/services/promptbuilder"
	"go.uber.org/zap"
)

// SentimentStrategy asks an LLM for a trading decision.
//
// Fallback policy: without a configured client every decision is uniformly
// random. With a client, a failed call or an unrecognized response yields HOLD.
type SentimentStrategy struct {
	pair   domain.Pair
	llm    clients.LLMClient
	rng    *rand.Rand
	logger *zap.Logger
}

// NewSentimentStrategy creates the sentiment competitor. llm may be nil when
// no provider is configured.
func NewSentimentStrategy(pair domain.Pair, llm clients.LLMClient, rng *rand.Rand, logger *zap.Logger) *SentimentStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SentimentStrategy{pair: pair, llm: llm, rng: rng, logger: logger}
}

// Name returns the competitor name.
func (s *SentimentStrategy) Name() string {
	return NameAgentClaude
}

// Decide produces a decision from the provider's sentiment read.
func (s *SentimentStrategy) Decide(ctx context.Context, currentPrice decimal.Decimal, klines []domain.Kline) domain.Decision {
	if s.llm == nil {
		decision := randomDecision(s.rng)
		s.logger.Info("no sentiment provider configured, using random decision",
			zap.String("strategy", s.Name()),
			zap.String("decision", decision.String()))
		return decision
	}

	prompt := promptbuilder.BuildUserPrompt(s.pair, currentPrice, klines)

	response, err := s.llm.Evaluate(ctx, prompt)
	if err != nil {
		s.logger.Warn("sentiment provider call failed, holding",
			zap.String("strategy", s.Name()),
			zap.Error(err))
		return domain.Hold
	}

	decision, err := domain.ParseDecision(response)
	if err != nil {
		s.logger.Warn("unrecognized sentiment response, holding",
			zap.String("strategy", s.Name()),
			zap.String("response", response),
			zap.Error(err))
		return domain.Hold
	}

	s.logger.Info("sentiment decision",
		zap.String("strategy", s.Name()),
		zap.String("decision", decision.String()))
	return decision
}
