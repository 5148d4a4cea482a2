// Package internal wires the competition together: one run loads the shared
// state, asks every strategy for a decision, executes it against that
// strategy's wallet, snapshots the valuations and persists the result.
package internal

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/paperbots/internal/domain"
	"github.com/vadiminshakov/paperbots/internal/services/market/collector"
	"github.com/vadiminshakov/paperbots/internal/services/pricer"
	"github.com/vadiminshakov/paperbots/internal/services/strategy"
	"github.com/vadiminshakov/paperbots/internal/wallet"
)

// Fatal abort reasons. A run that fails on either leaves the persisted state
// untouched; the caller maps them to distinct exit codes.
var (
	ErrStateLoad  = errors.New("competition state load failed")
	ErrPriceFetch = errors.New("current price unavailable")
)

var (
	// investFraction of the cash balance is spent on every BUY.
	investFraction = decimal.NewFromFloat(0.9)
	// minTradeUSD is the smallest order the simulated exchange accepts.
	minTradeUSD = decimal.NewFromInt(10)
)

// StateStore persists the competition document.
type StateStore interface {
	Load() (*domain.CompetitionState, error)
	Save(state *domain.CompetitionState) error
}

// TradeJournal records executed trades for audit.
type TradeJournal interface {
	Save(record domain.TradeRecord) error
}

// ChartRenderer draws the valuation history.
type ChartRenderer interface {
	Render(history []domain.Snapshot) error
}

// Runner executes one full competition pass. It is the single writer of the
// persisted state; scheduling must not overlap two runs on the same file.
type Runner struct {
	pair         domain.Pair
	interval     string
	historyLimit int
	feeRate      decimal.Decimal
	slippageRate decimal.Decimal
	pricer       pricer.Pricer
	klines       collector.KlineProvider
	store        StateStore
	journal      TradeJournal
	chart        ChartRenderer
	strategies   []strategy.Strategy
	logger       *zap.Logger
	now          func() time.Time
}

// RunnerParams collects the runner's collaborators. Journal and Chart are
// optional; the rest are required.
type RunnerParams struct {
	Pair         domain.Pair
	Interval     string
	HistoryLimit int
	FeeRate      decimal.Decimal
	SlippageRate decimal.Decimal
	Pricer       pricer.Pricer
	Klines       collector.KlineProvider
	Store        StateStore
	Journal      TradeJournal
	Chart        ChartRenderer
	Strategies   []strategy.Strategy
	Logger       *zap.Logger
	Now          func() time.Time
}

// NewRunner creates a competition runner.
func NewRunner(p RunnerParams) (*Runner, error) {
	if p.Pricer == nil {
		return nil, errors.New("pricer is required")
	}
	if p.Klines == nil {
		return nil, errors.New("kline provider is required")
	}
	if p.Store == nil {
		return nil, errors.New("state store is required")
	}
	if len(p.Strategies) == 0 {
		return nil, errors.New("at least one strategy is required")
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.HistoryLimit <= 0 {
		p.HistoryLimit = 100
	}
	if p.Interval == "" {
		p.Interval = "1h"
	}

	return &Runner{
		pair:         p.Pair,
		interval:     p.Interval,
		historyLimit: p.HistoryLimit,
		feeRate:      p.FeeRate,
		slippageRate: p.SlippageRate,
		pricer:       p.Pricer,
		klines:       p.Klines,
		store:        p.Store,
		journal:      p.Journal,
		chart:        p.Chart,
		strategies:   p.Strategies,
		logger:       p.Logger,
		now:          p.Now,
	}, nil
}

// Run executes one competition pass and returns the resulting standings.
//
// The pass is fail-closed: a state load or price fetch failure aborts before
// any wallet is touched, so the persisted state stays exactly as it was.
// Save and chart failures after the trading pass are reported but not fatal.
func (r *Runner) Run(ctx context.Context) ([]domain.Standing, error) {
	state, err := r.store.Load()
	if err != nil {
		return nil, errors.WithMessage(ErrStateLoad, err.Error())
	}
	if state == nil {
		state = domain.NewCompetitionState(r.strategyNames(), r.now())
		r.logger.Info("no existing state found, starting fresh competition",
			zap.String("start_date", state.StartDate))
	}

	price, err := r.pricer.GetPrice(ctx, r.pair)
	if err != nil {
		return nil, errors.WithMessage(ErrPriceFetch, err.Error())
	}
	r.logger.Info("current price fetched",
		zap.String("pair", r.pair.String()),
		zap.String("price", price.String()))

	klines, err := r.klines.GetKlines(ctx, r.pair, r.interval, r.historyLimit)
	if err != nil {
		// degraded run: strategies treat the empty series as insufficient data
		r.logger.Warn("historical series unavailable, continuing with empty history",
			zap.Error(err))
		klines = nil
	}

	valuations := make(map[string]decimal.Decimal, len(r.strategies))
	for _, strat := range r.strategies {
		w := wallet.New(domain.InitialCash, r.feeRate, r.slippageRate,
			r.logger.With(zap.String("bot", strat.Name())))
		w.ImportState(state.Bots[strat.Name()])

		decision := strat.Decide(ctx, price, klines)
		r.execute(strat.Name(), w, decision, price)

		valuations[strat.Name()] = w.TotalValue(map[string]decimal.Decimal{r.pair.From: price})
		state.Bots[strat.Name()] = w.ExportState()
	}

	state.History = append(state.History, domain.NewSnapshot(r.now(), price, valuations))

	if err := r.store.Save(state); err != nil {
		r.logger.Error("failed to persist competition state, run results kept in memory only",
			zap.Error(err))
	}

	if r.chart != nil {
		if err := r.chart.Render(state.History); err != nil {
			r.logger.Error("failed to render chart", zap.Error(err))
		}
	}

	return r.standings(valuations), nil
}

// execute applies one decision to the strategy's wallet. Wallet precondition
// violations are logged and skipped, never propagated.
func (r *Runner) execute(name string, w *wallet.Wallet, decision domain.Decision, price decimal.Decimal) {
	asset := r.pair.From
	logger := r.logger.With(zap.String("bot", name))

	switch decision {
	case domain.Buy:
		amount := w.Cash().Mul(investFraction)
		if amount.LessThan(minTradeUSD) {
			logger.Info("buy skipped, below minimum trade size",
				zap.String("amount", amount.StringFixed(2)),
				zap.String("minimum", minTradeUSD.String()))
			return
		}
		receipt, err := w.Buy(asset, price, amount)
		if err != nil {
			logger.Warn("buy rejected", zap.Error(err))
			return
		}
		r.journalTrade(name, receipt)

	case domain.Sell:
		if w.Holding(asset).LessThanOrEqual(decimal.Zero) {
			logger.Info("sell skipped, nothing to sell", zap.String("asset", asset))
			return
		}
		receipt, err := w.Sell(asset, price)
		if err != nil {
			logger.Warn("sell rejected", zap.Error(err))
			return
		}
		r.journalTrade(name, receipt)

	case domain.Hold:
		logger.Info("hold, no action taken")
	}
}

func (r *Runner) journalTrade(name string, receipt domain.TradeReceipt) {
	if r.journal == nil {
		return
	}
	record := domain.TradeRecord{
		ID:             uuid.New().String(),
		Bot:            name,
		Side:           receipt.Side.String(),
		Asset:          receipt.Asset,
		Quantity:       receipt.Quantity,
		EffectivePrice: receipt.EffectivePrice,
		Fee:            receipt.Fee,
		Time:           r.now(),
	}
	if err := r.journal.Save(record); err != nil {
		r.logger.Warn("failed to journal trade", zap.Error(err))
	}
}

// standings ranks competitors by total value, best first, with profit
// relative to the fixed initial balance.
func (r *Runner) standings(valuations map[string]decimal.Decimal) []domain.Standing {
	standings := make([]domain.Standing, 0, len(r.strategies))
	for _, strat := range r.strategies {
		total := valuations[strat.Name()]
		profit := total.Sub(domain.InitialCash)
		standings = append(standings, domain.Standing{
			Name:          strat.Name(),
			TotalValue:    total,
			Profit:        profit,
			ProfitPercent: profit.Div(domain.InitialCash).Mul(decimal.NewFromInt(100)),
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].TotalValue.GreaterThan(standings[j].TotalValue)
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

func (r *Runner) strategyNames() []string {
	names := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name()
	}
	return names
}
