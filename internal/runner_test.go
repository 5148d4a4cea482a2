package internal

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/paperbots/internal/domain"
	"github.com/vadiminshakov/paperbots/internal/services/strategy"
	"go.uber.org/zap"
)

var (
	testPair  = domain.Pair{From: "BTC", To: "USDT"}
	testPrice = decimal.NewFromInt(50000)
	testNow   = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
)

type stubPricer struct {
	price decimal.Decimal
	err   error
}

func (p *stubPricer) GetPrice(context.Context, domain.Pair) (decimal.Decimal, error) {
	return p.price, p.err
}

type stubKlines struct {
	klines []domain.Kline
	err    error
}

func (k *stubKlines) GetKlines(context.Context, domain.Pair, string, int) ([]domain.Kline, error) {
	return k.klines, k.err
}

type stubStore struct {
	state   *domain.CompetitionState
	loadErr error
	saveErr error
	saved   *domain.CompetitionState
}

func (s *stubStore) Load() (*domain.CompetitionState, error) {
	return s.state, s.loadErr
}

func (s *stubStore) Save(state *domain.CompetitionState) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = state
	return nil
}

type stubJournal struct {
	records []domain.TradeRecord
	err     error
}

func (j *stubJournal) Save(record domain.TradeRecord) error {
	if j.err != nil {
		return j.err
	}
	j.records = append(j.records, record)
	return nil
}

type stubChart struct {
	history []domain.Snapshot
	err     error
}

func (c *stubChart) Render(history []domain.Snapshot) error {
	c.history = history
	return c.err
}

type fixedStrategy struct {
	name     string
	decision domain.Decision
}

func (s *fixedStrategy) Name() string { return s.name }

func (s *fixedStrategy) Decide(context.Context, decimal.Decimal, []domain.Kline) domain.Decision {
	return s.decision
}

func testParams(strategies ...strategy.Strategy) RunnerParams {
	return RunnerParams{
		Pair:         testPair,
		Interval:     "1h",
		HistoryLimit: 100,
		FeeRate:      decimal.NewFromFloat(0.001),
		SlippageRate: decimal.NewFromFloat(0.0005),
		Pricer:       &stubPricer{price: testPrice},
		Klines:       &stubKlines{},
		Store:        &stubStore{},
		Strategies:   strategies,
		Logger:       zap.NewNop(),
		Now:          func() time.Time { return testNow },
	}
}

func TestRunner_FreshCompetition(t *testing.T) {
	store := &stubStore{}
	journal := &stubJournal{}
	chart := &stubChart{}

	params := testParams(
		&fixedStrategy{name: "buyer", decision: domain.Buy},
		&fixedStrategy{name: "seller", decision: domain.Sell},
		&fixedStrategy{name: "holder", decision: domain.Hold},
	)
	params.Store = store
	params.Journal = journal
	params.Chart = chart

	runner, err := NewRunner(params)
	require.NoError(t, err)

	standings, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, standings, 3)

	// fresh state was synthesized and persisted
	require.NotNil(t, store.saved)
	assert.Equal(t, domain.SchemaVersion, store.saved.SchemaVersion)
	assert.Equal(t, testNow.Format(time.RFC3339), store.saved.StartDate)
	require.Len(t, store.saved.History, 1)
	assert.True(t, store.saved.History[0].Price().Equal(testPrice))

	// the buyer spent 90% of its cash on the position
	buyer := store.saved.Bots["buyer"]
	assert.True(t, buyer.CashBalance().Equal(decimal.NewFromInt(100)),
		"buyer cash %s", buyer.CashBalance())
	assert.True(t, buyer.HoldingAmounts()["BTC"].GreaterThan(decimal.Zero))

	// the seller had nothing to sell, the holder did nothing
	for _, name := range []string{"seller", "holder"} {
		bot := store.saved.Bots[name]
		assert.True(t, bot.CashBalance().Equal(domain.InitialCash), "%s cash %s", name, bot.CashBalance())
	}

	// only the executed buy hit the journal
	require.Len(t, journal.records, 1)
	assert.Equal(t, "buyer", journal.records[0].Bot)
	assert.Equal(t, "BUY", journal.records[0].Side)
	assert.NotEmpty(t, journal.records[0].ID)

	// the chart saw the full history
	assert.Len(t, chart.history, 1)
}

func TestRunner_StateLoadFailureAborts(t *testing.T) {
	store := &stubStore{loadErr: errors.New("disk on fire")}
	params := testParams(&fixedStrategy{name: "buyer", decision: domain.Buy})
	params.Store = store

	runner, err := NewRunner(params)
	require.NoError(t, err)

	_, err = runner.Run(context.Background())
	require.ErrorIs(t, err, ErrStateLoad)
	assert.Nil(t, store.saved)
}

func TestRunner_PriceFetchFailureAborts(t *testing.T) {
	store := &stubStore{}
	params := testParams(&fixedStrategy{name: "buyer", decision: domain.Buy})
	params.Store = store
	params.Pricer = &stubPricer{err: errors.New("exchange down")}

	runner, err := NewRunner(params)
	require.NoError(t, err)

	_, err = runner.Run(context.Background())
	require.ErrorIs(t, err, ErrPriceFetch)

	// fail-closed: nothing was persisted
	assert.Nil(t, store.saved)
}

func TestRunner_KlineFailureDegrades(t *testing.T) {
	store := &stubStore{}
	params := testParams(&fixedStrategy{name: "holder", decision: domain.Hold})
	params.Store = store
	params.Klines = &stubKlines{err: errors.New("history endpoint 500")}

	runner, err := NewRunner(params)
	require.NoError(t, err)

	standings, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, standings, 1)
	assert.NotNil(t, store.saved)
}

func TestRunner_SaveFailureIsNotFatal(t *testing.T) {
	store := &stubStore{saveErr: errors.New("read-only filesystem")}
	params := testParams(&fixedStrategy{name: "holder", decision: domain.Hold})
	params.Store = store

	runner, err := NewRunner(params)
	require.NoError(t, err)

	standings, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, standings, 1)
}

func TestRunner_ChartFailureIsNotFatal(t *testing.T) {
	params := testParams(&fixedStrategy{name: "holder", decision: domain.Hold})
	params.Chart = &stubChart{err: errors.New("template blew up")}

	runner, err := NewRunner(params)
	require.NoError(t, err)

	_, err = runner.Run(context.Background())
	assert.NoError(t, err)
}

func TestRunner_ResumesExistingState(t *testing.T) {
	existing := domain.NewCompetitionState([]string{"buyer"}, testNow.Add(-24*time.Hour))
	existing.Bots["buyer"] = domain.NewWalletState(
		decimal.NewFromInt(100),
		map[string]decimal.Decimal{"BTC": decimal.RequireFromString("0.0179")},
	)
	existing.History = append(existing.History, domain.NewSnapshot(
		testNow.Add(-24*time.Hour), decimal.NewFromInt(48000),
		map[string]decimal.Decimal{"buyer": decimal.NewFromInt(960)}))

	store := &stubStore{state: existing}
	params := testParams(&fixedStrategy{name: "buyer", decision: domain.Sell})
	params.Store = store

	runner, err := NewRunner(params)
	require.NoError(t, err)

	standings, err := runner.Run(context.Background())
	require.NoError(t, err)

	// the start date survives, the history grows by one entry
	require.NotNil(t, store.saved)
	assert.Equal(t, existing.StartDate, store.saved.StartDate)
	assert.Len(t, store.saved.History, 2)

	// the whole holding was liquidated at the effective price
	bot := store.saved.Bots["buyer"]
	assert.True(t, bot.HoldingAmounts()["BTC"].Equal(decimal.Zero))
	assert.True(t, bot.CashBalance().GreaterThan(decimal.NewFromInt(100)))

	require.Len(t, standings, 1)
	assert.True(t, standings[0].TotalValue.Equal(bot.CashBalance()))
}

func TestRunner_BuyBelowMinimumSkipped(t *testing.T) {
	existing := domain.NewCompetitionState([]string{"buyer"}, testNow)
	// 90% of 10 is below the 10 USD order minimum
	existing.Bots["buyer"] = domain.NewWalletState(decimal.NewFromInt(10), nil)

	store := &stubStore{state: existing}
	journal := &stubJournal{}
	params := testParams(&fixedStrategy{name: "buyer", decision: domain.Buy})
	params.Store = store
	params.Journal = journal

	runner, err := NewRunner(params)
	require.NoError(t, err)

	_, err = runner.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, store.saved.Bots["buyer"].CashBalance().Equal(decimal.NewFromInt(10)))
	assert.Empty(t, journal.records)
}

func TestRunner_Standings(t *testing.T) {
	existing := domain.NewCompetitionState([]string{"rich", "poor"}, testNow)
	existing.Bots["rich"] = domain.NewWalletState(decimal.NewFromInt(1500), nil)
	existing.Bots["poor"] = domain.NewWalletState(decimal.NewFromInt(800), nil)

	params := testParams(
		&fixedStrategy{name: "poor", decision: domain.Hold},
		&fixedStrategy{name: "rich", decision: domain.Hold},
	)
	params.Store = &stubStore{state: existing}

	runner, err := NewRunner(params)
	require.NoError(t, err)

	standings, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, standings, 2)

	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, "rich", standings[0].Name)
	assert.True(t, standings[0].Profit.Equal(decimal.NewFromInt(500)))
	assert.True(t, standings[0].ProfitPercent.Equal(decimal.NewFromInt(50)))

	assert.Equal(t, 2, standings[1].Rank)
	assert.Equal(t, "poor", standings[1].Name)
	assert.True(t, standings[1].Profit.Equal(decimal.NewFromInt(-200)))
}

func TestNewRunner_Validation(t *testing.T) {
	valid := testParams(&fixedStrategy{name: "x", decision: domain.Hold})

	missingPricer := valid
	missingPricer.Pricer = nil
	_, err := NewRunner(missingPricer)
	assert.Error(t, err)

	missingKlines := valid
	missingKlines.Klines = nil
	_, err = NewRunner(missingKlines)
	assert.Error(t, err)

	missingStore := valid
	missingStore.Store = nil
	_, err = NewRunner(missingStore)
	assert.Error(t, err)

	noStrategies := valid
	noStrategies.Strategies = nil
	_, err = NewRunner(noStrategies)
	assert.Error(t, err)
}
