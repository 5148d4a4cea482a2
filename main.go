// Command paperbots runs one round of a recurring paper-trading competition:
// three strategies each manage an isolated virtual wallet against live market
// prices, and their valuations are tracked in a shared state file.
//
// Usage:
//
//	paperbots                      (flags with defaults)
//	paperbots --config config.yaml
//	paperbots --setup              (interactive configuration wizard)
//
// Optional environment variables:
//
//	LLM_API_KEY              enables the sentiment strategy's provider
//	ETH_RPC_URL              enables the on-chain whale watcher
//	HYPERLIQUID_PRIVATE_KEY  required for the hyperliquid platform
//	BINANCE_API_KEY/SECRET, BYBIT_API_KEY/SECRET (public data works without)
//
// Exit codes: 0 on success, 2 when the state file cannot be loaded, 3 when
// the current price cannot be fetched. Both aborts leave the persisted state
// untouched.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/paperbots/config"
	"github.com/vadiminshakov/paperbots/internal"
	"github.com/vadiminshakov/paperbots/internal/chart"
	"github.com/vadiminshakov/paperbots/internal/clients"
	"github.com/vadiminshakov/paperbots/internal/report"
	"github.com/vadiminshakov/paperbots/internal/services/strategy"
	"github.com/vadiminshakov/paperbots/internal/services/whalewatch"
	"github.com/vadiminshakov/paperbots/internal/setup"
	"github.com/vadiminshakov/paperbots/internal/storage/competition"
	"github.com/vadiminshakov/paperbots/internal/storage/trades"
)

const (
	exitOK         = 0
	exitConfig     = 1
	exitStateLoad  = 2
	exitPriceFetch = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	conf, err := config.Get()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitConfig
	}

	if conf.RunSetup {
		if err := setup.RunTUI(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitConfig
		}
		return exitOK
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	client, err := createPlatformClient(conf.Platform)
	if err != nil {
		logger.Error("failed to create platform client", zap.Error(err))
		return exitConfig
	}

	provider, err := internal.NewServiceProvider(client)
	if err != nil {
		logger.Error("failed to create service provider", zap.Error(err))
		return exitConfig
	}
	pricer, err := provider.Pricer()
	if err != nil {
		logger.Error("failed to create pricer", zap.Error(err))
		return exitConfig
	}
	klineProvider, err := provider.KlineProvider()
	if err != nil {
		logger.Error("failed to create kline provider", zap.Error(err))
		return exitConfig
	}

	var llm clients.LLMClient
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		llm = clients.NewOpenAICompatibleClient(conf.LLMAPIURL, apiKey, conf.LLMModel)
	} else {
		logger.Info("LLM_API_KEY is not set, sentiment strategy falls back to random decisions")
	}

	var watcher strategy.WhaleWatcher
	rpcURL := conf.EthRPCURL
	if rpcURL == "" {
		rpcURL = os.Getenv("ETH_RPC_URL")
	}
	if rpcURL != "" {
		threshold := conf.WhaleThresholdEth
		if threshold <= 0 {
			threshold = 100
		}
		w, err := whalewatch.NewEthereumWatcher(rpcURL, threshold, logger)
		if err != nil {
			logger.Warn("whale watcher unavailable, whale strategy stays simulated", zap.Error(err))
		} else {
			defer w.Close()
			watcher = w
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	strategies := strategy.CreateAll(conf.Pair, llm, watcher, rng, logger)

	store, err := competition.NewStore(conf.StatePath)
	if err != nil {
		logger.Error("failed to create state store", zap.Error(err))
		return exitConfig
	}

	var journal internal.TradeJournal
	walStore, err := trades.NewWALStore(conf.JournalDir)
	if err != nil {
		logger.Warn("trade journal unavailable, trades will not be journaled", zap.Error(err))
	} else {
		defer walStore.Close()
		journal = walStore
	}

	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name()
	}
	renderer := chart.NewHTMLRenderer(conf.ChartPath, names, logger)

	runner, err := internal.NewRunner(internal.RunnerParams{
		Pair:         conf.Pair,
		Interval:     conf.Interval,
		HistoryLimit: conf.HistoryLimit,
		FeeRate:      conf.FeeRate,
		SlippageRate: conf.SlippageRate,
		Pricer:       pricer,
		Klines:       klineProvider,
		Store:        store,
		Journal:      journal,
		Chart:        renderer,
		Strategies:   strategies,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("failed to create runner", zap.Error(err))
		return exitConfig
	}

	ctx, cancel := context.WithTimeout(context.Background(), conf.RunTimeout)
	defer cancel()

	standings, err := runner.Run(ctx)
	switch {
	case errors.Is(err, internal.ErrStateLoad):
		logger.Error("aborting run, state could not be loaded", zap.Error(err))
		return exitStateLoad
	case errors.Is(err, internal.ErrPriceFetch):
		logger.Error("aborting run, price could not be fetched", zap.Error(err))
		return exitPriceFetch
	case err != nil:
		logger.Error("run failed", zap.Error(err))
		return exitConfig
	}

	fmt.Println(report.RenderStandings(standings))
	return exitOK
}

func createPlatformClient(platform string) (any, error) {
	switch platform {
	case "binance":
		return clients.NewBinanceClient(os.Getenv("BINANCE_API_KEY"), os.Getenv("BINANCE_API_SECRET")), nil
	case "bybit":
		return clients.NewBybitClient(os.Getenv("BYBIT_API_KEY"), os.Getenv("BYBIT_API_SECRET")), nil
	case "hyperliquid":
		key := os.Getenv("HYPERLIQUID_PRIVATE_KEY")
		if key == "" {
			return nil, errors.New("HYPERLIQUID_PRIVATE_KEY environment variable must be set")
		}
		return clients.NewHyperliquidClient(key, "")
	default:
		return nil, errors.Errorf("unsupported platform: %s", platform)
	}
}
