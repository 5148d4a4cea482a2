// Package config loads competition configuration from YAML or CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/paperbots/internal/domain"
	"gopkg.in/yaml.v3"
)

// Defaults for the competition. Fee and slippage follow typical spot taker
// costs: 0.1% fee, 0.05% slippage.
const (
	DefaultPlatform     = "binance"
	DefaultPair         = "BTC_USDT"
	DefaultInterval     = "1h"
	DefaultHistoryLimit = 100
	DefaultStatePath    = "data.json"
	DefaultChartPath    = "status.html"
	DefaultJournalDir   = "./wal/trades"
	DefaultFeeRate      = "0.001"
	DefaultSlippageRate = "0.0005"
	DefaultLLMAPIURL    = "https://openrouter.ai/api/v1/chat/completions"
	DefaultLLMModel     = "deepseek/deepseek-v3.2-exp"
	DefaultRunTimeout   = 2 * time.Minute
)

// Config is the resolved competition configuration.
type Config struct {
	Platform          string
	Pair              domain.Pair
	Interval          string
	HistoryLimit      int
	StatePath         string
	ChartPath         string
	JournalDir        string
	FeeRate           decimal.Decimal
	SlippageRate      decimal.Decimal
	LLMAPIURL         string
	LLMModel          string
	EthRPCURL         string
	WhaleThresholdEth int64
	RunTimeout        time.Duration
	// RunSetup requests the interactive configuration wizard instead of a run.
	RunSetup bool
}

// configYaml mirrors Config for YAML decoding; decimals travel as strings.
type configYaml struct {
	Platform          string        `yaml:"platform"`
	Pair              string        `yaml:"pair"`
	Interval          string        `yaml:"interval"`
	HistoryLimit      int           `yaml:"history_limit,omitempty"`
	StatePath         string        `yaml:"state_path,omitempty"`
	ChartPath         string        `yaml:"chart_path,omitempty"`
	JournalDir        string        `yaml:"journal_dir,omitempty"`
	FeeRate           string        `yaml:"fee_rate,omitempty"`
	SlippageRate      string        `yaml:"slippage_rate,omitempty"`
	LLMAPIURL         string        `yaml:"llm_api_url,omitempty"`
	LLMModel          string        `yaml:"llm_model,omitempty"`
	EthRPCURL         string        `yaml:"eth_rpc_url,omitempty"`
	WhaleThresholdEth int64         `yaml:"whale_threshold_eth,omitempty"`
	RunTimeout        time.Duration `yaml:"run_timeout,omitempty"`
}

// Get resolves configuration: --config selects a YAML file, otherwise the
// individual flags apply.
func Get() (*Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	setup := flag.Bool("setup", false, "run the interactive configuration wizard")
	platform := flag.String("platform", DefaultPlatform, "market data platform: binance, bybit or hyperliquid")
	pairFlag := flag.String("pair", DefaultPair, "trade pair, example: BTC_USDT")
	interval := flag.String("interval", DefaultInterval, "candle interval for the historical series")
	historyLimit := flag.Int("limit", DefaultHistoryLimit, "number of historical candles to fetch")
	statePath := flag.String("state", DefaultStatePath, "path to the competition state file")
	chartPath := flag.String("chart", DefaultChartPath, "path to the rendered performance chart")
	journalDir := flag.String("journal", DefaultJournalDir, "directory for the trade journal WAL")
	feeRate := flag.String("fee", DefaultFeeRate, "trading fee rate, example: 0.001")
	slippageRate := flag.String("slippage", DefaultSlippageRate, "slippage rate, example: 0.0005")
	flag.Parse()

	if *setup {
		return &Config{RunSetup: true}, nil
	}

	if *configPath != "" {
		return getYaml(*configPath)
	}

	pair, err := getPairFromString(*pairFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid --pair provided, --pair=%s", *pairFlag)
	}
	fee, err := decimal.NewFromString(*feeRate)
	if err != nil {
		return nil, fmt.Errorf("invalid --fee provided, --fee=%s", *feeRate)
	}
	slippage, err := decimal.NewFromString(*slippageRate)
	if err != nil {
		return nil, fmt.Errorf("invalid --slippage provided, --slippage=%s", *slippageRate)
	}

	conf := &Config{
		Platform:     *platform,
		Pair:         pair,
		Interval:     *interval,
		HistoryLimit: *historyLimit,
		StatePath:    *statePath,
		ChartPath:    *chartPath,
		JournalDir:   *journalDir,
		FeeRate:      fee,
		SlippageRate: slippage,
		LLMAPIURL:    DefaultLLMAPIURL,
		LLMModel:     DefaultLLMModel,
		RunTimeout:   DefaultRunTimeout,
	}
	return conf, conf.validate()
}

func getYaml(path string) (*Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tmp configYaml
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return nil, err
	}

	pair, err := getPairFromString(tmp.Pair)
	if err != nil {
		return nil, fmt.Errorf("incorrect 'pair' param in yaml config: %s, error: %w", tmp.Pair, err)
	}

	conf := &Config{
		Platform:          stringOr(tmp.Platform, DefaultPlatform),
		Pair:              pair,
		Interval:          stringOr(tmp.Interval, DefaultInterval),
		HistoryLimit:      intOr(tmp.HistoryLimit, DefaultHistoryLimit),
		StatePath:         stringOr(tmp.StatePath, DefaultStatePath),
		ChartPath:         stringOr(tmp.ChartPath, DefaultChartPath),
		JournalDir:        stringOr(tmp.JournalDir, DefaultJournalDir),
		LLMAPIURL:         stringOr(tmp.LLMAPIURL, DefaultLLMAPIURL),
		LLMModel:          stringOr(tmp.LLMModel, DefaultLLMModel),
		EthRPCURL:         tmp.EthRPCURL,
		WhaleThresholdEth: tmp.WhaleThresholdEth,
		RunTimeout:        DefaultRunTimeout,
	}
	if tmp.RunTimeout > 0 {
		conf.RunTimeout = tmp.RunTimeout
	}

	conf.FeeRate, err = decimal.NewFromString(stringOr(tmp.FeeRate, DefaultFeeRate))
	if err != nil {
		return nil, fmt.Errorf("incorrect 'fee_rate' param in yaml config, error: %w", err)
	}
	conf.SlippageRate, err = decimal.NewFromString(stringOr(tmp.SlippageRate, DefaultSlippageRate))
	if err != nil {
		return nil, fmt.Errorf("incorrect 'slippage_rate' param in yaml config, error: %w", err)
	}

	return conf, conf.validate()
}

func (c *Config) validate() error {
	switch c.Platform {
	case "binance", "bybit", "hyperliquid":
	default:
		return fmt.Errorf("unsupported platform: %s", c.Platform)
	}

	if c.FeeRate.IsNegative() || c.FeeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("fee rate must be in [0,1): %s", c.FeeRate.String())
	}
	if c.SlippageRate.IsNegative() || c.SlippageRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("slippage rate must be in [0,1): %s", c.SlippageRate.String())
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history limit must be positive: %d", c.HistoryLimit)
	}
	return nil
}

func getPairFromString(pairStr string) (domain.Pair, error) {
	pairElements := strings.Split(pairStr, "_")
	if len(pairElements) != 2 {
		return domain.Pair{}, fmt.Errorf("invalid pair format: %s (expected BASE_QUOTE)", pairStr)
	}
	return domain.Pair{From: pairElements[0], To: pairElements[1]}, nil
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func intOr(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
