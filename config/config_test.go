package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/paperbots/internal/domain"
)

func writeYaml(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetYaml(t *testing.T) {
	path := writeYaml(t, `
platform: bybit
pair: ETH_USDT
interval: 15m
history_limit: 50
state_path: /tmp/state.json
fee_rate: "0.002"
slippage_rate: "0.001"
eth_rpc_url: https://rpc.example.org
whale_threshold_eth: 250
`)

	conf, err := getYaml(path)
	require.NoError(t, err)

	assert.Equal(t, "bybit", conf.Platform)
	assert.Equal(t, domain.Pair{From: "ETH", To: "USDT"}, conf.Pair)
	assert.Equal(t, "15m", conf.Interval)
	assert.Equal(t, 50, conf.HistoryLimit)
	assert.Equal(t, "/tmp/state.json", conf.StatePath)
	assert.True(t, conf.FeeRate.Equal(decimal.RequireFromString("0.002")))
	assert.True(t, conf.SlippageRate.Equal(decimal.RequireFromString("0.001")))
	assert.Equal(t, "https://rpc.example.org", conf.EthRPCURL)
	assert.Equal(t, int64(250), conf.WhaleThresholdEth)
	assert.Equal(t, DefaultRunTimeout, conf.RunTimeout)
}

func TestGetYaml_Defaults(t *testing.T) {
	path := writeYaml(t, "pair: BTC_USDT\n")

	conf, err := getYaml(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultPlatform, conf.Platform)
	assert.Equal(t, DefaultInterval, conf.Interval)
	assert.Equal(t, DefaultHistoryLimit, conf.HistoryLimit)
	assert.Equal(t, DefaultStatePath, conf.StatePath)
	assert.Equal(t, DefaultChartPath, conf.ChartPath)
	assert.Equal(t, DefaultJournalDir, conf.JournalDir)
	assert.True(t, conf.FeeRate.Equal(decimal.RequireFromString(DefaultFeeRate)))
	assert.True(t, conf.SlippageRate.Equal(decimal.RequireFromString(DefaultSlippageRate)))
	assert.Equal(t, DefaultLLMModel, conf.LLMModel)
}

func TestGetYaml_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad pair", "pair: BTCUSDT\n"},
		{"bad fee", "pair: BTC_USDT\nfee_rate: cheap\n"},
		{"fee out of range", "pair: BTC_USDT\nfee_rate: \"1.5\"\n"},
		{"unknown platform", "pair: BTC_USDT\nplatform: kraken\n"},
		{"negative limit", "pair: BTC_USDT\nhistory_limit: -3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := getYaml(writeYaml(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestGetYaml_MissingFile(t *testing.T) {
	_, err := getYaml(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetPairFromString(t *testing.T) {
	pair, err := getPairFromString("SOL_USDC")
	require.NoError(t, err)
	assert.Equal(t, domain.Pair{From: "SOL", To: "USDC"}, pair)

	_, err = getPairFromString("SOLUSDC")
	assert.Error(t, err)

	_, err = getPairFromString("A_B_C")
	assert.Error(t, err)
}
