// Package setup provides the interactive configuration wizard.
package setup

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	doneStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)
)

type wizardYaml struct {
	Platform     string `yaml:"platform"`
	Pair         string `yaml:"pair"`
	Interval     string `yaml:"interval"`
	StatePath    string `yaml:"state_path"`
	ChartPath    string `yaml:"chart_path"`
	FeeRate      string `yaml:"fee_rate"`
	SlippageRate string `yaml:"slippage_rate"`
	LLMAPIURL    string `yaml:"llm_api_url,omitempty"`
	LLMModel     string `yaml:"llm_model,omitempty"`
	EthRPCURL    string `yaml:"eth_rpc_url,omitempty"`
}

// RunTUI launches the terminal configuration wizard and writes config.yaml.
func RunTUI() error {
	fmt.Println(headerStyle.Render("paperbots configuration"))

	cfg := wizardYaml{
		Platform:     "binance",
		Pair:         "BTC_USDT",
		Interval:     "1h",
		StatePath:    "data.json",
		ChartPath:    "status.html",
		FeeRate:      "0.001",
		SlippageRate: "0.0005",
		LLMAPIURL:    "https://openrouter.ai/api/v1/chat/completions",
		LLMModel:     "deepseek/deepseek-v3.2-exp",
	}
	confirm := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Market data platform").
				Options(huh.NewOptions("binance", "bybit", "hyperliquid")...).
				Value(&cfg.Platform),
			huh.NewInput().
				Title("Trading pair").
				Description("format: BASE_QUOTE, e.g. BTC_USDT").
				Value(&cfg.Pair),
			huh.NewInput().
				Title("Candle interval").
				Value(&cfg.Interval),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("State file path").
				Value(&cfg.StatePath),
			huh.NewInput().
				Title("Chart output path").
				Value(&cfg.ChartPath),
			huh.NewInput().
				Title("Fee rate").
				Validate(validateRate).
				Value(&cfg.FeeRate),
			huh.NewInput().
				Title("Slippage rate").
				Validate(validateRate).
				Value(&cfg.SlippageRate),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("LLM API URL").
				Description("OpenAI-compatible endpoint for the sentiment strategy; the key comes from LLM_API_KEY").
				Value(&cfg.LLMAPIURL),
			huh.NewInput().
				Title("LLM model").
				Value(&cfg.LLMModel),
			huh.NewInput().
				Title("Ethereum RPC URL").
				Description("optional, enables the on-chain whale watcher").
				Value(&cfg.EthRPCURL),
			huh.NewConfirm().
				Title("Write config.yaml?").
				Value(&confirm),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}
	if !confirm {
		return nil
	}

	payload, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile("config.yaml", payload, 0o644); err != nil {
		return err
	}

	fmt.Println(doneStyle.Render("config.yaml written - start a run with: paperbots --config config.yaml"))
	return nil
}

func validateRate(value string) error {
	rate, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("not a number: %s", value)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("rate must be in [0,1)")
	}
	return nil
}
