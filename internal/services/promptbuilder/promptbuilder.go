// Package promptbuilder generates the prompts sent to the sentiment provider.
package promptbuilder

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/paperbots/internal/domain"
)

// SystemPrompt defines the global system instructions for the trading LLM.
const SystemPrompt = `You are a cryptocurrency trading expert. You analyze current market conditions and answer with a single trading decision.

Respond with ONLY one word: BUY, SELL, or HOLD.`

// BuildUserPrompt formats current market conditions into the user prompt.
// The recent change is computed against the close of the previous candle when
// at least two candles are available.
func BuildUserPrompt(pair domain.Pair, currentPrice decimal.Decimal, klines []domain.Kline) string {
	change := decimal.Zero
	if len(klines) >= 2 {
		prevClose := klines[len(klines)-2].Close
		if !prevClose.IsZero() {
			change = currentPrice.Sub(prevClose).Div(prevClose).Mul(decimal.NewFromInt(100))
		}
	}

	return fmt.Sprintf(`Analyze the current market conditions and provide a trading decision.

Current %s Price: $%s
Recent Price Change: %s%%

Based on this information, should I BUY, SELL, or HOLD %s?
Respond with ONLY one word: BUY, SELL, or HOLD.`,
		pair.From, currentPrice.StringFixed(2), change.StringFixed(2), pair.From)
}
