package domain

import (
	"strings"

	"github.com/pkg/errors"
)

// Decision represents a trading decision made by a strategy.
type Decision int

const (
	Hold Decision = iota
	Buy
	Sell
)

// decision string constants to avoid magic strings
const (
	decisionStringBuy  = "BUY"
	decisionStringSell = "SELL"
	decisionStringHold = "HOLD"
)

// String returns the string representation of the decision.
func (d Decision) String() string {
	switch d {
	case Buy:
		return decisionStringBuy
	case Sell:
		return decisionStringSell
	case Hold:
		return decisionStringHold
	default:
		return "unknown"
	}
}

// ParseDecision extracts a trading decision from raw model output.
// Matching is case-insensitive and tolerates surrounding text: the payload is
// stripped of code fences and scanned token by token. Exactly one of the three
// recognized tokens must appear, otherwise an error is returned.
func ParseDecision(raw string) (Decision, error) {
	response := sanitizeDecisionPayload(raw)
	if response == "" {
		return Hold, errors.New("empty decision payload")
	}

	if d, ok := decisionFromToken(response); ok {
		return d, nil
	}

	var (
		found Decision
		seen  int
	)
	for _, token := range strings.Fields(response) {
		token = strings.Trim(token, ".,:;!?\"'`()[]{}*")
		d, ok := decisionFromToken(token)
		if !ok {
			continue
		}
		if seen == 0 || d == found {
			found = d
			seen++
			continue
		}
		return Hold, errors.Errorf("ambiguous decision payload: %q", raw)
	}

	if seen == 0 {
		return Hold, errors.Errorf("unrecognized decision payload: %q", raw)
	}
	return found, nil
}

func decisionFromToken(token string) (Decision, bool) {
	switch strings.ToUpper(token) {
	case decisionStringBuy:
		return Buy, true
	case decisionStringSell:
		return Sell, true
	case decisionStringHold:
		return Hold, true
	}
	return Hold, false
}

func sanitizeDecisionPayload(raw string) string {
	response := strings.TrimSpace(raw)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}
