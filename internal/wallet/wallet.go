// Package wallet implements the virtual portfolio used by every competitor.
// Trades are simulated with realistic costs: a flat fee rate plus slippage
// applied against the trader on both sides.
package wallet

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/paperbots/internal/domain"
	"go.uber.org/zap"
)

// Wallet precondition violations. They are recoverable: a failed operation
// performs no mutation.
var (
	ErrInvalidAmount     = errors.New("invalid trade amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoHoldings        = errors.New("no holdings to sell")
)

var one = decimal.NewFromInt(1)

// Wallet is a ledger of one virtual portfolio: a cash balance plus per-asset
// holdings. It is mutated only through Buy and Sell. Fee and slippage rates
// are fixed for the wallet's lifetime.
type Wallet struct {
	cash         decimal.Decimal
	holdings     map[string]decimal.Decimal
	feeRate      decimal.Decimal
	slippageRate decimal.Decimal
	logger       *zap.Logger
}

// New creates a wallet with the given starting cash balance.
func New(initialCash, feeRate, slippageRate decimal.Decimal, logger *zap.Logger) *Wallet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wallet{
		cash:         initialCash,
		holdings:     make(map[string]decimal.Decimal),
		feeRate:      feeRate,
		slippageRate: slippageRate,
		logger:       logger,
	}
}

// Buy spends amountUSD of cash on the asset at the given market price.
// Slippage raises the effective price, the fee is taken from the spent amount.
func (w *Wallet) Buy(asset string, price, amountUSD decimal.Decimal) (domain.TradeReceipt, error) {
	if amountUSD.LessThanOrEqual(decimal.Zero) {
		return domain.TradeReceipt{}, errors.Wrapf(ErrInvalidAmount, "amount %s", amountUSD.String())
	}
	if amountUSD.GreaterThan(w.cash) {
		return domain.TradeReceipt{}, errors.Wrapf(ErrInsufficientFunds,
			"balance %s, requested %s", w.cash.String(), amountUSD.String())
	}

	effectivePrice := price.Mul(one.Add(w.slippageRate))
	fee := amountUSD.Mul(w.feeRate)
	netUSD := amountUSD.Sub(fee)
	quantity := netUSD.Div(effectivePrice)

	w.cash = w.cash.Sub(amountUSD)
	w.holdings[asset] = w.holdings[asset].Add(quantity)

	receipt := domain.TradeReceipt{
		Side:           domain.Buy,
		Asset:          asset,
		Quantity:       quantity,
		EffectivePrice: effectivePrice,
		Fee:            fee,
	}
	w.logger.Info("buy executed",
		zap.String("asset", asset),
		zap.String("quantity", quantity.String()),
		zap.String("effective_price", effectivePrice.String()),
		zap.String("fee", fee.String()))
	return receipt, nil
}

// Sell liquidates the entire holding of the asset at the given market price.
// Slippage lowers the effective price, the fee is taken from the proceeds.
func (w *Wallet) Sell(asset string, price decimal.Decimal) (domain.TradeReceipt, error) {
	quantity := w.holdings[asset]
	if quantity.LessThanOrEqual(decimal.Zero) {
		return domain.TradeReceipt{}, errors.Wrapf(ErrNoHoldings, "asset %s", asset)
	}

	effectivePrice := price.Mul(one.Sub(w.slippageRate))
	grossUSD := quantity.Mul(effectivePrice)
	fee := grossUSD.Mul(w.feeRate)

	w.cash = w.cash.Add(grossUSD.Sub(fee))
	// key retained with zero quantity, matching the persisted document shape
	w.holdings[asset] = decimal.Zero

	receipt := domain.TradeReceipt{
		Side:           domain.Sell,
		Asset:          asset,
		Quantity:       quantity,
		EffectivePrice: effectivePrice,
		Fee:            fee,
	}
	w.logger.Info("sell executed",
		zap.String("asset", asset),
		zap.String("quantity", quantity.String()),
		zap.String("effective_price", effectivePrice.String()),
		zap.String("fee", fee.String()))
	return receipt, nil
}

// TotalValue returns cash plus the value of every priced holding. Holdings
// without a quote in the price table contribute nothing.
func (w *Wallet) TotalValue(prices map[string]decimal.Decimal) decimal.Decimal {
	total := w.cash
	for asset, quantity := range w.holdings {
		if quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		price, ok := prices[asset]
		if !ok {
			continue
		}
		total = total.Add(quantity.Mul(price))
	}
	return total
}

// Cash returns the current cash balance.
func (w *Wallet) Cash() decimal.Decimal {
	return w.cash
}

// Holding returns the current quantity held of the asset.
func (w *Wallet) Holding(asset string) decimal.Decimal {
	return w.holdings[asset]
}

// ExportState serializes the wallet for persistence.
func (w *Wallet) ExportState() domain.WalletState {
	return domain.NewWalletState(w.cash, w.holdings)
}

// ImportState rehydrates the wallet from a persisted state. Missing fields
// fall back to the initial cash balance and empty holdings.
func (w *Wallet) ImportState(state domain.WalletState) {
	w.cash = state.CashBalance()
	w.holdings = state.HoldingAmounts()
}
