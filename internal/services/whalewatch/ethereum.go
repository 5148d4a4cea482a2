// Package whalewatch observes large transfers on an Ethereum RPC endpoint.
package whalewatch

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// EthereumWatcher scans the latest block for value transfers above a
// threshold. Transfers that large are treated as whale activity.
type EthereumWatcher struct {
	client       *ethclient.Client
	thresholdWei *big.Int
	logger       *zap.Logger
}

// NewEthereumWatcher dials the RPC endpoint. thresholdEth is the minimum
// transfer size, in whole ether, that counts as whale activity.
func NewEthereumWatcher(rpcURL string, thresholdEth int64, logger *zap.Logger) (*EthereumWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if thresholdEth <= 0 {
		return nil, errors.New("whale threshold must be positive")
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "dial ethereum RPC")
	}

	return &EthereumWatcher{
		client:       client,
		thresholdWei: new(big.Int).Mul(big.NewInt(thresholdEth), weiPerEther),
		logger:       logger,
	}, nil
}

// WhaleActivity reports whether the latest block contains a transfer at or
// above the threshold.
func (w *EthereumWatcher) WhaleActivity(ctx context.Context) (bool, error) {
	block, err := w.client.BlockByNumber(ctx, nil)
	if err != nil {
		return false, errors.Wrap(err, "fetch latest block")
	}

	for _, tx := range block.Transactions() {
		if tx.Value().Cmp(w.thresholdWei) >= 0 {
			w.logger.Info("large transfer observed",
				zap.String("tx", tx.Hash().Hex()),
				zap.String("value_wei", tx.Value().String()),
				zap.Uint64("block", block.NumberU64()))
			return true, nil
		}
	}

	return false, nil
}

// Close releases the RPC connection.
func (w *EthereumWatcher) Close() {
	w.client.Close()
}
