// Package aggregator builds the normalized token record from chain and explorer data.
package aggregator

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"token-rugcheck/internal/chain"
	"token-rugcheck/internal/domain"
	"token-rugcheck/internal/explorer"
	"token-rugcheck/internal/observability"
	"token-rugcheck/internal/units"
)

// Page sizes requested from the explorer.
const (
	HolderPageSize   = 100
	TransferPageSize = 100
)

// Aggregator orchestrates the chain reader and explorer calls for one token.
type Aggregator struct {
	chain    chain.BasicsReader
	explorer explorer.API
	logger   logrus.FieldLogger
}

// New creates a new aggregator.
func New(reader chain.BasicsReader, api explorer.API, logger logrus.FieldLogger) *Aggregator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Aggregator{
		chain:    reader,
		explorer: api,
		logger:   logger,
	}
}

// Aggregate builds TokenData for a contract address.
func (a *Aggregator) Aggregate(ctx context.Context, address string) (*domain.TokenData, error) {
	return a.Run(ctx, address, nil)
}

// Run builds TokenData and reports each stage to progress (which may be nil).
//
// The holder list is optional: its failure leaves holders empty. Transfers and
// source code are mandatory and abort the aggregation.
func (a *Aggregator) Run(ctx context.Context, address string, progress domain.ProgressFunc) (*domain.TokenData, error) {
	notify := func(stage domain.Stage) {
		if progress != nil {
			progress(stage)
		}
	}
	log := a.logger.WithField("address", address)

	// 1. Basic token info from the contract
	notify(domain.StageChain)
	basics, err := a.chain.GetBasics(ctx, address)
	if err != nil {
		return nil, err
	}
	decimals := int(basics.Decimals)

	// 2 + 3. Holders (optional) and transfers (mandatory) in parallel
	var (
		holderEntries   []explorer.HolderEntry
		transferEntries []explorer.TransferEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		notify(domain.StageHolders)
		entries, err := a.explorer.TokenHolderList(gctx, address, 1, HolderPageSize)
		if err != nil && gctx.Err() != nil {
			// cancelled by a failed transfer fetch, not a holder endpoint problem
			return nil
		}
		if err != nil {
			log.WithError(err).Warn("token holder check disabled/failed, continuing without holders")
			observability.RecordHolderListDegraded()
			return nil
		}
		holderEntries = entries
		return nil
	})
	g.Go(func() error {
		notify(domain.StageTransactions)
		entries, err := a.explorer.TokenTransfers(gctx, address, 1, TransferPageSize, "desc")
		if err != nil {
			return err
		}
		transferEntries = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 4 + 5. Normalize amounts
	totalSupply := units.ToDecimalString(basics.TotalSupply, decimals)
	data := &domain.TokenData{
		TokenInfo: domain.TokenInfo{
			Address:     address,
			Name:        basics.Name,
			Symbol:      basics.Symbol,
			Decimals:    decimals,
			TotalSupply: totalSupply,
		},
		Holders:      normalizeHolders(holderEntries, decimals),
		Transactions: normalizeTransfers(transferEntries, decimals),
	}

	// 6. Holder share of total supply
	ComputePercentages(data.Holders, units.ToFloat(totalSupply))

	// 7. Verified source code
	notify(domain.StageSourceCode)
	source, err := a.explorer.SourceCode(ctx, address)
	if err != nil {
		return nil, err
	}
	data.SourceCode = source

	log.WithFields(logrus.Fields{
		"holders":      len(data.Holders),
		"transactions": len(data.Transactions),
	}).Info("token data aggregated")

	return data, nil
}

// ComputePercentages sets every holder's share of totalSupply in one pass.
// All percentages are 0 when totalSupply is not positive.
func ComputePercentages(holders []domain.Holder, totalSupply float64) {
	for i := range holders {
		if totalSupply > 0 {
			holders[i].Percentage = holders[i].Amount / totalSupply * 100
		} else {
			holders[i].Percentage = 0
		}
	}
}

func normalizeHolders(entries []explorer.HolderEntry, decimals int) []domain.Holder {
	holders := make([]domain.Holder, 0, len(entries))
	for _, e := range entries {
		var amount float64
		if raw, err := units.ParseRaw(e.TokenHolderQuantity); err == nil {
			amount = units.ToFloat(units.ToDecimalString(raw, decimals))
		}
		holders = append(holders, domain.Holder{
			Account: e.TokenHolderAddress,
			Amount:  amount,
		})
	}
	return holders
}

func normalizeTransfers(entries []explorer.TransferEntry, decimals int) []domain.Transaction {
	if len(entries) > domain.MaxFetchedTransactions {
		entries = entries[:domain.MaxFetchedTransactions]
	}

	txs := make([]domain.Transaction, 0, len(entries))
	for _, e := range entries {
		value := "0"
		if raw, err := units.ParseRaw(e.Value); err == nil {
			value = units.ToDecimalString(raw, decimals)
		}
		ts, _ := strconv.ParseInt(e.TimeStamp, 10, 64)

		txs = append(txs, domain.Transaction{
			Hash:        e.Hash,
			From:        e.From,
			To:          e.To,
			Value:       value,
			Timestamp:   ts,
			BlockNumber: e.BlockNumber,
			Gas:         e.Gas,
			GasPrice:    e.GasPrice,
		})
	}
	return txs
}
