package checker

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"token-rugcheck/internal/aggregator"
	"token-rugcheck/internal/analysis"
	"token-rugcheck/internal/chain"
	"token-rugcheck/internal/config"
	"token-rugcheck/internal/explorer"
	"token-rugcheck/internal/logging"
)

// Build wires the production service from cfg. The returned func releases the node connection.
func Build(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*Service, func(), error) {
	node, err := chain.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to node: %w", err)
	}

	reader := chain.NewReader(node,
		chain.WithCallTimeout(cfg.ChainCallTimeout),
		chain.WithLogger(logging.Component(logger, "chain")),
	)

	api := explorer.NewClient(cfg.ExplorerAPIKey,
		explorer.WithBaseURL(cfg.ExplorerURL),
		explorer.WithTimeout(cfg.ExplorerTimeout),
		explorer.WithLogger(logging.Component(logger, "explorer")),
	)

	generator := analysis.NewGenerator(analysis.NewClient(cfg.LLMAPIKey, cfg.LLMBaseURL),
		analysis.WithModel(cfg.LLMModel),
		analysis.WithTimeout(cfg.LLMTimeout),
		analysis.WithLogger(logging.Component(logger, "analysis")),
	)

	agg := aggregator.New(reader, api, logging.Component(logger, "aggregator"))
	svc := New(agg, generator, logging.Component(logger, "checker"))

	return svc, node.Close, nil
}
