package explorer

import (
	"context"
	"encoding/json"
)

// API defines the explorer endpoints used by the aggregator.
type API interface {
	// TokenHolderList returns one page of token holders.
	TokenHolderList(ctx context.Context, address string, page, offset int) ([]HolderEntry, error)

	// TokenTransfers returns one page of token transfers.
	TokenTransfers(ctx context.Context, address string, page, offset int, sort string) ([]TransferEntry, error)

	// SourceCode returns the first verified source record for a contract.
	SourceCode(ctx context.Context, address string) (json.RawMessage, error)
}

var _ API = (*Client)(nil)
