package stub

import (
	"context"
	"encoding/json"
	"sync"

	"token-rugcheck/internal/explorer"
)

// API implements explorer.API for testing.
type API struct {
	Holders      []explorer.HolderEntry
	Transfers    []explorer.TransferEntry
	Source       json.RawMessage
	HoldersErr   error
	TransfersErr error
	SourceErr    error

	mu    sync.Mutex
	calls []string
}

// NewAPI creates a new stub explorer.
func NewAPI() *API {
	return &API{}
}

// TokenHolderList returns the configured holders or HoldersErr.
func (a *API) TokenHolderList(_ context.Context, _ string, _, offset int) ([]explorer.HolderEntry, error) {
	a.record("tokenholderlist")
	if a.HoldersErr != nil {
		return nil, a.HoldersErr
	}
	if offset > 0 && offset < len(a.Holders) {
		return a.Holders[:offset], nil
	}
	return a.Holders, nil
}

// TokenTransfers returns the configured transfers or TransfersErr.
func (a *API) TokenTransfers(_ context.Context, _ string, _, _ int, _ string) ([]explorer.TransferEntry, error) {
	a.record("tokentx")
	if a.TransfersErr != nil {
		return nil, a.TransfersErr
	}
	return a.Transfers, nil
}

// SourceCode returns the configured source record or SourceErr.
func (a *API) SourceCode(_ context.Context, _ string) (json.RawMessage, error) {
	a.record("getsourcecode")
	if a.SourceErr != nil {
		return nil, a.SourceErr
	}
	return a.Source, nil
}

// Calls returns the actions invoked so far.
func (a *API) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.calls))
	copy(out, a.calls)
	return out
}

func (a *API) record(action string) {
	a.mu.Lock()
	a.calls = append(a.calls, action)
	a.mu.Unlock()
}
