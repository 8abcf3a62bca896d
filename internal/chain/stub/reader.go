package stub

import (
	"context"
	"math/big"
	"sync/atomic"

	"token-rugcheck/internal/chain"
	"token-rugcheck/internal/domain"
)

// Reader implements chain.BasicsReader for testing.
type Reader struct {
	Basics *chain.Basics
	calls  atomic.Int32
}

// NewReader creates a stub reader returning the given token fields.
func NewReader(name, symbol string, decimals uint8, totalSupply *big.Int) *Reader {
	return &Reader{Basics: &chain.Basics{
		Name:        name,
		Symbol:      symbol,
		Decimals:    decimals,
		TotalSupply: totalSupply,
	}}
}

// GetBasics validates the address like the real reader and returns the stored fields.
func (r *Reader) GetBasics(_ context.Context, address string) (*chain.Basics, error) {
	r.calls.Add(1)
	if !chain.IsValidAddress(address) {
		return nil, &domain.InvalidAddressError{Address: address}
	}
	b := *r.Basics
	if b.TotalSupply == nil {
		b.TotalSupply = new(big.Int)
	}
	return &b, nil
}

// Calls returns how many times GetBasics was invoked.
func (r *Reader) Calls() int {
	return int(r.calls.Load())
}
