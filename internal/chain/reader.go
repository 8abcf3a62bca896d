// Package chain reads ERC20 token properties from an EVM JSON-RPC node.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"token-rugcheck/internal/domain"
	"token-rugcheck/internal/observability"
)

// DefaultCallTimeout bounds every contract read.
const DefaultCallTimeout = 15 * time.Second

const erc20ABIJSON = `[
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

var erc20ABI = mustParseABI(erc20ABIJSON)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("parse ERC20 ABI: %v", err))
	}
	return parsed
}

// Basics holds the four ERC20 properties read from the contract.
type Basics struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply *big.Int // raw, unscaled
}

// BasicsReader defines the chain reads used by the aggregator.
type BasicsReader interface {
	// GetBasics reads name, symbol, decimals and total supply of a token.
	GetBasics(ctx context.Context, address string) (*Basics, error)
}

// Reader implements BasicsReader over any ethereum.ContractCaller.
type Reader struct {
	caller      ethereum.ContractCaller
	callTimeout time.Duration
	logger      logrus.FieldLogger
}

// ReaderOption configures Reader.
type ReaderOption func(*Reader)

// WithCallTimeout sets the timeout applied to each contract call.
func WithCallTimeout(d time.Duration) ReaderOption {
	return func(r *Reader) {
		r.callTimeout = d
	}
}

// WithLogger sets the logger used for fallback reporting.
func WithLogger(l logrus.FieldLogger) ReaderOption {
	return func(r *Reader) {
		r.logger = l
	}
}

// NewReader creates a Reader. ethclient.Client satisfies ethereum.ContractCaller.
func NewReader(caller ethereum.ContractCaller, opts ...ReaderOption) *Reader {
	r := &Reader{
		caller:      caller,
		callTimeout: DefaultCallTimeout,
		logger:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dial connects to a JSON-RPC endpoint.
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc %s: %w", rpcURL, err)
	}
	return client, nil
}

// GetBasics reads the four token fields concurrently.
// A failed field falls back to its default and never fails the call;
// only a malformed address returns an error.
func (r *Reader) GetBasics(ctx context.Context, address string) (*Basics, error) {
	if !IsValidAddress(address) {
		return nil, &domain.InvalidAddressError{Address: address}
	}
	to := common.HexToAddress(address)

	basics := &Basics{
		Name:        domain.UnknownName,
		Symbol:      domain.UnknownSymbol,
		Decimals:    domain.DefaultDecimals,
		TotalSupply: new(big.Int),
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		if v, ok := r.read(ctx, to, "name"); ok {
			if s, ok := v.(string); ok {
				basics.Name = s
				return
			}
		}
		r.fallback(address, "name")
	}()

	go func() {
		defer wg.Done()
		if v, ok := r.read(ctx, to, "symbol"); ok {
			if s, ok := v.(string); ok {
				basics.Symbol = s
				return
			}
		}
		r.fallback(address, "symbol")
	}()

	go func() {
		defer wg.Done()
		if v, ok := r.read(ctx, to, "decimals"); ok {
			if d, ok := v.(uint8); ok {
				basics.Decimals = d
				return
			}
		}
		r.fallback(address, "decimals")
	}()

	go func() {
		defer wg.Done()
		if v, ok := r.read(ctx, to, "totalSupply"); ok {
			if n, ok := v.(*big.Int); ok && n != nil {
				basics.TotalSupply = n
				return
			}
		}
		r.fallback(address, "totalSupply")
	}()

	wg.Wait()
	return basics, nil
}

// read calls a no-argument view method and returns its single output.
func (r *Reader) read(ctx context.Context, to common.Address, method string) (interface{}, bool) {
	data, err := erc20ABI.Pack(method)
	if err != nil {
		return nil, false
	}

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	start := time.Now()
	out, err := r.caller.CallContract(callCtx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		observability.RecordChainCall(method, "error", time.Since(start).Seconds())
		r.logger.WithError(err).WithField("method", method).Debug("contract call failed")
		return nil, false
	}

	values, err := erc20ABI.Unpack(method, out)
	if err != nil || len(values) == 0 {
		observability.RecordChainCall(method, "decode_error", time.Since(start).Seconds())
		r.logger.WithField("method", method).Debugf("decode contract output: %v", err)
		return nil, false
	}

	observability.RecordChainCall(method, "success", time.Since(start).Seconds())
	return values[0], true
}

func (r *Reader) fallback(address, field string) {
	observability.RecordFieldFallback(field)
	r.logger.WithFields(logrus.Fields{
		"address": address,
		"field":   field,
	}).Debug("using fallback value")
}
