package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chainstub "token-rugcheck/internal/chain/stub"
	"token-rugcheck/internal/domain"
	"token-rugcheck/internal/explorer"
	explorerstub "token-rugcheck/internal/explorer/stub"
	"token-rugcheck/internal/observability"
)

const testToken = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setup(t *testing.T) (*chainstub.Reader, *explorerstub.API) {
	t.Helper()

	// 10 tokens with 6 decimals
	reader := chainstub.NewReader("Test Token", "TST", 6, big.NewInt(10_000_000))

	api := explorerstub.NewAPI()
	api.Holders = []explorer.HolderEntry{
		{TokenHolderAddress: "0x1111111111111111111111111111111111111111", TokenHolderQuantity: "2500000"},
		{TokenHolderAddress: "0x2222222222222222222222222222222222222222", TokenHolderQuantity: "7000000"},
		{TokenHolderAddress: "0x3333333333333333333333333333333333333333", TokenHolderQuantity: "500000"},
	}
	api.Transfers = []explorer.TransferEntry{
		{Hash: "0xaa", From: "0x1", To: "0x2", Value: "1500000", TimeStamp: "1700000100", BlockNumber: "101", Gas: "60000", GasPrice: "30000000000"},
		{Hash: "0xbb", From: "0x2", To: "0x3", Value: "1", TimeStamp: "1700000000", BlockNumber: "100", Gas: "60000", GasPrice: "31000000000"},
	}
	api.Source = json.RawMessage(`{"ContractName":"TestToken","SourceCode":"contract TestToken {}"}`)

	return reader, api
}

func TestAggregator_Aggregate(t *testing.T) {
	reader, api := setup(t)
	agg := New(reader, api, quietLogger())

	data, err := agg.Aggregate(context.Background(), testToken)
	require.NoError(t, err)

	assert.Equal(t, domain.TokenInfo{
		Address:     testToken,
		Name:        "Test Token",
		Symbol:      "TST",
		Decimals:    6,
		TotalSupply: "10",
	}, data.TokenInfo)

	require.Len(t, data.Holders, 3)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", data.Holders[0].Account)
	assert.InDelta(t, 2.5, data.Holders[0].Amount, 1e-9)
	assert.InDelta(t, 25.0, data.Holders[0].Percentage, 1e-9)
	assert.InDelta(t, 70.0, data.Holders[1].Percentage, 1e-9)
	assert.InDelta(t, 5.0, data.Holders[2].Percentage, 1e-9)

	require.Len(t, data.Transactions, 2)
	assert.Equal(t, domain.Transaction{
		Hash:        "0xaa",
		From:        "0x1",
		To:          "0x2",
		Value:       "1.5",
		Timestamp:   1700000100,
		BlockNumber: "101",
		Gas:         "60000",
		GasPrice:    "30000000000",
	}, data.Transactions[0])
	assert.Equal(t, "0.000001", data.Transactions[1].Value)

	assert.JSONEq(t, `{"ContractName":"TestToken","SourceCode":"contract TestToken {}"}`, string(data.SourceCode))
}

func TestAggregator_PercentagesSumTo100(t *testing.T) {
	reader := chainstub.NewReader("Big", "BIG", 18, mustBig(t, "123456789123456789123456789"))

	api := explorerstub.NewAPI()
	api.Holders = []explorer.HolderEntry{
		{TokenHolderAddress: "0xa", TokenHolderQuantity: "100000000000000000000000000"},
		{TokenHolderAddress: "0xb", TokenHolderQuantity: "23456789123456789123456789"},
		{TokenHolderAddress: "0xc", TokenHolderQuantity: "0"},
	}
	api.Source = json.RawMessage(`{}`)

	data, err := New(reader, api, quietLogger()).Aggregate(context.Background(), testToken)
	require.NoError(t, err)

	var sum float64
	for _, h := range data.Holders {
		assert.GreaterOrEqual(t, h.Percentage, 0.0)
		assert.LessOrEqual(t, h.Percentage, 100.0)
		sum += h.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1e-6)
}

func TestAggregator_HolderListFailureDegrades(t *testing.T) {
	reader, api := setup(t)
	api.HoldersErr = &domain.UpstreamError{Service: "Polygonscan", Message: "NOTOK", Detail: "Invalid API Key"}

	data, err := New(reader, api, quietLogger()).Aggregate(context.Background(), testToken)
	require.NoError(t, err)
	require.NotNil(t, data)

	assert.NotNil(t, data.Holders)
	assert.Empty(t, data.Holders)
	assert.Len(t, data.Transactions, 2)

	raw, err := json.Marshal(data)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"holders":[]`)
}

func TestAggregator_TransferFailureAborts(t *testing.T) {
	reader, api := setup(t)
	api.TransfersErr = &domain.UpstreamError{Service: "Polygonscan", Message: "No transactions found"}

	data, err := New(reader, api, quietLogger()).Aggregate(context.Background(), testToken)
	require.Error(t, err)
	assert.Nil(t, data)

	var upErr *domain.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, "No transactions found", upErr.Message)
	assert.NotContains(t, api.Calls(), "getsourcecode")
}

func TestAggregator_SourceCodeFailureAborts(t *testing.T) {
	reader, api := setup(t)
	api.SourceErr = &domain.NetworkError{Service: "Polygonscan", StatusCode: 503}

	data, err := New(reader, api, quietLogger()).Aggregate(context.Background(), testToken)
	require.Error(t, err)
	assert.Nil(t, data)
}

func TestAggregator_InvalidAddress(t *testing.T) {
	reader, api := setup(t)

	_, err := New(reader, api, quietLogger()).Aggregate(context.Background(), "not-an-address")

	var addrErr *domain.InvalidAddressError
	require.True(t, errors.As(err, &addrErr))
	assert.Empty(t, api.Calls())
}

func TestAggregator_ZeroSupply(t *testing.T) {
	reader, api := setup(t)
	reader.Basics.TotalSupply = big.NewInt(0)

	data, err := New(reader, api, quietLogger()).Aggregate(context.Background(), testToken)
	require.NoError(t, err)

	assert.Equal(t, "0", data.TokenInfo.TotalSupply)
	for _, h := range data.Holders {
		assert.Equal(t, 0.0, h.Percentage)
	}
}

func TestAggregator_CapsTransactions(t *testing.T) {
	reader, api := setup(t)
	api.Transfers = nil
	for i := 0; i < 130; i++ {
		api.Transfers = append(api.Transfers, explorer.TransferEntry{
			Hash:      fmt.Sprintf("0x%03d", i),
			Value:     "1000000",
			TimeStamp: "1700000000",
		})
	}

	data, err := New(reader, api, quietLogger()).Aggregate(context.Background(), testToken)
	require.NoError(t, err)
	require.Len(t, data.Transactions, domain.MaxFetchedTransactions)
	assert.Equal(t, "0x000", data.Transactions[0].Hash)
	assert.Equal(t, "0x099", data.Transactions[99].Hash)
}

func TestAggregator_MalformedExplorerValues(t *testing.T) {
	reader, api := setup(t)
	api.Holders = []explorer.HolderEntry{{TokenHolderAddress: "0xa", TokenHolderQuantity: "n/a"}}
	api.Transfers = []explorer.TransferEntry{{Hash: "0xaa", Value: "", TimeStamp: "soon"}}

	data, err := New(reader, api, quietLogger()).Aggregate(context.Background(), testToken)
	require.NoError(t, err)

	assert.Equal(t, 0.0, data.Holders[0].Amount)
	assert.Equal(t, "0", data.Transactions[0].Value)
	assert.Equal(t, int64(0), data.Transactions[0].Timestamp)
}

func TestAggregator_RunReportsStages(t *testing.T) {
	reader, api := setup(t)

	var mu sync.Mutex
	seen := map[domain.Stage]bool{}
	var last domain.Stage

	_, err := New(reader, api, quietLogger()).Run(context.Background(), testToken, func(stage domain.Stage) {
		mu.Lock()
		defer mu.Unlock()
		seen[stage] = true
		last = stage
	})
	require.NoError(t, err)

	assert.True(t, seen[domain.StageChain])
	assert.True(t, seen[domain.StageHolders])
	assert.True(t, seen[domain.StageTransactions])
	assert.Equal(t, domain.StageSourceCode, last)
}

func TestComputePercentages(t *testing.T) {
	holders := []domain.Holder{{Amount: 1}, {Amount: 3}}

	ComputePercentages(holders, 4)
	assert.InDelta(t, 25.0, holders[0].Percentage, 1e-9)
	assert.InDelta(t, 75.0, holders[1].Percentage, 1e-9)

	ComputePercentages(holders, 0)
	assert.Equal(t, 0.0, holders[0].Percentage)
	assert.Equal(t, 0.0, holders[1].Percentage)

	ComputePercentages(nil, 10)
}

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok)
	return v
}

// slowHolders blocks the holder call until its context is cancelled.
type slowHolders struct {
	*explorerstub.API
}

func (s slowHolders) TokenHolderList(ctx context.Context, _ string, _, _ int) ([]explorer.HolderEntry, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestAggregator_TransferFailureDoesNotCountHolderDegrade(t *testing.T) {
	reader, api := setup(t)
	api.TransfersErr = &domain.UpstreamError{Service: "Polygonscan", Message: "No transactions found"}

	before := testutil.ToFloat64(observability.DefaultMetrics.HolderListDegraded)

	_, err := New(reader, slowHolders{api}, quietLogger()).Aggregate(context.Background(), testToken)
	require.Error(t, err)

	assert.Equal(t, before, testutil.ToFloat64(observability.DefaultMetrics.HolderListDegraded))
}
