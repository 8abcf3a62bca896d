package checker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-rugcheck/internal/aggregator"
	chainstub "token-rugcheck/internal/chain/stub"
	"token-rugcheck/internal/domain"
	"token-rugcheck/internal/explorer"
	explorerstub "token-rugcheck/internal/explorer/stub"
)

const testToken = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

type fakeGenerator struct {
	report string
	err    error
	got    *domain.TokenData
}

func (f *fakeGenerator) Generate(_ context.Context, data *domain.TokenData) (string, error) {
	f.got = data
	return f.report, f.err
}

func newService(t *testing.T, gen *fakeGenerator) (*Service, *explorerstub.API) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	api := explorerstub.NewAPI()
	api.Holders = []explorer.HolderEntry{{TokenHolderAddress: "0xa", TokenHolderQuantity: "1000000"}}
	api.Transfers = []explorer.TransferEntry{{Hash: "0xh", Value: "1000000", TimeStamp: "1700000000"}}
	api.Source = json.RawMessage(`{"ContractName":"T"}`)

	agg := aggregator.New(chainstub.NewReader("T", "T", 6, big.NewInt(2_000_000)), api, logger)
	return New(agg, gen, logger), api
}

func TestService_Check(t *testing.T) {
	gen := &fakeGenerator{report: "Risk Score: 80"}
	svc, _ := newService(t, gen)

	var (
		mu     sync.Mutex
		stages []domain.Stage
	)
	result, err := svc.Check(context.Background(), testToken, func(s domain.Stage) {
		mu.Lock()
		stages = append(stages, s)
		mu.Unlock()
	})
	require.NoError(t, err)

	assert.Equal(t, "Risk Score: 80", result.Analysis)
	assert.Same(t, gen.got, result.TokenData)
	assert.InDelta(t, 50.0, result.TokenData.Holders[0].Percentage, 1e-9)
	assert.Equal(t, domain.StageAnalysis, stages[len(stages)-1])
}

func TestService_Check_AggregationErrorSkipsAnalysis(t *testing.T) {
	gen := &fakeGenerator{report: "unused"}
	svc, api := newService(t, gen)
	api.TransfersErr = &domain.UpstreamError{Service: "Polygonscan", Message: "NOTOK"}

	result, err := svc.Check(context.Background(), testToken, nil)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Nil(t, gen.got)
}

func TestService_Check_AnalysisError(t *testing.T) {
	gen := &fakeGenerator{err: &domain.AnalysisError{Reason: "empty completion"}}
	svc, _ := newService(t, gen)

	result, err := svc.Check(context.Background(), testToken, nil)
	assert.Nil(t, result)

	var analysisErr *domain.AnalysisError
	require.True(t, errors.As(err, &analysisErr))
}
