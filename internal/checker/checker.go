// Package checker runs the full contract check: aggregation followed by analysis.
package checker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"token-rugcheck/internal/analysis"
	"token-rugcheck/internal/domain"
	"token-rugcheck/internal/observability"
)

// Aggregator builds token data for an address.
type Aggregator interface {
	Run(ctx context.Context, address string, progress domain.ProgressFunc) (*domain.TokenData, error)
}

// ReportGenerator turns token data into a markdown report.
type ReportGenerator interface {
	Generate(ctx context.Context, data *domain.TokenData) (string, error)
}

// Service ties the aggregator and the report generator together.
type Service struct {
	aggregator Aggregator
	generator  ReportGenerator
	logger     logrus.FieldLogger
}

// New creates a new checker service.
func New(aggregator Aggregator, generator ReportGenerator, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		aggregator: aggregator,
		generator:  generator,
		logger:     logger,
	}
}

// Check aggregates token data and then asks for the report.
// Either stage failing fails the whole check; no partial result is returned.
func (s *Service) Check(ctx context.Context, address string, progress domain.ProgressFunc) (*domain.AnalysisResult, error) {
	start := time.Now()
	log := s.logger.WithField("address", address)

	data, err := s.aggregator.Run(ctx, address, progress)
	if err != nil {
		observability.RecordCheck("aggregation_error", time.Since(start).Seconds())
		log.WithError(err).Error("error fetching token info")
		return nil, err
	}

	if progress != nil {
		progress(domain.StageAnalysis)
	}
	report, err := s.generator.Generate(ctx, data)
	if err != nil {
		observability.RecordCheck("analysis_error", time.Since(start).Seconds())
		log.WithError(err).Error("error analyzing token")
		return nil, err
	}

	score := analysis.ExtractScore(report)
	observability.RecordRiskScore(score)
	observability.RecordCheck("success", time.Since(start).Seconds())
	log.WithFields(logrus.Fields{
		"score":    score,
		"duration": time.Since(start).String(),
	}).Info("contract check completed")

	return &domain.AnalysisResult{
		TokenData: data,
		Analysis:  report,
	}, nil
}
