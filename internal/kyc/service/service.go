// Package service runs the verification checks for a request and turns their
// outcomes into a decision.
package service

import (
	"context"
	"errors"
	"log/slog"

	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/metrics"
	"verigate/internal/kyc/models"
	"verigate/internal/kyc/portrait"
)

// ThresholdResolver returns the pass threshold for a check in a segment.
type ThresholdResolver interface {
	Resolve(check models.CheckType, seg models.Segment) float64
}

// Recorder persists one audit record per aggregation. Implementations must
// not block the caller on slow storage and must swallow their own failures.
type Recorder interface {
	Record(ctx context.Context, decision *models.AggregateDecision)
}

// Request carries the optional images of one verification request. Front is
// the resolved document front (the handler settles docFront vs docFrontImage).
type Request struct {
	Selfie   []byte
	Front    []byte
	Back     []byte
	Portrait []byte
}

func (r Request) hasDocument() bool {
	return len(r.Front) > 0 || len(r.Back) > 0
}

// Service is the aggregation pipeline plus the single-check operations.
type Service struct {
	detectors  *detector.Set
	portraits  *portrait.Resolver
	thresholds ThresholdResolver
	recorder   Recorder
	countries  models.CountryTokens
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCountryTokens replaces the country-name table used when DOC_CLASS
// reports no country.
func WithCountryTokens(t models.CountryTokens) Option {
	return func(s *Service) {
		if len(t) > 0 {
			s.countries = t
		}
	}
}

func New(detectors *detector.Set, portraits *portrait.Resolver, thresholds ThresholdResolver, opts ...Option) (*Service, error) {
	if err := detectors.Validate(); err != nil {
		return nil, err
	}
	if portraits == nil {
		return nil, errors.New("portrait resolver is required")
	}
	if thresholds == nil {
		return nil, errors.New("threshold resolver is required")
	}
	s := &Service{
		detectors:  detectors,
		portraits:  portraits,
		thresholds: thresholds,
		countries:  models.KnownCountries,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}
