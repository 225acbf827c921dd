package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/catalog"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/shared"
	"go.uber.org/zap"
)

// Random picks categories for naming requests
type Random interface {
	IntRange(min, max int) int
}

// ProgressFunc is called after every naming iteration with the number of
// iterations done and the total requested
type ProgressFunc func(done, total int)

// Recorder observes naming calls. outcome is "ok" or the failure kind.
type Recorder interface {
	ObserveNamingCall(category string, outcome string, elapsed time.Duration)
}

// CollectResult is the outcome of one collection run
type CollectResult struct {
	// Names are the distinct product names in first-seen order
	Names     []string
	Products  []catalog.Product
	Requested int
	Fallbacks int
	Duration  time.Duration
}

// Distinct returns the number of distinct names collected
func (r *CollectResult) Distinct() int {
	return len(r.Names)
}

// ProductNameSource collects a bounded, deduplicated list of product names
// from a naming collaborator
type ProductNameSource struct {
	namer    catalog.Namer
	recorder Recorder
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a ProductNameSource
type Option func(*ProductNameSource)

// WithRecorder reports every naming call to r
func WithRecorder(r Recorder) Option {
	return func(s *ProductNameSource) {
		s.recorder = r
	}
}

// WithClock overrides the clock used to time the run
func WithClock(now func() time.Time) Option {
	return func(s *ProductNameSource) {
		s.now = now
	}
}

// NewProductNameSource creates a new ProductNameSource
func NewProductNameSource(namer catalog.Namer, logger *zap.Logger, opts ...Option) *ProductNameSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ProductNameSource{
		namer:  namer,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collect runs exactly count naming iterations. A name is kept only the first
// time it is seen, so fewer than count names may be returned. A failed call is
// replaced by the fallback product. Cancelling ctx aborts the run and discards
// everything collected so far.
func (s *ProductNameSource) Collect(ctx context.Context, rng Random, count int, progress ProgressFunc) (*CollectResult, error) {
	if count < 1 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_COUNT", "Product count must be at least 1")
	}

	categories := catalog.AllCategories()
	seen := make(map[string]struct{}, count)
	result := &CollectResult{Requested: count}
	start := s.now()

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("product naming aborted after %d of %d: %w", i, count, err)
		}

		category := categories[rng.IntRange(0, len(categories)-1)]
		product, err := s.fetch(ctx, category)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("product naming aborted after %d of %d: %w", i, count, ctxErr)
			}
			s.logger.Warn("naming collaborator failed, using fallback product",
				zap.String("category", category.String()),
				zap.String("kind", string(catalog.KindOf(err))),
				zap.Error(err))
			product = catalog.FallbackProduct()
			result.Fallbacks++
		}

		if _, dup := seen[product.Name]; !dup {
			seen[product.Name] = struct{}{}
			result.Names = append(result.Names, product.Name)
			result.Products = append(result.Products, product)
		}

		if progress != nil {
			progress(i+1, count)
		}
	}

	result.Duration = s.now().Sub(start)
	s.logger.Info("product names generated",
		zap.Int("distinct", result.Distinct()),
		zap.Int("requested", count),
		zap.Int("fallbacks", result.Fallbacks),
		zap.String("elapsed", fmt.Sprintf("%.2fs", result.Duration.Seconds())))

	return result, nil
}

func (s *ProductNameSource) fetch(ctx context.Context, category catalog.Category) (catalog.Product, error) {
	started := s.now()
	product, err := s.namer.Name(ctx, category)
	if err == nil && product.Name == "" {
		err = &catalog.NamingError{Kind: catalog.NamingErrorSchema, Category: category, Err: fmt.Errorf("empty product name")}
	}
	if s.recorder != nil {
		outcome := "ok"
		if err != nil {
			outcome = string(catalog.KindOf(err))
		}
		s.recorder.ObserveNamingCall(category.String(), outcome, s.now().Sub(started))
	}
	return product, err
}
