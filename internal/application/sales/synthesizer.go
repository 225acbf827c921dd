package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/sales"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Random is the randomness every synthesis step draws from.
// It is passed into each call so runs never share state.
type Random interface {
	IntRange(min, max int) int
	Float64Range(min, max float64) float64
	DateRange(start, end time.Time) time.Time
	PersonName() string
	Email() string
	StreetAddress() string
}

// Synthesizer builds batches of orders
type Synthesizer struct {
	minItems int
	maxItems int
	maxDraws int
	now      func() time.Time
	logger   *zap.Logger
}

// SynthesizerOption configures a Synthesizer
type SynthesizerOption func(*Synthesizer)

// WithItemRange sets the inclusive range of line items per order
func WithItemRange(min, max int) SynthesizerOption {
	return func(s *Synthesizer) {
		if min >= sales.MinItemsPerOrder && max >= min && max <= sales.MaxItemsPerOrder {
			s.minItems, s.maxItems = min, max
		}
	}
}

// WithClock sets the clock that bounds order dates
func WithClock(now func() time.Time) SynthesizerOption {
	return func(s *Synthesizer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIdentifierDraws bounds redraws of colliding identifiers
func WithIdentifierDraws(n int) SynthesizerOption {
	return func(s *Synthesizer) {
		s.maxDraws = n
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) SynthesizerOption {
	return func(s *Synthesizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSynthesizer creates a Synthesizer with 1..5 items per order
func NewSynthesizer(opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		minItems: sales.MinItemsPerOrder,
		maxItems: sales.MaxItemsPerOrder,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize builds n orders whose items are drawn with replacement from productNames.
// Order ids and ASINs are unique within the batch.
func (s *Synthesizer) Synthesize(ctx context.Context, rng Random, n int, productNames []string) ([]*sales.Order, error) {
	if len(productNames) == 0 {
		return nil, sales.ErrEmptyProductPool
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", sales.ErrInvalidOrderCount, n)
	}

	registry := sales.NewIdentifierRegistry().WithMaxDraws(s.maxDraws)
	end := s.now()
	start := end.AddDate(-1, 0, 0)

	orders := make([]*sales.Order, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		order, err := s.synthesizeOne(rng, registry, productNames, start, end)
		if err != nil {
			return nil, fmt.Errorf("synthesize order %d: %w", i+1, err)
		}
		orders = append(orders, order)
	}

	s.logger.Debug("orders synthesized", zap.Int("count", len(orders)))
	return orders, nil
}

func (s *Synthesizer) synthesizeOne(rng Random, registry *sales.IdentifierRegistry, productNames []string, start, end time.Time) (*sales.Order, error) {
	id, err := registry.NextOrderID(rng)
	if err != nil {
		return nil, err
	}
	draft := sales.OrderDraft{
		ID:   id,
		Date: rng.DateRange(start, end),
		Customer: sales.Customer{
			Name:    rng.PersonName(),
			Email:   rng.Email(),
			Address: rng.StreetAddress(),
		},
	}

	itemCount := rng.IntRange(s.minItems, s.maxItems)
	draft.Items = make([]sales.LineItem, 0, itemCount)
	for j := 0; j < itemCount; j++ {
		name := productNames[rng.IntRange(0, len(productNames)-1)]
		asin, err := registry.NextASIN(rng)
		if err != nil {
			return nil, err
		}
		price := valueobject.USDFromFloat(rng.Float64Range(sales.MinUnitPrice, sales.MaxUnitPrice))
		item, err := sales.NewLineItem(name, asin, price, rng.IntRange(sales.MinQuantity, sales.MaxQuantity))
		if err != nil {
			return nil, err
		}
		draft.Items = append(draft.Items, item)
	}

	draft.ShippingMethod = pick(rng, sales.AllShippingMethods())
	if !draft.ShippingMethod.IsFree() {
		draft.ShippingCost = valueobject.USDFromFloat(rng.Float64Range(sales.MinShippingCost, sales.MaxShippingCost))
	}
	draft.TaxRate = decimal.NewFromFloat(rng.Float64Range(sales.MinTaxRate, sales.MaxTaxRate))
	draft.Status = pick(rng, sales.AllOrderStatuses())
	if draft.Status == sales.OrderStatusDelivered {
		draft.DeliveryDays = rng.IntRange(sales.MinDeliveryDays, sales.MaxDeliveryDays)
	}

	return sales.NewOrder(draft)
}

func pick[T any](rng sales.IntSource, values []T) T {
	return values[rng.IntRange(0, len(values)-1)]
}
