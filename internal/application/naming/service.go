package naming

import (
	"context"
	"fmt"
	"time"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/catalog"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Completer sends a prompt to a language model and returns the raw completion
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service names products for a category through a language model
type Service struct {
	completer Completer
	timeout   time.Duration
	logger    *zap.Logger
}

// NewService creates a new Service. A zero timeout leaves the call bounded only by ctx.
func NewService(completer Completer, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		completer: completer,
		timeout:   timeout,
		logger:    logger,
	}
}

// Generate asks the model for a product in category and returns it cleaned up:
// the name sanitised and title cased, the description cut to 50 characters.
func (s *Service) Generate(ctx context.Context, category catalog.Category) (catalog.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "naming.generate", telemetry.KV(telemetry.AttrCategory, category.String())...)
	defer span.End()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	product, err := s.generate(ctx, category)
	if err != nil {
		telemetry.RecordError(span, err)
		telemetry.SetAttributes(span, telemetry.AttrNamingOutcome, "error")
		s.logger.Warn("product generation failed",
			zap.String("category", category.String()),
			zap.Error(err))
		return catalog.Product{}, err
	}

	telemetry.SetAttributes(span, telemetry.AttrNamingOutcome, "ok")
	telemetry.SetOK(span)
	s.logger.Debug("product generated",
		zap.String("category", category.String()),
		zap.String("product_name", product.Name))
	return product, nil
}

func (s *Service) generate(ctx context.Context, category catalog.Category) (catalog.Product, error) {
	raw, err := s.completer.Complete(ctx, BuildPrompt(category))
	if err != nil {
		return catalog.Product{}, fmt.Errorf("complete prompt: %w", err)
	}

	body, err := ExtractJSON(raw)
	if err != nil {
		return catalog.Product{}, err
	}
	name, description, err := parseProduct(body)
	if err != nil {
		return catalog.Product{}, err
	}

	name = SanitizeName(name)
	if name == "" {
		return catalog.Product{}, ErrEmptyProductName
	}
	return catalog.NewProduct(name, description)
}
