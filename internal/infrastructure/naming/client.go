// Package naming is the HTTP client of the product naming service.
package naming

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/catalog"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single naming call
	DefaultTimeout = 10 * time.Second

	generatePath        = "/generate_product"
	maxNamingRespSize   = 64 * 1024
	maxErrorBodyPreview = 256
)

// Error is the typed failure returned by Client.Name
type Error = catalog.NamingError

// Error kinds
const (
	KindNetwork = catalog.NamingErrorNetwork
	KindStatus  = catalog.NamingErrorStatus
	KindSchema  = catalog.NamingErrorSchema
)

// Config configures the naming client
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RatePerSecond paces calls; zero disables pacing
	RatePerSecond float64
	Burst         int
}

// Validate checks the configuration
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("naming: base url %q must be an absolute URL", c.BaseURL)
	}
	if c.Timeout < 0 {
		return errors.New("naming: timeout cannot be negative")
	}
	if c.RatePerSecond < 0 {
		return errors.New("naming: rate cannot be negative")
	}
	return nil
}

type generateRequest struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

type generateResponse struct {
	ProductName *string `json:"product_name"`
	Description *string `json:"description"`
}

// Client calls POST {base}/generate_product. It implements catalog.Namer.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a new naming client
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + generatePath,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return c, nil
}

// Name requests a product for category
func (c *Client) Name(ctx context.Context, category catalog.Category) (catalog.Product, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return catalog.Product{}, &Error{Kind: KindNetwork, Category: category, Err: err}
		}
	}

	body, err := json.Marshal(generateRequest{Amount: 0, Category: category.String()})
	if err != nil {
		return catalog.Product{}, &Error{Kind: KindSchema, Category: category, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return catalog.Product{}, &Error{Kind: KindNetwork, Category: category, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return catalog.Product{}, &Error{Kind: KindNetwork, Category: category, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxNamingRespSize))
	if err != nil {
		return catalog.Product{}, &Error{Kind: KindNetwork, Category: category, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return catalog.Product{}, &Error{
			Kind:       KindStatus,
			Category:   category,
			StatusCode: resp.StatusCode,
			Err:        errors.New(preview(data)),
		}
	}

	product, err := decodeProduct(data)
	if err != nil {
		return catalog.Product{}, &Error{Kind: KindSchema, Category: category, Err: err}
	}

	c.logger.Debug("product named",
		zap.String("category", category.String()),
		zap.String("product_name", product.Name))
	return product, nil
}

func decodeProduct(data []byte) (catalog.Product, error) {
	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return catalog.Product{}, fmt.Errorf("invalid json: %w", err)
	}
	if out.ProductName == nil {
		return catalog.Product{}, errors.New("missing product_name")
	}
	if out.Description == nil {
		return catalog.Product{}, errors.New("missing description")
	}
	return catalog.NewProduct(*out.ProductName, *out.Description)
}

func preview(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "empty body"
	}
	if len(s) > maxErrorBodyPreview {
		s = s[:maxErrorBodyPreview] + "..."
	}
	return s
}
