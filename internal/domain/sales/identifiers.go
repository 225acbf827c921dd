package sales

import (
	"fmt"
	"regexp"
	"strings"
)

// IntSource draws uniform integers in [min, max]
type IntSource interface {
	IntRange(min, max int) int
}

const (
	orderIDLength = 19
	asinLength    = 10
	asinAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	invoicePrefix = "INV-"

	// defaultMaxDraws bounds redraws when an identifier collides within a run
	defaultMaxDraws = 32
)

var (
	orderIDPattern = regexp.MustCompile(`^\d{3}-\d{7}-\d{7}$`)
	asinPattern    = regexp.MustCompile(`^[A-Z0-9]{10}$`)
	segmentPattern = regexp.MustCompile(`^\d{7}$`)
)

// NewOrderID returns an id of the form DDD-DDDDDDD-DDDDDDD.
// Each group is drawn independently and uniqueness is not checked.
func NewOrderID(rng IntSource) string {
	return fmt.Sprintf("%d-%d-%d",
		rng.IntRange(100, 999),
		rng.IntRange(1000000, 9999999),
		rng.IntRange(1000000, 9999999),
	)
}

// NewASIN returns a 10 character product identifier over [A-Z0-9]
func NewASIN(rng IntSource) string {
	var b strings.Builder
	b.Grow(asinLength)
	for i := 0; i < asinLength; i++ {
		b.WriteByte(asinAlphabet[rng.IntRange(0, len(asinAlphabet)-1)])
	}
	return b.String()
}

// ValidOrderID reports whether s has the DDD-DDDDDDD-DDDDDDD shape
func ValidOrderID(s string) bool {
	return len(s) == orderIDLength && orderIDPattern.MatchString(s)
}

// ValidASIN reports whether s is 10 characters over [A-Z0-9]
func ValidASIN(s string) bool {
	return asinPattern.MatchString(s)
}

// InvoiceIDFor derives "INV-" plus the middle segment of orderID
func InvoiceIDFor(orderID string) (string, error) {
	parts := strings.Split(orderID, "-")
	if len(parts) < 2 || !segmentPattern.MatchString(parts[1]) {
		return "", fmt.Errorf("%w: %q", ErrMalformedOrderID, orderID)
	}
	return invoicePrefix + parts[1], nil
}

// IdentifierRegistry hands out order ids and ASINs that are unique within one run.
// It is not safe for concurrent use.
type IdentifierRegistry struct {
	orderIDs map[string]struct{}
	asins    map[string]struct{}
	maxDraws int
}

// NewIdentifierRegistry creates an empty registry
func NewIdentifierRegistry() *IdentifierRegistry {
	return &IdentifierRegistry{
		orderIDs: make(map[string]struct{}),
		asins:    make(map[string]struct{}),
		maxDraws: defaultMaxDraws,
	}
}

// WithMaxDraws overrides how many draws are attempted before giving up
func (r *IdentifierRegistry) WithMaxDraws(n int) *IdentifierRegistry {
	if n > 0 {
		r.maxDraws = n
	}
	return r
}

// NextOrderID draws order ids until an unused one is found
func (r *IdentifierRegistry) NextOrderID(rng IntSource) (string, error) {
	return r.next(r.orderIDs, func() string { return NewOrderID(rng) }, "order id")
}

// NextASIN draws ASINs until an unused one is found
func (r *IdentifierRegistry) NextASIN(rng IntSource) (string, error) {
	return r.next(r.asins, func() string { return NewASIN(rng) }, "asin")
}

// Len returns the number of order ids and ASINs handed out
func (r *IdentifierRegistry) Len() (orderIDs, asins int) {
	return len(r.orderIDs), len(r.asins)
}

func (r *IdentifierRegistry) next(seen map[string]struct{}, draw func() string, what string) (string, error) {
	for i := 0; i < r.maxDraws; i++ {
		id := draw()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		return id, nil
	}
	return "", fmt.Errorf("%w: %s after %d draws", ErrIdentifierSpaceExhausted, what, r.maxDraws)
}
