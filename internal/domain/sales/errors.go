package sales

import "github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/shared"

var (
	// ErrEmptyProductPool is returned when orders are requested without any product names
	ErrEmptyProductPool = shared.NewDomainError("EMPTY_PRODUCT_POOL", "Cannot synthesize orders from an empty product pool")
	// ErrInvalidOrderCount is returned when fewer than one order is requested
	ErrInvalidOrderCount = shared.NewDomainError("INVALID_ORDER_COUNT", "Order count must be at least 1")
	// ErrMalformedOrderID is returned when an order id lacks a numeric middle segment
	ErrMalformedOrderID = shared.NewDomainError("MALFORMED_ORDER_ID", "Order id does not contain a 7-digit numeric segment")
	// ErrIdentifierSpaceExhausted is returned when no unused identifier could be drawn
	ErrIdentifierSpaceExhausted = shared.NewDomainError("IDENTIFIER_SPACE_EXHAUSTED", "Could not draw an unused identifier")
)
