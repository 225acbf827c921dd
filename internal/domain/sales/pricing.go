package sales

import "github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/shared/valueobject"

// Storefront pricing bounds. Amounts are inclusive.
const (
	MinUnitPrice = 5.99
	MaxUnitPrice = 199.99

	MinQuantity = 1
	MaxQuantity = 3

	MinItemsPerOrder = 1
	MaxItemsPerOrder = 5

	MinShippingCost = 3.99
	MaxShippingCost = 12.99

	MinTaxRate = 0.05
	MaxTaxRate = 0.10

	// Delivered orders arrive 1..7 days after the order date
	MinDeliveryDays = 1
	MaxDeliveryDays = 7

	// Invoices are issued 0..2 days after the order date
	MaxInvoiceLagDays = 2
)

// UnitPriceRange returns the inclusive unit price bounds as Money
func UnitPriceRange() (valueobject.Money, valueobject.Money) {
	return valueobject.USDFromFloat(MinUnitPrice), valueobject.USDFromFloat(MaxUnitPrice)
}

// ShippingCostRange returns the inclusive paid-shipping bounds as Money
func ShippingCostRange() (valueobject.Money, valueobject.Money) {
	return valueobject.USDFromFloat(MinShippingCost), valueobject.USDFromFloat(MaxShippingCost)
}
