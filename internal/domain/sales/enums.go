package sales

// ShippingMethod is the delivery option chosen for an order
type ShippingMethod string

const (
	ShippingPrime2Day ShippingMethod = "Prime 2-Day"
	ShippingStandard  ShippingMethod = "Standard Shipping"
	ShippingExpedited ShippingMethod = "Expedited Shipping"
)

// AllShippingMethods returns the shipping methods in draw order
func AllShippingMethods() []ShippingMethod {
	return []ShippingMethod{ShippingPrime2Day, ShippingStandard, ShippingExpedited}
}

// IsValid checks if the method is a known ShippingMethod
func (m ShippingMethod) IsValid() bool {
	switch m {
	case ShippingPrime2Day, ShippingStandard, ShippingExpedited:
		return true
	}
	return false
}

// IsFree reports whether the method ships at no cost
func (m ShippingMethod) IsFree() bool {
	return m == ShippingPrime2Day
}

func (m ShippingMethod) String() string {
	return string(m)
}

// OrderStatus is the fulfilment state of a synthesized order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
)

// AllOrderStatuses returns the order statuses in draw order
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusShipped, OrderStatusDelivered}
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// PaymentMethod is how an invoice was settled
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "Credit Card"
	PaymentAmazonPay  PaymentMethod = "Amazon Pay"
	PaymentGiftCard   PaymentMethod = "Gift Card"
)

// AllPaymentMethods returns the payment methods in draw order
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCreditCard, PaymentAmazonPay, PaymentGiftCard}
}

// IsValid checks if the method is a valid PaymentMethod
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCreditCard, PaymentAmazonPay, PaymentGiftCard:
		return true
	}
	return false
}

func (p PaymentMethod) String() string {
	return string(p)
}

// RecordKind names the table a flattened row belongs to
type RecordKind string

const (
	RecordKindOrders   RecordKind = "orders"
	RecordKindInvoices RecordKind = "invoices"
)

func (k RecordKind) String() string {
	return string(k)
}
