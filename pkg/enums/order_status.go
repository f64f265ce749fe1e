package enums

import "fmt"

// OrderStatus is the computed validity of an order item projection.
type OrderStatus string

const (
	// OrderStatusValidActive means the order can be fulfilled right now.
	OrderStatusValidActive OrderStatus = "validActive"
	// OrderStatusValidInactive means the order is live but cannot currently
	// be fulfilled (e.g. the maker no longer holds the token).
	OrderStatusValidInactive OrderStatus = "validInactive"
	// OrderStatusInvalid means the order is outside its start/end window.
	OrderStatusInvalid OrderStatus = "invalid"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusValidActive,
	OrderStatusValidInactive,
	OrderStatusInvalid,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
