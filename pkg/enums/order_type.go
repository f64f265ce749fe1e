package enums

import "fmt"

// OrderType distinguishes the two sides of the book.
type OrderType string

const (
	// OrderTypeListing is a sell order created by the token's holder.
	OrderTypeListing OrderType = "listing"
	// OrderTypeOffer is a buy order targeting whoever holds the token.
	OrderTypeOffer OrderType = "offer"
)

var validOrderTypes = []OrderType{
	OrderTypeListing,
	OrderTypeOffer,
}

// String implements fmt.Stringer.
func (t OrderType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known OrderType.
func (t OrderType) IsValid() bool {
	for _, candidate := range validOrderTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseOrderType converts raw input into an OrderType.
func ParseOrderType(value string) (OrderType, error) {
	for _, candidate := range validOrderTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order type %q", value)
}
