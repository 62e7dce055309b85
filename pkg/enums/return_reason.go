package enums

import "fmt"

// ReturnReason explains why stock is coming back.
type ReturnReason string

const (
	ReturnReasonDefective      ReturnReason = "defective"
	ReturnReasonExpired        ReturnReason = "expired"
	ReturnReasonCustomerReturn ReturnReason = "customer_return"
	ReturnReasonDamaged        ReturnReason = "damaged"
	ReturnReasonOther          ReturnReason = "other"
)

var validReturnReasons = []ReturnReason{
	ReturnReasonDefective,
	ReturnReasonExpired,
	ReturnReasonCustomerReturn,
	ReturnReasonDamaged,
	ReturnReasonOther,
}

// IsValid reports whether the value matches the canonical enum.
func (r ReturnReason) IsValid() bool {
	for _, candidate := range validReturnReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReturnReason converts raw strings into ReturnReason.
func ParseReturnReason(value string) (ReturnReason, error) {
	for _, candidate := range validReturnReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid return reason %q", value)
}
