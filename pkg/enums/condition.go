package enums

import "fmt"

// ConditionType classifies a product-condition report.
type ConditionType string

const (
	ConditionExpired ConditionType = "expired"
	ConditionDamaged ConditionType = "damaged"
)

var validConditionTypes = []ConditionType{
	ConditionExpired,
	ConditionDamaged,
}

// IsValid reports whether the value matches the canonical enum.
func (c ConditionType) IsValid() bool {
	for _, candidate := range validConditionTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseConditionType converts raw strings into ConditionType.
func ParseConditionType(value string) (ConditionType, error) {
	for _, candidate := range validConditionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid condition type %q", value)
}
