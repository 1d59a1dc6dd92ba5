package enums

import "fmt"

// OperationType maps to the operation_type_enum enum in Postgres.
type OperationType string

const (
	OperationTypeReceipt    OperationType = "RECEIPT"
	OperationTypeDelivery   OperationType = "DELIVERY"
	OperationTypeTransfer   OperationType = "TRANSFER"
	OperationTypeAdjustment OperationType = "ADJUSTMENT"
)

var validOperationTypes = []OperationType{
	OperationTypeReceipt,
	OperationTypeDelivery,
	OperationTypeTransfer,
	OperationTypeAdjustment,
}

// IsValid reports whether the value matches the canonical operation type enum.
func (t OperationType) IsValid() bool {
	for _, candidate := range validOperationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseOperationType converts raw input into OperationType.
func ParseOperationType(value string) (OperationType, error) {
	for _, candidate := range validOperationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid operation type %q", value)
}
