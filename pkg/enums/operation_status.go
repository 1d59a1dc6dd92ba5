package enums

import "fmt"

// OperationStatus maps to the operation_status_enum enum in Postgres.
type OperationStatus string

const (
	OperationStatusDraft   OperationStatus = "DRAFT"
	OperationStatusWaiting OperationStatus = "WAITING"
	OperationStatusReady   OperationStatus = "READY"
	OperationStatusDone    OperationStatus = "DONE"
)

var validOperationStatuses = []OperationStatus{
	OperationStatusDraft,
	OperationStatusWaiting,
	OperationStatusReady,
	OperationStatusDone,
}

// PendingOperationStatuses are the statuses the dashboard counts as pending.
var PendingOperationStatuses = []OperationStatus{
	OperationStatusDraft,
	OperationStatusWaiting,
	OperationStatusReady,
}

// IsValid reports whether the value matches the canonical operation status enum.
func (s OperationStatus) IsValid() bool {
	for _, candidate := range validOperationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsPending reports whether the status counts toward the pending dashboard rollups.
func (s OperationStatus) IsPending() bool {
	for _, candidate := range PendingOperationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOperationStatus converts raw input into OperationStatus.
func ParseOperationStatus(value string) (OperationStatus, error) {
	for _, candidate := range validOperationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid operation status %q", value)
}
