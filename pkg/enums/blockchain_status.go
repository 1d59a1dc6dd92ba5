package enums

import "fmt"

// BlockchainStatus tracks the reconciliation outcome for an operation.
type BlockchainStatus string

const (
	BlockchainStatusPending   BlockchainStatus = "PENDING"
	BlockchainStatusConfirmed BlockchainStatus = "CONFIRMED"
	BlockchainStatusFailed    BlockchainStatus = "FAILED"
)

var validBlockchainStatuses = []BlockchainStatus{
	BlockchainStatusPending,
	BlockchainStatusConfirmed,
	BlockchainStatusFailed,
}

// IsValid reports whether the value matches the canonical blockchain status enum.
func (s BlockchainStatus) IsValid() bool {
	for _, candidate := range validBlockchainStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the reconciliation outcome may no longer change.
func (s BlockchainStatus) IsTerminal() bool {
	return s == BlockchainStatusConfirmed || s == BlockchainStatusFailed
}

// ParseBlockchainStatus converts raw input into BlockchainStatus.
func ParseBlockchainStatus(value string) (BlockchainStatus, error) {
	for _, candidate := range validBlockchainStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid blockchain status %q", value)
}
