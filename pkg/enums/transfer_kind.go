package enums

import "fmt"

// TransferKind classifies an ownership change event from the indexer.
type TransferKind string

const (
	// TransferKindApply is a forward ownership change.
	TransferKindApply TransferKind = "apply"
	// TransferKindRevert undoes a previously indexed ownership change
	// (chain reorg). Reverts are processed as direction-swapped applies.
	TransferKindRevert TransferKind = "revert"
)

var validTransferKinds = []TransferKind{
	TransferKindApply,
	TransferKindRevert,
}

// String implements fmt.Stringer.
func (k TransferKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known TransferKind.
func (k TransferKind) IsValid() bool {
	for _, candidate := range validTransferKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseTransferKind converts raw input into a TransferKind.
func ParseTransferKind(value string) (TransferKind, error) {
	for _, candidate := range validTransferKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transfer kind %q", value)
}
