package transfers

import (
	"fmt"
	"strings"

	"github.com/mateoavila/nft-transfers/pkg/enums"
)

// Transfer is a normalized on-chain ownership change produced by the
// ingestion boundary. Values are immutable once built.
type Transfer struct {
	TxHash         string             `json:"txHash"`
	ChainID        string             `json:"chainId"`
	CollectionAddr string             `json:"collectionAddress"`
	TokenID        string             `json:"tokenId"`
	From           string             `json:"from"`
	To             string             `json:"to"`
	BlockNumber    int64              `json:"blockNumber"`
	TimestampMs    int64              `json:"timestampMs"`
	Kind           enums.TransferKind `json:"kind"`
}

// Normalized returns an apply-direction copy of the transfer. A revert is
// represented as a transfer from the current holder back to the previous
// one, so downstream code only ever sees applies.
func (t Transfer) Normalized() Transfer {
	if t.Kind != enums.TransferKindRevert {
		return t
	}
	out := t
	out.Kind = enums.TransferKindApply
	out.From = t.To
	out.To = t.From
	return out
}

// Validate checks the fields the reconciliation core depends on.
func (t Transfer) Validate() error {
	if strings.TrimSpace(t.ChainID) == "" {
		return fmt.Errorf("chain id is required")
	}
	if strings.TrimSpace(t.CollectionAddr) == "" {
		return fmt.Errorf("collection address is required")
	}
	if strings.TrimSpace(t.TokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	if strings.TrimSpace(t.To) == "" {
		return fmt.Errorf("to address is required")
	}
	if !t.Kind.IsValid() {
		return fmt.Errorf("invalid transfer kind %q", t.Kind)
	}
	return nil
}

// LogFields returns the structured logging fields for the transfer.
func (t Transfer) LogFields() map[string]any {
	return map[string]any{
		"tx_hash":            t.TxHash,
		"chain_id":           t.ChainID,
		"collection_address": t.CollectionAddr,
		"token_id":           t.TokenID,
		"from":               t.From,
		"to":                 t.To,
		"kind":               t.Kind.String(),
	}
}

// TokenKey renders the canonical chain:collection:token identifier used in
// logs and cache keys.
func (t Transfer) TokenKey() string {
	return fmt.Sprintf("%s:%s:%s", t.ChainID, t.CollectionAddr, t.TokenID)
}

// TrimLowerAddress canonicalizes an address the way the indexer boundary
// does before a transfer enters the system.
func TrimLowerAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
