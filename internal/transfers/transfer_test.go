package transfers

import (
	"testing"

	"github.com/mateoavila/nft-transfers/pkg/enums"
)

func TestNormalizedSwapsDirectionForReverts(t *testing.T) {
	transfer := Transfer{
		TxHash:         "0xabc",
		ChainID:        "1",
		CollectionAddr: "0xcol",
		TokenID:        "55",
		From:           "0xaaa",
		To:             "0xbbb",
		Kind:           enums.TransferKindRevert,
	}

	normalized := transfer.Normalized()

	if normalized.Kind != enums.TransferKindApply {
		t.Fatalf("expected apply kind, got %s", normalized.Kind)
	}
	if normalized.From != "0xbbb" || normalized.To != "0xaaa" {
		t.Fatalf("expected swapped direction, got from=%s to=%s", normalized.From, normalized.To)
	}
	// original value untouched
	if transfer.From != "0xaaa" || transfer.Kind != enums.TransferKindRevert {
		t.Fatal("expected source transfer to be unchanged")
	}
}

func TestNormalizedIsIdentityForApplies(t *testing.T) {
	transfer := Transfer{From: "0xaaa", To: "0xbbb", Kind: enums.TransferKindApply}
	if got := transfer.Normalized(); got != transfer {
		t.Fatalf("expected identity, got %+v", got)
	}
}

func TestValidate(t *testing.T) {
	valid := Transfer{
		ChainID:        "1",
		CollectionAddr: "0xcol",
		TokenID:        "1",
		To:             "0xbbb",
		Kind:           enums.TransferKindApply,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid transfer, got %v", err)
	}

	cases := map[string]Transfer{
		"missing chain":      {CollectionAddr: "0xcol", TokenID: "1", To: "0xb", Kind: enums.TransferKindApply},
		"missing collection": {ChainID: "1", TokenID: "1", To: "0xb", Kind: enums.TransferKindApply},
		"missing token":      {ChainID: "1", CollectionAddr: "0xcol", To: "0xb", Kind: enums.TransferKindApply},
		"missing to":         {ChainID: "1", CollectionAddr: "0xcol", TokenID: "1", Kind: enums.TransferKindApply},
		"bad kind":           {ChainID: "1", CollectionAddr: "0xcol", TokenID: "1", To: "0xb", Kind: "reorg"},
	}
	for name, transfer := range cases {
		if err := transfer.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestTrimLowerAddress(t *testing.T) {
	if got := TrimLowerAddress("  0xABCdef "); got != "0xabcdef" {
		t.Fatalf("unexpected address %q", got)
	}
}
