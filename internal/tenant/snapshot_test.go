package tenant

import (
	"testing"

	"github.com/noah-isme/backend-vitrine/internal/settlement"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	snap := Snapshot{CheckoutID: "chk-1"}
	snap.Normalize()
	if snap.MaxInstallments != settlement.DefaultMaxInstallments {
		t.Fatalf("expected default max installments, got %d", snap.MaxInstallments)
	}
	if snap.Model != settlement.LastClick {
		t.Fatalf("expected last_click default, got %q", snap.Model)
	}
	if snap.FeeTable[12] != 1_599 {
		t.Fatalf("expected default fee table, got %+v", snap.FeeTable)
	}
}

func TestNormalizeKeepsTenantValues(t *testing.T) {
	snap := Snapshot{
		MaxInstallments: 6,
		Model:           settlement.FirstClick,
		FeeTable:        settlement.FeeTable{2: 100},
	}
	snap.Normalize()
	if snap.MaxInstallments != 6 || snap.Model != settlement.FirstClick {
		t.Fatalf("tenant configuration must win over defaults, got %+v", snap)
	}
	if len(snap.FeeTable) != 1 || snap.FeeTable[2] != 100 {
		t.Fatalf("tenant fee table must not be replaced, got %+v", snap.FeeTable)
	}
}
