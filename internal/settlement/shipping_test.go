package settlement

import "testing"

func TestApplyShippingCalculated(t *testing.T) {
	quote := Money(1_200)
	res, err := ApplyShipping(9_908, ShippingSpec{Mode: ShippingCalculated, Quote: &quote})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 11_108 || res.Shipping != 1_200 {
		t.Fatalf("expected total 11108 shipping 1200, got %d / %d", res.Total, res.Shipping)
	}
	if res.CommissionableBase != 9_908 {
		t.Fatalf("shipping must never enter the commissionable base, got %d", res.CommissionableBase)
	}
	if res.CommissionableBase+res.Shipping != res.Total {
		t.Fatal("base + shipping must equal total")
	}
}

func TestApplyShippingNoneAndFree(t *testing.T) {
	for _, mode := range []ShippingMode{ShippingNone, ShippingFree} {
		res, err := ApplyShipping(9_908, ShippingSpec{Mode: mode})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", mode, err)
		}
		if res.Total != 9_908 || res.Shipping != 0 || res.CommissionableBase != 9_908 {
			t.Fatalf("%s: expected passthrough, got %+v", mode, res)
		}
	}
}

func TestApplyShippingMissingQuote(t *testing.T) {
	if _, err := ApplyShipping(9_908, ShippingSpec{Mode: ShippingCalculated}); err != ErrMissingShippingQuote {
		t.Fatalf("expected ErrMissingShippingQuote, got %v", err)
	}
}

func TestApplyShippingUnknownMode(t *testing.T) {
	if _, err := ApplyShipping(9_908, ShippingSpec{Mode: "pickup"}); err != ErrUnknownShippingMode {
		t.Fatalf("expected ErrUnknownShippingMode, got %v", err)
	}
}
