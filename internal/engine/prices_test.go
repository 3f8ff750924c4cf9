package engine

import (
	"math"
	"testing"
	"time"

	"agricast/internal/dataset"
)

func TestRecentPrices_LatestDateWins(t *testing.T) {
	records := []dataset.PriceRecord{
		rec("Kiambu", 10, 4200),
		rec("Kiambu", 5, 3900),
		rec("Mombasa", 8, 4100),
	}
	latest := RecentPrices(records)
	if latest["Kiambu"] != 4200 {
		t.Errorf("Kiambu = %v, want 4200 (latest date, despite file order)", latest["Kiambu"])
	}
	if latest["Mombasa"] != 4100 {
		t.Errorf("Mombasa = %v, want 4100", latest["Mombasa"])
	}
}

func TestRecentPrices_TieBreakLastRecordWins(t *testing.T) {
	// Two records share the latest date. The sort is stable, so the one
	// appearing last in file order wins — deterministically.
	records := []dataset.PriceRecord{
		rec("Kiambu", 9, 4000),
		rec("Kiambu", 9, 4050),
	}
	latest := RecentPrices(records)
	if latest["Kiambu"] != 4050 {
		t.Errorf("Kiambu = %v, want 4050 (last record at tied date)", latest["Kiambu"])
	}

	// And the input slice must not be reordered.
	if records[0].WholeSale != 4000 || records[1].WholeSale != 4050 {
		t.Error("RecentPrices mutated its input")
	}
}

func TestRecentPrices_EmptyInput(t *testing.T) {
	latest := RecentPrices(nil)
	if len(latest) != 0 {
		t.Errorf("latest = %v, want empty", latest)
	}
}

func TestComputeBounds_ToleranceExpansion(t *testing.T) {
	records := []dataset.PriceRecord{
		rec("Kiambu", 1, 3500),
		rec("Kiambu", 2, 4600),
		rec("Kiambu", 3, 4000),
	}
	bounds := ComputeBounds(records)
	b, ok := bounds["Kiambu"]
	if !ok {
		t.Fatal("missing Kiambu bounds")
	}
	if b.Lower != 3150 {
		t.Errorf("Lower = %v, want 3150 (3500 × 0.9)", b.Lower)
	}
	if math.Abs(b.Upper-5060) > 1e-9 {
		t.Errorf("Upper = %v, want 5060 (4600 × 1.1)", b.Upper)
	}
}

func TestComputeBounds_SingleRecord(t *testing.T) {
	records := []dataset.PriceRecord{{
		County: "Mombasa", Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), WholeSale: 4000,
	}}
	b := ComputeBounds(records)["Mombasa"]
	if b.Lower != 3600 || math.Abs(b.Upper-4400) > 1e-9 {
		t.Errorf("bounds = %+v, want [3600, 4400]", b)
	}
}

func TestTables_AccessorContracts(t *testing.T) {
	tables := defaultTables()

	// Listed week.
	if got := tables.SeasonalFactor(52); got != 1.20 {
		t.Errorf("SeasonalFactor(52) = %v, want 1.20", got)
	}
	// Unlisted week → documented neutral default, not an error.
	if got := tables.SeasonalFactor(30); got != 1.0 {
		t.Errorf("SeasonalFactor(30) = %v, want 1.0", got)
	}

	// Listed county.
	if got, err := tables.CountyFactor("Mombasa"); err != nil || got != 0.95 {
		t.Errorf("CountyFactor(Mombasa) = %v, %v", got, err)
	}
	// Unlisted county → error, never a default.
	if _, err := tables.CountyFactor("Nakuru"); err == nil {
		t.Error("CountyFactor(Nakuru) should fail")
	}
}

func TestRound2_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{4400.0, 4400.0},
		{1.004, 1.00},
		{1.006, 1.01},
		{3149.996, 3150.00},
		{0.125, 0.13}, // 0.125 is exact in binary: half rounds away from zero
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(4560, 2700, 4500); got != 4500 {
		t.Errorf("clamp above = %v, want 4500", got)
	}
	if got := clamp(2000, 2700, 4500); got != 2700 {
		t.Errorf("clamp below = %v, want 2700", got)
	}
	if got := clamp(3000, 2700, 4500); got != 3000 {
		t.Errorf("clamp inside = %v, want 3000", got)
	}
}
