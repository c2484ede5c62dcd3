package calculations

import (
	"errors"
	"math"
	"testing"
)

func TestComputeAmortization(t *testing.T) {
	tests := []struct {
		name              string
		principal         float64
		annualRatePercent float64
		termMonths        int
		wantError         bool
		check             func(*testing.T, AmortizationResult)
	}{
		{
			name:              "home loan",
			principal:         500000,
			annualRatePercent: 8.5,
			termMonths:        240,
			check: func(t *testing.T, r AmortizationResult) {
				if r.PeriodicPayment != 4339 {
					t.Errorf("expected EMI 4339, got %v", r.PeriodicPayment)
				}
				if r.TotalPayment != 4339*240 {
					t.Errorf("expected total payment %v, got %v", 4339*240, r.TotalPayment)
				}
				if r.TotalInterest <= 0 {
					t.Errorf("expected positive interest, got %v", r.TotalInterest)
				}
			},
		},
		{
			name:              "personal loan",
			principal:         10000,
			annualRatePercent: 12,
			termMonths:        24,
			check: func(t *testing.T, r AmortizationResult) {
				if r.PeriodicPayment != 471 {
					t.Errorf("expected EMI 471, got %v", r.PeriodicPayment)
				}
				if r.TotalInterest != 1304 {
					t.Errorf("expected interest 1304, got %v", r.TotalInterest)
				}
			},
		},
		{
			name:              "zero rate",
			principal:         1200,
			annualRatePercent: 0,
			termMonths:        12,
			check: func(t *testing.T, r AmortizationResult) {
				if r.PeriodicPayment != 100 {
					t.Errorf("expected EMI 100, got %v", r.PeriodicPayment)
				}
				if r.TotalInterest != 0 {
					t.Errorf("expected no interest, got %v", r.TotalInterest)
				}
			},
		},
		{
			name:              "rounding never under-amortizes",
			principal:         1000,
			annualRatePercent: 0.01,
			termMonths:        3,
			check: func(t *testing.T, r AmortizationResult) {
				if r.PeriodicPayment != 334 {
					t.Errorf("expected EMI raised to 334, got %v", r.PeriodicPayment)
				}
				if r.TotalPayment < 1000 {
					t.Errorf("total payment %v below principal", r.TotalPayment)
				}
			},
		},
		{
			name:              "fifty years at one hundred percent",
			principal:         1000000,
			annualRatePercent: 100,
			termMonths:        600,
			check: func(t *testing.T, r AmortizationResult) {
				if r.PeriodicPayment != 83333 {
					t.Errorf("expected EMI 83333, got %v", r.PeriodicPayment)
				}
			},
		},
		{name: "zero principal", principal: 0, annualRatePercent: 10, termMonths: 12, wantError: true},
		{name: "negative principal", principal: -5, annualRatePercent: 10, termMonths: 12, wantError: true},
		{name: "negative rate", principal: 1000, annualRatePercent: -1, termMonths: 12, wantError: true},
		{name: "zero term", principal: 1000, annualRatePercent: 10, termMonths: 0, wantError: true},
		{name: "NaN rate", principal: 1000, annualRatePercent: math.NaN(), termMonths: 12, wantError: true},
		{name: "infinite principal", principal: math.Inf(1), annualRatePercent: 10, termMonths: 12, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeAmortization(tt.principal, tt.annualRatePercent, tt.termMonths)
			if (err != nil) != tt.wantError {
				t.Fatalf("ComputeAmortization() error = %v, wantError %v", err, tt.wantError)
			}
			if tt.wantError {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if tt.check != nil {
				tt.check(t, result)
			}
		})
	}
}

func TestComputeAmortizationInvariants(t *testing.T) {
	principals := []float64{1, 999, 50000, 1234567}
	rates := []float64{0, 0.5, 7.25, 18, 100}
	terms := []int{1, 7, 36, 360, 600}

	for _, p := range principals {
		for _, r := range rates {
			for _, n := range terms {
				res, err := ComputeAmortization(p, r, n)
				if err != nil {
					t.Fatalf("ComputeAmortization(%v, %v, %d): %v", p, r, n, err)
				}
				if res.TotalPayment < p {
					t.Errorf("(%v, %v, %d): total payment %v below principal", p, r, n, res.TotalPayment)
				}
				if res.TotalInterest < 0 {
					t.Errorf("(%v, %v, %d): negative interest %v", p, r, n, res.TotalInterest)
				}
				if res.TotalPayment-res.TotalInterest != p {
					t.Errorf("(%v, %v, %d): payment minus interest %v != principal", p, r, n, res.TotalPayment-res.TotalInterest)
				}
				if res.TotalPayment != res.PeriodicPayment*float64(n) {
					t.Errorf("(%v, %v, %d): total %v != EMI*term", p, r, n, res.TotalPayment)
				}
			}
		}
	}
}

func TestComputeAmortizationIsDeterministic(t *testing.T) {
	a, _ := ComputeAmortization(750000, 9.1, 180)
	b, _ := ComputeAmortization(750000, 9.1, 180)
	if a != b {
		t.Errorf("repeated calls differ: %+v vs %+v", a, b)
	}
}

func TestAmortizationSchedule(t *testing.T) {
	schedule, err := AmortizationSchedule(1000000, 12, 12)
	if err != nil {
		t.Fatalf("AmortizationSchedule() error = %v", err)
	}
	if len(schedule) != 12 {
		t.Fatalf("expected 12 months, got %d", len(schedule))
	}
	if schedule[0].Interest != 10000 {
		t.Errorf("expected first month interest 10000, got %v", schedule[0].Interest)
	}
	last := schedule[len(schedule)-1]
	if last.RemainingPrincipal != 0 {
		t.Errorf("expected remaining principal 0, got %v", last.RemainingPrincipal)
	}
	if math.Abs(last.CumulativePrincipal-1000000) > 0.01 {
		t.Errorf("expected cumulative principal 1000000, got %v", last.CumulativePrincipal)
	}
	for i := 1; i < len(schedule); i++ {
		if schedule[i].Interest > schedule[i-1].Interest {
			t.Errorf("interest grew from month %d to %d", i, i+1)
		}
	}
}

func TestAmortizationScheduleZeroRate(t *testing.T) {
	schedule, err := AmortizationSchedule(100000, 0, 10)
	if err != nil {
		t.Fatalf("AmortizationSchedule() error = %v", err)
	}
	for _, e := range schedule {
		if e.Payment != 10000 || e.Interest != 0 {
			t.Errorf("month %d: expected payment 10000 and no interest, got %+v", e.Month, e)
		}
	}
}

func TestAmortizationScheduleInvalid(t *testing.T) {
	if _, err := AmortizationSchedule(1000, 5, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
