package calculations

import (
	"errors"
	"math"
	"testing"
	"time"
)

type amountRecord struct{ amount float64 }

func (r amountRecord) FieldValue(field string) (float64, bool) {
	if field == "amount" {
		return r.amount, true
	}
	return 0, false
}

func TestTotalOf(t *testing.T) {
	amount := func(r amountRecord) float64 { return r.amount }

	tests := []struct {
		name      string
		records   []amountRecord
		want      float64
		wantError bool
	}{
		{name: "empty", records: nil, want: 0},
		{name: "whole amounts", records: []amountRecord{{100}, {250}}, want: 350},
		{name: "cents do not drift", records: []amountRecord{{0.1}, {0.2}}, want: 0.3},
		{name: "infinite amount", records: []amountRecord{{100}, {math.Inf(1)}}, wantError: true},
		{name: "NaN amount", records: []amountRecord{{math.NaN()}}, wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TotalOf(tt.records, amount)
			if (err != nil) != tt.wantError {
				t.Fatalf("TotalOf() error = %v, wantError %v", err, tt.wantError)
			}
			if tt.wantError {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("TotalOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTotalOfField(t *testing.T) {
	got, err := TotalOfField([]amountRecord{{100}, {250}}, "amount")
	if err != nil || got != 350 {
		t.Errorf("TotalOfField() = %v, %v; want 350", got, err)
	}

	got, err = TotalOfField([]amountRecord{}, "amount")
	if err != nil || got != 0 {
		t.Errorf("empty TotalOfField() = %v, %v; want 0", got, err)
	}

	budgets := []Budget{{Amount: 5000, Spent: 1200}, {Amount: 3000, Spent: 3100}}
	if got, _ := TotalOfField(budgets, "spent"); got != 4300 {
		t.Errorf("spent total = %v, want 4300", got)
	}

	if _, err := TotalOfField(budgets, "savedAmount"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown field, got %v", err)
	}

	if _, err := TotalOfField([]Budget{{Amount: math.Inf(1)}}, "amount"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for an infinite amount, got %v", err)
	}
}

func TestPercentageReturn(t *testing.T) {
	tests := []struct {
		invested, current float64
		want              float64
	}{
		{1000, 1250, 25},
		{1000, 800, -20},
		{500, 500, 0},
	}
	for _, tt := range tests {
		got, err := PercentageReturn(tt.invested, tt.current)
		if err != nil {
			t.Fatalf("PercentageReturn(%v, %v) error = %v", tt.invested, tt.current, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PercentageReturn(%v, %v) = %v, want %v", tt.invested, tt.current, got, tt.want)
		}
	}

	got, err := PercentageReturn(0, 1234)
	if !errors.Is(err, ErrUndefinedResult) {
		t.Errorf("expected ErrUndefinedResult, got %v", err)
	}
	if got != 0 || math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("expected sentinel 0, got %v", got)
	}
}

func TestNormalizeToMonthly(t *testing.T) {
	tests := []struct {
		amount float64
		cycle  BillingCycle
		want   float64
	}{
		{100, BillingMonthly, 100},
		{300, BillingQuarterly, 100},
		{1200, BillingYearly, 100},
	}
	for _, tt := range tests {
		got, err := NormalizeToMonthly(tt.amount, tt.cycle)
		if err != nil || got != tt.want {
			t.Errorf("NormalizeToMonthly(%v, %s) = %v, %v; want %v", tt.amount, tt.cycle, got, err, tt.want)
		}
	}

	if _, err := NormalizeToMonthly(100, "Weekly"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProgressRatio(t *testing.T) {
	got, err := ProgressRatio(750, 500)
	if err != nil || got != 150 {
		t.Errorf("ProgressRatio(750, 500) = %v, %v; want 150 unclamped", got, err)
	}

	got, err = ProgressRatio(-50, 200)
	if err != nil || got != -25 {
		t.Errorf("ProgressRatio(-50, 200) = %v, %v; want -25", got, err)
	}

	_, err = ProgressRatio(10, 0)
	if !errors.Is(err, ErrInvalidInput) || !errors.Is(err, ErrUndefinedResult) {
		t.Errorf("zero target should be invalid and undefined, got %v", err)
	}
}

func TestDaysBetween(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatal(err)
		}
		return d
	}
	now := day("2024-03-10").Add(9 * time.Hour)

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same instant", now, now, 0},
		{"partial day rounds up", now, day("2024-03-11"), 1},
		{"across leap day", day("2024-02-28"), day("2024-03-01"), 2},
		{"overdue", now, day("2024-03-05"), -5},
		{"whole days", day("2024-01-01"), day("2024-12-31"), 365},
		{"full calendar range", day("0001-01-01"), day("9999-12-31"), 3652058},
		{"full calendar range backwards", day("9999-12-31"), day("0001-01-01"), -3652058},
		{"half second past midnight", day("2024-03-10"), day("2024-03-10").Add(500 * time.Millisecond), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseBillingCycle(t *testing.T) {
	got, err := ParseBillingCycle(" yearly")
	if err != nil || got != BillingYearly {
		t.Errorf("ParseBillingCycle() = %q, %v", got, err)
	}
	if _, err := ParseBillingCycle("biweekly"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchCategory(t *testing.T) {
	got, err := MatchCategory(InvestmentCategories, "mutual funds")
	if err != nil || got != "Mutual Funds" {
		t.Errorf("MatchCategory() = %q, %v", got, err)
	}
	if _, err := MatchCategory(BudgetCategories, "Yachts"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
