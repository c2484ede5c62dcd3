package calculations

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/finance-engine-go/pkg/utils"
)

var hundred = decimal.NewFromInt(100)

// ComputeTax applies a marginal bracket schedule to the taxable income of profile
// and adds a flat surcharge (cess) of surchargeRatePercent on the base tax.
//
// Capped deductions contribute at most their cap. Income exactly at a bracket's
// upper bound is taxed entirely within that bracket. Arithmetic is decimal and
// nothing is rounded; callers round for display.
func ComputeTax(profile IncomeProfile, brackets []TaxBracket, surchargeRatePercent float64) (TaxResult, error) {
	if err := ValidateBrackets(brackets); err != nil {
		return TaxResult{}, err
	}
	if !utils.IsFinite(surchargeRatePercent) || surchargeRatePercent < 0 || surchargeRatePercent > 100 {
		return TaxResult{}, invalidf("surcharge rate must be within [0, 100], got %v", surchargeRatePercent)
	}

	totalIncome := decimal.Zero
	for _, in := range profile.Income {
		if !utils.IsFinite(in.Amount) {
			return TaxResult{}, invalidf("income %q is not a finite number", in.Name)
		}
		totalIncome = totalIncome.Add(decimal.NewFromFloat(in.Amount))
	}
	if totalIncome.IsNegative() {
		return TaxResult{}, invalidf("total income must not be negative, got %s", totalIncome)
	}

	totalDeductions := decimal.Zero
	for _, d := range profile.Deductions {
		if !utils.IsFinite(d.Amount) || d.Amount < 0 {
			return TaxResult{}, invalidf("deduction %q must be a non-negative number, got %v", d.Name, d.Amount)
		}
		if d.Capped && (!utils.IsFinite(d.Cap) || d.Cap < 0) {
			return TaxResult{}, invalidf("deduction %q has an invalid cap %v", d.Name, d.Cap)
		}
		totalDeductions = totalDeductions.Add(decimal.NewFromFloat(d.Contribution()))
	}

	taxable := decimal.Max(totalIncome.Sub(totalDeductions), decimal.Zero)
	base := marginalTax(taxable, brackets)
	surcharge := base.Mul(decimal.NewFromFloat(surchargeRatePercent)).Div(hundred)

	return TaxResult{
		TotalIncome:     totalIncome.InexactFloat64(),
		TotalDeductions: totalDeductions.InexactFloat64(),
		TaxableIncome:   taxable.InexactFloat64(),
		BaseTax:         base.InexactFloat64(),
		Surcharge:       surcharge.InexactFloat64(),
		TotalTax:        base.Add(surcharge).InexactFloat64(),
	}, nil
}

// marginalTax walks the brackets in ascending order and sums each bracket's rate
// over the slice of taxable income that falls inside it.
func marginalTax(taxable decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	tax := decimal.Zero
	previous := decimal.Zero
	for _, b := range brackets {
		if !taxable.GreaterThan(previous) {
			break
		}
		slice := taxable
		if !math.IsInf(b.UpperBound, 1) {
			slice = decimal.Min(taxable, decimal.NewFromFloat(b.UpperBound))
		}
		portion := slice.Sub(previous)
		tax = tax.Add(portion.Mul(decimal.NewFromFloat(b.RatePercent)).Div(hundred))
		if math.IsInf(b.UpperBound, 1) {
			break
		}
		previous = decimal.NewFromFloat(b.UpperBound)
	}
	return tax
}

// ValidateBrackets checks that brackets partition [0, +Inf): upper bounds are
// positive and strictly increasing, the last one is +Inf, and every rate lies
// within [0, 100].
func ValidateBrackets(brackets []TaxBracket) error {
	if len(brackets) == 0 {
		return invalidf("bracket schedule is empty")
	}
	previous := 0.0
	for i, b := range brackets {
		if math.IsNaN(b.UpperBound) || b.UpperBound <= previous {
			return invalidf("bracket %d upper bound %v does not exceed %v", i, b.UpperBound, previous)
		}
		if !utils.IsFinite(b.RatePercent) || b.RatePercent < 0 || b.RatePercent > 100 {
			return invalidf("bracket %d rate must be within [0, 100], got %v", i, b.RatePercent)
		}
		if i == len(brackets)-1 && !math.IsInf(b.UpperBound, 1) {
			return invalidf("last bracket must be unbounded, got upper bound %v", b.UpperBound)
		}
		previous = b.UpperBound
	}
	return nil
}
