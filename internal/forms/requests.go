package forms

import (
	"github.com/cloud-ru/finance-engine-go/internal/calculations"
	"github.com/cloud-ru/finance-engine-go/internal/config"
)

// ParseLoanTerms reads principal, annual_rate_percent and term_months.
func ParseLoanTerms(params map[string]interface{}) (calculations.LoanTerms, error) {
	var terms calculations.LoanTerms
	var err error
	if terms.Principal, err = Number(params, "principal"); err != nil {
		return terms, err
	}
	if terms.AnnualRatePercent, err = Number(params, "annual_rate_percent"); err != nil {
		return terms, err
	}
	if terms.TermMonths, err = Int(params, "term_months"); err != nil {
		return terms, err
	}
	return terms, nil
}

// ParsePlan reads a recurring contribution plan. The cadence is optional and
// defaults to annual.
func ParsePlan(params map[string]interface{}) (calculations.RecurringContributionPlan, error) {
	var plan calculations.RecurringContributionPlan
	var err error
	if plan.PeriodicContribution, err = Number(params, "periodic_contribution"); err != nil {
		return plan, err
	}
	if plan.AnnualRatePercent, err = Number(params, "annual_rate_percent"); err != nil {
		return plan, err
	}
	if plan.NumberOfPeriods, err = Int(params, "number_of_periods"); err != nil {
		return plan, err
	}
	cadence, err := OptionalString(params, "cadence")
	if err != nil {
		return plan, err
	}
	if plan.Cadence, err = calculations.ParseCadence(cadence); err != nil {
		return plan, err
	}
	return plan, nil
}

// PPFRequest is a public provident fund projection request.
type PPFRequest struct {
	MonthlyInvestment float64
	Years             int
	AnnualRatePercent float64
}

// ParsePPF reads monthly_investment, years and an optional annual_rate_percent.
func ParsePPF(params map[string]interface{}, defaultRatePercent float64) (PPFRequest, error) {
	var req PPFRequest
	var err error
	if req.MonthlyInvestment, err = Number(params, "monthly_investment"); err != nil {
		return req, err
	}
	if req.Years, err = Int(params, "years"); err != nil {
		return req, err
	}
	if req.AnnualRatePercent, err = OptionalNumber(params, "annual_rate_percent", defaultRatePercent); err != nil {
		return req, err
	}
	return req, nil
}

// ParseIncomeProfile reads the income and deductions objects and applies the
// policy's caps and standard deduction.
func ParseIncomeProfile(params map[string]interface{}, policy *config.TaxPolicy) (calculations.IncomeProfile, error) {
	income, err := NumberMap(params, "income")
	if err != nil {
		return calculations.IncomeProfile{}, err
	}
	claims, err := NumberMap(params, "deductions")
	if err != nil {
		return calculations.IncomeProfile{}, err
	}
	return policy.Profile(income, claims)
}
