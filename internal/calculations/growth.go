package calculations

import (
	"strings"

	"github.com/cloud-ru/finance-engine-go/pkg/utils"
)

// Cadence is how often a recurring plan contributes and compounds.
type Cadence string

const (
	Annual    Cadence = "annual"
	Quarterly Cadence = "quarterly"
	Monthly   Cadence = "monthly"
)

// PeriodsPerYear returns the number of periods in one year, or 0 for an unknown cadence.
func (c Cadence) PeriodsPerYear() int {
	switch c {
	case Annual:
		return 1
	case Quarterly:
		return 4
	case Monthly:
		return 12
	}
	return 0
}

// ParseCadence accepts the cadence names case-insensitively; an empty string is Annual.
func ParseCadence(s string) (Cadence, error) {
	c := Cadence(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return Annual, nil
	}
	if c.PeriodsPerYear() == 0 {
		return "", invalidf("unknown cadence %q", s)
	}
	return c, nil
}

// RecurringContributionPlan is a fixed contribution made every period and
// compounded once per period.
type RecurringContributionPlan struct {
	PeriodicContribution float64 `json:"periodic_contribution"`
	AnnualRatePercent    float64 `json:"annual_rate_percent"`
	NumberOfPeriods      int     `json:"number_of_periods"`
	Cadence              Cadence `json:"cadence"`
}

// DefaultPPFRatePercent is the public provident fund rate used when none is configured.
const DefaultPPFRatePercent = 7.1

// ProjectGrowth simulates numberOfPeriods periods of
//
//	balance = (balance + periodicContribution) * (1 + annualRatePercent/100)
//
// The contribution is added first and the rate then applies to the balance
// including it. Compounding first and contributing afterwards gives a materially
// lower maturity value; this order is the one the dashboard has always shown.
func ProjectGrowth(periodicContribution, annualRatePercent float64, numberOfPeriods int) (GrowthResult, error) {
	if !utils.IsFinite(periodicContribution) || periodicContribution < 0 {
		return GrowthResult{}, invalidf("contribution must be a non-negative number, got %v", periodicContribution)
	}
	if !utils.IsFinite(annualRatePercent) || annualRatePercent < 0 {
		return GrowthResult{}, invalidf("rate must be a non-negative number, got %v", annualRatePercent)
	}
	if numberOfPeriods < 1 {
		return GrowthResult{}, invalidf("number of periods must be at least 1, got %d", numberOfPeriods)
	}

	factor := 1 + annualRatePercent/100
	balance := 0.0
	for i := 0; i < numberOfPeriods; i++ {
		balance = (balance + periodicContribution) * factor
	}

	contributed := periodicContribution * float64(numberOfPeriods)
	return GrowthResult{
		TotalContributed: contributed,
		MaturityValue:    balance,
		TotalGrowth:      balance - contributed,
	}, nil
}

// ProjectPlan projects a plan whose cadence may be finer than a year. The annual
// rate is split evenly over the periods of a year.
func ProjectPlan(plan RecurringContributionPlan) (GrowthResult, error) {
	cadence := plan.Cadence
	if cadence == "" {
		cadence = Annual
	}
	perYear := cadence.PeriodsPerYear()
	if perYear == 0 {
		return GrowthResult{}, invalidf("unknown cadence %q", plan.Cadence)
	}
	return ProjectGrowth(plan.PeriodicContribution, plan.AnnualRatePercent/float64(perYear), plan.NumberOfPeriods)
}

// ProjectPPF projects a public provident fund account: twelve monthly
// installments are deposited each year and compounded annually.
func ProjectPPF(monthlyInvestment float64, years int, annualRatePercent float64) (GrowthResult, error) {
	return ProjectGrowth(monthlyInvestment*12, annualRatePercent, years)
}

// Rounded returns r in whole currency units, with the growth recomputed from
// the rounded figures so the three fields stay consistent.
func (r GrowthResult) Rounded() GrowthResult {
	contributed := utils.RoundWhole(r.TotalContributed)
	maturity := utils.RoundWhole(r.MaturityValue)
	return GrowthResult{
		TotalContributed: contributed,
		MaturityValue:    maturity,
		TotalGrowth:      maturity - contributed,
	}
}
