package calculations

import (
	"math"

	"github.com/cloud-ru/finance-engine-go/pkg/utils"
)

// ComputeAmortization computes the equated monthly installment (EMI) that repays
// principal over termMonths at annualRatePercent, with the derived totals.
//
// The installment is rounded half-up to a whole currency unit. If that rounding
// would leave part of the principal unpaid, the installment is raised to
// ceil(principal/termMonths) instead. TotalPayment is the rounded installment times
// the term and TotalInterest is TotalPayment minus principal, so
// TotalPayment-TotalInterest equals principal exactly for whole principals.
func ComputeAmortization(principal, annualRatePercent float64, termMonths int) (AmortizationResult, error) {
	if err := checkLoanTerms(principal, annualRatePercent, termMonths); err != nil {
		return AmortizationResult{}, err
	}

	payment := utils.RoundWhole(monthlyPayment(principal, annualRatePercent, termMonths))
	n := float64(termMonths)
	if payment*n < principal {
		payment = math.Ceil(principal / n)
	}

	total := payment * n
	return AmortizationResult{
		PeriodicPayment: payment,
		TotalPayment:    total,
		TotalInterest:   total - principal,
	}, nil
}

// AmortizationSchedule breaks an EMI loan down month by month. Amounts are
// rounded to 2 decimals; the last month pays off whatever principal remains.
func AmortizationSchedule(principal, annualRatePercent float64, termMonths int) ([]ScheduleEntry, error) {
	if err := checkLoanTerms(principal, annualRatePercent, termMonths); err != nil {
		return nil, err
	}

	r := annualRatePercent / 100.0 / 12.0
	payment := monthlyPayment(principal, annualRatePercent, termMonths)

	schedule := make([]ScheduleEntry, 0, termMonths)
	remaining := principal
	cumI := 0.0
	cumP := 0.0

	for m := 1; m <= termMonths; m++ {
		interest := utils.Round2(remaining * r)

		var principalComponent float64
		if m == termMonths {
			principalComponent = remaining
		} else {
			principalComponent = utils.Round2(payment - interest)
		}
		monthly := utils.Round2(principalComponent + interest)

		remaining = utils.Round2(remaining - principalComponent)
		cumI = utils.Round2(cumI + interest)
		cumP = utils.Round2(cumP + principalComponent)

		if remaining < -0.01 {
			return nil, undefinedf("remaining principal went negative in month %d", m)
		}

		schedule = append(schedule, ScheduleEntry{
			Month:               m,
			Payment:             monthly,
			Interest:            interest,
			PrincipalComponent:  utils.Round2(principalComponent),
			RemainingPrincipal:  math.Max(remaining, 0),
			CumulativeInterest:  cumI,
			CumulativePrincipal: cumP,
		})
	}

	return schedule, nil
}

// monthlyPayment is the unrounded installment. The annuity factor is evaluated
// through log1p/expm1 so that it stays accurate for tiny rates and long terms.
func monthlyPayment(principal, annualRatePercent float64, termMonths int) float64 {
	r := annualRatePercent / 100.0 / 12.0
	n := float64(termMonths)
	if r == 0 {
		return principal / n
	}
	// 1 - (1+r)^-n
	discount := -math.Expm1(-n * math.Log1p(r))
	return principal * r / discount
}

func checkLoanTerms(principal, annualRatePercent float64, termMonths int) error {
	if !utils.IsFinite(principal) || principal <= 0 {
		return invalidf("principal must be a positive number, got %v", principal)
	}
	if !utils.IsFinite(annualRatePercent) || annualRatePercent < 0 {
		return invalidf("annual rate must be a non-negative number, got %v", annualRatePercent)
	}
	if termMonths < 1 {
		return invalidf("term must be at least one month, got %d", termMonths)
	}
	return nil
}
