package validators

import (
	"fmt"

	"github.com/cloud-ru/finance-engine-go/internal/calculations"
	"github.com/cloud-ru/finance-engine-go/internal/config"
	"github.com/cloud-ru/finance-engine-go/pkg/utils"
)

// ValidatePositiveNumber checks that value is finite and within [minInclusive, maxInclusive].
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%w: %s is not a finite number", calculations.ErrInvalidInput, name)
	}
	if value < minInclusive {
		return fmt.Errorf("%w: %s must be >= %g", calculations.ErrInvalidInput, name, minInclusive)
	}
	if value > maxInclusive {
		return fmt.Errorf("%w: %s is too large (> %g)", calculations.ErrInvalidInput, name, maxInclusive)
	}
	return nil
}

// ValidateIntRange checks that value is within [minInclusive, maxInclusive].
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("%w: %s must be in [%d, %d]", calculations.ErrInvalidInput, name, minInclusive, maxInclusive)
	}
	return nil
}

// CheckPrincipal checks a loan principal.
func CheckPrincipal(cfg *config.Config, principal float64) error {
	return ValidatePositiveNumber("principal", principal, 1e-9, cfg.MaxPrincipal)
}

// CheckRate checks an annual rate in percent.
func CheckRate(cfg *config.Config, rate float64) error {
	return ValidatePositiveNumber("annual_rate_percent", rate, 0.0, cfg.MaxRate)
}

// CheckMonths checks a loan term.
func CheckMonths(cfg *config.Config, months int) error {
	return ValidateIntRange("term_months", months, 1, cfg.MaxMonths)
}

// CheckPeriods checks the number of periods of a growth projection.
func CheckPeriods(cfg *config.Config, periods int) error {
	return ValidateIntRange("number_of_periods", periods, 1, cfg.MaxPeriods)
}

// CheckContribution checks a recurring contribution.
func CheckContribution(cfg *config.Config, contribution float64) error {
	return ValidatePositiveNumber("periodic_contribution", contribution, 0.0, cfg.MaxContribution)
}

// CheckAmount checks a non-negative money amount such as an income or a deduction claim.
func CheckAmount(cfg *config.Config, name string, amount float64) error {
	return ValidatePositiveNumber(name, amount, 0.0, cfg.MaxPrincipal)
}

// CheckBalance rejects projections whose balance grows past the configured cap.
func CheckBalance(cfg *config.Config, balance float64) error {
	return ValidatePositiveNumber("maturity_value", balance, 0.0, cfg.MaxBalanceCap)
}
