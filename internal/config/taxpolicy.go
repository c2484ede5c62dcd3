package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/cloud-ru/finance-engine-go/internal/calculations"
)

// DeductionRule describes one deduction a tax payer may claim. Capped rules
// count at most Cap of the claimed amount.
type DeductionRule struct {
	Name   string  `json:"name"`
	Cap    float64 `json:"cap,omitempty"`
	Capped bool    `json:"capped"`
}

// TaxPolicy is an injectable tax schedule: brackets, cess and deduction rules.
type TaxPolicy struct {
	Brackets             []calculations.TaxBracket `json:"brackets"`
	SurchargeRatePercent float64                   `json:"surcharge_rate_percent"`
	StandardDeduction    float64                   `json:"standard_deduction"`
	IncomeFields         []string                  `json:"income_fields"`
	Deductions           []DeductionRule           `json:"deductions"`
}

// DefaultTaxPolicy is the illustrative new-regime schedule the dashboard ships with.
func DefaultTaxPolicy() *TaxPolicy {
	return &TaxPolicy{
		Brackets: []calculations.TaxBracket{
			{UpperBound: 300000, RatePercent: 0},
			{UpperBound: 600000, RatePercent: 5},
			{UpperBound: 900000, RatePercent: 10},
			{UpperBound: 1200000, RatePercent: 15},
			{UpperBound: 1500000, RatePercent: 20},
			{UpperBound: math.Inf(1), RatePercent: 30},
		},
		SurchargeRatePercent: 4,
		StandardDeduction:    50000,
		IncomeFields:         []string{"salary", "otherIncome"},
		Deductions: []DeductionRule{
			{Name: "section80C", Cap: 150000, Capped: true},
			{Name: "hraExemption"},
			{Name: "nps", Cap: 50000, Capped: true},
			{Name: "medicalInsurance", Cap: 25000, Capped: true},
			{Name: "homeLoanInterest", Cap: 200000, Capped: true},
			{Name: "educationLoanInterest"},
		},
	}
}

// LoadTaxPolicy reads a JSON policy from path. An empty path yields DefaultTaxPolicy.
func LoadTaxPolicy(path string) (*TaxPolicy, error) {
	if path == "" {
		return DefaultTaxPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p TaxPolicy
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &p, nil
}

// Validate checks the bracket table, the rates and the deduction rules.
func (p *TaxPolicy) Validate() error {
	if err := calculations.ValidateBrackets(p.Brackets); err != nil {
		return err
	}
	if p.SurchargeRatePercent < 0 || p.SurchargeRatePercent > 100 {
		return fmt.Errorf("%w: surcharge rate %v outside [0, 100]", calculations.ErrInvalidInput, p.SurchargeRatePercent)
	}
	if p.StandardDeduction < 0 {
		return fmt.Errorf("%w: negative standard deduction", calculations.ErrInvalidInput)
	}
	seen := make(map[string]bool)
	for _, d := range p.Deductions {
		if d.Name == "" || seen[d.Name] {
			return fmt.Errorf("%w: deduction name %q is empty or repeated", calculations.ErrInvalidInput, d.Name)
		}
		if d.Capped && d.Cap < 0 {
			return fmt.Errorf("%w: deduction %q has a negative cap", calculations.ErrInvalidInput, d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// Profile builds an income profile from named income amounts and deduction
// claims. The standard deduction is always applied. Names the policy does not
// know fail with ErrInvalidInput.
func (p *TaxPolicy) Profile(income, claims map[string]float64) (calculations.IncomeProfile, error) {
	var profile calculations.IncomeProfile

	for _, name := range p.IncomeFields {
		if v, ok := income[name]; ok {
			profile.Income = append(profile.Income, calculations.IncomeComponent{Name: name, Amount: v})
		}
	}
	if len(profile.Income) != len(income) {
		for name := range income {
			if !contains(p.IncomeFields, name) {
				return calculations.IncomeProfile{}, fmt.Errorf("%w: unknown income %q", calculations.ErrInvalidInput, name)
			}
		}
	}

	if p.StandardDeduction > 0 {
		profile.Deductions = append(profile.Deductions, calculations.Deduction{Name: "standardDeduction", Amount: p.StandardDeduction})
	}
	known := 0
	for _, rule := range p.Deductions {
		v, ok := claims[rule.Name]
		if !ok {
			continue
		}
		known++
		profile.Deductions = append(profile.Deductions, calculations.Deduction{
			Name:   rule.Name,
			Amount: v,
			Cap:    rule.Cap,
			Capped: rule.Capped,
		})
	}
	if known != len(claims) {
		for name := range claims {
			if !p.hasDeduction(name) {
				return calculations.IncomeProfile{}, fmt.Errorf("%w: unknown deduction %q", calculations.ErrInvalidInput, name)
			}
		}
	}
	return profile, nil
}

func (p *TaxPolicy) hasDeduction(name string) bool {
	for _, d := range p.Deductions {
		if d.Name == name {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
