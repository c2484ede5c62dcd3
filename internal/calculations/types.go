package calculations

import (
	"encoding/json"
	"math"
)

// ScheduleEntry is one month of an amortization schedule.
type ScheduleEntry struct {
	Month               int     `json:"month"`
	Payment             float64 `json:"payment"`
	Interest            float64 `json:"interest"`
	PrincipalComponent  float64 `json:"principal_component"`
	RemainingPrincipal  float64 `json:"remaining_principal"`
	CumulativeInterest  float64 `json:"cumulative_interest"`
	CumulativePrincipal float64 `json:"cumulative_principal"`
}

// LoanTerms are the inputs of an EMI computation.
type LoanTerms struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermMonths        int     `json:"term_months"`
}

// AmortizationResult holds the equated monthly installment of a loan and the
// totals derived from it, in whole currency units.
type AmortizationResult struct {
	PeriodicPayment float64 `json:"periodic_payment"`
	TotalPayment    float64 `json:"total_payment"`
	TotalInterest   float64 `json:"total_interest"`
}

// IncomeComponent is one source of income, e.g. salary.
type IncomeComponent struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Deduction is one deduction claim. When Capped is set, at most Cap of Amount
// counts toward the total deductions.
type Deduction struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Cap    float64 `json:"cap,omitempty"`
	Capped bool    `json:"capped,omitempty"`
}

// Contribution returns what the deduction adds to the total deductions.
func (d Deduction) Contribution() float64 {
	if d.Capped && d.Amount > d.Cap {
		return d.Cap
	}
	return d.Amount
}

// IncomeProfile groups the income and deduction components of one tax payer.
type IncomeProfile struct {
	Income     []IncomeComponent `json:"income"`
	Deductions []Deduction       `json:"deductions"`
}

// TaxBracket taxes the income between the previous bracket's UpperBound and its
// own UpperBound at RatePercent. The last bracket of a schedule has an infinite
// UpperBound.
type TaxBracket struct {
	UpperBound  float64 `json:"upper_bound"`
	RatePercent float64 `json:"rate_percent"`
}

type taxBracketJSON struct {
	UpperBound  *float64 `json:"upper_bound"`
	RatePercent float64  `json:"rate_percent"`
}

// MarshalJSON encodes an infinite upper bound as null.
func (b TaxBracket) MarshalJSON() ([]byte, error) {
	v := taxBracketJSON{RatePercent: b.RatePercent}
	if !math.IsInf(b.UpperBound, 1) {
		upper := b.UpperBound
		v.UpperBound = &upper
	}
	return json.Marshal(v)
}

// UnmarshalJSON decodes a null or missing upper bound as +Inf.
func (b *TaxBracket) UnmarshalJSON(data []byte) error {
	var v taxBracketJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	b.RatePercent = v.RatePercent
	b.UpperBound = math.Inf(1)
	if v.UpperBound != nil {
		b.UpperBound = *v.UpperBound
	}
	return nil
}

// TaxResult is the outcome of a tax computation.
type TaxResult struct {
	TotalIncome     float64 `json:"total_income"`
	TotalDeductions float64 `json:"total_deductions"`
	TaxableIncome   float64 `json:"taxable_income"`
	BaseTax         float64 `json:"base_tax"`
	Surcharge       float64 `json:"surcharge"`
	TotalTax        float64 `json:"total_tax"`
}

// GrowthResult is the outcome of a recurring contribution projection.
type GrowthResult struct {
	TotalContributed float64 `json:"total_contributed"`
	MaturityValue    float64 `json:"maturity_value"`
	TotalGrowth      float64 `json:"total_growth"`
}
