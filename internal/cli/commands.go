package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/cloud-ru/finance-engine-go/internal/calculations"
	"github.com/cloud-ru/finance-engine-go/internal/tools"
)

type emiCmd struct {
	env       *Env
	principal string
	rate      string
	months    string
	schedule  bool
}

func (*emiCmd) Name() string     { return "emi" }
func (*emiCmd) Synopsis() string { return "compute the equated monthly installment of a loan" }
func (*emiCmd) Usage() string {
	return `fincalc emi -principal <amount> -rate <annual %> -months <n> [-schedule]

  Prints the monthly installment, the total payment and the total interest.
  With -schedule, also prints the month by month breakdown.
`
}

func (c *emiCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.principal, "principal", "", "Loan amount.")
	f.StringVar(&c.rate, "rate", "", "Annual interest rate in percent.")
	f.StringVar(&c.months, "months", "", "Loan term in months.")
	f.BoolVar(&c.schedule, "schedule", false, "Print the amortization schedule.")
}

func (c *emiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.principal == "" || c.rate == "" || c.months == "" {
		return usageError(f, c.env, "-principal, -rate and -months are required")
	}
	params := map[string]interface{}{
		"principal":           c.principal,
		"annual_rate_percent": c.rate,
		"term_months":         c.months,
	}

	if !c.schedule {
		out, err := c.env.call(ctx, "compute_amortization", params)
		if err != nil {
			return c.env.fail(err)
		}
		c.printSummary(out.(calculations.AmortizationResult))
		return subcommands.ExitSuccess
	}

	out, err := c.env.call(ctx, "amortization_schedule", params)
	if err != nil {
		return c.env.fail(err)
	}
	res := out.(tools.ScheduleResponse)
	c.printSummary(res.Summary)

	w := tabwriter.NewWriter(c.env.Out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Month\tPayment\tInterest\tPrincipal\tRemaining\t")
	for _, e := range res.Schedule {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n", e.Month,
			c.env.money(e.Payment), c.env.money(e.Interest),
			c.env.money(e.PrincipalComponent), c.env.money(e.RemainingPrincipal))
	}
	if err := w.Flush(); err != nil {
		return c.env.fail(err)
	}
	return subcommands.ExitSuccess
}

func (c *emiCmd) printSummary(r calculations.AmortizationResult) {
	fmt.Fprintf(c.env.Out, "Monthly EMI:    %s\n", c.env.money(r.PeriodicPayment))
	fmt.Fprintf(c.env.Out, "Total payment:  %s\n", c.env.money(r.TotalPayment))
	fmt.Fprintf(c.env.Out, "Total interest: %s\n", c.env.money(r.TotalInterest))
}

type taxCmd struct {
	env        *Env
	income     map[string]*string
	deductions map[string]*string
}

// taxFlagNames are the short flag names of the default policy's components.
// Components of other policies are flagged by their own names.
var taxFlagNames = map[string]string{
	"otherIncome":           "other-income",
	"section80C":            "80c",
	"hraExemption":          "hra",
	"medicalInsurance":      "medical",
	"homeLoanInterest":      "home-loan",
	"educationLoanInterest": "education-loan",
}

func taxFlagName(component string) string {
	if name, ok := taxFlagNames[component]; ok {
		return name
	}
	return component
}

func (*taxCmd) Name() string     { return "tax" }
func (*taxCmd) Synopsis() string { return "compute income tax under the configured tax policy" }
func (*taxCmd) Usage() string {
	return `fincalc tax -<income> <amount> ... [-<deduction> <amount> ...]

  Takes one flag per income field and deduction of the tax policy. Applies the
  standard deduction and the capped deductions, then the marginal brackets and
  the cess.
`
}

func (c *taxCmd) SetFlags(f *flag.FlagSet) {
	policy := c.env.taxPolicy()
	c.income = make(map[string]*string, len(policy.IncomeFields))
	for _, name := range policy.IncomeFields {
		c.income[name] = f.String(taxFlagName(name), "", fmt.Sprintf("Annual %s.", name))
	}
	c.deductions = make(map[string]*string, len(policy.Deductions))
	for _, d := range policy.Deductions {
		usage := fmt.Sprintf("Amount claimed under %s.", d.Name)
		if d.Capped {
			usage = fmt.Sprintf("Amount claimed under %s, capped at %v.", d.Name, d.Cap)
		}
		c.deductions[d.Name] = f.String(taxFlagName(d.Name), "", usage)
	}
}

func (c *taxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	income := map[string]interface{}{}
	for name, v := range c.income {
		setParam(income, name, *v)
	}
	if len(income) == 0 {
		return usageError(f, c.env, "at least one income flag is required")
	}
	deductions := map[string]interface{}{}
	for name, v := range c.deductions {
		setParam(deductions, name, *v)
	}

	out, err := c.env.call(ctx, "compute_tax", map[string]interface{}{
		"income":     income,
		"deductions": deductions,
	})
	if err != nil {
		return c.env.fail(err)
	}
	r := out.(calculations.TaxResult)
	fmt.Fprintf(c.env.Out, "Total income:     %s\n", c.env.money(r.TotalIncome))
	fmt.Fprintf(c.env.Out, "Total deductions: %s\n", c.env.money(r.TotalDeductions))
	fmt.Fprintf(c.env.Out, "Taxable income:   %s\n", c.env.money(r.TaxableIncome))
	fmt.Fprintf(c.env.Out, "Tax:              %s\n", c.env.money(r.BaseTax))
	fmt.Fprintf(c.env.Out, "Cess:             %s\n", c.env.money(r.Surcharge))
	fmt.Fprintf(c.env.Out, "Total tax:        %s\n", c.env.money(r.TotalTax))
	return subcommands.ExitSuccess
}

type growthCmd struct {
	env          *Env
	contribution string
	rate         string
	periods      string
	cadence      string
}

func (*growthCmd) Name() string     { return "growth" }
func (*growthCmd) Synopsis() string { return "project a recurring contribution plan" }
func (*growthCmd) Usage() string {
	return `fincalc growth -contribution <amount> -rate <annual %> -periods <n> [-cadence annual|quarterly|monthly]
`
}

func (c *growthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.contribution, "contribution", "", "Contribution made every period.")
	f.StringVar(&c.rate, "rate", "", "Annual rate in percent.")
	f.StringVar(&c.periods, "periods", "", "Number of periods.")
	f.StringVar(&c.cadence, "cadence", "annual", "Period length: annual, quarterly or monthly.")
}

func (c *growthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.contribution == "" || c.rate == "" || c.periods == "" {
		return usageError(f, c.env, "-contribution, -rate and -periods are required")
	}
	out, err := c.env.call(ctx, "project_growth", map[string]interface{}{
		"periodic_contribution": c.contribution,
		"annual_rate_percent":   c.rate,
		"number_of_periods":     c.periods,
		"cadence":               c.cadence,
	})
	if err != nil {
		return c.env.fail(err)
	}
	printGrowth(c.env, out.(tools.GrowthResponse).Rounded)
	return subcommands.ExitSuccess
}

type ppfCmd struct {
	env     *Env
	monthly string
	years   string
	rate    string
}

func (*ppfCmd) Name() string     { return "ppf" }
func (*ppfCmd) Synopsis() string { return "project a public provident fund account" }
func (*ppfCmd) Usage() string {
	return `fincalc ppf -monthly <amount> -years <n> [-rate <annual %>]
`
}

func (c *ppfCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.monthly, "monthly", "", "Monthly investment.")
	f.StringVar(&c.years, "years", "15", "Number of years.")
	f.StringVar(&c.rate, "rate", "", "Annual rate in percent, defaults to the configured PPF rate.")
}

func (c *ppfCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.monthly == "" {
		return usageError(f, c.env, "-monthly is required")
	}
	params := map[string]interface{}{
		"monthly_investment": c.monthly,
		"years":              c.years,
	}
	setParam(params, "annual_rate_percent", c.rate)

	out, err := c.env.call(ctx, "project_ppf", params)
	if err != nil {
		return c.env.fail(err)
	}
	printGrowth(c.env, out.(tools.GrowthResponse).Rounded)
	return subcommands.ExitSuccess
}

func printGrowth(env *Env, r calculations.GrowthResult) {
	fmt.Fprintf(env.Out, "Total contributed: %s\n", env.money(r.TotalContributed))
	fmt.Fprintf(env.Out, "Maturity value:    %s\n", env.money(r.MaturityValue))
	fmt.Fprintf(env.Out, "Total growth:      %s\n", env.money(r.TotalGrowth))
}

type monthlyCmd struct {
	env    *Env
	amount string
	cycle  string
}

func (*monthlyCmd) Name() string     { return "monthly" }
func (*monthlyCmd) Synopsis() string { return "convert a recurring price to its monthly equivalent" }
func (*monthlyCmd) Usage() string {
	return `fincalc monthly -amount <price> -cycle Monthly|Quarterly|Yearly
`
}

func (c *monthlyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Price per billing cycle.")
	f.StringVar(&c.cycle, "cycle", "Monthly", "Billing cycle.")
}

func (c *monthlyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		return usageError(f, c.env, "-amount is required")
	}
	out, err := c.env.call(ctx, "normalize_to_monthly", map[string]interface{}{
		"amount":        c.amount,
		"billing_cycle": c.cycle,
	})
	if err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintf(c.env.Out, "Monthly: %s\n", c.env.money(out.(map[string]float64)["monthly_amount"]))
	return subcommands.ExitSuccess
}

type callCmd struct {
	env *Env
}

func (*callCmd) Name() string     { return "call" }
func (*callCmd) Synopsis() string { return "run any tool with JSON params and print the JSON result" }
func (*callCmd) Usage() string {
	return `fincalc call <tool> [<json params>]

  Tools: compute_amortization, compute_tax, project_growth, portfolio_summary, ...
`
}

func (*callCmd) SetFlags(*flag.FlagSet) {}

func (c *callCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		return usageError(f, c.env, "expected a tool name and optional JSON params")
	}
	params := map[string]interface{}{}
	if f.NArg() == 2 {
		if err := json.Unmarshal([]byte(f.Arg(1)), &params); err != nil {
			return c.env.fail(fmt.Errorf("decode params: %w", err))
		}
	}

	out, err := c.env.call(ctx, f.Arg(0), params)
	if err != nil {
		return c.env.fail(err)
	}
	enc := json.NewEncoder(c.env.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return c.env.fail(err)
	}
	return subcommands.ExitSuccess
}
