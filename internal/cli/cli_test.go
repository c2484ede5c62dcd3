package cli

import (
	"bytes"
	"context"
	"flag"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cloud-ru/finance-engine-go/internal/calculations"
	"github.com/cloud-ru/finance-engine-go/internal/config"
	"github.com/cloud-ru/finance-engine-go/internal/tools"
)

func run(t *testing.T, args ...string) (subcommands.ExitStatus, string, string) {
	t.Helper()
	return runWithPolicy(t, config.DefaultTaxPolicy(), args...)
}

func runWithPolicy(t *testing.T, policy *config.TaxPolicy, args ...string) (subcommands.ExitStatus, string, string) {
	t.Helper()
	cfg := &config.Config{
		MaxPrincipal:    1e9,
		MaxContribution: 1e8,
		MaxMonths:       600,
		MaxPeriods:      600,
		MaxRate:         200,
		MaxBalanceCap:   1e12,
		PPFRatePercent:  calculations.DefaultPPFRatePercent,
		TaxPolicy:       policy,
	}
	var out, errOut bytes.Buffer
	env := &Env{
		Registry:  tools.NewRegistry(cfg, noop.NewTracerProvider().Tracer("test")),
		Currency:  "USD",
		TaxPolicy: policy,
		Out:       &out,
		Err:       &errOut,
	}

	fs := flag.NewFlagSet("fincalc", flag.ContinueOnError)
	commander := subcommands.NewCommander(fs, "fincalc")
	commander.Output = io.Discard
	commander.Error = io.Discard
	Register(commander, env)

	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	status := commander.Execute(context.Background())
	return status, out.String(), errOut.String()
}

func TestEmiCommand(t *testing.T) {
	status, out, _ := run(t, "emi", "-principal", "500000", "-rate", "8.5", "-months", "240")
	if status != subcommands.ExitSuccess {
		t.Fatalf("status = %v", status)
	}
	if !strings.Contains(out, "Monthly EMI:    $4,339.00") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestEmiCommandSchedule(t *testing.T) {
	status, out, _ := run(t, "emi", "-principal", "10000", "-rate", "12", "-months", "24", "-schedule")
	if status != subcommands.ExitSuccess {
		t.Fatalf("status = %v", status)
	}
	// three summary lines, a header and 24 rows
	if lines := strings.Count(out, "\n"); lines != 28 {
		t.Errorf("got %d lines:\n%s", lines, out)
	}
}

func TestEmiCommandInvalid(t *testing.T) {
	status, _, errOut := run(t, "emi", "-principal", "-1", "-rate", "8", "-months", "12")
	if status != subcommands.ExitFailure {
		t.Fatalf("status = %v", status)
	}
	if !strings.Contains(errOut, "invalid input") {
		t.Errorf("stderr = %q", errOut)
	}

	status, _, _ = run(t, "emi", "-principal", "1000")
	if status != subcommands.ExitUsageError {
		t.Errorf("missing flags should be a usage error, got %v", status)
	}
}

func TestTaxCommand(t *testing.T) {
	status, out, _ := run(t, "tax", "-salary", "950000", "-80c", "0")
	if status != subcommands.ExitSuccess {
		t.Fatalf("status = %v", status)
	}
	for _, want := range []string{"Taxable income:   $900,000.00", "Cess:             $1,800.00", "Total tax:        $46,800.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestTaxCommandCustomPolicy(t *testing.T) {
	policy := &config.TaxPolicy{
		Brackets: []calculations.TaxBracket{
			{UpperBound: 100000, RatePercent: 0},
			{UpperBound: math.Inf(1), RatePercent: 10},
		},
		SurchargeRatePercent: 0,
		StandardDeduction:    0,
		IncomeFields:         []string{"wages"},
		Deductions:           []config.DeductionRule{{Name: "pension", Cap: 1000, Capped: true}},
	}

	status, out, errOut := runWithPolicy(t, policy, "tax", "-wages", "200000", "-pension", "5000")
	if status != subcommands.ExitSuccess {
		t.Fatalf("status = %v, stderr = %s", status, errOut)
	}
	for _, want := range []string{"Total deductions: $1,000.00", "Taxable income:   $199,000.00", "Total tax:        $9,900.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	status, _, _ = runWithPolicy(t, policy, "tax")
	if status != subcommands.ExitUsageError {
		t.Errorf("tax without income should be a usage error, got %v", status)
	}
}

func TestPPFCommand(t *testing.T) {
	status, out, _ := run(t, "ppf", "-monthly", "7100")
	if status != subcommands.ExitSuccess {
		t.Fatalf("status = %v", status)
	}
	if !strings.Contains(out, "Maturity value:    $2,310,743.00") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestMonthlyCommand(t *testing.T) {
	status, out, _ := run(t, "monthly", "-amount", "1200", "-cycle", "yearly")
	if status != subcommands.ExitSuccess {
		t.Fatalf("status = %v", status)
	}
	if strings.TrimSpace(out) != "Monthly: $100.00" {
		t.Errorf("output = %q", out)
	}
}

func TestCallCommand(t *testing.T) {
	status, out, _ := run(t, "call", "progress_ratio", `{"current": 750, "target": 500}`)
	if status != subcommands.ExitSuccess {
		t.Fatalf("status = %v", status)
	}
	if !strings.Contains(out, `"progress_percent": 150`) {
		t.Errorf("output = %s", out)
	}

	status, _, _ = run(t, "call", "compute_lottery")
	if status != subcommands.ExitFailure {
		t.Errorf("unknown tool should fail, got %v", status)
	}
}
