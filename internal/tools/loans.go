package tools

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/finance-engine-go/internal/calculations"
	"github.com/cloud-ru/finance-engine-go/internal/config"
	"github.com/cloud-ru/finance-engine-go/internal/forms"
	"github.com/cloud-ru/finance-engine-go/internal/validators"
)

// ScheduleResponse is the result of amortization_schedule.
type ScheduleResponse struct {
	Summary  calculations.AmortizationResult `json:"summary"`
	Schedule []calculations.ScheduleEntry    `json:"schedule"`
}

func parseLoanTerms(cfg *config.Config, span trace.Span, params map[string]interface{}) (calculations.LoanTerms, error) {
	terms, err := forms.ParseLoanTerms(params)
	if err != nil {
		return terms, err
	}

	span.SetAttributes(
		attribute.Float64("principal", terms.Principal),
		attribute.Float64("annual_rate_percent", terms.AnnualRatePercent),
		attribute.Int("term_months", terms.TermMonths),
	)

	if err := validators.CheckPrincipal(cfg, terms.Principal); err != nil {
		return terms, err
	}
	if err := validators.CheckRate(cfg, terms.AnnualRatePercent); err != nil {
		return terms, err
	}
	if err := validators.CheckMonths(cfg, terms.TermMonths); err != nil {
		return terms, err
	}
	return terms, nil
}

// ComputeAmortizationHandler computes the EMI of a loan.
func ComputeAmortizationHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "compute_amortization", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		terms, err := parseLoanTerms(cfg, span, params)
		if err != nil {
			return nil, err
		}

		result, err := calculations.ComputeAmortization(terms.Principal, terms.AnnualRatePercent, terms.TermMonths)
		if err != nil {
			return nil, err
		}

		span.SetAttributes(
			attribute.Float64("periodic_payment", result.PeriodicPayment),
			attribute.Float64("total_payment", result.TotalPayment),
		)
		return result, nil
	})
}

// AmortizationScheduleHandler breaks a loan down month by month.
func AmortizationScheduleHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "amortization_schedule", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		terms, err := parseLoanTerms(cfg, span, params)
		if err != nil {
			return nil, err
		}

		summary, err := calculations.ComputeAmortization(terms.Principal, terms.AnnualRatePercent, terms.TermMonths)
		if err != nil {
			return nil, err
		}
		schedule, err := calculations.AmortizationSchedule(terms.Principal, terms.AnnualRatePercent, terms.TermMonths)
		if err != nil {
			return nil, err
		}

		span.SetAttributes(attribute.Int("rows", len(schedule)))
		return ScheduleResponse{Summary: summary, Schedule: schedule}, nil
	})
}
