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

// GrowthResponse carries the exact projection and its whole-unit display form.
type GrowthResponse struct {
	Exact   calculations.GrowthResult `json:"exact"`
	Rounded calculations.GrowthResult `json:"rounded"`
}

func growthResponse(cfg *config.Config, span trace.Span, result calculations.GrowthResult) (GrowthResponse, error) {
	if err := validators.CheckBalance(cfg, result.MaturityValue); err != nil {
		return GrowthResponse{}, err
	}
	span.SetAttributes(
		attribute.Float64("total_contributed", result.TotalContributed),
		attribute.Float64("maturity_value", result.MaturityValue),
	)
	return GrowthResponse{Exact: result, Rounded: result.Rounded()}, nil
}

// ProjectGrowthHandler projects a recurring contribution plan.
func ProjectGrowthHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "project_growth", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		plan, err := forms.ParsePlan(params)
		if err != nil {
			return nil, err
		}

		span.SetAttributes(
			attribute.Float64("periodic_contribution", plan.PeriodicContribution),
			attribute.Float64("annual_rate_percent", plan.AnnualRatePercent),
			attribute.Int("number_of_periods", plan.NumberOfPeriods),
			attribute.String("cadence", string(plan.Cadence)),
		)

		if err := validators.CheckContribution(cfg, plan.PeriodicContribution); err != nil {
			return nil, err
		}
		if err := validators.CheckRate(cfg, plan.AnnualRatePercent); err != nil {
			return nil, err
		}
		if err := validators.CheckPeriods(cfg, plan.NumberOfPeriods); err != nil {
			return nil, err
		}

		result, err := calculations.ProjectPlan(plan)
		if err != nil {
			return nil, err
		}
		return growthResponse(cfg, span, result)
	})
}

// ProjectPPFHandler projects a public provident fund account.
func ProjectPPFHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "project_ppf", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		req, err := forms.ParsePPF(params, cfg.PPFRatePercent)
		if err != nil {
			return nil, err
		}

		span.SetAttributes(
			attribute.Float64("monthly_investment", req.MonthlyInvestment),
			attribute.Int("years", req.Years),
			attribute.Float64("annual_rate_percent", req.AnnualRatePercent),
		)

		if err := validators.CheckContribution(cfg, req.MonthlyInvestment); err != nil {
			return nil, err
		}
		if err := validators.CheckRate(cfg, req.AnnualRatePercent); err != nil {
			return nil, err
		}
		if err := validators.CheckPeriods(cfg, req.Years); err != nil {
			return nil, err
		}

		result, err := calculations.ProjectPPF(req.MonthlyInvestment, req.Years, req.AnnualRatePercent)
		if err != nil {
			return nil, err
		}
		return growthResponse(cfg, span, result)
	})
}
