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

// ComputeTaxHandler computes income tax under the configured policy.
func ComputeTaxHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "compute_tax", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		policy := cfg.TaxPolicy
		if policy == nil {
			policy = config.DefaultTaxPolicy()
		}

		profile, err := forms.ParseIncomeProfile(params, policy)
		if err != nil {
			return nil, err
		}
		for _, c := range profile.Income {
			if err := validators.CheckAmount(cfg, c.Name, c.Amount); err != nil {
				return nil, err
			}
		}
		for _, d := range profile.Deductions {
			if err := validators.CheckAmount(cfg, d.Name, d.Amount); err != nil {
				return nil, err
			}
		}

		span.SetAttributes(
			attribute.Int("income_components", len(profile.Income)),
			attribute.Int("deductions", len(profile.Deductions)),
		)

		result, err := calculations.ComputeTax(profile, policy.Brackets, policy.SurchargeRatePercent)
		if err != nil {
			return nil, err
		}

		span.SetAttributes(
			attribute.Float64("taxable_income", result.TaxableIncome),
			attribute.Float64("total_tax", result.TotalTax),
		)
		return result, nil
	})
}
