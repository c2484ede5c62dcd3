package tools

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/finance-engine-go/internal/calculations"
	"github.com/cloud-ru/finance-engine-go/internal/forms"
)

// NormalizeToMonthlyHandler converts a recurring price to its monthly equivalent.
func NormalizeToMonthlyHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "normalize_to_monthly", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		amount, err := forms.NonNegative(params, "amount")
		if err != nil {
			return nil, err
		}
		raw, err := forms.String(params, "billing_cycle")
		if err != nil {
			return nil, err
		}
		cycle, err := calculations.ParseBillingCycle(raw)
		if err != nil {
			return nil, err
		}

		span.SetAttributes(
			attribute.Float64("amount", amount),
			attribute.String("billing_cycle", string(cycle)),
		)

		monthly, err := calculations.NormalizeToMonthly(amount, cycle)
		if err != nil {
			return nil, err
		}
		return map[string]float64{"monthly_amount": monthly}, nil
	})
}

// PercentageReturnHandler computes the return on invested principal in percent.
func PercentageReturnHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "percentage_return", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		invested, err := forms.NonNegative(params, "invested")
		if err != nil {
			return nil, err
		}
		current, err := forms.NonNegative(params, "current_value")
		if err != nil {
			return nil, err
		}

		span.SetAttributes(
			attribute.Float64("invested", invested),
			attribute.Float64("current_value", current),
		)

		pct, err := calculations.PercentageReturn(invested, current)
		if err != nil {
			return nil, err
		}
		return map[string]float64{"percentage_return": pct}, nil
	})
}

// ProgressRatioHandler reports progress toward a target in percent.
func ProgressRatioHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "progress_ratio", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		current, err := forms.Number(params, "current")
		if err != nil {
			return nil, err
		}
		target, err := forms.Number(params, "target")
		if err != nil {
			return nil, err
		}

		span.SetAttributes(
			attribute.Float64("current", current),
			attribute.Float64("target", target),
		)

		pct, err := calculations.ProgressRatio(current, target)
		if err != nil {
			return nil, err
		}
		return map[string]float64{"progress_percent": pct}, nil
	})
}

// DaysBetweenHandler counts the days from "from" (default now) to "to".
func DaysBetweenHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "days_between", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		from, err := forms.Now(params, "from")
		if err != nil {
			return nil, err
		}
		to, err := forms.Date(params, "to")
		if err != nil {
			return nil, err
		}

		days := calculations.DaysBetween(from, to)
		span.SetAttributes(attribute.Int("days", days))
		return map[string]int{"days": days}, nil
	})
}

// TotalOfHandler sums one numeric field over a list of records of one kind.
func TotalOfHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "total_of", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		kind, err := forms.String(params, "kind")
		if err != nil {
			return nil, err
		}
		field, err := forms.String(params, "field")
		if err != nil {
			return nil, err
		}

		span.SetAttributes(
			attribute.String("kind", kind),
			attribute.String("field", field),
		)

		var total float64
		switch strings.ToLower(kind) {
		case "transactions":
			total, err = totalOfRecords(params, field, forms.ParseTransaction)
		case "wallets":
			total, err = totalOfRecords(params, field, forms.ParseWallet)
		case "investments":
			total, err = totalOfRecords(params, field, forms.ParseInvestment)
		case "budgets":
			total, err = totalOfRecords(params, field, forms.ParseBudget)
		case "subscriptions":
			total, err = totalOfRecords(params, field, forms.ParseSubscription)
		case "debts":
			total, err = totalOfRecords(params, field, forms.ParseDebt)
		case "goals":
			total, err = totalOfRecords(params, field, forms.ParseGoal)
		default:
			return nil, forms.Invalid("kind", "unknown record kind %q", kind)
		}
		if err != nil {
			return nil, err
		}
		return map[string]float64{"total": total}, nil
	})
}

func totalOfRecords[T calculations.FieldValuer](params map[string]interface{}, field string, parse func(map[string]interface{}) (T, error)) (float64, error) {
	records, err := forms.List(params, "records", parse)
	if err != nil {
		return 0, err
	}
	return calculations.TotalOfField(records, field)
}
