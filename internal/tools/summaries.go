package tools

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/finance-engine-go/internal/calculations"
	"github.com/cloud-ru/finance-engine-go/internal/forms"
)

// SubscriptionsMonthlyTotalHandler adds up the monthly cost of subscriptions.
func SubscriptionsMonthlyTotalHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "subscriptions_monthly_total", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		subs, err := forms.List(params, "subscriptions", forms.ParseSubscription)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("subscriptions", len(subs)))

		monthly, err := calculations.MonthlySubscriptionCost(subs)
		if err != nil {
			return nil, err
		}
		return map[string]float64{"monthly_total": monthly}, nil
	})
}

func PortfolioSummaryHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "portfolio_summary", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		investments, err := forms.List(params, "investments", forms.ParseInvestment)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("investments", len(investments)))

		return calculations.SummarizePortfolio(investments)
	})
}

func BudgetSummaryHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "budget_summary", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		budgets, err := forms.List(params, "budgets", forms.ParseBudget)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("budgets", len(budgets)))

		return calculations.SummarizeBudgets(budgets)
	})
}

func TransactionSummaryHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "transaction_summary", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		txs, err := forms.List(params, "transactions", forms.ParseTransaction)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("transactions", len(txs)))

		return calculations.SummarizeTransactions(txs)
	})
}

func WalletBalancesHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "wallet_balances", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		wallets, err := forms.List(params, "wallets", forms.ParseWallet)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("wallets", len(wallets)))

		balances, err := calculations.WalletBalances(wallets)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"balances": balances}, nil
	})
}

// DebtSummaryHandler summarizes debts as of the optional "as_of" date.
func DebtSummaryHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "debt_summary", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		debts, err := forms.List(params, "debts", forms.ParseDebt)
		if err != nil {
			return nil, err
		}
		now, err := forms.Now(params, "as_of")
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("debts", len(debts)))

		return calculations.SummarizeDebts(debts, now)
	})
}

// GoalProgressHandler reports every goal's progress as of the optional "as_of" date.
func GoalProgressHandler(tracer trace.Tracer) ToolHandler {
	return instrument(tracer, "goal_progress", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		goals, err := forms.List(params, "goals", forms.ParseGoal)
		if err != nil {
			return nil, err
		}
		now, err := forms.Now(params, "as_of")
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("goals", len(goals)))

		statuses := make([]calculations.GoalStatus, 0, len(goals))
		for _, g := range goals {
			s, err := calculations.GoalProgress(g, now)
			if err != nil {
				return nil, err
			}
			statuses = append(statuses, s)
		}
		return map[string]interface{}{"goals": statuses}, nil
	})
}
