package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/finance-engine-go/internal/calculations"
	"github.com/cloud-ru/finance-engine-go/internal/config"
	"github.com/cloud-ru/finance-engine-go/internal/metrics"
)

// ToolHandler runs one calculator on loosely typed params.
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// ErrUnknownTool is returned by Registry.Call for names that are not registered.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is a registered calculator. Cacheable tools return the same result for
// the same params.
type Tool struct {
	Name        string
	Description string
	Cacheable   bool
	Handler     ToolHandler
}

type Registry struct {
	tools map[string]Tool
}

// NewRegistry registers every calculator tool.
func NewRegistry(cfg *config.Config, tracer trace.Tracer) *Registry {
	r := &Registry{tools: make(map[string]Tool)}

	r.register("compute_amortization", "Equated monthly installment of a loan with totals", true, ComputeAmortizationHandler(cfg, tracer))
	r.register("amortization_schedule", "Month by month amortization schedule of a loan", true, AmortizationScheduleHandler(cfg, tracer))
	r.register("compute_tax", "Progressive income tax with capped deductions and cess", true, ComputeTaxHandler(cfg, tracer))
	r.register("project_growth", "Maturity value of a recurring contribution plan", true, ProjectGrowthHandler(cfg, tracer))
	r.register("project_ppf", "Public provident fund maturity", true, ProjectPPFHandler(cfg, tracer))
	r.register("normalize_to_monthly", "Monthly equivalent of a recurring price", true, NormalizeToMonthlyHandler(tracer))
	r.register("percentage_return", "Percentage return on invested principal", true, PercentageReturnHandler(tracer))
	r.register("progress_ratio", "Progress toward a target in percent, unclamped", true, ProgressRatioHandler(tracer))
	r.register("days_between", "Whole days from one date to another, rounded up", false, DaysBetweenHandler(tracer))
	r.register("total_of", "Sum of one numeric field over a list of records", true, TotalOfHandler(tracer))
	r.register("subscriptions_monthly_total", "Monthly cost of a set of subscriptions", true, SubscriptionsMonthlyTotalHandler(tracer))
	r.register("portfolio_summary", "Invested, current value, return and allocation of a portfolio", true, PortfolioSummaryHandler(tracer))
	r.register("budget_summary", "Spending against budgets", true, BudgetSummaryHandler(tracer))
	r.register("transaction_summary", "Income, expense and savings rate of a ledger", true, TransactionSummaryHandler(tracer))
	r.register("wallet_balances", "Wallet balances per currency", true, WalletBalancesHandler(tracer))
	r.register("debt_summary", "Outstanding debts, EMIs and months remaining", false, DebtSummaryHandler(tracer))
	r.register("goal_progress", "Progress and days left for savings goals", false, GoalProgressHandler(tracer))

	return r
}

func (r *Registry) register(name, description string, cacheable bool, h ToolHandler) {
	r.tools[name] = Tool{Name: name, Description: description, Cacheable: cacheable, Handler: h}
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Tools lists the registered tools by name.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Call runs the named tool.
func (r *Registry) Call(ctx context.Context, name string, params map[string]interface{}) (interface{}, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	if params == nil {
		params = map[string]interface{}{}
	}
	return t.Handler(ctx, params)
}

type transportKey struct{}

// WithTransport labels the tool calls made with ctx by the transport that
// received them, e.g. "http" or "cli".
func WithTransport(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, transportKey{}, name)
}

func transport(ctx context.Context) string {
	if name, ok := ctx.Value(transportKey{}).(string); ok {
		return name
	}
	return "inproc"
}

type toolBody func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error)

// instrument wraps a tool body in a span and counts its outcome.
func instrument(tracer trace.Tracer, toolName string, body toolBody) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, span := tracer.Start(ctx, toolName)
		defer span.End()

		service := transport(ctx)
		metrics.APICalls.WithLabelValues(service, toolName, "started").Inc()

		result, err := body(ctx, span, params)
		if err != nil {
			return nil, fail(span, service, toolName, err)
		}

		span.SetAttributes(attribute.Bool("success", true))
		metrics.ToolCalls.WithLabelValues(toolName, "success").Inc()
		metrics.APICalls.WithLabelValues(service, toolName, "success").Inc()

		return result, nil
	}
}

func fail(span trace.Span, service, toolName string, err error) error {
	kind, status, prefix := "calculation", "error", "calculation failed"
	switch {
	case errors.Is(err, calculations.ErrInvalidInput):
		kind, status, prefix = "validation", "validation_error", "invalid parameters"
	case errors.Is(err, calculations.ErrUndefinedResult):
		kind, prefix = "undefined", "undefined result"
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	span.SetAttributes(attribute.String("error", kind+"_error"))
	metrics.ToolCalls.WithLabelValues(toolName, status).Inc()
	metrics.CalculationErrors.WithLabelValues(toolName, kind).Inc()
	metrics.APICalls.WithLabelValues(service, toolName, "error").Inc()

	return fmt.Errorf("%s: %s: %w", toolName, prefix, err)
}
