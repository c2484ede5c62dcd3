package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCalls counts calculator tool calls by outcome.
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finance_tool_calls_total",
			Help: "Total number of calculator tool calls",
		},
		[]string{"tool_name", "status"},
	)

	// CalculationErrors counts failed calculations by error kind.
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finance_calculation_errors_total",
			Help: "Number of failed calculations",
		},
		[]string{"tool_name", "error_type"},
	)

	// APICalls counts calls per transport and endpoint.
	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finance_api_calls_total",
			Help: "Calculator calls per transport",
		},
		[]string{"service", "endpoint", "status"},
	)

	// CacheLookups counts result cache hits and misses.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finance_cache_lookups_total",
			Help: "Result cache lookups",
		},
		[]string{"tool_name", "result"},
	)
)
