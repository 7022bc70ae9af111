// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AgentRequestsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_requests_completed_total",
			Help: "Total number of requests completed by agent",
		},
		[]string{"agent", "status"},
	)

	AgentRequestsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_requests_failed_total",
			Help: "Total number of requests failed by agent",
		},
		[]string{"agent", "error_code"},
	)

	AgentRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "agent_request_duration_seconds",
			Help: "Duration of agent request processing in seconds",
		},
		[]string{"agent"},
	)

	AgentRequestsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "agent_requests_active",
			Help: "Number of in-flight requests per agent",
		},
		[]string{"agent"},
	)

	TaskQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orchestrator_task_queue_depth",
			Help: "Number of tasks currently waiting in the queue",
		},
	)

	RequestsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_requests_rejected_total",
			Help: "Total number of requests rejected before dispatch",
		},
		[]string{"reason"},
	)

	DeliverablesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deliverables_written_total",
			Help: "Total number of deliverable files written",
		},
		[]string{"format"},
	)
)
