// internal/agents/analytics/reports/handler.go
package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bizauto-agents/internal/agents"
	"bizauto-agents/internal/agents/analytics/insights"
	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/models"
	"bizauto-agents/internal/storage"
)

const AgentName = "report_generator"

type Handler struct {
	config      *Config
	logger      logger.Logger
	writer      *storage.Writer
	insights    *insights.Handler
	counters    agents.Counters
	initialized bool
}

// NewHandler wires the report generator. Analysis comes from the insights
// engine when the request does not carry one.
func NewHandler(config *Config, log logger.Logger, writer *storage.Writer, ins *insights.Handler) *Handler {
	return &Handler{
		config:   config,
		logger:   log.WithFields(map[string]interface{}{"agent": AgentName}),
		writer:   writer,
		insights: ins,
	}
}

func (h *Handler) Name() string { return AgentName }

func (h *Handler) Initialize(_ context.Context) error {
	h.initialized = true
	return nil
}

func (h *Handler) Shutdown(_ context.Context) error {
	h.initialized = false
	return nil
}

func (h *Handler) Status() models.AgentStatus {
	return models.AgentStatus{
		Name:        AgentName,
		Initialized: h.initialized,
		Processed:   h.counters.Processed(),
		Failed:      h.counters.Failed(),
	}
}

func (h *Handler) HandleRequest(ctx context.Context, req *models.Request) (*models.Response, error) {
	h.logger.Info("processing request", map[string]interface{}{
		"requestId": req.ID,
	})

	resp, err := h.Execute(ctx, req)
	if err != nil {
		h.counters.RecordFailure()
		return nil, err
	}
	h.counters.RecordSuccess()
	return resp, nil
}

// Execute renders a business performance report as markdown, sourcing the
// analysis from the insights engine.
func (h *Handler) Execute(ctx context.Context, req *models.Request) (*models.Response, error) {
	if h.insights == nil {
		return nil, fmt.Errorf("insights engine not wired")
	}

	insightsResp, err := h.insights.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	summary, ok := insightsResp.Data["summary"].(insights.Summary)
	if !ok {
		return nil, fmt.Errorf("unexpected analysis payload")
	}
	findings, _ := insightsResp.Data["findings"].([]string)

	businessName := req.Business.Name
	if businessName == "" {
		businessName = "Your Business"
	}

	report := renderReport(businessName, summary, findings, time.Now().UTC())
	deliverable, err := h.writer.WriteMarkdown(req.ID, "business_report", report)
	if err != nil {
		return nil, err
	}

	deliverables := append([]models.Deliverable{deliverable}, insightsResp.Deliverables...)

	return &models.Response{
		Status:    models.StatusSuccess,
		Agent:     AgentName,
		RequestID: req.ID,
		Message:   fmt.Sprintf("Report generated covering %d days", summary.Days),
		Data: map[string]interface{}{
			"days":          summary.Days,
			"totalRevenue":  summary.TotalRevenue,
			"growthPercent": summary.GrowthPercent,
		},
		Deliverables: deliverables,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

func renderReport(businessName string, summary insights.Summary, findings []string, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Business Report: %s\n\n", businessName))
	sb.WriteString(fmt.Sprintf("Generated on %s\n\n", now.Format("2 January 2006")))
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Period | %d days |\n", summary.Days))
	sb.WriteString(fmt.Sprintf("| Total revenue | INR %.2f |\n", summary.TotalRevenue))
	sb.WriteString(fmt.Sprintf("| Average daily revenue | INR %.2f |\n", summary.AverageRevenue))
	sb.WriteString(fmt.Sprintf("| Best day | %s (INR %.2f) |\n", summary.BestDay, summary.BestDayRevenue))
	sb.WriteString(fmt.Sprintf("| Growth | %.1f%% |\n", summary.GrowthPercent))
	sb.WriteString("\n## Findings\n\n")
	for _, f := range findings {
		sb.WriteString("- " + f + "\n")
	}
	sb.WriteString("\n## Recommendations\n\n")
	if summary.GrowthPercent < 0 {
		sb.WriteString("- Run a retention offer for regular customers this month\n")
		sb.WriteString("- Review pricing against nearby competitors\n")
	} else {
		sb.WriteString("- Invest the surplus into the best performing channel\n")
		sb.WriteString("- Replicate the best day's promotions on slow days\n")
	}
	return sb.String()
}
