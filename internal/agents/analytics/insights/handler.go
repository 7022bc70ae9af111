// internal/agents/analytics/insights/handler.go
package insights

import (
	"context"
	"fmt"
	"math"
	"time"

	"bizauto-agents/internal/agents"
	"bizauto-agents/internal/agents/analytics/collector"
	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/models"
	"bizauto-agents/internal/storage"
)

const AgentName = "insights_engine"

type Handler struct {
	config      *Config
	logger      logger.Logger
	writer      *storage.Writer
	collector   *collector.Handler
	counters    agents.Counters
	initialized bool
}

// NewHandler wires the insights engine. The collector is used to source
// data when the request carries none of its own.
func NewHandler(config *Config, log logger.Logger, writer *storage.Writer, c *collector.Handler) *Handler {
	return &Handler{
		config:    config,
		logger:    log.WithFields(map[string]interface{}{"agent": AgentName}),
		writer:    writer,
		collector: c,
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

// Execute analyzes data points from the request metadata, falling back to a
// fresh collection run, and writes the analysis as a JSON deliverable.
func (h *Handler) Execute(ctx context.Context, req *models.Request) (*models.Response, error) {
	points := ParsePoints(req.Metadata["dataPoints"])
	if len(points) == 0 && h.collector != nil {
		collected, err := h.collector.Execute(ctx, req)
		if err != nil {
			return nil, err
		}
		points = ParsePoints(collected.Data["dataPoints"])
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no data points available for analysis")
	}

	analysis := Analyze(points)

	deliverable, err := h.writer.WriteJSON(req.ID, "insights", analysis)
	if err != nil {
		return nil, err
	}

	return &models.Response{
		Status:    models.StatusSuccess,
		Agent:     AgentName,
		RequestID: req.ID,
		Message:   fmt.Sprintf("Analyzed %d days of data, %d findings", analysis.Summary.Days, len(analysis.Findings)),
		Data: map[string]interface{}{
			"summary":  analysis.Summary,
			"findings": analysis.Findings,
		},
		Deliverables: []models.Deliverable{deliverable},
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// Analyze computes summary statistics and human-readable findings from
// daily data points.
func Analyze(points []collector.DataPoint) Analysis {
	summary := Summary{Days: len(points)}

	best := points[0]
	worst := points[0]
	for _, p := range points {
		summary.TotalRevenue += p.Revenue
		if p.Revenue > best.Revenue {
			best = p
		}
		if p.Revenue < worst.Revenue {
			worst = p
		}
	}
	summary.AverageRevenue = round2(summary.TotalRevenue / float64(len(points)))
	summary.TotalRevenue = round2(summary.TotalRevenue)
	summary.BestDay = best.Date
	summary.BestDayRevenue = best.Revenue
	summary.WorstDay = worst.Date

	// Growth compares the second half of the window to the first.
	half := len(points) / 2
	if half > 0 {
		var firstHalf, secondHalf float64
		for _, p := range points[:half] {
			firstHalf += p.Revenue
		}
		for _, p := range points[len(points)-half:] {
			secondHalf += p.Revenue
		}
		if firstHalf > 0 {
			summary.GrowthPercent = round2((secondHalf - firstHalf) / firstHalf * 100)
		}
	}

	findings := []string{
		fmt.Sprintf("Average daily revenue is INR %.2f", summary.AverageRevenue),
		fmt.Sprintf("Best day was %s with INR %.2f", summary.BestDay, summary.BestDayRevenue),
	}
	switch {
	case summary.GrowthPercent > 5:
		findings = append(findings, fmt.Sprintf("Revenue is growing, up %.1f%% over the period", summary.GrowthPercent))
	case summary.GrowthPercent < -5:
		findings = append(findings, fmt.Sprintf("Revenue is declining, down %.1f%% over the period", math.Abs(summary.GrowthPercent)))
	default:
		findings = append(findings, "Revenue is steady across the period")
	}

	return Analysis{Summary: summary, Findings: findings}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
