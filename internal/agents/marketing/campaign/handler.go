// internal/agents/marketing/campaign/handler.go
package campaign

import (
	"context"
	"fmt"
	"time"

	"bizauto-agents/internal/agents"
	"bizauto-agents/internal/businessctx"
	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/models"
	"bizauto-agents/internal/storage"
)

const AgentName = "campaign_manager"

type Handler struct {
	config      *Config
	logger      logger.Logger
	writer      *storage.Writer
	counters    agents.Counters
	initialized bool
}

func NewHandler(config *Config, log logger.Logger, writer *storage.Writer) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"agent": AgentName}),
		writer: writer,
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
		"action":    req.Action,
	})

	resp, err := h.Execute(ctx, req)
	if err != nil {
		h.counters.RecordFailure()
		return nil, err
	}
	h.counters.RecordSuccess()
	return resp, nil
}

// Execute plans a marketing campaign sized to the request's budget and
// writes the plan as a JSON deliverable.
func (h *Handler) Execute(_ context.Context, req *models.Request) (*models.Response, error) {
	businessType := req.Business.Type
	if businessType == "" {
		businessType = businessctx.DetectBusinessType(req.Description)
	}
	businessName := req.Business.Name
	if businessName == "" {
		businessName = "Your Business"
	}

	budget := h.config.DefaultBudget
	if raw, ok := req.Metadata["budget"]; ok {
		if b, ok := toFloat(raw); ok && b > 0 {
			budget = b
		}
	}
	band := businessctx.BudgetBand(budget)

	plan := CampaignPlan{
		BusinessName: businessName,
		BusinessType: businessType,
		Objective:    objectiveFor(req),
		BudgetINR:    budget,
		BudgetBand:   band,
		Channels:     channelsFor(band),
		Schedule:     scheduleFor(h.config.DefaultWeeks),
		Urgency:      businessctx.DetectUrgency(req.Description),
	}

	deliverable, err := h.writer.WriteJSON(req.ID, "campaign_plan", plan)
	if err != nil {
		return nil, err
	}

	return &models.Response{
		Status:    models.StatusSuccess,
		Agent:     AgentName,
		RequestID: req.ID,
		Message:   fmt.Sprintf("%d-week campaign planned across %d channels on a %s budget", h.config.DefaultWeeks, len(plan.Channels), band),
		Data: map[string]interface{}{
			"budgetBand": band,
			"budget":     budget,
			"channels":   channelNames(plan.Channels),
			"objective":  plan.Objective,
		},
		Deliverables: []models.Deliverable{deliverable},
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

func objectiveFor(req *models.Request) string {
	switch businessctx.DetectCategory(req.Description) {
	case businessctx.CategoryWebsite:
		return "drive traffic to the new website"
	case businessctx.CategoryAnalytics:
		return "grow repeat purchases from existing customers"
	default:
		return "increase footfall and enquiries"
	}
}

func channelsFor(band string) []ChannelPlan {
	switch band {
	case businessctx.BudgetHigh:
		return []ChannelPlan{
			{Channel: "whatsapp", ShareOfBudget: 0.2, Tactic: "broadcast offers to opted-in customers"},
			{Channel: "instagram", ShareOfBudget: 0.3, Tactic: "reels and boosted posts"},
			{Channel: "google_ads", ShareOfBudget: 0.35, Tactic: "local search ads on buying keywords"},
			{Channel: "print", ShareOfBudget: 0.15, Tactic: "pamphlets in nearby localities"},
		}
	case businessctx.BudgetMedium:
		return []ChannelPlan{
			{Channel: "whatsapp", ShareOfBudget: 0.3, Tactic: "broadcast offers to opted-in customers"},
			{Channel: "instagram", ShareOfBudget: 0.4, Tactic: "organic posts plus small boosts"},
			{Channel: "google_business", ShareOfBudget: 0.3, Tactic: "weekly posts and review replies"},
		}
	default:
		return []ChannelPlan{
			{Channel: "whatsapp", ShareOfBudget: 0.5, Tactic: "status updates and customer groups"},
			{Channel: "google_business", ShareOfBudget: 0.5, Tactic: "free profile posts and photos"},
		}
	}
}

func scheduleFor(weeks int) []ScheduleItem {
	activities := []string{
		"announce the campaign and refresh profiles",
		"run the first offer and collect responses",
		"push customer testimonials and reviews",
		"close with a final-week discount and measure results",
	}
	schedule := make([]ScheduleItem, 0, weeks)
	for week := 1; week <= weeks; week++ {
		activity := activities[len(activities)-1]
		if week-1 < len(activities) {
			activity = activities[week-1]
		}
		schedule = append(schedule, ScheduleItem{Week: week, Activity: activity})
	}
	return schedule
}

func channelNames(channels []ChannelPlan) []string {
	names := make([]string, len(channels))
	for i, c := range channels {
		names[i] = c.Channel
	}
	return names
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
