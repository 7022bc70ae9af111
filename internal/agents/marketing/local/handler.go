// internal/agents/marketing/local/handler.go
package local

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bizauto-agents/internal/agents"
	"bizauto-agents/internal/businessctx"
	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/models"
	"bizauto-agents/internal/storage"
)

const AgentName = "local_marketing"

var directories = []string{"Google Business Profile", "Justdial", "IndiaMART", "Sulekha"}

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
	})

	resp, err := h.Execute(ctx, req)
	if err != nil {
		h.counters.RecordFailure()
		return nil, err
	}
	h.counters.RecordSuccess()
	return resp, nil
}

// Execute prepares a neighborhood marketing checklist and writes it as a
// markdown deliverable.
func (h *Handler) Execute(_ context.Context, req *models.Request) (*models.Response, error) {
	businessType := req.Business.Type
	if businessType == "" {
		businessType = businessctx.DetectBusinessType(req.Description)
	}
	businessName := req.Business.Name
	if businessName == "" {
		businessName = "Your Business"
	}
	location := req.Business.Location
	if location == "" {
		location = req.Location
	}
	if location == "" {
		location = "your area"
	}

	plan := LocalPlan{
		BusinessName: businessName,
		Location:     location,
		Directories:  directories,
		Checklist:    checklistFor(businessType, location),
		Partnerships: partnershipsFor(businessType),
	}

	deliverable, err := h.writer.WriteMarkdown(req.ID, "local_marketing", renderPlan(plan))
	if err != nil {
		return nil, err
	}

	return &models.Response{
		Status:    models.StatusSuccess,
		Agent:     AgentName,
		RequestID: req.ID,
		Message:   fmt.Sprintf("Local marketing plan prepared for %s in %s", businessName, location),
		Data: map[string]interface{}{
			"location":     location,
			"directories":  plan.Directories,
			"checklistLen": len(plan.Checklist),
		},
		Deliverables: []models.Deliverable{deliverable},
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

func checklistFor(businessType, location string) []string {
	checklist := []string{
		"Claim and verify the Google Business Profile",
		fmt.Sprintf("Add %s to the business address and service area", location),
		"Upload at least 10 photos of the shop and products",
		"Ask your 20 most regular customers for a Google review",
		"Print a QR code for the profile and keep it at the counter",
	}
	switch businessType {
	case businessctx.TypeRestaurant:
		checklist = append(checklist, "List the menu on the profile and on Zomato/Swiggy")
	case businessctx.TypeRetail:
		checklist = append(checklist, "Post weekly offers as profile updates")
	case businessctx.TypeService:
		checklist = append(checklist, "Enable the booking link on the profile")
	}
	return checklist
}

func partnershipsFor(businessType string) []string {
	switch businessType {
	case businessctx.TypeRestaurant:
		return []string{"nearby offices for lunch tie-ups", "local event caterers"}
	case businessctx.TypeRetail:
		return []string{"housing societies for bulk festival orders", "local delivery riders"}
	case businessctx.TypeEducation:
		return []string{"nearby schools for workshops", "stationery shops for cross-promotion"}
	default:
		return []string{"complementary local businesses for referral exchanges"}
	}
}

func renderPlan(plan LocalPlan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Local Marketing Plan: %s\n\n", plan.BusinessName))
	sb.WriteString(fmt.Sprintf("Target area: %s\n\n", plan.Location))
	sb.WriteString("## Directory Listings\n\n")
	for _, d := range plan.Directories {
		sb.WriteString("- " + d + "\n")
	}
	sb.WriteString("\n## Checklist\n\n")
	for i, item := range plan.Checklist {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
	}
	sb.WriteString("\n## Partnership Ideas\n\n")
	for _, p := range plan.Partnerships {
		sb.WriteString("- " + p + "\n")
	}
	return sb.String()
}
