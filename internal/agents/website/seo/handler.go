// internal/agents/website/seo/handler.go
package seo

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

const AgentName = "seo_optimizer"

var baseKeywordsByType = map[string][]string{
	businessctx.TypeRestaurant: {"restaurant", "food delivery", "best food", "family restaurant", "veg restaurant"},
	businessctx.TypeRetail:     {"store", "shop", "grocery", "daily needs", "best prices"},
	businessctx.TypeService:    {"services", "home service", "repair", "booking", "trusted professionals"},
	businessctx.TypeEcommerce:  {"online shopping", "buy online", "free delivery", "cash on delivery"},
	businessctx.TypeHealthcare: {"clinic", "doctor", "appointment", "health checkup"},
	businessctx.TypeEducation:  {"coaching", "classes", "courses", "admission"},
	businessctx.TypeGeneral:    {"business", "services", "quality", "near me"},
}

var localChecklist = []string{
	"Create and verify a Google Business Profile",
	"Keep name, address and phone identical across listings",
	"Add photos of the storefront and bestsellers",
	"Collect customer reviews and reply to each one",
	"List the business on Justdial and IndiaMART",
	"Add location keywords to page titles and headings",
}

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

// Execute builds keyword and meta tag suggestions plus a local search
// checklist, written as a JSON deliverable.
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

	plan := SEOPlan{
		BusinessName:    businessName,
		BusinessType:    businessType,
		Location:        location,
		Keywords:        h.buildKeywords(businessType, location),
		MetaTitle:       metaTitle(businessName, businessType, location),
		MetaDescription: metaDescription(businessName, businessType, location),
		LocalChecklist:  localChecklist,
	}

	deliverable, err := h.writer.WriteJSON(req.ID, "seo_plan", plan)
	if err != nil {
		return nil, err
	}

	return &models.Response{
		Status:    models.StatusSuccess,
		Agent:     AgentName,
		RequestID: req.ID,
		Message:   fmt.Sprintf("SEO plan prepared with %d keywords", len(plan.Keywords)),
		Data: map[string]interface{}{
			"businessType":    businessType,
			"keywords":        plan.Keywords,
			"metaTitle":       plan.MetaTitle,
			"metaDescription": plan.MetaDescription,
		},
		Deliverables: []models.Deliverable{deliverable},
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// buildKeywords combines base terms with location variants, capped at
// MaxKeywords.
func (h *Handler) buildKeywords(businessType, location string) []string {
	base, ok := baseKeywordsByType[businessType]
	if !ok {
		base = baseKeywordsByType[businessctx.TypeGeneral]
	}

	keywords := make([]string, 0, h.config.MaxKeywords)
	keywords = append(keywords, base...)
	if location != "" {
		for _, kw := range base {
			keywords = append(keywords, kw+" in "+location)
		}
	} else {
		for _, kw := range base {
			keywords = append(keywords, kw+" near me")
		}
	}

	if len(keywords) > h.config.MaxKeywords {
		keywords = keywords[:h.config.MaxKeywords]
	}
	return keywords
}

func metaTitle(businessName, businessType, location string) string {
	if location != "" {
		return fmt.Sprintf("%s | %s in %s", businessName, displayType(businessType), location)
	}
	return fmt.Sprintf("%s | %s", businessName, displayType(businessType))
}

func metaDescription(businessName, businessType, location string) string {
	where := ""
	if location != "" {
		where = " in " + location
	}
	return fmt.Sprintf("%s is a trusted %s%s. Visit us or order on WhatsApp today.", businessName, displayType(businessType), where)
}

func displayType(businessType string) string {
	switch businessType {
	case businessctx.TypeRestaurant:
		return "Restaurant"
	case businessctx.TypeRetail:
		return "Store"
	case businessctx.TypeService:
		return "Service Provider"
	case businessctx.TypeEcommerce:
		return "Online Store"
	case businessctx.TypeHealthcare:
		return "Clinic"
	case businessctx.TypeEducation:
		return "Institute"
	default:
		return "Local Business"
	}
}
