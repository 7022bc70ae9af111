// internal/agents/website/builder/handler.go
package builder

import (
	"context"
	"fmt"
	"time"

	"bizauto-agents/internal/businessctx"
	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/models"
	"bizauto-agents/internal/storage"

	"bizauto-agents/internal/agents"
)

const AgentName = "website_builder"

var templatesByBusinessType = map[string]string{
	businessctx.TypeRestaurant: "menu-forward",
	businessctx.TypeRetail:     "catalog",
	businessctx.TypeService:    "booking",
	businessctx.TypeEcommerce:  "storefront",
	businessctx.TypeHealthcare: "practice",
	businessctx.TypeEducation:  "campus",
	businessctx.TypeGeneral:    "brochure",
}

var colorSchemesByBusinessType = map[string]ColorScheme{
	businessctx.TypeRestaurant: {Primary: "#C0392B", Secondary: "#F9E79F", Accent: "#7B241C"},
	businessctx.TypeRetail:     {Primary: "#2E86C1", Secondary: "#EBF5FB", Accent: "#1B4F72"},
	businessctx.TypeService:    {Primary: "#117A65", Secondary: "#E8F8F5", Accent: "#0B5345"},
	businessctx.TypeEcommerce:  {Primary: "#884EA0", Secondary: "#F4ECF7", Accent: "#4A235A"},
	businessctx.TypeHealthcare: {Primary: "#2471A3", Secondary: "#EAF2F8", Accent: "#154360"},
	businessctx.TypeEducation:  {Primary: "#B9770E", Secondary: "#FEF9E7", Accent: "#7E5109"},
	businessctx.TypeGeneral:    {Primary: "#34495E", Secondary: "#F2F4F4", Accent: "#17202A"},
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

// Execute builds the website plan for the request's business and writes it
// as a deliverable.
func (h *Handler) Execute(_ context.Context, req *models.Request) (*models.Response, error) {
	businessType := req.Business.Type
	if businessType == "" {
		businessType = businessctx.DetectBusinessType(req.Description)
	}

	businessName := req.Business.Name
	if businessName == "" {
		businessName = "Your Business"
	}

	template, ok := templatesByBusinessType[businessType]
	if !ok {
		template = templatesByBusinessType[businessctx.TypeGeneral]
	}
	scheme, ok := colorSchemesByBusinessType[businessType]
	if !ok {
		scheme = colorSchemesByBusinessType[businessctx.TypeGeneral]
	}

	plan := WebsitePlan{
		BusinessName: businessName,
		BusinessType: businessType,
		Template:     template,
		Pages:        pagesFor(businessType),
		Features:     featuresFor(businessType),
		ColorScheme:  scheme,
		Language:     businessctx.NormalizeLanguage(req.Language),
	}

	deliverable, err := h.writer.WriteJSON(req.ID, "website_plan", plan)
	if err != nil {
		return nil, err
	}

	return &models.Response{
		Status:    models.StatusSuccess,
		Agent:     AgentName,
		RequestID: req.ID,
		Message:   fmt.Sprintf("Website plan created with %d pages using the %s template", len(plan.Pages), plan.Template),
		Data: map[string]interface{}{
			"businessType": plan.BusinessType,
			"template":     plan.Template,
			"pageCount":    len(plan.Pages),
			"features":     plan.Features,
		},
		Deliverables: []models.Deliverable{deliverable},
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

func pagesFor(businessType string) []Page {
	pages := []Page{
		{Name: "Home", Slug: "index", Sections: []string{"hero", "highlights", "testimonials", "contact-strip"}},
		{Name: "About", Slug: "about", Sections: []string{"story", "team"}},
		{Name: "Contact", Slug: "contact", Sections: []string{"map", "form", "hours"}},
	}

	switch businessType {
	case businessctx.TypeRestaurant:
		pages = append(pages, Page{Name: "Menu", Slug: "menu", Sections: []string{"categories", "specials"}})
	case businessctx.TypeRetail, businessctx.TypeEcommerce:
		pages = append(pages, Page{Name: "Products", Slug: "products", Sections: []string{"catalog", "offers"}})
	case businessctx.TypeService:
		pages = append(pages, Page{Name: "Services", Slug: "services", Sections: []string{"list", "pricing", "booking"}})
	case businessctx.TypeHealthcare:
		pages = append(pages, Page{Name: "Appointments", Slug: "appointments", Sections: []string{"doctors", "slots"}})
	case businessctx.TypeEducation:
		pages = append(pages, Page{Name: "Courses", Slug: "courses", Sections: []string{"programs", "admissions"}})
	}

	return pages
}

func featuresFor(businessType string) []string {
	features := []string{"mobile-responsive", "whatsapp-chat-button", "google-maps-embed"}

	switch businessType {
	case businessctx.TypeRestaurant:
		features = append(features, "online-menu", "table-reservation")
	case businessctx.TypeRetail, businessctx.TypeEcommerce:
		features = append(features, "product-gallery", "upi-payments")
	case businessctx.TypeService, businessctx.TypeHealthcare:
		features = append(features, "appointment-booking")
	case businessctx.TypeEducation:
		features = append(features, "enquiry-form", "course-listing")
	}

	return features
}
