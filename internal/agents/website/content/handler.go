// internal/agents/website/content/handler.go
package content

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

const AgentName = "content_manager"

var taglines = map[string]map[string]string{
	"en": {
		businessctx.TypeRestaurant: "Fresh flavors, made with love",
		businessctx.TypeRetail:     "Everything you need, right in your neighborhood",
		businessctx.TypeService:    "Trusted hands, reliable service",
		businessctx.TypeEcommerce:  "Shop smarter, delivered to your door",
		businessctx.TypeHealthcare: "Caring for you and your family",
		businessctx.TypeEducation:  "Learning that opens doors",
		businessctx.TypeGeneral:    "Quality you can count on",
	},
	"hi": {
		businessctx.TypeRestaurant: "Taaza swaad, pyaar se banaya",
		businessctx.TypeRetail:     "Aapke mohalle ki apni dukaan",
		businessctx.TypeService:    "Bharosemand seva, har baar",
		businessctx.TypeEcommerce:  "Ghar baithe shopping, seedha aapke dwar",
		businessctx.TypeHealthcare: "Aapke parivar ki sehat ka khayal",
		businessctx.TypeEducation:  "Shiksha jo raah dikhaye",
		businessctx.TypeGeneral:    "Bharosa jo kaam aaye",
	},
}

var servicesByType = map[string][]string{
	businessctx.TypeRestaurant: {"Dine-in", "Takeaway", "Home delivery", "Party orders"},
	businessctx.TypeRetail:     {"In-store shopping", "Home delivery", "Bulk orders", "Festival offers"},
	businessctx.TypeService:    {"On-site visits", "Appointment booking", "Annual maintenance"},
	businessctx.TypeEcommerce:  {"Pan-India shipping", "Cash on delivery", "Easy returns"},
	businessctx.TypeHealthcare: {"Consultations", "Lab tests", "Health checkup packages"},
	businessctx.TypeEducation:  {"Classroom courses", "Online classes", "Demo lectures"},
	businessctx.TypeGeneral:    {"Consultation", "Custom orders", "Customer support"},
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
		"language":  req.Language,
	})

	resp, err := h.Execute(ctx, req)
	if err != nil {
		h.counters.RecordFailure()
		return nil, err
	}
	h.counters.RecordSuccess()
	return resp, nil
}

// Execute generates website copy for the business and writes it as a
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
	lang := businessctx.NormalizeLanguage(req.Language)

	// Hinglish copy reuses the Hindi tagline set.
	taglineLang := lang
	if taglineLang == "hinglish" {
		taglineLang = "hi"
	}
	tagline, ok := taglines[taglineLang][businessType]
	if !ok {
		tagline = taglines["en"][businessctx.TypeGeneral]
	}

	services, ok := servicesByType[businessType]
	if !ok {
		services = servicesByType[businessctx.TypeGeneral]
	}

	location := req.Business.Location
	if location == "" {
		location = req.Location
	}

	bc := BusinessContent{
		BusinessName: businessName,
		BusinessType: businessType,
		Language:     lang,
		Tagline:      tagline,
		About:        aboutText(businessName, businessType, location),
		Services:     services,
		CallToAction: "Call us or message on WhatsApp to get started",
	}

	deliverable, err := h.writer.WriteMarkdown(req.ID, "website_content", renderMarkdown(bc))
	if err != nil {
		return nil, err
	}

	return &models.Response{
		Status:    models.StatusSuccess,
		Agent:     AgentName,
		RequestID: req.ID,
		Message:   fmt.Sprintf("Website content generated in %s for %s", lang, businessName),
		Data: map[string]interface{}{
			"businessType": businessType,
			"language":     lang,
			"tagline":      bc.Tagline,
			"services":     bc.Services,
		},
		Deliverables: []models.Deliverable{deliverable},
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

func aboutText(businessName, businessType, location string) string {
	where := ""
	if location != "" {
		where = " in " + location
	}
	switch businessType {
	case businessctx.TypeRestaurant:
		return fmt.Sprintf("%s serves fresh, hygienic food%s. From everyday meals to festive spreads, every dish is prepared with care.", businessName, where)
	case businessctx.TypeRetail:
		return fmt.Sprintf("%s is your neighborhood store%s, stocking daily essentials at honest prices with friendly service.", businessName, where)
	case businessctx.TypeService:
		return fmt.Sprintf("%s provides dependable professional services%s, with transparent pricing and on-time visits.", businessName, where)
	case businessctx.TypeHealthcare:
		return fmt.Sprintf("%s offers accessible healthcare%s with experienced practitioners and modern facilities.", businessName, where)
	case businessctx.TypeEducation:
		return fmt.Sprintf("%s helps students succeed%s through structured courses and personal attention.", businessName, where)
	default:
		return fmt.Sprintf("%s is committed to quality and customer satisfaction%s.", businessName, where)
	}
}

func renderMarkdown(bc BusinessContent) string {
	var sb strings.Builder
	sb.WriteString("# " + bc.BusinessName + "\n\n")
	sb.WriteString("*" + bc.Tagline + "*\n\n")
	sb.WriteString("## About Us\n\n" + bc.About + "\n\n")
	sb.WriteString("## Our Services\n\n")
	for _, s := range bc.Services {
		sb.WriteString("- " + s + "\n")
	}
	sb.WriteString("\n## Get In Touch\n\n" + bc.CallToAction + "\n")
	return sb.String()
}
