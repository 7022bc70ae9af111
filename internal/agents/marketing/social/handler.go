// internal/agents/marketing/social/handler.go
package social

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

const AgentName = "social_media"

var defaultPlatforms = []string{"instagram", "facebook", "whatsapp_status"}

var captionTemplates = map[string][]string{
	businessctx.TypeRestaurant: {
		"Today's special is ready! Come taste it at %s.",
		"Weekend plans? %s has a table waiting for you.",
		"Craving something fresh? %s delivers to your doorstep.",
	},
	businessctx.TypeRetail: {
		"New stock just arrived at %s. Drop by today!",
		"Festival season offers are live at %s.",
		"Your daily essentials, one stop: %s.",
	},
	businessctx.TypeGeneral: {
		"Quality service you can trust at %s.",
		"Ask us anything on WhatsApp! Team %s is ready.",
		"Happy customers are our best advertisement. Thank you for choosing %s!",
	},
}

var hashtagsByType = map[string][]string{
	businessctx.TypeRestaurant: {"#foodie", "#localeats", "#freshfood"},
	businessctx.TypeRetail:     {"#shoplocal", "#dailyneeds", "#offers"},
	businessctx.TypeGeneral:    {"#smallbusiness", "#supportlocal", "#vocalforlocal"},
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

// Execute drafts a week of social posts for the business and writes the
// calendar as a JSON deliverable.
func (h *Handler) Execute(_ context.Context, req *models.Request) (*models.Response, error) {
	businessType := req.Business.Type
	if businessType == "" {
		businessType = businessctx.DetectBusinessType(req.Description)
	}
	businessName := req.Business.Name
	if businessName == "" {
		businessName = "Your Business"
	}

	calendar := ContentCalendar{
		BusinessName: businessName,
		BusinessType: businessType,
		Platforms:    defaultPlatforms,
		Posts:        h.buildPosts(businessName, businessType),
	}

	deliverable, err := h.writer.WriteJSON(req.ID, "social_posts", calendar)
	if err != nil {
		return nil, err
	}

	return &models.Response{
		Status:    models.StatusSuccess,
		Agent:     AgentName,
		RequestID: req.ID,
		Message:   fmt.Sprintf("Drafted %d social posts across %s", len(calendar.Posts), strings.Join(calendar.Platforms, ", ")),
		Data: map[string]interface{}{
			"businessType": businessType,
			"platforms":    calendar.Platforms,
			"postCount":    len(calendar.Posts),
		},
		Deliverables: []models.Deliverable{deliverable},
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

func (h *Handler) buildPosts(businessName, businessType string) []SocialPost {
	templates, ok := captionTemplates[businessType]
	if !ok {
		templates = captionTemplates[businessctx.TypeGeneral]
	}
	hashtags, ok := hashtagsByType[businessType]
	if !ok {
		hashtags = hashtagsByType[businessctx.TypeGeneral]
	}

	postTypes := []string{"image", "reel", "story"}
	posts := make([]SocialPost, 0, h.config.PostsPerWeek)
	for i := 0; i < h.config.PostsPerWeek; i++ {
		template := templates[i%len(templates)]
		posts = append(posts, SocialPost{
			Platform: defaultPlatforms[i%len(defaultPlatforms)],
			Caption:  fmt.Sprintf(template, businessName),
			Hashtags: hashtags,
			PostType: postTypes[i%len(postTypes)],
		})
	}
	return posts
}
