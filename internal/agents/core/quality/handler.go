// internal/agents/core/quality/handler.go
package quality

import (
	"context"
	"fmt"
	"os"
	"time"

	"bizauto-agents/internal/agents"
	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/models"
)

const AgentName = "quality_control"

type Handler struct {
	config      *Config
	logger      logger.Logger
	counters    agents.Counters
	reviewed    agents.Counters
	initialized bool
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"agent": AgentName}),
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

// HandleRequest reports review totals. The dispatcher calls Review directly
// on each successful response; direct requests get the aggregate view.
func (h *Handler) HandleRequest(_ context.Context, req *models.Request) (*models.Response, error) {
	h.counters.RecordSuccess()
	return &models.Response{
		Status:    models.StatusSuccess,
		Agent:     AgentName,
		RequestID: req.ID,
		Message:   "Quality control summary",
		Data: map[string]interface{}{
			"reviewsPassed": h.reviewed.Processed(),
			"reviewsFailed": h.reviewed.Failed(),
			"passingScore":  h.config.PassingScore,
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Review scores an agent response. Responses that miss the passing score
// are downgraded to partial status by the dispatcher.
func (h *Handler) Review(resp *models.Response) Review {
	review := Review{Agent: resp.Agent}
	var score float64

	if resp.Message != "" {
		score += 0.2
	} else {
		review.Issues = append(review.Issues, "response carries no message")
	}

	if len(resp.Data) > 0 {
		score += 0.2
	} else {
		review.Issues = append(review.Issues, "response carries no data")
	}

	if resp.RequestID != "" {
		score += 0.1
	} else {
		review.Issues = append(review.Issues, "response missing request id")
	}

	if !resp.GeneratedAt.IsZero() {
		score += 0.1
	} else {
		review.Issues = append(review.Issues, "response missing generation timestamp")
	}

	// Deliverables must exist on disk to count.
	if len(resp.Deliverables) == 0 {
		score += 0.2
	} else {
		allPresent := true
		for _, d := range resp.Deliverables {
			if info, err := os.Stat(d.Path); err != nil || info.Size() == 0 {
				allPresent = false
				review.Issues = append(review.Issues, fmt.Sprintf("deliverable %s missing or empty", d.Name))
			}
		}
		if allPresent {
			score += 0.4
		}
	}

	if resp.Status == models.StatusSuccess {
		score += 0.2
	}

	if score > 1.0 {
		score = 1.0
	}
	review.Score = score
	review.Passed = score >= h.config.PassingScore

	if review.Passed {
		h.reviewed.RecordSuccess()
	} else {
		h.reviewed.RecordFailure()
		h.logger.Warn("response failed quality review", map[string]interface{}{
			"agent":     resp.Agent,
			"requestId": resp.RequestID,
			"score":     review.Score,
			"issues":    review.Issues,
		})
	}
	return review
}
