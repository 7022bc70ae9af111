// internal/orchestrator/placeholder.go
package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"bizauto-agents/internal/models"
)

// placeholderAgent stands in for an agent that is disabled or not yet
// available. It accepts every request and answers with a placeholder
// response so callers see the routing worked.
type placeholderAgent struct {
	name      string
	processed atomic.Int64
}

func newPlaceholderAgent(name string) *placeholderAgent {
	return &placeholderAgent{name: name}
}

func (p *placeholderAgent) Name() string { return p.name }

func (p *placeholderAgent) Initialize(_ context.Context) error { return nil }

func (p *placeholderAgent) Shutdown(_ context.Context) error { return nil }

func (p *placeholderAgent) Status() models.AgentStatus {
	return models.AgentStatus{
		Name:        p.name,
		Initialized: true,
		Placeholder: true,
		Processed:   p.processed.Load(),
	}
}

func (p *placeholderAgent) HandleRequest(_ context.Context, req *models.Request) (*models.Response, error) {
	p.processed.Add(1)
	return &models.Response{
		Status:    models.StatusPlaceholder,
		Agent:     p.name,
		RequestID: req.ID,
		Message:   fmt.Sprintf("Agent %s is not enabled, request acknowledged without processing", p.name),
		Data: map[string]interface{}{
			"requestedAction": req.Action,
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}
