// internal/orchestrator/registry.go
package orchestrator

import (
	"sort"
	"sync"

	"bizauto-agents/internal/agents"
	"bizauto-agents/internal/models"
)

// Registry holds the agents available for dispatch, keyed by agent name.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]agents.Agent
}

func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]agents.Agent)}
}

// Register adds an agent under its own name, replacing any placeholder
// previously registered there.
func (r *Registry) Register(agent agents.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[agent.Name()] = agent
}

// RegisterPlaceholder installs a stand-in that answers with placeholder
// responses. Used for agents disabled by configuration so routing stays
// total.
func (r *Registry) RegisterPlaceholder(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[name]; !exists {
		r.agents[name] = newPlaceholderAgent(name)
	}
}

// Get looks up an agent by name.
func (r *Registry) Get(name string) (agents.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[name]
	return agent, ok
}

// Names returns the registered agent names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Statuses reports every registered agent's status, sorted by name.
func (r *Registry) Statuses() []models.AgentStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make([]models.AgentStatus, 0, len(r.agents))
	for _, agent := range r.agents {
		statuses = append(statuses, agent.Status())
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Name < statuses[j].Name
	})
	return statuses
}
