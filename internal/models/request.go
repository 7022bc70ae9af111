// Package models holds the shared request and response types exchanged
// between the orchestrator and agents.
package models

import "time"

// BusinessProfile describes the business a request is acting for.
type BusinessProfile struct {
	Name     string `json:"name,omitempty"`
	Type     string `json:"type,omitempty"`
	Location string `json:"location,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Request is the envelope routed to agents. Type selects the agent group,
// Action picks the operation within it. When Type is empty the dispatcher
// infers it from Description.
type Request struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	Action      string                 `json:"action,omitempty"`
	Description string                 `json:"description,omitempty"`
	Language    string                 `json:"language,omitempty"`
	Location    string                 `json:"location,omitempty"`
	Business    BusinessProfile        `json:"business,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	ReceivedAt  time.Time              `json:"received_at,omitempty"`
}

// Deliverable points at a generated artifact on disk.
type Deliverable struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Format string `json:"format"`
}

// Response statuses.
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusPlaceholder = "placeholder"
	StatusPartial     = "partial"
	StatusQueued      = "queued"
)

// Response is the uniform reply every agent returns.
type Response struct {
	Status       string                 `json:"status"`
	Agent        string                 `json:"agent"`
	RequestID    string                 `json:"request_id"`
	Message      string                 `json:"message,omitempty"`
	Data         map[string]interface{} `json:"data,omitempty"`
	Deliverables []Deliverable          `json:"deliverables,omitempty"`
	Error        map[string]interface{} `json:"error,omitempty"`
	GeneratedAt  time.Time              `json:"generated_at"`
}

// AgentStatus reports one agent's registration state and counters.
type AgentStatus struct {
	Name        string `json:"name"`
	Initialized bool   `json:"initialized"`
	Placeholder bool   `json:"placeholder"`
	Processed   int64  `json:"processed"`
	Failed      int64  `json:"failed"`
}

// OrchestratorStatus is the aggregate view returned by the status endpoint.
type OrchestratorStatus struct {
	Healthy          bool          `json:"healthy"`
	ActiveRequests   int           `json:"active_requests"`
	QueuedTasks      int           `json:"queued_tasks"`
	ProcessedTotal   int64         `json:"processed_total"`
	FailedTotal      int64         `json:"failed_total"`
	RegisteredAgents []AgentStatus `json:"registered_agents"`
}
