// Package agents defines the contract every business agent implements and
// the bookkeeping shared across agent handlers.
package agents

import (
	"context"
	"sync/atomic"

	"bizauto-agents/internal/models"
)

// Agent is the uniform interface the orchestrator dispatches to.
type Agent interface {
	// Name returns the registry key the agent is dispatched under.
	Name() string

	// Initialize prepares the agent for traffic. Called once at startup.
	Initialize(ctx context.Context) error

	// HandleRequest processes one request and returns the agent's response.
	// Errors are reserved for failures the dispatcher should convert into
	// an error response; business-level problems go in the response itself.
	HandleRequest(ctx context.Context, req *models.Request) (*models.Response, error)

	// Status reports the agent's registration state and counters.
	Status() models.AgentStatus

	// Shutdown releases agent resources.
	Shutdown(ctx context.Context) error
}

// Counters tracks per-agent processed and failed totals.
type Counters struct {
	processed atomic.Int64
	failed    atomic.Int64
}

func (c *Counters) RecordSuccess() { c.processed.Add(1) }
func (c *Counters) RecordFailure() { c.failed.Add(1) }
func (c *Counters) Processed() int64 { return c.processed.Load() }
func (c *Counters) Failed() int64    { return c.failed.Load() }
