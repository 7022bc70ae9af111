// internal/orchestrator/dispatcher.go
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"bizauto-agents/internal/agents/core/quality"
	"bizauto-agents/internal/businessctx"
	"bizauto-agents/internal/common/config"
	"bizauto-agents/internal/common/database"
	stderrors "bizauto-agents/internal/common/errors"
	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/common/metrics"
	"bizauto-agents/internal/common/observability"
	"bizauto-agents/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Recorder persists dispatch outcomes for auditing.
type Recorder interface {
	Record(ctx context.Context, req *models.Request, resp *models.Response, duration time.Duration) error
}

// Reviewer scores successful responses before they are returned.
type Reviewer interface {
	Review(resp *models.Response) quality.Review
}

// Orchestrator routes requests to agents, enforcing rate, concurrency and
// timeout budgets, and runs the async task queue.
type Orchestrator struct {
	cfg      config.OrchestratorConfig
	logger   logger.Logger
	registry *Registry
	limiter  *RateLimiter
	redis    *database.RedisClient
	journal  Recorder
	reviewer Reviewer
	errs     *stderrors.ErrorHandler
	obs      *observability.Observability

	queue        chan *models.Request
	sem          chan struct{}
	wg           sync.WaitGroup
	cancel       context.CancelFunc
	intakeMu     sync.RWMutex
	intakeClosed bool

	healthy   atomic.Bool
	active    atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// Options carries the optional collaborators. Any field may be nil.
type Options struct {
	Redis    *database.RedisClient
	Journal  Recorder
	Reviewer Reviewer
	Obs      *observability.Observability
}

func New(cfg config.OrchestratorConfig, registry *Registry, log logger.Logger, opts Options) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		logger:   log.WithFields(map[string]interface{}{"component": "orchestrator"}),
		registry: registry,
		redis:    opts.Redis,
		journal:  opts.Journal,
		reviewer: opts.Reviewer,
		obs:      opts.Obs,
		errs:     stderrors.NewErrorHandler(log),
		queue:    make(chan *models.Request, cfg.QueueSize),
		sem:      make(chan struct{}, cfg.MaxConcurrentRequests),
	}
	if opts.Redis != nil {
		o.limiter = NewRateLimiter(opts.Redis, cfg.RateLimitPerMinute, log)
	}
	return o
}

// Start launches the worker pool that drains the task queue.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	workers := o.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		o.wg.Add(1)
		go o.worker(workerCtx, i)
	}

	o.healthy.Store(true)
	o.logger.Info("orchestrator started", map[string]interface{}{
		"workers":   workers,
		"queueSize": o.cfg.QueueSize,
	})
}

// Stop closes intake, lets the workers drain the queued tasks, and waits
// for them up to the context deadline. Tasks acknowledged as queued are
// processed before shutdown completes; only the deadline abandons them.
func (o *Orchestrator) Stop(ctx context.Context) error {
	o.healthy.Store(false)

	o.intakeMu.Lock()
	if !o.intakeClosed {
		o.intakeClosed = true
		close(o.queue)
	}
	o.intakeMu.Unlock()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		o.logger.Info("orchestrator stopped", nil)
		return nil
	case <-ctx.Done():
		if o.cancel != nil {
			o.cancel()
		}
		return fmt.Errorf("shutdown timed out with %d queued tasks", len(o.queue))
	}
}

// worker consumes the queue until it is closed and empty. The context only
// aborts in-flight work when the shutdown deadline expires.
func (o *Orchestrator) worker(ctx context.Context, id int) {
	defer o.wg.Done()
	for req := range o.queue {
		metrics.TaskQueueDepth.Set(float64(len(o.queue)))
		resp := o.handle(ctx, req)
		o.cacheResult(ctx, resp)
	}
}

// SubmitTask enqueues a request for asynchronous processing and returns
// its id. The queue never blocks; a full queue rejects the task.
func (o *Orchestrator) SubmitTask(req *models.Request) (string, error) {
	o.intakeMu.RLock()
	defer o.intakeMu.RUnlock()
	if o.intakeClosed || !o.healthy.Load() {
		return "", stderrors.NewServiceUnavailableError("orchestrator is shutting down")
	}
	o.ensureID(req)

	select {
	case o.queue <- req:
		metrics.TaskQueueDepth.Set(float64(len(o.queue)))
		o.logger.Info("task queued", map[string]interface{}{
			"requestId": req.ID,
			"type":      req.Type,
			"depth":     len(o.queue),
		})
		return req.ID, nil
	default:
		metrics.RequestsRejected.WithLabelValues("queue_full").Inc()
		return "", stderrors.NewQueueFullError(fmt.Sprintf("queue holds %d tasks", len(o.queue)))
	}
}

// ProcessRequest runs one request through admission, routing, dispatch and
// review. It always returns a response; failures are reported inside it.
func (o *Orchestrator) ProcessRequest(ctx context.Context, req *models.Request) *models.Response {
	o.ensureID(req)

	if !o.healthy.Load() {
		metrics.RequestsRejected.WithLabelValues("unhealthy").Inc()
		return o.errorResponse(req, stderrors.NewServiceUnavailableError("orchestrator not accepting requests"))
	}

	return o.handle(ctx, req)
}

// handle runs the per-request guards and dispatch. Queued tasks come here
// directly so a draining orchestrator still finishes acknowledged work.
func (o *Orchestrator) handle(ctx context.Context, req *models.Request) *models.Response {
	start := time.Now()

	if o.limiter != nil && !o.limiter.Allow(ctx, o.clientID(req)) {
		metrics.RequestsRejected.WithLabelValues("rate_limit").Inc()
		return o.errorResponse(req, stderrors.NewRateLimitError(
			fmt.Sprintf("limit is %d requests per minute", o.cfg.RateLimitPerMinute)))
	}

	select {
	case o.sem <- struct{}{}:
		defer func() { <-o.sem }()
	default:
		metrics.RequestsRejected.WithLabelValues("concurrency").Inc()
		return o.errorResponse(req, stderrors.NewConcurrencyLimitError(
			fmt.Sprintf("limit is %d concurrent requests", o.cfg.MaxConcurrentRequests)))
	}

	o.active.Add(1)
	defer o.active.Add(-1)

	resp := o.dispatch(ctx, req)
	duration := time.Since(start)

	if resp.Status == models.StatusError {
		o.failed.Add(1)
	} else {
		o.processed.Add(1)
	}
	if o.obs != nil {
		o.obs.RecordRequestProcessed(ctx, resp.Agent, resp.Status)
		o.obs.RecordRequestDuration(ctx, duration, resp.Agent)
	}
	if o.journal != nil {
		if err := o.journal.Record(ctx, req, resp, duration); err != nil {
			o.logger.Warn("journal record failed", map[string]interface{}{
				"requestId": req.ID,
				"error":     err.Error(),
			})
		}
	}
	return resp
}

func (o *Orchestrator) dispatch(ctx context.Context, req *models.Request) *models.Response {
	if req.Type == "" {
		req.Type = inferType(req.Description)
	}
	if req.Business.Type == "" {
		req.Business.Type = businessctx.DetectBusinessType(req.Description)
	}
	agentNames := resolveAgents(req.Type, req.Action)

	timeout := time.Duration(o.cfg.RequestTimeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	responses := make([]*models.Response, 0, len(agentNames))
	for _, name := range agentNames {
		agent, ok := o.registry.Get(name)
		if !ok {
			return o.errorResponse(req, stderrors.NewAgentNotFoundError(name))
		}

		metrics.AgentRequestsActive.WithLabelValues(name).Inc()
		agentStart := time.Now()
		resp, err := agent.HandleRequest(ctx, req)
		metrics.AgentRequestsActive.WithLabelValues(name).Dec()
		metrics.AgentRequestDuration.WithLabelValues(name).Observe(time.Since(agentStart).Seconds())

		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				err = stderrors.NewAgentTimeoutError(name, fmt.Sprintf("deadline of %s exceeded", timeout))
			}
			stdErr := o.errs.HandleAgentError(name, req.ID, err)
			metrics.AgentRequestsFailed.WithLabelValues(name, string(stdErr.Code)).Inc()
			responses = append(responses, o.agentErrorResponse(req, name, stdErr))
			continue
		}

		metrics.AgentRequestsCompleted.WithLabelValues(name, resp.Status).Inc()
		if o.reviewer != nil && resp.Status == models.StatusSuccess {
			if review := o.reviewer.Review(resp); !review.Passed {
				resp.Status = models.StatusPartial
				if resp.Data == nil {
					resp.Data = make(map[string]interface{})
				}
				resp.Data["qualityIssues"] = review.Issues
			}
		}
		responses = append(responses, resp)
	}

	if len(responses) == 1 {
		return responses[0]
	}
	return mergeResponses(req, responses)
}

// mergeResponses folds a multi-agent route into one envelope. Per-agent
// payloads are keyed by agent name; deliverables are concatenated.
func mergeResponses(req *models.Request, responses []*models.Response) *models.Response {
	merged := &models.Response{
		Agent:       "orchestrator",
		RequestID:   req.ID,
		Data:        make(map[string]interface{}, len(responses)),
		GeneratedAt: time.Now().UTC(),
	}

	succeeded := 0
	for _, resp := range responses {
		merged.Data[resp.Agent] = map[string]interface{}{
			"status":  resp.Status,
			"message": resp.Message,
			"data":    resp.Data,
		}
		merged.Deliverables = append(merged.Deliverables, resp.Deliverables...)
		if resp.Status == models.StatusSuccess {
			succeeded++
		}
	}

	switch {
	case succeeded == len(responses):
		merged.Status = models.StatusSuccess
	case succeeded == 0:
		merged.Status = models.StatusError
	default:
		merged.Status = models.StatusPartial
	}
	merged.Message = fmt.Sprintf("%d of %d agents succeeded", succeeded, len(responses))
	return merged
}

// Status reports the orchestrator's aggregate state.
func (o *Orchestrator) Status() models.OrchestratorStatus {
	return models.OrchestratorStatus{
		Healthy:          o.healthy.Load(),
		ActiveRequests:   int(o.active.Load()),
		QueuedTasks:      len(o.queue),
		ProcessedTotal:   o.processed.Load(),
		FailedTotal:      o.failed.Load(),
		RegisteredAgents: o.registry.Statuses(),
	}
}

// GetResult fetches a cached async result. A cache miss returns nil.
func (o *Orchestrator) GetResult(ctx context.Context, requestID string) (*models.Response, error) {
	if o.redis == nil {
		return nil, nil
	}
	raw, err := o.redis.Get(ctx, "result:"+requestID)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("result cache read: %w", err)
	}
	var resp models.Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("decode cached result: %w", err)
	}
	return &resp, nil
}

func (o *Orchestrator) cacheResult(ctx context.Context, resp *models.Response) {
	if o.redis == nil || resp == nil {
		return
	}
	ttl := time.Duration(o.cfg.ResultCacheTTL) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := o.redis.Set(ctx, "result:"+resp.RequestID, string(raw), ttl); err != nil {
		o.logger.Warn("result cache write failed", map[string]interface{}{
			"requestId": resp.RequestID,
			"error":     err.Error(),
		})
	}
}

func (o *Orchestrator) ensureID(req *models.Request) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.ReceivedAt.IsZero() {
		req.ReceivedAt = time.Now().UTC()
	}
}

func (o *Orchestrator) clientID(req *models.Request) string {
	if id, ok := req.Metadata["client_id"].(string); ok && id != "" {
		return id
	}
	if req.Business.Name != "" {
		return req.Business.Name
	}
	return "anonymous"
}

func (o *Orchestrator) errorResponse(req *models.Request, stdErr *stderrors.StandardError) *models.Response {
	return &models.Response{
		Status:      models.StatusError,
		Agent:       "orchestrator",
		RequestID:   req.ID,
		Message:     stdErr.Message,
		Error:       o.errs.ToResponseFields(stdErr),
		GeneratedAt: time.Now().UTC(),
	}
}

func (o *Orchestrator) agentErrorResponse(req *models.Request, agentName string, stdErr *stderrors.StandardError) *models.Response {
	return &models.Response{
		Status:      models.StatusError,
		Agent:       agentName,
		RequestID:   req.ID,
		Message:     stdErr.Message,
		Error:       o.errs.ToResponseFields(stdErr),
		GeneratedAt: time.Now().UTC(),
	}
}
