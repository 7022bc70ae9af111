// internal/orchestrator/dispatcher_test.go
package orchestrator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"bizauto-agents/internal/agents/core/quality"
	"bizauto-agents/internal/common/config"
	"bizauto-agents/internal/common/database"
	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func testConfig() config.OrchestratorConfig {
	return config.OrchestratorConfig{
		QueueSize:             8,
		Workers:               1,
		MaxConcurrentRequests: 4,
		RequestTimeout:        5000,
		ResultCacheTTL:        60,
	}
}

func setupRedis(t *testing.T) *database.RedisClient {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &database.RedisClient{Client: client}
}

// fakeAgent answers every request with a canned response or error.
type fakeAgent struct {
	name    string
	resp    *models.Response
	err     error
	handled atomic.Int64
	started chan struct{}
	release chan struct{}
}

func (f *fakeAgent) Name() string { return f.name }

func (f *fakeAgent) Initialize(_ context.Context) error { return nil }

func (f *fakeAgent) Shutdown(_ context.Context) error { return nil }

func (f *fakeAgent) Status() models.AgentStatus {
	return models.AgentStatus{Name: f.name, Initialized: true}
}

func (f *fakeAgent) HandleRequest(ctx context.Context, req *models.Request) (*models.Response, error) {
	f.handled.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	resp := *f.resp
	resp.Agent = f.name
	resp.RequestID = req.ID
	return &resp, nil
}

func successAgent(name string) *fakeAgent {
	return &fakeAgent{
		name: name,
		resp: &models.Response{
			Status:  models.StatusSuccess,
			Message: "done",
			Data:    map[string]interface{}{"source": name},
			Deliverables: []models.Deliverable{
				{Name: name + "_plan", Path: "/tmp/" + name + ".json", Format: "json"},
			},
			GeneratedAt: time.Now().UTC(),
		},
	}
}

func newTestOrchestrator(t *testing.T, cfg config.OrchestratorConfig, registry *Registry, opts Options) *Orchestrator {
	o := New(cfg, registry, logger.NewTestLogger(t), opts)
	o.Start(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		o.Stop(ctx)
	})
	return o
}

// ==========================
// Core Functionality Tests
// ==========================

func TestProcessRequest_SingleAgentRoute(t *testing.T) {
	registry := NewRegistry()
	registry.Register(successAgent("customer_communication"))
	o := newTestOrchestrator(t, testConfig(), registry, Options{})

	resp := o.ProcessRequest(context.Background(), &models.Request{
		ID:   "req-1",
		Type: TypeCommunication,
	})

	assert.Equal(t, models.StatusSuccess, resp.Status)
	assert.Equal(t, "customer_communication", resp.Agent)
	assert.Equal(t, "req-1", resp.RequestID)
}

func TestProcessRequest_MultiAgentMerge(t *testing.T) {
	registry := NewRegistry()
	registry.Register(successAgent("website_builder"))
	registry.Register(successAgent("content_manager"))
	registry.Register(successAgent("seo_optimizer"))
	o := newTestOrchestrator(t, testConfig(), registry, Options{})

	resp := o.ProcessRequest(context.Background(), &models.Request{
		ID:     "req-2",
		Type:   TypeWebsite,
		Action: "create",
	})

	assert.Equal(t, models.StatusSuccess, resp.Status)
	assert.Equal(t, "orchestrator", resp.Agent)
	assert.Len(t, resp.Data, 3)
	assert.Contains(t, resp.Data, "website_builder")
	assert.Contains(t, resp.Data, "seo_optimizer")
	assert.Len(t, resp.Deliverables, 3)
	assert.Equal(t, "3 of 3 agents succeeded", resp.Message)
}

func TestProcessRequest_PartialOnAgentFailure(t *testing.T) {
	registry := NewRegistry()
	registry.Register(successAgent("campaign_manager"))
	registry.Register(&fakeAgent{name: "social_media", err: assert.AnError})
	o := newTestOrchestrator(t, testConfig(), registry, Options{})

	resp := o.ProcessRequest(context.Background(), &models.Request{
		ID:     "req-3",
		Type:   TypeMarketing,
		Action: "campaign",
	})

	assert.Equal(t, models.StatusPartial, resp.Status)
	assert.Equal(t, "1 of 2 agents succeeded", resp.Message)
}

func TestProcessRequest_TypeInference(t *testing.T) {
	registry := NewRegistry()
	registry.Register(successAgent("website_builder"))
	registry.Register(successAgent("content_manager"))
	registry.Register(successAgent("seo_optimizer"))
	o := newTestOrchestrator(t, testConfig(), registry, Options{})

	req := &models.Request{Description: "I need a website for my restaurant"}
	resp := o.ProcessRequest(context.Background(), req)

	assert.Equal(t, models.StatusSuccess, resp.Status)
	assert.Equal(t, TypeWebsite, req.Type)
	assert.Equal(t, "restaurant", req.Business.Type)
}

func TestProcessRequest_AssignsRequestID(t *testing.T) {
	registry := NewRegistry()
	registry.Register(successAgent("customer_communication"))
	o := newTestOrchestrator(t, testConfig(), registry, Options{})

	req := &models.Request{Type: TypeCommunication}
	resp := o.ProcessRequest(context.Background(), req)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, req.ID, resp.RequestID)
	assert.False(t, req.ReceivedAt.IsZero())
}

func TestProcessRequest_PlaceholderAgent(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterPlaceholder("quality_control")
	o := newTestOrchestrator(t, testConfig(), registry, Options{})

	resp := o.ProcessRequest(context.Background(), &models.Request{
		ID:   "req-4",
		Type: TypeQuality,
	})

	assert.Equal(t, models.StatusPlaceholder, resp.Status)
	assert.Equal(t, "quality_control", resp.Agent)
}

func TestProcessRequest_QualityDowngrade(t *testing.T) {
	// Bare response scores below the passing threshold.
	registry := NewRegistry()
	registry.Register(&fakeAgent{
		name: "customer_communication",
		resp: &models.Response{
			Status:      models.StatusSuccess,
			GeneratedAt: time.Now().UTC(),
		},
	})
	reviewer := quality.NewHandler(quality.LoadConfig(), logger.NewTestLogger(t))
	o := newTestOrchestrator(t, testConfig(), registry, Options{Reviewer: reviewer})

	resp := o.ProcessRequest(context.Background(), &models.Request{
		ID:   "req-5",
		Type: TypeCommunication,
	})

	assert.Equal(t, models.StatusPartial, resp.Status)
	assert.NotEmpty(t, resp.Data["qualityIssues"])
}

// ==========================
// Admission Control Tests
// ==========================

func TestProcessRequest_RateLimitExceeded(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 2

	registry := NewRegistry()
	registry.Register(successAgent("customer_communication"))
	o := newTestOrchestrator(t, cfg, registry, Options{Redis: setupRedis(t)})

	req := func() *models.Request {
		return &models.Request{
			Type:     TypeCommunication,
			Metadata: map[string]interface{}{"client_id": "client-a"},
		}
	}

	assert.Equal(t, models.StatusSuccess, o.ProcessRequest(context.Background(), req()).Status)
	assert.Equal(t, models.StatusSuccess, o.ProcessRequest(context.Background(), req()).Status)

	resp := o.ProcessRequest(context.Background(), req())
	assert.Equal(t, models.StatusError, resp.Status)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", resp.Error["error_code"])
}

func TestProcessRequest_ConcurrencyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxConcurrentRequests = 1

	blocking := &fakeAgent{
		name:    "customer_communication",
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		resp:    &models.Response{Status: models.StatusSuccess, Message: "done"},
	}
	registry := NewRegistry()
	registry.Register(blocking)
	o := newTestOrchestrator(t, cfg, registry, Options{})

	done := make(chan *models.Response, 1)
	go func() {
		done <- o.ProcessRequest(context.Background(), &models.Request{ID: "slow", Type: TypeCommunication})
	}()
	<-blocking.started

	resp := o.ProcessRequest(context.Background(), &models.Request{ID: "fast", Type: TypeCommunication})
	assert.Equal(t, models.StatusError, resp.Status)
	assert.Equal(t, "CONCURRENCY_LIMIT_EXCEEDED", resp.Error["error_code"])

	close(blocking.release)
	assert.Equal(t, models.StatusSuccess, (<-done).Status)
}

// ==========================
// Task Queue Tests
// ==========================

func TestSubmitTask_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.QueueSize = 1
	cfg.Workers = 1

	blocking := &fakeAgent{
		name:    "customer_communication",
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		resp:    &models.Response{Status: models.StatusSuccess, Message: "done"},
	}
	registry := NewRegistry()
	registry.Register(blocking)
	o := newTestOrchestrator(t, cfg, registry, Options{})

	_, err := o.SubmitTask(&models.Request{ID: "t1", Type: TypeCommunication})
	require.NoError(t, err)
	<-blocking.started // worker is busy with t1

	_, err = o.SubmitTask(&models.Request{ID: "t2", Type: TypeCommunication})
	require.NoError(t, err)

	_, err = o.SubmitTask(&models.Request{ID: "t3", Type: TypeCommunication})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "QUEUE_FULL")

	close(blocking.release)
}

func TestSubmitTask_ResultCached(t *testing.T) {
	registry := NewRegistry()
	registry.Register(successAgent("customer_communication"))
	o := newTestOrchestrator(t, testConfig(), registry, Options{Redis: setupRedis(t)})

	id, err := o.SubmitTask(&models.Request{Type: TypeCommunication})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.Eventually(t, func() bool {
		resp, err := o.GetResult(context.Background(), id)
		return err == nil && resp != nil && resp.Status == models.StatusSuccess
	}, 2*time.Second, 20*time.Millisecond)
}

func TestGetResult_CacheMiss(t *testing.T) {
	registry := NewRegistry()
	o := newTestOrchestrator(t, testConfig(), registry, Options{Redis: setupRedis(t)})

	resp, err := o.GetResult(context.Background(), "no-such-request")
	assert.NoError(t, err)
	assert.Nil(t, resp)
}

func TestGetResult_RedisOutage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	registry := NewRegistry()
	o := newTestOrchestrator(t, testConfig(), registry, Options{Redis: &database.RedisClient{Client: client}})

	mr.Close()

	_, err = o.GetResult(context.Background(), "any-request")
	assert.Error(t, err)
}

// ==========================
// Lifecycle Tests
// ==========================

func TestStatus_ReportsRegisteredAgents(t *testing.T) {
	registry := NewRegistry()
	registry.Register(successAgent("customer_communication"))
	registry.RegisterPlaceholder("quality_control")
	o := newTestOrchestrator(t, testConfig(), registry, Options{})

	o.ProcessRequest(context.Background(), &models.Request{Type: TypeCommunication})

	status := o.Status()
	assert.True(t, status.Healthy)
	assert.Equal(t, int64(1), status.ProcessedTotal)
	assert.Len(t, status.RegisteredAgents, 2)
	assert.Equal(t, "customer_communication", status.RegisteredAgents[0].Name)
}

func TestStop_DrainsQueuedTasks(t *testing.T) {
	agent := successAgent("customer_communication")
	registry := NewRegistry()
	registry.Register(agent)

	cfg := testConfig()
	cfg.Workers = 1
	o := New(cfg, registry, logger.NewTestLogger(t), Options{})
	o.Start(context.Background())

	for i := 0; i < 5; i++ {
		_, err := o.SubmitTask(&models.Request{Type: TypeCommunication})
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, o.Stop(ctx))

	assert.Equal(t, int64(5), agent.handled.Load())
}

func TestStop_RefusesNewWork(t *testing.T) {
	registry := NewRegistry()
	registry.Register(successAgent("customer_communication"))
	o := New(testConfig(), registry, logger.NewTestLogger(t), Options{})
	o.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, o.Stop(ctx))

	_, err := o.SubmitTask(&models.Request{Type: TypeCommunication})
	assert.Error(t, err)

	resp := o.ProcessRequest(context.Background(), &models.Request{Type: TypeCommunication})
	assert.Equal(t, models.StatusError, resp.Status)
	assert.Equal(t, "SERVICE_UNAVAILABLE", resp.Error["error_code"])
}

// ==========================
// Routing Tests
// ==========================

func TestResolveAgents_RoutingTable(t *testing.T) {
	tests := []struct {
		name        string
		requestType string
		action      string
		want        []string
	}{
		{"website create fans out", TypeWebsite, "create", []string{"website_builder", "content_manager", "seo_optimizer"}},
		{"website content only", TypeWebsite, "content", []string{"content_manager"}},
		{"website update alias", TypeWebsite, "update", []string{"content_manager"}},
		{"website optimize alias", TypeWebsite, "optimize", []string{"seo_optimizer"}},
		{"marketing campaign pairs", TypeMarketing, "campaign", []string{"campaign_manager", "social_media"}},
		{"marketing local", TypeMarketing, "local", []string{"local_marketing"}},
		{"analytics collect", TypeAnalytics, "collect", []string{"data_collector"}},
		{"analytics default reports", TypeAnalytics, "", []string{"report_generator"}},
		{"communication", TypeCommunication, "", []string{"customer_communication"}},
		{"unknown type falls back to communication", "blockchain", "", []string{"customer_communication"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveAgents(tt.requestType, tt.action))
		})
	}
}

func TestResolveAgents_CompleteRoute(t *testing.T) {
	got := resolveAgents(TypeComplete, "")
	assert.Len(t, got, 6)
	assert.Contains(t, got, "website_builder")
	assert.Contains(t, got, "campaign_manager")
	assert.Contains(t, got, "report_generator")
}

func TestInferType_FallsBackToCommunication(t *testing.T) {
	assert.Equal(t, TypeCommunication, inferType("hello there"))
}
