// cmd/agent-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bizauto-agents/internal/common/aws"
	"bizauto-agents/internal/common/config"
	"bizauto-agents/internal/common/database"
	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/common/observability"
	"bizauto-agents/internal/common/validation"
	"bizauto-agents/internal/journal"
	"bizauto-agents/internal/models"
	"bizauto-agents/internal/orchestrator"
	"bizauto-agents/internal/storage"
	"bizauto-agents/internal/tools/payment"
	"bizauto-agents/internal/tools/whatsapp"

	// Website Agents (3)
	wb "bizauto-agents/internal/agents/website/builder"
	wc "bizauto-agents/internal/agents/website/content"
	ws "bizauto-agents/internal/agents/website/seo"

	// Marketing Agents (3)
	mc "bizauto-agents/internal/agents/marketing/campaign"
	ml "bizauto-agents/internal/agents/marketing/local"
	msoc "bizauto-agents/internal/agents/marketing/social"

	// Analytics Agents (3)
	ac "bizauto-agents/internal/agents/analytics/collector"
	ai "bizauto-agents/internal/agents/analytics/insights"
	ar "bizauto-agents/internal/agents/analytics/reports"

	// Core Agents (2)
	cc "bizauto-agents/internal/agents/core/communication"
	cq "bizauto-agents/internal/agents/core/quality"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting agent manager...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New("agent-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL (optional, backs the request journal) ---
	var jrnl *journal.Journal
	if cfg.Database.Postgres.Host != "" {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Warn("postgres unavailable, request journal disabled", zap.Error(err))
		} else {
			defer pg.Close()
			jrnl = journal.New(pg.DB, log)
			if err := jrnl.EnsureSchema(ctx); err != nil {
				zapLog.Warn("journal schema setup failed, journal disabled", zap.Error(err))
				jrnl = nil
			} else {
				zapLog.Info("PostgreSQL connected, request journal enabled")
			}
		}
	}

	// --- Init Redis (optional, backs rate limiting and the result cache) ---
	var redis *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, rate limiting and result cache disabled", zap.Error(err))
			redis = nil
		} else {
			defer redis.Close()
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Init Integration Clients ---
	var waClient *whatsapp.Client
	if cfg.Integrations.WhatsApp.Enabled {
		waClient = whatsapp.NewClient(cfg.Integrations.WhatsApp, log)
		zapLog.Info("WhatsApp Business client initialized")
	}

	var gateway *payment.Gateway
	if cfg.Integrations.Payment.Enabled {
		gateway, err = payment.NewGateway(cfg.Integrations.Payment, log)
		if err != nil {
			zapLog.Fatal("payment gateway init failed", zap.Error(err))
		}
		zapLog.Info("Payment gateway initialized", zap.String("provider", cfg.Integrations.Payment.Provider))
	}

	var sesClient *aws.SESClient
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err = aws.NewSESClient(ctx, cfg.Integrations.AWS.Region, cfg.Integrations.AWS.SES.FromEmail)
		if err != nil {
			zapLog.Warn("SES client init failed, email channel disabled", zap.Error(err))
		} else {
			zapLog.Info("SES email client initialized")
		}
	}

	writer := storage.NewWriter(cfg.Storage.OutputDir, log)

	// --- Register ALL 11 Agents ---
	registry := orchestrator.NewRegistry()
	enabled := func(name string) bool {
		agentCfg, ok := cfg.Agents[name]
		return !ok || agentCfg.Enabled
	}

	// Website Agents (3)
	if enabled(wb.AgentName) {
		registry.Register(wb.NewHandler(wb.LoadConfig(), log, writer))
	}
	if enabled(wc.AgentName) {
		registry.Register(wc.NewHandler(wc.LoadConfig(), log, writer))
	}
	if enabled(ws.AgentName) {
		registry.Register(ws.NewHandler(ws.LoadConfig(), log, writer))
	}

	// Marketing Agents (3)
	if enabled(mc.AgentName) {
		registry.Register(mc.NewHandler(mc.LoadConfig(), log, writer))
	}
	if enabled(msoc.AgentName) {
		registry.Register(msoc.NewHandler(msoc.LoadConfig(), log, writer))
	}
	if enabled(ml.AgentName) {
		registry.Register(ml.NewHandler(ml.LoadConfig(), log, writer))
	}

	// Analytics Agents (3), wired as a pipeline
	collector := ac.NewHandler(ac.LoadConfig(), log, writer)
	insights := ai.NewHandler(ai.LoadConfig(), log, writer, collector)
	if enabled(ac.AgentName) {
		registry.Register(collector)
	}
	if enabled(ai.AgentName) {
		registry.Register(insights)
	}
	if enabled(ar.AgentName) {
		registry.Register(ar.NewHandler(ar.LoadConfig(), log, writer, insights))
	}

	// Core Agents (2)
	var waSender cc.WhatsAppSender
	if waClient != nil {
		waSender = waClient
	}
	var emailSender cc.EmailSender
	if sesClient != nil {
		emailSender = sesClient
	}
	if enabled(cc.AgentName) {
		registry.Register(cc.NewHandler(cc.LoadConfig(), log, writer, waSender, emailSender))
	}

	reviewer := cq.NewHandler(cq.LoadConfig(), log)
	if enabled(cq.AgentName) {
		registry.Register(reviewer)
	}

	// Disabled agents get placeholders so every route stays answerable.
	for _, name := range []string{
		wb.AgentName, wc.AgentName, ws.AgentName,
		mc.AgentName, msoc.AgentName, ml.AgentName,
		ac.AgentName, ai.AgentName, ar.AgentName,
		cc.AgentName, cq.AgentName,
	} {
		registry.RegisterPlaceholder(name)
	}

	for _, name := range registry.Names() {
		if agent, ok := registry.Get(name); ok {
			if err := agent.Initialize(ctx); err != nil {
				zapLog.Fatal("agent initialization failed", zap.String("agent", name), zap.Error(err))
			}
		}
	}
	zapLog.Info("All agents registered", zap.Strings("agents", registry.Names()))

	// --- Start Orchestrator ---
	orch := orchestrator.New(cfg.Orchestrator, registry, log, orchestrator.Options{
		Redis:    redis,
		Journal:  journalOrNil(jrnl),
		Reviewer: reviewer,
		Obs:      obs,
	})
	orch.Start(ctx)

	// --- HTTP API Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/requests", handleSyncRequest(orch, log))
	mux.HandleFunc("/v1/tasks", handleAsyncTask(orch, log))
	mux.HandleFunc("/v1/tasks/", handleTaskResult(orch))
	mux.HandleFunc("/v1/status", handleStatus(orch))
	mux.HandleFunc("/webhooks/whatsapp", handleWhatsAppWebhook(orch, waClient, log))
	mux.HandleFunc("/webhooks/payments", handlePaymentWebhook(gateway, log))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		status := orch.Status()
		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]interface{}{
			"ready": status.Healthy,
			"time":  time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("API server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("API server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("API server shutdown failed", zap.Error(err))
	}
	if err := orch.Stop(shutdownCtx); err != nil {
		zapLog.Error("Orchestrator shutdown failed", zap.Error(err))
	}
	for _, name := range registry.Names() {
		if agent, ok := registry.Get(name); ok {
			if err := agent.Shutdown(shutdownCtx); err != nil {
				zapLog.Warn("agent shutdown failed", zap.String("agent", name), zap.Error(err))
			}
		}
	}

	zapLog.Info("Agent manager stopped gracefully")
}

// journalOrNil keeps a typed nil *journal.Journal from sneaking into the
// orchestrator's Recorder interface.
func journalOrNil(j *journal.Journal) orchestrator.Recorder {
	if j == nil {
		return nil
	}
	return j
}

// ==========================
// HTTP Handlers
// ==========================

func handleSyncRequest(orch *orchestrator.Orchestrator, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req, errMsg := decodeRequest(r.Body)
		if errMsg != "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}

		resp := orch.ProcessRequest(r.Context(), req)
		code := http.StatusOK
		if resp.Status == models.StatusError {
			code = http.StatusUnprocessableEntity
		}
		writeJSON(w, code, resp)
	}
}

func handleAsyncTask(orch *orchestrator.Orchestrator, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req, errMsg := decodeRequest(r.Body)
		if errMsg != "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}

		id, err := orch.SubmitTask(req)
		if err != nil {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{
			"requestId": id,
			"status":    models.StatusQueued,
		})
	}
}

func handleTaskResult(orch *orchestrator.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id := strings.TrimPrefix(r.URL.Path, "/v1/tasks/")
		if id == "" {
			http.Error(w, "missing request id", http.StatusBadRequest)
			return
		}

		resp, err := orch.GetResult(r.Context(), id)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if resp == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"requestId": id,
				"status":    "pending",
			})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleStatus(orch *orchestrator.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, orch.Status())
	}
}

func handleWhatsAppWebhook(orch *orchestrator.Orchestrator, client *whatsapp.Client, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			// Subscription handshake from Meta.
			if client == nil {
				http.Error(w, "whatsapp integration disabled", http.StatusNotFound)
				return
			}
			q := r.URL.Query()
			challenge, err := client.VerifyWebhookToken(q.Get("hub.mode"), q.Get("hub.verify_token"), q.Get("hub.challenge"))
			if err != nil {
				http.Error(w, "verification failed", http.StatusForbidden)
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(challenge))

		case http.MethodPost:
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "read failed", http.StatusBadRequest)
				return
			}
			messages, err := whatsapp.ParseWebhook(body)
			if err != nil {
				http.Error(w, "invalid payload", http.StatusBadRequest)
				return
			}

			// Every inbound message becomes a communication task.
			for _, msg := range messages {
				req := &models.Request{
					Type:        "communication",
					Description: msg.Text,
					Metadata: map[string]interface{}{
						"channel":   "whatsapp",
						"recipient": msg.From,
						"messageId": msg.MessageID,
					},
				}
				if _, err := orch.SubmitTask(req); err != nil {
					log.Warn("inbound whatsapp message dropped", map[string]interface{}{
						"from":  msg.From,
						"error": err.Error(),
					})
				}
			}
			writeJSON(w, http.StatusOK, map[string]int{"received": len(messages)})

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func handlePaymentWebhook(gateway *payment.Gateway, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if gateway == nil {
			http.Error(w, "payment integration disabled", http.StatusNotFound)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read failed", http.StatusBadRequest)
			return
		}

		event, err := gateway.HandleWebhook(body, r.Header.Get("X-Razorpay-Signature"))
		if err != nil {
			log.Warn("payment webhook rejected", map[string]interface{}{"error": err.Error()})
			http.Error(w, "invalid webhook", http.StatusBadRequest)
			return
		}

		log.Info("payment webhook processed", map[string]interface{}{
			"event":     event.Event,
			"paymentId": event.PaymentID,
			"orderId":   event.OrderID,
		})
		writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
	}
}

// decodeRequest parses the request body, validates the envelope and returns
// the typed request. The second return value carries the client-facing
// validation message.
func decodeRequest(body io.Reader) (*models.Request, string) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, "failed to read request body"
	}

	var envelope map[string]interface{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, "request body is not valid JSON"
	}

	result, err := validation.ValidateRequestEnvelope(envelope)
	if err != nil {
		return nil, "envelope validation failed"
	}
	if !result.Valid {
		return nil, strings.Join(result.GetErrorMessages(), "; ")
	}

	var req models.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, "request body does not match the expected envelope"
	}
	return &req, ""
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
