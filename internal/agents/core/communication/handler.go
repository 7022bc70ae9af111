// internal/agents/core/communication/handler.go
package communication

import (
	"context"
	"fmt"
	"time"

	"bizauto-agents/internal/agents"
	"bizauto-agents/internal/businessctx"
	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/models"
	"bizauto-agents/internal/storage"
)

const AgentName = "customer_communication"

// WhatsAppSender delivers text messages to customers.
type WhatsAppSender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// EmailSender delivers plain emails to customers.
type EmailSender interface {
	SendPlainEmail(ctx context.Context, to, subject, body string) error
}

type Handler struct {
	config      *Config
	logger      logger.Logger
	writer      *storage.Writer
	whatsapp    WhatsAppSender
	email       EmailSender
	counters    agents.Counters
	initialized bool
}

// NewHandler wires the communication agent. Either sender may be nil, in
// which case messages on that channel stay drafts.
func NewHandler(config *Config, log logger.Logger, writer *storage.Writer, wa WhatsAppSender, email EmailSender) *Handler {
	return &Handler{
		config:   config,
		logger:   log.WithFields(map[string]interface{}{"agent": AgentName}),
		writer:   writer,
		whatsapp: wa,
		email:    email,
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
		"action":    req.Action,
	})

	resp, err := h.Execute(ctx, req)
	if err != nil {
		h.counters.RecordFailure()
		return nil, err
	}
	h.counters.RecordSuccess()
	return resp, nil
}

// Execute composes a customer message and sends it when the channel's
// sender is configured. Unsent messages are returned as drafts and always
// written as a deliverable.
func (h *Handler) Execute(ctx context.Context, req *models.Request) (*models.Response, error) {
	channel := h.config.DefaultChannel
	if c, ok := req.Metadata["channel"].(string); ok && c != "" {
		channel = c
	}
	recipient, _ := req.Metadata["recipient"].(string)

	msg := Message{
		Channel:   channel,
		Recipient: recipient,
		Language:  businessctx.NormalizeLanguage(req.Language),
	}
	msg.Subject, msg.Body = h.compose(req, msg.Language)

	if recipient != "" {
		switch channel {
		case "whatsapp":
			if h.whatsapp != nil {
				if _, err := h.whatsapp.SendText(ctx, recipient, msg.Body); err != nil {
					h.logger.Warn("whatsapp send failed, keeping draft", map[string]interface{}{
						"requestId": req.ID,
						"error":     err.Error(),
					})
				} else {
					msg.Sent = true
				}
			}
		case "email":
			if h.email != nil {
				if err := h.email.SendPlainEmail(ctx, recipient, msg.Subject, msg.Body); err != nil {
					h.logger.Warn("email send failed, keeping draft", map[string]interface{}{
						"requestId": req.ID,
						"error":     err.Error(),
					})
				} else {
					msg.Sent = true
				}
			}
		}
	}

	deliverable, err := h.writer.WriteJSON(req.ID, "customer_message", msg)
	if err != nil {
		return nil, err
	}

	state := "drafted"
	if msg.Sent {
		state = "sent"
	}

	return &models.Response{
		Status:    models.StatusSuccess,
		Agent:     AgentName,
		RequestID: req.ID,
		Message:   fmt.Sprintf("Customer message %s via %s", state, channel),
		Data: map[string]interface{}{
			"channel":  channel,
			"sent":     msg.Sent,
			"language": msg.Language,
			"body":     msg.Body,
		},
		Deliverables: []models.Deliverable{deliverable},
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

func (h *Handler) compose(req *models.Request, lang string) (subject, body string) {
	businessName := req.Business.Name
	if businessName == "" {
		businessName = "Your Business"
	}

	if custom, ok := req.Metadata["message"].(string); ok && custom != "" {
		return fmt.Sprintf("Message from %s", businessName), custom
	}

	switch req.Action {
	case "reminder":
		subject = fmt.Sprintf("Reminder from %s", businessName)
		if lang == "hi" || lang == "hinglish" {
			body = fmt.Sprintf("Namaste! %s ki taraf se yaad dilana chahte hain. Aaj hi visit karein ya WhatsApp par reply karein.", businessName)
		} else {
			body = fmt.Sprintf("Hello! A friendly reminder from %s. Visit us today or reply on WhatsApp.", businessName)
		}
	case "offer":
		subject = fmt.Sprintf("Special offer from %s", businessName)
		if lang == "hi" || lang == "hinglish" {
			body = fmt.Sprintf("Khushkhabri! %s par special offer chal raha hai. Jaldi aayein, offer seemit samay ke liye hai.", businessName)
		} else {
			body = fmt.Sprintf("Good news! %s has a special offer running. Hurry, it's for a limited time.", businessName)
		}
	default:
		subject = fmt.Sprintf("Thank you from %s", businessName)
		if lang == "hi" || lang == "hinglish" {
			body = fmt.Sprintf("Dhanyavaad! %s ko chunne ke liye shukriya. Hum aapki seva ke liye hamesha tatpar hain.", businessName)
		} else {
			body = fmt.Sprintf("Thank you for choosing %s. We are always happy to serve you.", businessName)
		}
	}
	return subject, body
}
