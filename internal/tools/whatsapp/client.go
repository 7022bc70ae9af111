// Package whatsapp wraps the WhatsApp Business Cloud API for customer
// messaging.
package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bizauto-agents/internal/common/config"
	stderrors "bizauto-agents/internal/common/errors"
	httpclient "bizauto-agents/internal/common/http"
	"bizauto-agents/internal/common/logger"
)

const graphAPIBaseURL = "https://graph.facebook.com/v18.0"

type Client struct {
	cfg     config.WhatsAppConfig
	client  *httpclient.Client
	logger  logger.Logger
	baseURL string
}

func NewClient(cfg config.WhatsAppConfig, log logger.Logger) *Client {
	return &Client{
		cfg:     cfg,
		client:  httpclient.NewClient(15 * time.Second),
		logger:  log.WithFields(map[string]interface{}{"component": "whatsapp"}),
		baseURL: graphAPIBaseURL,
	}
}

// SendText sends a plain text message and returns the provider message id.
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": body},
	}
	return c.send(ctx, payload)
}

// SendTemplate sends an approved template message.
func (c *Client) SendTemplate(ctx context.Context, to, templateName, languageCode string, bodyParams []string) (string, error) {
	components := []map[string]interface{}{}
	if len(bodyParams) > 0 {
		params := make([]map[string]string, len(bodyParams))
		for i, p := range bodyParams {
			params[i] = map[string]string{"type": "text", "text": p}
		}
		components = append(components, map[string]interface{}{
			"type":       "body",
			"parameters": params,
		})
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "template",
		"template": map[string]interface{}{
			"name":       templateName,
			"language":   map[string]string{"code": languageCode},
			"components": components,
		},
	}
	return c.send(ctx, payload)
}

// SendInteractiveButtons sends a message with up to three reply buttons.
func (c *Client) SendInteractiveButtons(ctx context.Context, to, body string, buttons map[string]string) (string, error) {
	if len(buttons) == 0 || len(buttons) > 3 {
		return "", stderrors.NewInvalidRequestError("interactive messages need 1 to 3 buttons")
	}

	buttonList := make([]map[string]interface{}, 0, len(buttons))
	for id, title := range buttons {
		buttonList = append(buttonList, map[string]interface{}{
			"type":  "reply",
			"reply": map[string]string{"id": id, "title": title},
		})
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]interface{}{
			"type":   "button",
			"body":   map[string]string{"text": body},
			"action": map[string]interface{}{"buttons": buttonList},
		},
	}
	return c.send(ctx, payload)
}

// SendMedia sends an image or document by link.
func (c *Client) SendMedia(ctx context.Context, to, mediaType, link, caption string) (string, error) {
	if mediaType != "image" && mediaType != "document" {
		return "", stderrors.NewInvalidRequestError("media type must be image or document")
	}

	media := map[string]string{"link": link}
	if caption != "" {
		media["caption"] = caption
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              mediaType,
		mediaType:           media,
	}
	return c.send(ctx, payload)
}

func (c *Client) send(ctx context.Context, payload map[string]interface{}) (string, error) {
	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.cfg.PhoneNumberID)
	headers := map[string]string{
		"Authorization": "Bearer " + c.cfg.AccessToken,
	}

	resp, err := c.client.PostJSON(ctx, url, payload, headers)
	if err != nil {
		return "", &stderrors.StandardError{
			Code:      stderrors.ErrCodeWhatsAppSendFailed,
			Message:   "Failed to reach WhatsApp API",
			Details:   err.Error(),
			Retryable: true,
			Timestamp: time.Now().UTC(),
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var out sendResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("parse send response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || out.Error != nil {
		details := string(data)
		if out.Error != nil {
			details = out.Error.Message
		}
		return "", &stderrors.StandardError{
			Code:      stderrors.ErrCodeWhatsAppSendFailed,
			Message:   fmt.Sprintf("WhatsApp API returned %d", resp.StatusCode),
			Details:   details,
			Retryable: resp.StatusCode >= 500,
			Timestamp: time.Now().UTC(),
		}
	}

	if len(out.Messages) == 0 {
		return "", fmt.Errorf("send response carried no message id")
	}

	c.logger.Info("message sent", map[string]interface{}{
		"messageId": out.Messages[0].ID,
		"type":      payload["type"],
	})
	return out.Messages[0].ID, nil
}

// VerifyWebhookToken answers the Graph API subscription handshake. It
// returns the challenge to echo back, or an error when the token does not
// match.
func (c *Client) VerifyWebhookToken(mode, token, challenge string) (string, error) {
	if mode != "subscribe" || token != c.cfg.WebhookVerifyToken {
		return "", &stderrors.StandardError{
			Code:      stderrors.ErrCodeWhatsAppWebhookInvalid,
			Message:   "Webhook verification failed",
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}
	return challenge, nil
}

// ParseWebhook extracts customer messages from a webhook notification.
// Status-only notifications yield an empty slice.
func ParseWebhook(body []byte) ([]IncomingMessage, error) {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse webhook body: %w", err)
	}

	var messages []IncomingMessage
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				parsed := IncomingMessage{
					From:      msg.From,
					MessageID: msg.ID,
					Timestamp: msg.Timestamp,
					Type:      msg.Type,
				}

				switch msg.Type {
				case "text":
					parsed.Text = msg.Text.Body
				case "interactive":
					reply := msg.Interactive.ButtonReply
					if msg.Interactive.Type == "list_reply" {
						reply = msg.Interactive.ListReply
					}
					parsed.ReplyID = reply.ID
					parsed.ReplyTitle = reply.Title
					parsed.Text = reply.Title
				case "image":
					parsed.MediaID = msg.Image.ID
					parsed.Caption = msg.Image.Caption
					parsed.Text = msg.Image.Caption
				case "document":
					parsed.MediaID = msg.Document.ID
					parsed.Caption = msg.Document.Caption
					parsed.Filename = msg.Document.Filename
					parsed.Text = msg.Document.Caption
				default:
					parsed.Text = msg.Text.Body
				}

				messages = append(messages, parsed)
			}
		}
	}
	return messages, nil
}
