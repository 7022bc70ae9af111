// internal/tools/whatsapp/client_test.go
package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bizauto-agents/internal/common/config"
	stderrors "bizauto-agents/internal/common/errors"
	"bizauto-agents/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func testClient(t *testing.T, serverURL string) *Client {
	c := NewClient(config.WhatsAppConfig{
		Enabled:            true,
		PhoneNumberID:      "1234567890",
		AccessToken:        "test-token",
		WebhookVerifyToken: "verify-me",
	}, logger.NewTestLogger(t))
	if serverURL != "" {
		c.baseURL = serverURL
	}
	return c
}

func okSendServer(t *testing.T, capture *map[string]interface{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1234567890/messages", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if capture != nil {
			*capture = body
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []map[string]string{{"id": "wamid.ABC"}},
		})
	}))
}

// ==========================
// Message Sending
// ==========================

func TestClient_SendText(t *testing.T) {
	var sent map[string]interface{}
	server := okSendServer(t, &sent)
	defer server.Close()

	c := testClient(t, server.URL)
	id, err := c.SendText(context.Background(), "919876543210", "Hello!")
	require.NoError(t, err)

	assert.Equal(t, "wamid.ABC", id)
	assert.Equal(t, "whatsapp", sent["messaging_product"])
	assert.Equal(t, "text", sent["type"])
	text, ok := sent["text"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Hello!", text["body"])
}

func TestClient_SendTemplate(t *testing.T) {
	var sent map[string]interface{}
	server := okSendServer(t, &sent)
	defer server.Close()

	c := testClient(t, server.URL)
	_, err := c.SendTemplate(context.Background(), "919876543210", "order_update", "en", []string{"Sharma Sweets", "ORDER_1"})
	require.NoError(t, err)

	assert.Equal(t, "template", sent["type"])
	tpl, ok := sent["template"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "order_update", tpl["name"])
}

func TestClient_SendInteractiveButtons_Limits(t *testing.T) {
	c := testClient(t, "")

	_, err := c.SendInteractiveButtons(context.Background(), "919876543210", "Choose:", nil)
	require.Error(t, err)

	_, err = c.SendInteractiveButtons(context.Background(), "919876543210", "Choose:", map[string]string{
		"a": "A", "b": "B", "c": "C", "d": "D",
	})
	require.Error(t, err)
}

func TestClient_SendMedia_RejectsUnknownType(t *testing.T) {
	c := testClient(t, "")

	_, err := c.SendMedia(context.Background(), "919876543210", "video", "https://example.com/v.mp4", "")
	require.Error(t, err)
}

func TestClient_Send_APIErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"message": "Invalid OAuth access token", "code": 190},
		})
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	_, err := c.SendText(context.Background(), "919876543210", "Hello!")
	require.Error(t, err)

	stdErr, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeWhatsAppSendFailed, stdErr.Code)
	assert.False(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "Invalid OAuth access token")
}

// ==========================
// Webhooks
// ==========================

func TestClient_VerifyWebhookToken(t *testing.T) {
	c := testClient(t, "")

	challenge, err := c.VerifyWebhookToken("subscribe", "verify-me", "12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", challenge)

	_, err = c.VerifyWebhookToken("subscribe", "wrong", "12345")
	assert.Error(t, err)

	_, err = c.VerifyWebhookToken("unsubscribe", "verify-me", "12345")
	assert.Error(t, err)
}

func TestParseWebhook_TextMessages(t *testing.T) {
	body := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"messages": [{
						"from": "919876543210",
						"id": "wamid.incoming1",
						"timestamp": "1756450000",
						"type": "text",
						"text": {"body": "Is the shop open today?"}
					}]
				}
			}]
		}]
	}`)

	messages, err := ParseWebhook(body)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	assert.Equal(t, "919876543210", messages[0].From)
	assert.Equal(t, "wamid.incoming1", messages[0].MessageID)
	assert.Equal(t, "text", messages[0].Type)
	assert.Equal(t, "Is the shop open today?", messages[0].Text)
}

func TestParseWebhook_ButtonReply(t *testing.T) {
	body := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"messages": [{
						"from": "919876543210",
						"id": "wamid.incoming2",
						"timestamp": "1756450010",
						"type": "interactive",
						"interactive": {
							"type": "button_reply",
							"button_reply": {"id": "confirm_order", "title": "Confirm Order"}
						}
					}]
				}
			}]
		}]
	}`)

	messages, err := ParseWebhook(body)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	assert.Equal(t, "interactive", messages[0].Type)
	assert.Equal(t, "confirm_order", messages[0].ReplyID)
	assert.Equal(t, "Confirm Order", messages[0].ReplyTitle)
	assert.Equal(t, "Confirm Order", messages[0].Text)
}

func TestParseWebhook_ListReply(t *testing.T) {
	body := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"messages": [{
						"from": "919876543210",
						"id": "wamid.incoming3",
						"timestamp": "1756450020",
						"type": "interactive",
						"interactive": {
							"type": "list_reply",
							"list_reply": {"id": "slot_evening", "title": "Evening Slot"}
						}
					}]
				}
			}]
		}]
	}`)

	messages, err := ParseWebhook(body)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	assert.Equal(t, "slot_evening", messages[0].ReplyID)
	assert.Equal(t, "Evening Slot", messages[0].Text)
}

func TestParseWebhook_MediaMessages(t *testing.T) {
	body := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"messages": [{
						"from": "919876543210",
						"id": "wamid.incoming4",
						"timestamp": "1756450030",
						"type": "image",
						"image": {"id": "media-img-1", "caption": "Storefront photo"}
					}, {
						"from": "919876543210",
						"id": "wamid.incoming5",
						"timestamp": "1756450040",
						"type": "document",
						"document": {"id": "media-doc-1", "caption": "GST certificate", "filename": "gst.pdf"}
					}]
				}
			}]
		}]
	}`)

	messages, err := ParseWebhook(body)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "image", messages[0].Type)
	assert.Equal(t, "media-img-1", messages[0].MediaID)
	assert.Equal(t, "Storefront photo", messages[0].Caption)
	assert.Equal(t, "Storefront photo", messages[0].Text)

	assert.Equal(t, "document", messages[1].Type)
	assert.Equal(t, "media-doc-1", messages[1].MediaID)
	assert.Equal(t, "gst.pdf", messages[1].Filename)
	assert.Equal(t, "GST certificate", messages[1].Text)
}

func TestParseWebhook_StatusOnlyNotification(t *testing.T) {
	messages, err := ParseWebhook([]byte(`{"entry":[{"changes":[{"value":{}}]}]}`))
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestParseWebhook_InvalidJSON(t *testing.T) {
	_, err := ParseWebhook([]byte("not json"))
	assert.Error(t, err)
}
