// internal/agents/core/communication/handler_test.go
package communication

import (
	"context"
	"errors"
	"testing"

	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/models"
	"bizauto-agents/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeWhatsApp struct {
	sent []string
	err  error
}

func (f *fakeWhatsApp) SendText(_ context.Context, to, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, to+": "+body)
	return "wamid.test", nil
}

type fakeEmail struct {
	sent []string
	err  error
}

func (f *fakeEmail) SendPlainEmail(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+": "+subject)
	return nil
}

func createTestHandler(t *testing.T, wa WhatsAppSender, email EmailSender) *Handler {
	writer := storage.NewWriter(t.TempDir(), logger.NewTestLogger(t))
	return NewHandler(LoadConfig(), logger.NewTestLogger(t), writer, wa, email)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SendsWhatsAppReminder(t *testing.T) {
	wa := &fakeWhatsApp{}
	h := createTestHandler(t, wa, nil)

	resp, err := h.Execute(context.Background(), &models.Request{
		ID:       "req-comm-1",
		Action:   "reminder",
		Business: models.BusinessProfile{Name: "Sharma Sweets"},
		Metadata: map[string]interface{}{"recipient": "+919876543210"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusSuccess, resp.Status)
	assert.Equal(t, true, resp.Data["sent"])
	require.Len(t, wa.sent, 1)
	assert.Contains(t, wa.sent[0], "+919876543210")
	assert.Contains(t, wa.sent[0], "Sharma Sweets")
}

func TestHandler_Execute_EmailChannel(t *testing.T) {
	email := &fakeEmail{}
	h := createTestHandler(t, nil, email)

	resp, err := h.Execute(context.Background(), &models.Request{
		ID:       "req-comm-2",
		Action:   "offer",
		Business: models.BusinessProfile{Name: "Gupta Kirana"},
		Metadata: map[string]interface{}{"channel": "email", "recipient": "customer@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, true, resp.Data["sent"])
	require.Len(t, email.sent, 1)
	assert.Contains(t, email.sent[0], "Special offer from Gupta Kirana")
}

func TestHandler_Execute_NoSenderKeepsDraft(t *testing.T) {
	h := createTestHandler(t, nil, nil)

	resp, err := h.Execute(context.Background(), &models.Request{
		ID:       "req-comm-3",
		Metadata: map[string]interface{}{"recipient": "+919876543210"},
	})
	require.NoError(t, err)

	assert.Equal(t, false, resp.Data["sent"])
	assert.Contains(t, resp.Message, "drafted")
}

func TestHandler_Execute_SendFailureStillSucceeds(t *testing.T) {
	wa := &fakeWhatsApp{err: errors.New("network down")}
	h := createTestHandler(t, wa, nil)

	resp, err := h.Execute(context.Background(), &models.Request{
		ID:       "req-comm-4",
		Metadata: map[string]interface{}{"recipient": "+919876543210"},
	})
	require.NoError(t, err)
	assert.Equal(t, false, resp.Data["sent"])
}

func TestHandler_Execute_HindiBody(t *testing.T) {
	h := createTestHandler(t, nil, nil)

	resp, err := h.Execute(context.Background(), &models.Request{
		ID:       "req-comm-5",
		Action:   "reminder",
		Language: "hindi",
		Business: models.BusinessProfile{Name: "Sharma Sweets"},
	})
	require.NoError(t, err)

	body, ok := resp.Data["body"].(string)
	require.True(t, ok)
	assert.Contains(t, body, "Namaste")
}

func TestHandler_Execute_CustomMessageOverride(t *testing.T) {
	h := createTestHandler(t, nil, nil)

	resp, err := h.Execute(context.Background(), &models.Request{
		ID:       "req-comm-6",
		Metadata: map[string]interface{}{"message": "Shop closed on Monday for Diwali"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Shop closed on Monday for Diwali", resp.Data["body"])
}
