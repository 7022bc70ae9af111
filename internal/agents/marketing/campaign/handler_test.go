// internal/agents/marketing/campaign/handler_test.go
package campaign

import (
	"context"
	"testing"

	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/models"
	"bizauto-agents/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) *Handler {
	writer := storage.NewWriter(t.TempDir(), logger.NewTestLogger(t))
	return NewHandler(LoadConfig(), logger.NewTestLogger(t), writer)
}

func TestHandler_Execute_HighBudgetChannels(t *testing.T) {
	h := createTestHandler(t)

	resp, err := h.Execute(context.Background(), &models.Request{
		ID:          "req-campaign-1",
		Type:        "marketing",
		Action:      "campaign",
		Description: "Diwali promotion for my restaurant",
		Business:    models.BusinessProfile{Name: "Sharma Sweets", Type: "restaurant"},
		Metadata:    map[string]interface{}{"budget": 50000.0},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusSuccess, resp.Status)
	assert.Equal(t, "high", resp.Data["budgetBand"])

	channels, ok := resp.Data["channels"].([]string)
	require.True(t, ok)
	assert.Contains(t, channels, "google_ads")
	assert.Len(t, channels, 4)
}

func TestHandler_Execute_DefaultBudgetIsLowBand(t *testing.T) {
	h := createTestHandler(t)

	resp, err := h.Execute(context.Background(), &models.Request{
		ID:          "req-campaign-2",
		Description: "promote my shop",
	})
	require.NoError(t, err)

	assert.Equal(t, "low", resp.Data["budgetBand"])
	channels, ok := resp.Data["channels"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"whatsapp", "google_business"}, channels)
}

func TestHandler_Execute_IntBudgetAccepted(t *testing.T) {
	h := createTestHandler(t)

	resp, err := h.Execute(context.Background(), &models.Request{
		ID:       "req-campaign-3",
		Metadata: map[string]interface{}{"budget": 10000},
	})
	require.NoError(t, err)

	assert.Equal(t, "medium", resp.Data["budgetBand"])
	assert.Equal(t, 10000.0, resp.Data["budget"])
}

func TestHandler_Execute_ScheduleLength(t *testing.T) {
	h := createTestHandler(t)

	resp, err := h.Execute(context.Background(), &models.Request{ID: "req-campaign-4"})
	require.NoError(t, err)

	require.Len(t, resp.Deliverables, 1)
	assert.Equal(t, "campaign_plan", resp.Deliverables[0].Name)
}
