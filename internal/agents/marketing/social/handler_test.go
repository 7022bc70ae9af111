// internal/agents/marketing/social/handler_test.go
package social

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

func TestHandler_Execute_RestaurantPosts(t *testing.T) {
	h := createTestHandler(t)

	resp, err := h.Execute(context.Background(), &models.Request{
		ID:       "req-social-1",
		Business: models.BusinessProfile{Name: "Sharma Sweets", Type: "restaurant"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusSuccess, resp.Status)
	assert.Equal(t, 3, resp.Data["postCount"])

	require.Len(t, resp.Deliverables, 1)
	assert.Equal(t, "social_posts", resp.Deliverables[0].Name)
}

func TestHandler_Execute_CaptionsIncludeBusinessName(t *testing.T) {
	h := createTestHandler(t)

	posts := h.buildPosts("Gupta Kirana", "retail")
	require.Len(t, posts, 3)
	for _, p := range posts {
		assert.Contains(t, p.Caption, "Gupta Kirana")
		assert.NotEmpty(t, p.Hashtags)
	}
}

func TestHandler_Execute_PostsPerWeekConfigurable(t *testing.T) {
	writer := storage.NewWriter(t.TempDir(), logger.NewTestLogger(t))
	cfg := LoadConfig()
	cfg.PostsPerWeek = 5
	h := NewHandler(cfg, logger.NewTestLogger(t), writer)

	posts := h.buildPosts("X", "general")
	assert.Len(t, posts, 5)
}
