package businessctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Business Type Detection
// ==========================

func TestDetectBusinessType(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "restaurant keyword", text: "I run a small restaurant in Pune", expected: TypeRestaurant},
		{name: "cafe keyword", text: "New cafe opening next month", expected: TypeRestaurant},
		{name: "retail keyword", text: "My kirana store needs a website", expected: TypeRetail},
		{name: "service keyword", text: "Salon appointment reminders", expected: TypeService},
		{name: "ecommerce keyword", text: "Launching an online store for sarees", expected: TypeEcommerce},
		{name: "healthcare keyword", text: "Dental clinic in Jaipur", expected: TypeHealthcare},
		{name: "education keyword", text: "Coaching institute for JEE", expected: TypeEducation},
		{name: "no match falls back to general", text: "something unrelated", expected: TypeGeneral},
		{name: "case insensitive", text: "RESTAURANT promo", expected: TypeRestaurant},
		{name: "empty text", text: "", expected: TypeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectBusinessType(tt.text))
		})
	}
}

// ==========================
// Category Detection
// ==========================

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expected    string
	}{
		{name: "website intent", description: "Build a website for my shop", expected: CategoryWebsite},
		{name: "landing page intent", description: "need a landing page", expected: CategoryWebsite},
		{name: "marketing intent", description: "Run a Diwali campaign", expected: CategoryMarketing},
		{name: "advertising stem match", description: "help with advertising", expected: CategoryMarketing},
		{name: "analytics intent", description: "monthly sales report please", expected: CategoryAnalytics},
		{name: "communication intent", description: "send whatsapp reminder to customers", expected: CategoryCommunication},
		{name: "unknown intent", description: "hello there", expected: CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectCategory(tt.description))
		})
	}
}

// ==========================
// Urgency and Budget
// ==========================

func TestDetectUrgency(t *testing.T) {
	assert.Equal(t, UrgencyHigh, DetectUrgency("need this ASAP"))
	assert.Equal(t, UrgencyLow, DetectUrgency("no rush at all"))
	assert.Equal(t, UrgencyNormal, DetectUrgency("please build a website"))
}

func TestBudgetBand(t *testing.T) {
	assert.Equal(t, BudgetLow, BudgetBand(0))
	assert.Equal(t, BudgetLow, BudgetBand(4999))
	assert.Equal(t, BudgetMedium, BudgetBand(5000))
	assert.Equal(t, BudgetMedium, BudgetBand(24999))
	assert.Equal(t, BudgetHigh, BudgetBand(25000))
	assert.Equal(t, BudgetHigh, BudgetBand(100000))
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "hi", NormalizeLanguage("Hindi"))
	assert.Equal(t, "hi", NormalizeLanguage("hi"))
	assert.Equal(t, "hinglish", NormalizeLanguage("Hinglish"))
	assert.Equal(t, "en", NormalizeLanguage("english"))
	assert.Equal(t, "en", NormalizeLanguage(""))
	assert.Equal(t, "en", NormalizeLanguage("ta"))
}
