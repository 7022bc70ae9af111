// Package businessctx derives business context from free-form request text.
// Every agent that needs business-type or intent detection goes through this
// package so the keyword tables live in exactly one place.
package businessctx

import "strings"

// Business types recognized by the keyword tables.
const (
	TypeRestaurant = "restaurant"
	TypeRetail     = "retail"
	TypeService    = "service"
	TypeEcommerce  = "ecommerce"
	TypeHealthcare = "healthcare"
	TypeEducation  = "education"
	TypeGeneral    = "general"
)

// Request categories inferred from descriptions.
const (
	CategoryWebsite       = "website"
	CategoryMarketing     = "marketing"
	CategoryAnalytics     = "analytics"
	CategoryCommunication = "communication"
	CategoryGeneral       = "general"
)

// Urgency bands.
const (
	UrgencyHigh   = "high"
	UrgencyNormal = "normal"
	UrgencyLow    = "low"
)

// Budget bands.
const (
	BudgetLow    = "low"
	BudgetMedium = "medium"
	BudgetHigh   = "high"
)

var businessTypeKeywords = map[string][]string{
	TypeRestaurant: {"restaurant", "cafe", "food", "dining", "kitchen", "bakery", "dhaba", "tiffin"},
	TypeRetail:     {"shop", "store", "retail", "boutique", "kirana", "grocery", "mart"},
	TypeService:    {"salon", "repair", "plumber", "electrician", "tailor", "laundry", "cleaning"},
	TypeEcommerce:  {"ecommerce", "e-commerce", "online store", "marketplace", "dropship"},
	TypeHealthcare: {"clinic", "hospital", "doctor", "pharmacy", "dental", "health"},
	TypeEducation:  {"school", "college", "coaching", "tuition", "academy", "institute"},
}

var categoryKeywords = map[string][]string{
	CategoryWebsite:       {"website", "web site", "webpage", "landing page", "site", "online presence"},
	CategoryMarketing:     {"marketing", "campaign", "promotion", "advertis", "social media", "festival offer"},
	CategoryAnalytics:     {"analytics", "report", "insight", "data", "metrics", "performance"},
	CategoryCommunication: {"message", "notify", "email", "whatsapp", "sms", "reminder"},
}

var urgencyKeywords = map[string][]string{
	UrgencyHigh: {"urgent", "asap", "immediately", "today", "emergency"},
	UrgencyLow:  {"whenever", "no rush", "eventually", "someday"},
}

// DetectBusinessType classifies text into one of the known business types.
// Returns TypeGeneral when nothing matches.
func DetectBusinessType(text string) string {
	lowered := strings.ToLower(text)
	for _, businessType := range []string{
		TypeRestaurant, TypeRetail, TypeService,
		TypeEcommerce, TypeHealthcare, TypeEducation,
	} {
		for _, keyword := range businessTypeKeywords[businessType] {
			if strings.Contains(lowered, keyword) {
				return businessType
			}
		}
	}
	return TypeGeneral
}

// DetectCategory infers a request category when the envelope carries no type.
func DetectCategory(description string) string {
	lowered := strings.ToLower(description)
	for _, category := range []string{
		CategoryWebsite, CategoryMarketing, CategoryAnalytics, CategoryCommunication,
	} {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lowered, keyword) {
				return category
			}
		}
	}
	return CategoryGeneral
}

// DetectUrgency reads urgency cues from text, defaulting to normal.
func DetectUrgency(text string) string {
	lowered := strings.ToLower(text)
	for _, keyword := range urgencyKeywords[UrgencyHigh] {
		if strings.Contains(lowered, keyword) {
			return UrgencyHigh
		}
	}
	for _, keyword := range urgencyKeywords[UrgencyLow] {
		if strings.Contains(lowered, keyword) {
			return UrgencyLow
		}
	}
	return UrgencyNormal
}

// BudgetBand maps a monthly budget in INR to a coarse band used by the
// campaign planner.
func BudgetBand(amountINR float64) string {
	switch {
	case amountINR <= 0:
		return BudgetLow
	case amountINR < 5000:
		return BudgetLow
	case amountINR < 25000:
		return BudgetMedium
	default:
		return BudgetHigh
	}
}

// NormalizeLanguage maps language hints to the supported set. Hindi and
// English are first-class, everything else falls back to English.
func NormalizeLanguage(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "hi", "hindi":
		return "hi"
	case "hinglish":
		return "hinglish"
	default:
		return "en"
	}
}
