// internal/orchestrator/routing.go
package orchestrator

import (
	"bizauto-agents/internal/businessctx"
)

// Request types accepted on the envelope.
const (
	TypeWebsite       = "website"
	TypeMarketing     = "marketing"
	TypeAnalytics     = "analytics"
	TypeCommunication = "communication"
	TypeQuality       = "quality"
	TypeComplete      = "complete"
)

// resolveAgents maps a request type and action to the agents that serve
// it, in execution order. Multi-agent routes are executed sequentially and
// their responses merged. Unknown types fall through to the communication
// agent as a general inquiry.
func resolveAgents(requestType, action string) []string {
	switch requestType {
	case TypeWebsite:
		switch action {
		case "content", "update":
			return []string{"content_manager"}
		case "seo", "optimize":
			return []string{"seo_optimizer"}
		default:
			return []string{"website_builder", "content_manager", "seo_optimizer"}
		}
	case TypeMarketing:
		switch action {
		case "social":
			return []string{"social_media"}
		case "local":
			return []string{"local_marketing"}
		default:
			return []string{"campaign_manager", "social_media"}
		}
	case TypeAnalytics:
		switch action {
		case "collect":
			return []string{"data_collector"}
		case "analyze":
			return []string{"insights_engine"}
		default:
			// The report generator pulls the full pipeline itself.
			return []string{"report_generator"}
		}
	case TypeComplete, "full":
		return []string{
			"website_builder", "content_manager", "seo_optimizer",
			"campaign_manager", "social_media",
			"report_generator",
		}
	case TypeQuality:
		return []string{"quality_control"}
	default:
		return []string{"customer_communication"}
	}
}

// inferType fills in a missing request type from the description's
// keywords. Descriptions that match nothing are treated as general
// inquiries for the communication agent.
func inferType(description string) string {
	switch businessctx.DetectCategory(description) {
	case businessctx.CategoryWebsite:
		return TypeWebsite
	case businessctx.CategoryMarketing:
		return TypeMarketing
	case businessctx.CategoryAnalytics:
		return TypeAnalytics
	default:
		return TypeCommunication
	}
}
