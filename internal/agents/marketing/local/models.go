// internal/agents/marketing/local/models.go
package local

type LocalPlan struct {
	BusinessName string   `json:"businessName"`
	Location     string   `json:"location"`
	Directories  []string `json:"directories"`
	Checklist    []string `json:"checklist"`
	Partnerships []string `json:"partnerships"`
}
