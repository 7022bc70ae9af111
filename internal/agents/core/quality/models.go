// internal/agents/core/quality/models.go
package quality

type Review struct {
	Agent  string   `json:"agent"`
	Score  float64  `json:"score"`
	Passed bool     `json:"passed"`
	Issues []string `json:"issues,omitempty"`
}
