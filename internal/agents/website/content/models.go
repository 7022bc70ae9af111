// internal/agents/website/content/models.go
package content

type BusinessContent struct {
	BusinessName string   `json:"businessName"`
	BusinessType string   `json:"businessType"`
	Language     string   `json:"language"`
	Tagline      string   `json:"tagline"`
	About        string   `json:"about"`
	Services     []string `json:"services"`
	CallToAction string   `json:"callToAction"`
}
