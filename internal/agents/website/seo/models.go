// internal/agents/website/seo/models.go
package seo

type SEOPlan struct {
	BusinessName    string   `json:"businessName"`
	BusinessType    string   `json:"businessType"`
	Location        string   `json:"location"`
	Keywords        []string `json:"keywords"`
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	LocalChecklist  []string `json:"localChecklist"`
}
