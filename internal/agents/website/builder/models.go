// internal/agents/website/builder/models.go
package builder

type WebsitePlan struct {
	BusinessName string      `json:"businessName"`
	BusinessType string      `json:"businessType"`
	Template     string      `json:"template"`
	Pages        []Page      `json:"pages"`
	Features     []string    `json:"features"`
	ColorScheme  ColorScheme `json:"colorScheme"`
	Language     string      `json:"language"`
}

type Page struct {
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	Sections []string `json:"sections"`
}

type ColorScheme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}
