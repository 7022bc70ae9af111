// internal/agents/marketing/social/models.go
package social

type SocialPost struct {
	Platform string   `json:"platform"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
	PostType string   `json:"postType"`
}

type ContentCalendar struct {
	BusinessName string       `json:"businessName"`
	BusinessType string       `json:"businessType"`
	Platforms    []string     `json:"platforms"`
	Posts        []SocialPost `json:"posts"`
}
