// internal/agents/marketing/campaign/models.go
package campaign

type CampaignPlan struct {
	BusinessName string         `json:"businessName"`
	BusinessType string         `json:"businessType"`
	Objective    string         `json:"objective"`
	BudgetINR    float64        `json:"budgetInr"`
	BudgetBand   string         `json:"budgetBand"`
	Channels     []ChannelPlan  `json:"channels"`
	Schedule     []ScheduleItem `json:"schedule"`
	Urgency      string         `json:"urgency"`
}

type ChannelPlan struct {
	Channel    string  `json:"channel"`
	ShareOfBudget float64 `json:"shareOfBudget"`
	Tactic     string  `json:"tactic"`
}

type ScheduleItem struct {
	Week     int    `json:"week"`
	Activity string `json:"activity"`
}
