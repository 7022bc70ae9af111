// internal/agents/core/communication/models.go
package communication

type Message struct {
	Channel   string `json:"channel"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body"`
	Language  string `json:"language"`
	Sent      bool   `json:"sent"`
}
