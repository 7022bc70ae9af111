// internal/tools/whatsapp/models.go
package whatsapp

// IncomingMessage is one customer message extracted from a webhook. Text
// carries the customer-facing content for every message type: the text body,
// the pressed button's title, or the media caption.
type IncomingMessage struct {
	From       string `json:"from"`
	MessageID  string `json:"messageId"`
	Timestamp  string `json:"timestamp"`
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	ReplyID    string `json:"replyId,omitempty"`
	ReplyTitle string `json:"replyTitle,omitempty"`
	MediaID    string `json:"mediaId,omitempty"`
	Caption    string `json:"caption,omitempty"`
	Filename   string `json:"filename,omitempty"`
}

// webhookPayload mirrors the Graph API webhook envelope.
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From      string `json:"from"`
					ID        string `json:"id"`
					Timestamp string `json:"timestamp"`
					Type      string `json:"type"`
					Text      struct {
						Body string `json:"body"`
					} `json:"text"`
					Interactive struct {
						Type        string `json:"type"`
						ButtonReply struct {
							ID    string `json:"id"`
							Title string `json:"title"`
						} `json:"button_reply"`
						ListReply struct {
							ID    string `json:"id"`
							Title string `json:"title"`
						} `json:"list_reply"`
					} `json:"interactive"`
					Image struct {
						ID      string `json:"id"`
						Caption string `json:"caption"`
					} `json:"image"`
					Document struct {
						ID       string `json:"id"`
						Caption  string `json:"caption"`
						Filename string `json:"filename"`
					} `json:"document"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}
