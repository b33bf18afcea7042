package models

// WebhookPayload is the subset of a WhatsApp Cloud API webhook callback that
// carries inbound text. Delivery statuses and contact cards are not decoded.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []InboundMessage `json:"messages"`
}

// InboundMessage is one message from a user. Text is nil unless Type is "text".
type InboundMessage struct {
	ID   string       `json:"id"`
	From string       `json:"from"`
	Type string       `json:"type"`
	Text *TextContent `json:"text,omitempty"`
}

type TextContent struct {
	Body string `json:"body"`
}
