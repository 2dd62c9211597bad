package models

// Inbound frame types sent by roulette clients.
const (
	ClientJoin    = "join"
	ClientSkip    = "skip"
	ClientLeave   = "leave"
	ClientMessage = "message"
	ClientReport  = "report"
)

// Outbound frame types.
const (
	ServerMatched  = "roulette_matched"
	ServerEnded    = "roulette_chat_ended"
	ServerMessage  = "roulette_message"
	ServerLeft     = "roulette_left"
	ServerError    = "roulette_error"
	ServerReported = "roulette_reported"
)

// ClientFrame is a JSON frame read from a roulette WebSocket.
type ClientFrame struct {
	Type          string `json:"type"`
	Content       string `json:"content,omitempty"`
	ComplaintType string `json:"complaint_type,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// ServerFrame is a JSON frame written to a roulette WebSocket.
type ServerFrame struct {
	Type            string   `json:"type"`
	SessionID       string   `json:"session_id,omitempty"`
	PartnerID       string   `json:"partner_id,omitempty"`
	Reason          string   `json:"reason,omitempty"`
	Content         string   `json:"content,omitempty"`
	SharedInterests []string `json:"shared_interests,omitempty"`
	Code            string   `json:"code,omitempty"`
	Message         string   `json:"message,omitempty"`
}
