package models

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type StageUpdate struct {
	RequestID string `json:"request_id"`
	Stage     string `json:"stage"`  // "notes" | "flashcards" | "quiz"
	Status    string `json:"status"` // "started" | "completed" | "failed"
	Fallback  bool   `json:"fallback,omitempty"`
}

// API Error response
type ErrorResponse struct {
	Error string `json:"error"`
}
