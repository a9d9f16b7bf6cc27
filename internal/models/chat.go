package models

import "time"

// ChatMessage is the transformed shape handed to the chat view. It is
// produced from the backend's raw {role, prompt, response} message and
// serialized as JSON into the hand-off channel.
type ChatMessage struct {
	ID        string    `json:"id"`
	MessageID string    `json:"message_id"`
	Content   string    `json:"content"`
	Role      string    `json:"role"` // user or assistant
	Prompt    string    `json:"prompt,omitempty"`
	TableData []Row     `json:"tableData,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
