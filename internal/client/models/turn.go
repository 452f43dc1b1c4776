package models

// Role attributes a Turn to one side of the conversation.
type Role string

const (
	RoleUser        Role = "user"
	RoleAssistant   Role = "assistant"
	RoleSystemError Role = "system-error"
)

// Turn is one unit of the transcript.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
