package models

// 对话角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage 单条对话消息，历史由调用方维护并随请求传入
type ChatMessage struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}
