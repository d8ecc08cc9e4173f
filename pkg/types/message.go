package types

// MessageRole identifies the author of a message in an LLM exchange.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // RoleSystem carries extraction instructions and domain rules.
	RoleUser      MessageRole = "user"      // RoleUser carries operator transcripts.
	RoleAssistant MessageRole = "assistant" // RoleAssistant carries model responses.
)

// Message represents a single message exchanged with an LLM provider.
type Message struct {
	// Role indicates who authored the message.
	Role MessageRole

	// Content is the text content of the message.
	Content string
}

// NewMessage creates a message with the given role and content.
func NewMessage(role MessageRole, content string) *Message {
	return &Message{Role: role, Content: content}
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// ModelInfo describes the LLM model behind a provider.
type ModelInfo struct {
	// Metadata holds provider-specific details (base URL, API version, etc.).
	Metadata map[string]interface{}

	// Provider is the provider family name ("openai", "anthropic").
	Provider string

	// Name is the model identifier.
	Name string

	// MaxTokens is the model's context limit.
	MaxTokens int

	// SupportsStreaming indicates whether the provider can stream responses.
	SupportsStreaming bool
}
