package conversation

import "github.com/summarizetube/summarizetube-backend/internal/providers"

// Context is the model-facing side of a session: the optional system
// instruction plus every completed user/assistant exchange.
type Context struct {
	system   string
	messages []providers.Message
}

// request returns the messages to send for a new user message, leaving the
// context itself unchanged.
func (c *Context) request(text string) []providers.Message {
	msgs := make([]providers.Message, 0, len(c.messages)+2)
	if c.system != "" {
		msgs = append(msgs, providers.Message{Role: providers.RoleSystem, Content: c.system})
	}
	msgs = append(msgs, c.messages...)
	return append(msgs, providers.Message{Role: providers.RoleUser, Content: text})
}

func (c *Context) record(user, reply string) {
	c.messages = append(c.messages,
		providers.Message{Role: providers.RoleUser, Content: user},
		providers.Message{Role: providers.RoleAssistant, Content: reply},
	)
}
