package flag

import "fmt"

// Conversation types understood by the reporters.
const (
	ConversationPrivateMessages = "private messages"
	ConversationGuild           = "guild"
	ConversationParty           = "party"
)

// TavernID is the id of the public tavern conversation.
const TavernID = "00000000-0000-4000-A000-000000000000"

// Conversation describes where a flagged message lives.
// Inbox conversations carry only a type.
type Conversation struct {
	Type string
	ID   string
	Name string
}

// PrivateMessages returns the conversation descriptor used for inbox messages.
func PrivateMessages() Conversation {
	return Conversation{Type: ConversationPrivateMessages}
}

// ConversationURL returns the moderator-facing path for a conversation, or ""
// when the conversation is not addressable (private messages).
func ConversationURL(c Conversation) string {
	switch {
	case c.ID == TavernID:
		return "/groups/tavern"
	case c.Type == ConversationGuild:
		return fmt.Sprintf("/groups/guild/%s", c.ID)
	case c.Type == ConversationParty:
		return "party"
	default:
		return ""
	}
}
