package flag

import (
	"fmt"

	"github.com/example/modflag/internal/core/effects"
)

// FlagReportTemplate is the moderator email template for inbox flag reports.
const FlagReportTemplate = "flag-report-to-mods-with-comments"

// Person is the identity data a report carries about a user.
type Person struct {
	ID       string
	Name     string
	Username string
	Email    string
	Language string
}

// MessageInfo is the message data a report carries.
type MessageInfo struct {
	ID        string
	Text      string
	CreatedAt string
	Author    Person
}

// AlertContext provides context for planning the shared base alert.
type AlertContext struct {
	Conversation Conversation
	ReporterID   string
	Message      MessageInfo
	FlagCount    int
}

// PlanContext provides context for planning the inbox-specific notifications.
type PlanContext struct {
	Conversation    Conversation
	Reporter        Person
	Message         MessageInfo
	SharedVariables []effects.TemplateVar
	Recipients      []effects.Recipient
	TemplateID      string // Optional - defaults to FlagReportTemplate
	UserComment     string // Optional - empty string means no comment
}

// PlanBaseAlert returns the alert every reporting variant emits first.
func PlanBaseAlert(ctx AlertContext) effects.AlertEffect {
	return effects.AlertEffect{
		ConversationType: ctx.Conversation.Type,
		ConversationID:   ctx.Conversation.ID,
		MessageID:        ctx.Message.ID,
		AuthorID:         ctx.Message.Author.ID,
		ReporterID:       ctx.ReporterID,
		FlagCount:        ctx.FlagCount,
	}
}

// SharedVariables returns the template variables common to every report email:
// the message itself, then the reporter, then the author.
func SharedVariables(reporter Person, message MessageInfo) []effects.TemplateVar {
	vars := []effects.TemplateVar{
		{Name: "MESSAGE_TIME", Content: message.CreatedAt},
		{Name: "MESSAGE_TEXT", Content: message.Text},
	}
	vars = append(vars, PersonVariables("REPORTER", reporter)...)
	vars = append(vars, PersonVariables("AUTHOR", message.Author)...)
	return vars
}

// PersonVariables returns the <PREFIX>_* identity variables for one user.
func PersonVariables(prefix string, p Person) []effects.TemplateVar {
	return []effects.TemplateVar{
		{Name: prefix + "_NAME", Content: p.Name},
		{Name: prefix + "_USERNAME", Content: p.Username},
		{Name: prefix + "_UUID", Content: p.ID},
		{Name: prefix + "_EMAIL", Content: p.Email},
		{Name: prefix + "_MODAL_URL", Content: fmt.Sprintf("/profile/%s", p.ID)},
	}
}

// PlanInboxNotifications returns the moderator email and chat-ops effects for
// an inbox flag. Both are independent and may be executed concurrently.
func PlanInboxNotifications(ctx PlanContext) []effects.Effect {
	templateID := ctx.TemplateID
	if templateID == "" {
		templateID = FlagReportTemplate
	}

	vars := make([]effects.TemplateVar, 0, len(ctx.SharedVariables)+5)
	vars = append(vars, ctx.SharedVariables...)
	vars = append(vars,
		effects.TemplateVar{Name: "GROUP_NAME", Content: ctx.Conversation.Name},
		effects.TemplateVar{Name: "GROUP_TYPE", Content: ctx.Conversation.Type},
		effects.TemplateVar{Name: "GROUP_ID", Content: ctx.Conversation.ID},
		effects.TemplateVar{Name: "GROUP_URL", Content: ConversationURL(ctx.Conversation)},
		effects.TemplateVar{Name: "REPORTER_COMMENT", Content: ctx.UserComment},
	)

	recipients := make([]effects.Recipient, len(ctx.Recipients))
	copy(recipients, ctx.Recipients)

	return []effects.Effect{
		effects.EmailEffect{
			Recipients: recipients,
			TemplateID: templateID,
			Variables:  vars,
		},
		effects.ChatOpsEffect{
			AuthorEmail:           ctx.Message.Author.Email,
			FlaggerID:             ctx.Reporter.ID,
			FlaggerName:           ctx.Reporter.Name,
			FlaggerUsername:       ctx.Reporter.Username,
			FlaggerLanguage:       ctx.Reporter.Language,
			MessageID:             ctx.Message.ID,
			MessageText:           ctx.Message.Text,
			MessageAuthorID:       ctx.Message.Author.ID,
			MessageAuthorName:     ctx.Message.Author.Name,
			MessageAuthorUsername: ctx.Message.Author.Username,
			MessageCreatedAt:      ctx.Message.CreatedAt,
			UserComment:           ctx.UserComment,
		},
	}
}
