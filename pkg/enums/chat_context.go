package enums

import "fmt"

// ChatContext classifies an assistant conversation for template selection.
type ChatContext string

const (
	ChatContextGeneral          ChatContext = "general"
	ChatContextDetention        ChatContext = "detention"
	ChatContextMedical          ChatContext = "medical"
	ChatContextDomesticViolence ChatContext = "domestic_violence"
	ChatContextLegal            ChatContext = "legal"
)

var validChatContexts = []ChatContext{
	ChatContextGeneral,
	ChatContextDetention,
	ChatContextMedical,
	ChatContextDomesticViolence,
	ChatContextLegal,
}

// String implements fmt.Stringer.
func (c ChatContext) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChatContext.
func (c ChatContext) IsValid() bool {
	for _, candidate := range validChatContexts {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChatContext converts raw input into a ChatContext.
func ParseChatContext(value string) (ChatContext, error) {
	for _, candidate := range validChatContexts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid chat context %q", value)
}
