package enums

import "fmt"

// Channel names one independent notification delivery mechanism.
type Channel string

const (
	ChannelWebhook      Channel = "webhook"
	ChannelMessagingAPI Channel = "messaging_api"
)

var validChannels = []Channel{
	ChannelWebhook,
	ChannelMessagingAPI,
}

// String implements fmt.Stringer.
func (c Channel) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Channel.
func (c Channel) IsValid() bool {
	for _, candidate := range validChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChannel converts raw input into a Channel.
func ParseChannel(value string) (Channel, error) {
	for _, candidate := range validChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid channel %q", value)
}
