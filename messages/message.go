// Package messages builds create and edit message requests, including
// attachment uploads and embed images, and decodes the messages Discord
// returns.
package messages

import (
	"encoding/json"
	"time"

	"github.com/soyeahso/cordkit/components"
	"github.com/soyeahso/cordkit/snowflake"
)

// User is the subset of a user object embedded in messages.
type User struct {
	ID         snowflake.Snowflake `json:"id"`
	Username   string              `json:"username"`
	GlobalName string              `json:"global_name,omitempty"`
	Bot        bool                `json:"bot,omitempty"`
}

// AttachmentInfo is an uploaded file as Discord reports it.
type AttachmentInfo struct {
	ID          snowflake.Snowflake `json:"id"`
	Filename    string              `json:"filename"`
	Description string              `json:"description,omitempty"`
	ContentType string              `json:"content_type,omitempty"`
	Size        int                 `json:"size"`
	URL         string              `json:"url"`
	ProxyURL    string              `json:"proxy_url"`
	Height      *int                `json:"height,omitempty"`
	Width       *int                `json:"width,omitempty"`
}

// Message is a message returned by the API. Components are kept raw so that
// component kinds newer than this package still decode.
type Message struct {
	ID              snowflake.Snowflake  `json:"id"`
	ChannelID       snowflake.Snowflake  `json:"channel_id"`
	GuildID         *snowflake.Snowflake `json:"guild_id,omitempty"`
	Author          User                 `json:"author"`
	Content         string               `json:"content"`
	Timestamp       time.Time            `json:"timestamp"`
	EditedTimestamp *time.Time           `json:"edited_timestamp"`
	TTS             bool                 `json:"tts"`
	MentionEveryone bool                 `json:"mention_everyone"`
	Embeds          []Embed              `json:"embeds"`
	Attachments     []AttachmentInfo     `json:"attachments"`
	Components      []json.RawMessage    `json:"components,omitempty"`
	Pinned          bool                 `json:"pinned"`
	Type            int                  `json:"type"`
	Flags           MessageFlags         `json:"flags,omitempty"`
}

// CreatedAt derives the creation time from the message id.
func (m *Message) CreatedAt() time.Time {
	return m.ID.Timestamp()
}

// DecodeComponents parses and validates the message components.
func (m *Message) DecodeComponents() ([]components.Component, error) {
	out := make([]components.Component, 0, len(m.Components))
	for _, raw := range m.Components {
		c, err := components.Decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
