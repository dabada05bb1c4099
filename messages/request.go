package messages

import (
	"github.com/soyeahso/cordkit/components"
	"github.com/soyeahso/cordkit/snowflake"
)

const (
	// MaxActionRows is the number of component rows a message may carry.
	MaxActionRows = 5
	// MaxEmbeds is the number of embeds a message may carry.
	MaxEmbeds = 10
)

// MessageFlags is the message flag bitfield.
type MessageFlags int

const (
	FlagSuppressEmbeds        MessageFlags = 1 << 2
	FlagSuppressNotifications MessageFlags = 1 << 12
)

// AllowedMentions restricts which mentions in the content ping anyone.
type AllowedMentions struct {
	Parse       []string              `json:"parse,omitempty" validate:"dive,oneof=roles users everyone"`
	Roles       []snowflake.Snowflake `json:"roles,omitempty" validate:"max=100"`
	Users       []snowflake.Snowflake `json:"users,omitempty" validate:"max=100"`
	RepliedUser *bool                 `json:"replied_user,omitempty"`
}

// MessageReference turns a message into a reply.
type MessageReference struct {
	MessageID       *snowflake.Snowflake `json:"message_id,omitempty"`
	ChannelID       *snowflake.Snowflake `json:"channel_id,omitempty"`
	GuildID         *snowflake.Snowflake `json:"guild_id,omitempty"`
	FailIfNotExists *bool                `json:"fail_if_not_exists,omitempty"`
}

// CreateMessage is the body of a create message request. Components may be
// action rows or bare interactive components; bare ones are wrapped in a
// single row when the request is prepared.
type CreateMessage struct {
	Content          string                 `json:"content,omitempty" validate:"max=2000"`
	Nonce            string                 `json:"nonce,omitempty" validate:"max=25"`
	TTS              bool                   `json:"tts,omitempty"`
	Embeds           []Embed                `json:"embeds,omitempty" validate:"max=10,dive"`
	AllowedMentions  *AllowedMentions       `json:"allowed_mentions,omitempty"`
	MessageReference *MessageReference      `json:"message_reference,omitempty"`
	Components       []components.Component `json:"components,omitempty"`
	StickerIDs       []snowflake.Snowflake  `json:"sticker_ids,omitempty" validate:"max=3"`
	Attachments      []*Attachment          `json:"attachments,omitempty" validate:"dive"`
	Flags            MessageFlags           `json:"flags,omitempty"`
	EnforceNonce     bool                   `json:"enforce_nonce,omitempty"`
}

// UpdateMessage is the body of an edit message request. A nil Content leaves
// the content unchanged; a pointer to "" clears it.
type UpdateMessage struct {
	Content         *string                `json:"content,omitempty" validate:"omitnil,max=2000"`
	Embeds          []Embed                `json:"embeds,omitempty" validate:"max=10,dive"`
	Flags           MessageFlags           `json:"flags,omitempty"`
	AllowedMentions *AllowedMentions       `json:"allowed_mentions,omitempty"`
	Components      []components.Component `json:"components,omitempty"`
	Attachments     []*Attachment          `json:"attachments,omitempty" validate:"dive"`
}

// Prepare validates the request and assembles the body Discord expects.
// The receiver is not modified, except that attachment content is read into
// memory on first use so the same request can be prepared again.
func (m *CreateMessage) Prepare() (*Payload, error) {
	if err := checkFields(m); err != nil {
		return nil, err
	}
	if m.Flags&^(FlagSuppressEmbeds|FlagSuppressNotifications) != 0 {
		return nil, &ValidationError{Field: "flags", Message: "only SUPPRESS_EMBEDS and SUPPRESS_NOTIFICATIONS may be set"}
	}

	a, err := assemble(m.Embeds, m.Components, m.Attachments)
	if err != nil {
		return nil, err
	}
	if m.Content == "" && len(a.embeds) == 0 && len(m.StickerIDs) == 0 && len(a.rows) == 0 && len(a.attachments) == 0 {
		return nil, invalid("Message must have content, embeds, stickers, components or files")
	}

	wire := *m
	wire.Embeds = a.embeds
	wire.Components = a.rows
	wire.Attachments = a.listed()
	files, err := a.files()
	if err != nil {
		return nil, err
	}
	return newPayload(wire, files)
}

// Prepare validates the edit and assembles the body Discord expects.
// The receiver is not modified, except that attachment content is read into
// memory on first use so the same request can be prepared again.
func (m *UpdateMessage) Prepare() (*Payload, error) {
	if err := checkFields(m); err != nil {
		return nil, err
	}
	if m.Flags&^FlagSuppressEmbeds != 0 {
		return nil, &ValidationError{Field: "flags", Message: "only SUPPRESS_EMBEDS may be set"}
	}

	a, err := assemble(m.Embeds, m.Components, m.Attachments)
	if err != nil {
		return nil, err
	}
	if m.Content == nil && len(a.embeds) == 0 && len(a.rows) == 0 && len(a.attachments) == 0 && m.Flags == 0 && m.AllowedMentions == nil {
		return nil, invalid("Message must have content, embeds, stickers, components or files")
	}

	wire := *m
	wire.Embeds = a.embeds
	wire.Components = a.rows
	wire.Attachments = a.listed()
	files, err := a.files()
	if err != nil {
		return nil, err
	}
	return newPayload(wire, files)
}
