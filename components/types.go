package components

import "fmt"

// ComponentType is the wire discriminator of a component.
type ComponentType int

const (
	TypeActionRow         ComponentType = 1
	TypeButton            ComponentType = 2
	TypeStringSelect      ComponentType = 3
	TypeTextInput         ComponentType = 4
	TypeUserSelect        ComponentType = 5
	TypeRoleSelect        ComponentType = 6
	TypeMentionableSelect ComponentType = 7
	TypeChannelSelect     ComponentType = 8
)

var componentTypeNames = map[ComponentType]string{
	TypeActionRow:         "ActionRow",
	TypeButton:            "Button",
	TypeStringSelect:      "StringSelect",
	TypeTextInput:         "TextInput",
	TypeUserSelect:        "UserSelect",
	TypeRoleSelect:        "RoleSelect",
	TypeMentionableSelect: "MentionableSelect",
	TypeChannelSelect:     "ChannelSelect",
}

func (t ComponentType) String() string { return enumName(componentTypeNames, t) }

// IsKnown reports whether t is a documented component type.
func (t ComponentType) IsKnown() bool {
	_, ok := componentTypeNames[t]
	return ok
}

// IsSelect reports whether t is any of the five select menu kinds.
func (t ComponentType) IsSelect() bool {
	return t == TypeStringSelect || t.IsAutoPopulatedSelect()
}

// IsAutoPopulatedSelect reports whether Discord supplies the choices for t.
func (t ComponentType) IsAutoPopulatedSelect() bool {
	switch t {
	case TypeUserSelect, TypeRoleSelect, TypeMentionableSelect, TypeChannelSelect:
		return true
	}
	return false
}

// ButtonStyle selects the appearance and behaviour of a button.
type ButtonStyle int

const (
	ButtonPrimary   ButtonStyle = 1
	ButtonSecondary ButtonStyle = 2
	ButtonSuccess   ButtonStyle = 3
	ButtonDanger    ButtonStyle = 4
	ButtonLink      ButtonStyle = 5
	ButtonPremium   ButtonStyle = 6
)

var buttonStyleNames = map[ButtonStyle]string{
	ButtonPrimary:   "Primary",
	ButtonSecondary: "Secondary",
	ButtonSuccess:   "Success",
	ButtonDanger:    "Danger",
	ButtonLink:      "Link",
	ButtonPremium:   "Premium",
}

func (s ButtonStyle) String() string { return enumName(buttonStyleNames, s) }

// IsKnown reports whether s is a documented button style.
func (s ButtonStyle) IsKnown() bool {
	_, ok := buttonStyleNames[s]
	return ok
}

// TextInputStyle selects single or multi line text inputs.
type TextInputStyle int

const (
	TextInputShort     TextInputStyle = 1
	TextInputParagraph TextInputStyle = 2
)

var textInputStyleNames = map[TextInputStyle]string{
	TextInputShort:     "Short",
	TextInputParagraph: "Paragraph",
}

func (s TextInputStyle) String() string { return enumName(textInputStyleNames, s) }

// IsKnown reports whether s is a documented text input style.
func (s TextInputStyle) IsKnown() bool {
	_, ok := textInputStyleNames[s]
	return ok
}

// ChannelType filters the channels offered by a channel select.
type ChannelType int

const (
	ChannelGuildText          ChannelType = 0
	ChannelDM                 ChannelType = 1
	ChannelGuildVoice         ChannelType = 2
	ChannelGroupDM            ChannelType = 3
	ChannelGuildCategory      ChannelType = 4
	ChannelGuildAnnouncement  ChannelType = 5
	ChannelAnnouncementThread ChannelType = 10
	ChannelPublicThread       ChannelType = 11
	ChannelPrivateThread      ChannelType = 12
	ChannelGuildStageVoice    ChannelType = 13
	ChannelGuildDirectory     ChannelType = 14
	ChannelGuildForum         ChannelType = 15
	ChannelGuildMedia         ChannelType = 16
)

var channelTypeNames = map[ChannelType]string{
	ChannelGuildText:          "GuildText",
	ChannelDM:                 "DM",
	ChannelGuildVoice:         "GuildVoice",
	ChannelGroupDM:            "GroupDM",
	ChannelGuildCategory:      "GuildCategory",
	ChannelGuildAnnouncement:  "GuildAnnouncement",
	ChannelAnnouncementThread: "AnnouncementThread",
	ChannelPublicThread:       "PublicThread",
	ChannelPrivateThread:      "PrivateThread",
	ChannelGuildStageVoice:    "GuildStageVoice",
	ChannelGuildDirectory:     "GuildDirectory",
	ChannelGuildForum:         "GuildForum",
	ChannelGuildMedia:         "GuildMedia",
}

func (c ChannelType) String() string { return enumName(channelTypeNames, c) }

// IsKnown reports whether c is a documented channel type.
func (c ChannelType) IsKnown() bool {
	_, ok := channelTypeNames[c]
	return ok
}

// Unknown values decode without error and keep their integer so they
// round-trip; they are only rejected when a component is validated.
func enumName[T ~int](names map[T]string, v T) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(v))
}
