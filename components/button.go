package components

import (
	"encoding/json"

	"github.com/soyeahso/cordkit/internal/validation"
	"github.com/soyeahso/cordkit/snowflake"
)

// Button is a clickable component. Which fields are required depends on Style:
// link buttons carry a URL, premium buttons a SKU, and the rest a custom id.
type Button struct {
	Style    ButtonStyle          `json:"style"`
	Label    string               `json:"label,omitempty" validate:"max=80"`
	Emoji    *Emoji               `json:"emoji,omitempty"`
	CustomID string               `json:"custom_id,omitempty" validate:"max=100"`
	SKUID    *snowflake.Snowflake `json:"sku_id,omitempty"`
	URL      string               `json:"url,omitempty"`
	Disabled bool                 `json:"disabled,omitempty"`
}

// NewButton validates b and returns a copy. A zero Style means primary.
func NewButton(b Button) (*Button, error) {
	if b.Style == 0 {
		b.Style = ButtonPrimary
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// NewLinkButton builds a button that opens url.
func NewLinkButton(label, url string) (*Button, error) {
	return NewButton(Button{Style: ButtonLink, Label: label, URL: url})
}

// NewCustomButton builds an interactive button of the given style.
func NewCustomButton(style ButtonStyle, label, customID string) (*Button, error) {
	return NewButton(Button{Style: style, Label: label, CustomID: customID})
}

// NewPremiumButton builds a purchase button for sku.
func NewPremiumButton(sku snowflake.Snowflake) (*Button, error) {
	return NewButton(Button{Style: ButtonPremium, SKUID: &sku})
}

func (b *Button) Type() ComponentType { return TypeButton }

func (b *Button) Validate() error {
	if err := checkFields(TypeButton, b); err != nil {
		return err
	}

	switch b.Style {
	case ButtonLink:
		if b.URL == "" {
			return invalid(TypeButton, "url is required for link buttons")
		}
		if b.CustomID != "" {
			return invalid(TypeButton, "custom_id is not allowed for link buttons")
		}
		if err := validation.Var(b.URL, "http_url"); err != nil {
			return &ValidationError{Component: TypeButton, Field: "url", Message: "must be an absolute http(s) URL"}
		}
		if b.SKUID != nil {
			return invalid(TypeButton, "sku_id is only allowed for premium buttons")
		}
	case ButtonPremium:
		if b.SKUID == nil {
			return invalid(TypeButton, "sku_id is required for premium buttons")
		}
		if b.CustomID != "" {
			return invalid(TypeButton, "custom_id is not allowed for premium buttons")
		}
		if b.URL != "" {
			return invalid(TypeButton, "url is not allowed for premium buttons")
		}
		if b.Label != "" {
			return invalid(TypeButton, "label is not allowed for premium buttons")
		}
		if b.Emoji != nil {
			return invalid(TypeButton, "emoji is not allowed for premium buttons")
		}
	case ButtonPrimary, ButtonSecondary, ButtonSuccess, ButtonDanger:
		if b.CustomID == "" {
			return invalid(TypeButton, "custom_id is required for non-link buttons")
		}
		if b.URL != "" {
			return invalid(TypeButton, "url is not allowed for non-link buttons")
		}
		if b.SKUID != nil {
			return invalid(TypeButton, "sku_id is only allowed for premium buttons")
		}
	default:
		return invalidf(TypeButton, "unknown button style %s", b.Style)
	}

	if b.Emoji != nil {
		return b.Emoji.Validate()
	}
	return nil
}

func (b Button) MarshalJSON() ([]byte, error) {
	type alias Button
	return json.Marshal(struct {
		Type ComponentType `json:"type"`
		alias
	}{TypeButton, alias(b)})
}
