package components

import "encoding/json"

// TextInput collects free text inside a modal. It is only valid as a child of
// an ActionRow whose other children are also text inputs.
type TextInput struct {
	CustomID    string         `json:"custom_id" validate:"required,max=100"`
	Style       TextInputStyle `json:"style"`
	Label       string         `json:"label" validate:"required,max=45"`
	MinLength   *int           `json:"min_length,omitempty" validate:"omitnil,gte=0,lte=4000"`
	MaxLength   *int           `json:"max_length,omitempty" validate:"omitnil,gte=1,lte=4000"`
	Required    *bool          `json:"required,omitempty"`
	Value       string         `json:"value,omitempty" validate:"max=4000"`
	Placeholder string         `json:"placeholder,omitempty" validate:"max=100"`
}

// NewTextInput validates t and returns a copy. A zero Style means short.
func NewTextInput(t TextInput) (*TextInput, error) {
	if t.Style == 0 {
		t.Style = TextInputShort
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *TextInput) Type() ComponentType { return TypeTextInput }

func (t *TextInput) Validate() error {
	if !t.Style.IsKnown() {
		return invalidf(TypeTextInput, "unknown text input style %s", t.Style)
	}
	if err := checkFields(TypeTextInput, t); err != nil {
		return err
	}
	if t.MinLength != nil && t.MaxLength != nil && *t.MinLength > *t.MaxLength {
		return invalid(TypeTextInput, "min_length must be less than or equal to max_length")
	}
	return nil
}

func (t TextInput) MarshalJSON() ([]byte, error) {
	type alias TextInput
	return json.Marshal(struct {
		Type ComponentType `json:"type"`
		alias
	}{TypeTextInput, alias(t)})
}
