package components

import (
	"encoding/json"
	"fmt"
)

const maxRowComponents = 5

// ActionRow groups up to five buttons, one select menu, or (in a modal) text
// inputs.
type ActionRow struct {
	Components []Component
}

// NewActionRow builds and validates a row from children.
func NewActionRow(children ...Component) (*ActionRow, error) {
	r := &ActionRow{Components: children}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewModalRow builds a row of text inputs for a modal.
func NewModalRow(inputs ...*TextInput) (*ActionRow, error) {
	children := make([]Component, len(inputs))
	for i, in := range inputs {
		children[i] = in
	}
	return NewActionRow(children...)
}

func (r *ActionRow) Type() ComponentType { return TypeActionRow }

// Validate counts children by kind in one pass and rejects the first violated
// rule, then validates each child.
func (r *ActionRow) Validate() error {
	if len(r.Components) == 0 {
		return invalid(TypeActionRow, "ActionRow must contain at least 1 component")
	}

	var buttons, selects, textInputs int
	for _, c := range r.Components {
		if isNil(c) {
			return invalid(TypeActionRow, "ActionRow cannot contain a nil component")
		}
		switch t := c.Type(); {
		case t == TypeActionRow:
			return invalid(TypeActionRow, "ActionRow cannot contain another ActionRow")
		case t == TypeButton:
			buttons++
		case t == TypeTextInput:
			textInputs++
		case t.IsSelect():
			selects++
		}
	}

	switch {
	case buttons > 0 && selects > 0:
		return invalid(TypeActionRow, "ActionRow containing a select menu cannot also contain buttons")
	case selects > 1:
		return invalid(TypeActionRow, "ActionRow can contain only one select menu")
	case buttons > maxRowComponents:
		return invalidf(TypeActionRow, "ActionRow can contain at most %d buttons", maxRowComponents)
	case textInputs > 0 && textInputs != len(r.Components):
		return invalid(TypeActionRow, "Text input components cannot be mixed with other components")
	case len(r.Components) > maxRowComponents:
		return invalidf(TypeActionRow, "ActionRow can contain at most %d components", maxRowComponents)
	}

	for _, c := range r.Components {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HasTextInputs reports whether the row is a modal row.
func (r *ActionRow) HasTextInputs() bool {
	return len(r.Components) > 0 && r.Components[0].Type() == TypeTextInput
}

func (r ActionRow) MarshalJSON() ([]byte, error) {
	children := r.Components
	if children == nil {
		children = []Component{}
	}
	return json.Marshal(struct {
		Type       ComponentType `json:"type"`
		Components []Component   `json:"components"`
	}{TypeActionRow, children})
}

func (r *ActionRow) UnmarshalJSON(data []byte) error {
	var wire struct {
		Components []json.RawMessage `json:"components"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Components = make([]Component, 0, len(wire.Components))
	for i, raw := range wire.Components {
		c, err := decodeComponent(raw)
		if err != nil {
			return fmt.Errorf("action row child %d: %w", i, err)
		}
		r.Components = append(r.Components, c)
	}
	return nil
}
