// Package components models Discord message components as a closed tagged
// union. Every variant validates itself on construction and again when decoded
// from the wire, so a value that exists is a value Discord will accept.
package components

import (
	"encoding/json"
	"fmt"
)

// Component is implemented by *ActionRow, *Button, *SelectMenu and *TextInput.
type Component interface {
	// Type returns the wire discriminator.
	Type() ComponentType
	// Validate checks every rule for the variant, including its children.
	Validate() error

	isComponent()
}

func (*ActionRow) isComponent()  {}
func (*Button) isComponent()     {}
func (*SelectMenu) isComponent() {}
func (*TextInput) isComponent()  {}

// isNil reports whether c is nil or a nil pointer to one of the variants.
func isNil(c Component) bool {
	switch v := c.(type) {
	case nil:
		return true
	case *ActionRow:
		return v == nil
	case *Button:
		return v == nil
	case *SelectMenu:
		return v == nil
	case *TextInput:
		return v == nil
	}
	return false
}

type discriminator struct {
	Type ComponentType `json:"type"`
}

// Decode parses a single component and validates it.
func Decode(data []byte) (Component, error) {
	c, err := decodeComponent(data)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DecodeList parses a JSON array of components and validates each one.
func DecodeList(data []byte) ([]Component, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding component list: %w", err)
	}
	out := make([]Component, 0, len(raw))
	for i, r := range raw {
		c, err := Decode(r)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// decodeComponent picks the variant from the type field without validating.
func decodeComponent(data []byte) (Component, error) {
	var d discriminator
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding component: %w", err)
	}

	var c Component
	switch {
	case d.Type == TypeActionRow:
		c = &ActionRow{}
	case d.Type == TypeButton:
		c = &Button{}
	case d.Type == TypeTextInput:
		c = &TextInput{}
	case d.Type.IsSelect():
		c = &SelectMenu{}
	default:
		return nil, invalid(d.Type, "unknown component type")
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", d.Type, err)
	}
	return c, nil
}
