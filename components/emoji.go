package components

import "github.com/soyeahso/cordkit/snowflake"

// Emoji decorates a button or select option. Name holds a unicode emoji, ID a
// custom emoji; exactly one of them must be set.
type Emoji struct {
	Name     string               `json:"name,omitempty"`
	ID       *snowflake.Snowflake `json:"id,omitempty"`
	Animated bool                 `json:"animated,omitempty"`
}

// NewEmoji builds and validates an emoji.
func NewEmoji(name string, id *snowflake.Snowflake, animated bool) (*Emoji, error) {
	e := &Emoji{Name: name, ID: id, Animated: animated}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate enforces name/id exclusivity. A zero id counts as unset.
func (e *Emoji) Validate() error {
	hasName := e.Name != ""
	hasID := e.ID != nil && *e.ID != 0
	switch {
	case !hasName && !hasID:
		return &EmojiError{Message: "at least one of name or id must be provided"}
	case hasName && hasID:
		return &EmojiError{Message: "only one of name or id must be provided"}
	}
	return nil
}
