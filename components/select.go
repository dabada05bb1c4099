package components

import "github.com/soyeahso/cordkit/snowflake"

const (
	maxSelectOptions = 25
	defaultMinValues = 1
	defaultMaxValues = 1
)

// SelectOption is one choice of a string select.
type SelectOption struct {
	Label       string `json:"label" validate:"required,max=100"`
	Value       string `json:"value" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=100"`
	Emoji       *Emoji `json:"emoji,omitempty"`
	Default     bool   `json:"default,omitempty"`
}

// SelectDefaultValue preselects a user, role or channel in an auto-populated select.
type SelectDefaultValue struct {
	ID   snowflake.Snowflake `json:"id"`
	Type string              `json:"type" validate:"oneof=user role channel"`
}

// SelectMenu covers all five select kinds; Kind picks which one.
type SelectMenu struct {
	Kind          ComponentType        `json:"type"`
	CustomID      string               `json:"custom_id,omitempty" validate:"max=100"`
	Options       []SelectOption       `json:"options,omitempty" validate:"max=25,dive"`
	ChannelTypes  []ChannelType        `json:"channel_types,omitempty"`
	Placeholder   string               `json:"placeholder,omitempty" validate:"max=150"`
	DefaultValues []SelectDefaultValue `json:"default_values,omitempty" validate:"dive"`
	MinValues     *int                 `json:"min_values,omitempty" validate:"omitnil,gte=0,lte=25"`
	MaxValues     *int                 `json:"max_values,omitempty" validate:"omitnil,gte=0,lte=25"`
	Disabled      bool                 `json:"disabled,omitempty"`
}

// NewSelectMenu validates s and returns a copy. A zero Kind means string select.
func NewSelectMenu(s SelectMenu) (*SelectMenu, error) {
	if s.Kind == 0 {
		s.Kind = TypeStringSelect
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *SelectMenu) Type() ComponentType { return s.Kind }

// EffectiveMinValues returns MinValues, or Discord's default of 1.
func (s *SelectMenu) EffectiveMinValues() int {
	if s.MinValues == nil {
		return defaultMinValues
	}
	return *s.MinValues
}

// EffectiveMaxValues returns MaxValues, or Discord's default of 1.
func (s *SelectMenu) EffectiveMaxValues() int {
	if s.MaxValues == nil {
		return defaultMaxValues
	}
	return *s.MaxValues
}

func (s *SelectMenu) Validate() error {
	if !s.Kind.IsSelect() {
		return invalidf(s.Kind, "%s is not a select menu type", s.Kind)
	}
	if err := checkFields(s.Kind, s); err != nil {
		return err
	}

	minValues, maxValues := s.EffectiveMinValues(), s.EffectiveMaxValues()
	if minValues > maxValues {
		return invalid(s.Kind, "min_values must be less than or equal to max_values")
	}

	if s.Kind == TypeStringSelect {
		if len(s.Options) == 0 {
			return invalid(s.Kind, "options are required for string selects")
		}
		if len(s.DefaultValues) > 0 {
			return invalid(s.Kind, "default_values are only allowed for auto-populated select menus")
		}
	} else if len(s.Options) > 0 {
		return invalid(s.Kind, "options are only allowed for string selects")
	}

	if len(s.ChannelTypes) > 0 {
		if s.Kind != TypeChannelSelect {
			return invalid(s.Kind, "channel_types are only allowed for channel selects")
		}
		for _, ct := range s.ChannelTypes {
			if !ct.IsKnown() {
				return &ValidationError{Component: s.Kind, Field: "channel_types", Message: "unknown channel type " + ct.String()}
			}
		}
	}

	if n := len(s.DefaultValues); n > 0 {
		if n > maxValues {
			return invalid(s.Kind, "number of default_values must be less than or equal to max_values")
		}
		if n < minValues {
			return invalid(s.Kind, "number of default_values must be greater than or equal to min_values")
		}
	}

	for i := range s.Options {
		if e := s.Options[i].Emoji; e != nil {
			if err := e.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
