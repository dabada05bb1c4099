package snowflake

import (
	"bytes"
	"database/sql/driver"
	"fmt"
)

// MarshalJSON always encodes as a quoted decimal string.
func (s Snowflake) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted decimal string or a bare JSON number. A JSON
// null leaves the receiver unchanged.
func (s *Snowflake) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	v, err := parseDecimal(string(data))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Snowflake) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Snowflake) UnmarshalText(text []byte) error {
	v, err := parseDecimal(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Value implements driver.Valuer. Snowflakes are stored as TEXT so values
// above 2^63-1 survive drivers that only speak int64.
func (s Snowflake) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *Snowflake) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = 0
		return nil
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	case int64:
		if v < 0 {
			return newKindError(v, "negative value")
		}
		*s = Snowflake(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Snowflake: %w", src, ErrInvalidKind)
	}
}
