package snowflake

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Parse converts an integer, a decimal string, a json.Number or an existing
// Snowflake into a Snowflake. Floats, negative integers and strings holding
// anything other than ASCII digits are rejected with a *KindError.
func Parse(v any) (Snowflake, error) {
	switch x := v.(type) {
	case Snowflake:
		return x, nil
	case *Snowflake:
		if x == nil {
			return 0, newKindError(v, "nil pointer")
		}
		return *x, nil
	case string:
		return parseDecimal(x)
	case []byte:
		return parseDecimal(string(x))
	case json.Number:
		return parseDecimal(string(x))
	case int:
		return fromSigned(v, int64(x))
	case int8:
		return fromSigned(v, int64(x))
	case int16:
		return fromSigned(v, int64(x))
	case int32:
		return fromSigned(v, int64(x))
	case int64:
		return fromSigned(v, x)
	case uint:
		return Snowflake(x), nil
	case uint8:
		return Snowflake(x), nil
	case uint16:
		return Snowflake(x), nil
	case uint32:
		return Snowflake(x), nil
	case uint64:
		return Snowflake(x), nil
	case float32, float64:
		return 0, newKindError(v, "floats are not accepted")
	case nil:
		return 0, newKindError(v, "nil value")
	default:
		return 0, newKindError(v, fmt.Sprintf("unsupported type %T", v))
	}
}

// MustParse is Parse that panics on error.
func MustParse(v any) Snowflake {
	s, err := Parse(v)
	if err != nil {
		panic(err)
	}
	return s
}

func fromSigned(orig any, i int64) (Snowflake, error) {
	if i < 0 {
		return 0, newKindError(orig, "negative value")
	}
	return Snowflake(i), nil
}

func parseDecimal(s string) (Snowflake, error) {
	if s == "" {
		return 0, newKindError(s, "empty string")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, newKindError(s, "not a decimal integer")
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, newKindError(s, "exceeds 64 bits")
	}
	return Snowflake(n), nil
}
