// Package snowflake implements Discord's 64-bit Snowflake identifier.
//
// A Snowflake packs four fields into a single unsigned integer, left to right:
//
//	 63                          22 21      17 16      12 11         0
//	+------------------------------+----------+----------+------------+
//	| ms since Discord epoch (42)  | worker(5)| process(5)| increment(12)|
//	+------------------------------+----------+----------+------------+
//
// Snowflakes travel over the wire as decimal strings so that JSON parsers with
// 53-bit integer precision do not corrupt them. A Snowflake compares equal to
// a plain integer of the same value and to its exact decimal string.
package snowflake

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strconv"
	"time"
)

// Epoch is the first millisecond of 2015 (UTC), the zero point of every
// Snowflake timestamp.
const Epoch int64 = 1420070400000

const (
	timestampShift = 22
	workerShift    = 17
	processShift   = 12

	workerMask    = 0x3E0000
	processMask   = 0x1F000
	incrementMask = 0xFFF

	// MaxWorkerID is the largest internal worker id that fits in 5 bits.
	MaxWorkerID = 31
	// MaxProcessID is the largest internal process id that fits in 5 bits.
	MaxProcessID = 31
	// MaxIncrement is the largest increment that fits in 12 bits.
	MaxIncrement = 4095
)

// Snowflake is a Discord identifier. The zero value is a valid (if
// meaningless) Snowflake whose timestamp equals Epoch.
type Snowflake uint64

// Build assembles a Snowflake from a wall-clock instant and the three
// low-order fields. Fields are not range checked: values wider than their bit
// widths spill into neighbouring fields. Use BuildChecked to reject them.
func Build(ts time.Time, workerID, processID, increment uint64) Snowflake {
	return BuildMillis(ts.UnixMilli(), workerID, processID, increment)
}

// BuildMillis is Build with the timestamp given as Unix milliseconds.
func BuildMillis(ms int64, workerID, processID, increment uint64) Snowflake {
	return Snowflake(uint64(ms-Epoch)<<timestampShift |
		workerID<<workerShift |
		processID<<processShift |
		increment)
}

// BuildChecked is BuildMillis with every field validated against its bit
// width. The timestamp must not precede Epoch.
func BuildChecked(ms int64, workerID, processID, increment uint64) (Snowflake, error) {
	switch {
	case ms < Epoch:
		return 0, newFieldRangeError("timestamp", strconv.FormatInt(ms, 10), fmt.Sprintf(">= %d", Epoch))
	case uint64(ms-Epoch) >= 1<<(64-timestampShift):
		return 0, newFieldRangeError("timestamp", strconv.FormatInt(ms, 10), "must fit in 42 bits after the epoch")
	case workerID > MaxWorkerID:
		return 0, newFieldRangeError("internal_worker_id", strconv.FormatUint(workerID, 10), fmt.Sprintf("0-%d", MaxWorkerID))
	case processID > MaxProcessID:
		return 0, newFieldRangeError("internal_process_id", strconv.FormatUint(processID, 10), fmt.Sprintf("0-%d", MaxProcessID))
	case increment > MaxIncrement:
		return 0, newFieldRangeError("increment", strconv.FormatUint(increment, 10), fmt.Sprintf("0-%d", MaxIncrement))
	}
	return BuildMillis(ms, workerID, processID, increment), nil
}

// TimestampMillis returns the creation time as Unix milliseconds.
func (s Snowflake) TimestampMillis() int64 {
	return int64(uint64(s)>>timestampShift) + Epoch
}

// Timestamp returns the creation time in UTC.
func (s Snowflake) Timestamp() time.Time {
	return time.UnixMilli(s.TimestampMillis()).UTC()
}

// InternalWorkerID returns bits 17-21.
func (s Snowflake) InternalWorkerID() uint64 {
	return (uint64(s) & workerMask) >> workerShift
}

// InternalProcessID returns bits 12-16.
func (s Snowflake) InternalProcessID() uint64 {
	return (uint64(s) & processMask) >> processShift
}

// Increment returns the low 12 bits.
func (s Snowflake) Increment() uint64 {
	return uint64(s) & incrementMask
}

// Uint64 returns the raw value.
func (s Snowflake) Uint64() uint64 {
	return uint64(s)
}

// String returns the decimal representation.
func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// GoString implements fmt.GoStringer.
func (s Snowflake) GoString() string {
	return "snowflake.Snowflake(" + s.String() + ")"
}

// Key returns the canonical map key for s. Maps keyed by Key agree with Equal
// for integer, string and Snowflake lookups.
func (s Snowflake) Key() string {
	return s.String()
}

// Hash returns an FNV-1a hash of the decimal form, so it agrees with
// HashString for the string representation of the same id.
func (s Snowflake) Hash() uint64 {
	return HashString(s.String())
}

// HashString hashes a decimal id string the same way Hash does.
func HashString(decimal string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(decimal))
	return h.Sum64()
}

// Equal reports whether other denotes the same identifier. Integers compare by
// value, strings compare against the exact decimal form and Snowflakes compare
// by value. Every other type, floats included, is never equal.
func (s Snowflake) Equal(other any) bool {
	switch v := other.(type) {
	case Snowflake:
		return s == v
	case *Snowflake:
		return v != nil && s == *v
	case string:
		return s.String() == v
	case int:
		return v >= 0 && uint64(v) == uint64(s)
	case int8:
		return v >= 0 && uint64(v) == uint64(s)
	case int16:
		return v >= 0 && uint64(v) == uint64(s)
	case int32:
		return v >= 0 && uint64(v) == uint64(s)
	case int64:
		return v >= 0 && uint64(v) == uint64(s)
	case uint:
		return uint64(v) == uint64(s)
	case uint8:
		return uint64(v) == uint64(s)
	case uint16:
		return uint64(v) == uint64(s)
	case uint32:
		return uint64(v) == uint64(s)
	case uint64:
		return v == uint64(s)
	case json.Number:
		return s.String() == string(v)
	default:
		return false
	}
}
