package values

import (
	"fmt"
	"time"

	"github.com/taichimaeda/cel-ts-sub000/common/types"
)

// DurationValue is a duration measured in int64 nanoseconds.
// ValidateDuration checks a ±315,576,000,000 second range (roughly
// ±10,000 years, the protobuf Duration range CEL inherits), but an int64
// nanosecond count only reaches about ±292 years, so longer durations
// are not representable.
type DurationValue struct{ Nanos int64 }

func (DurationValue) Kind() Kind        { return KindDuration }
func (DurationValue) Type() *types.Type { return types.Duration }
func (d DurationValue) String() string  { return time.Duration(d.Nanos).String() }

// TimestampValue is a point in time measured as int64 nanoseconds since
// the Unix epoch. ValidateTimestamp checks the calendar range
// [0001-01-01, 9999-12-31], but an int64 nanosecond count only covers
// roughly the years 1677 to 2262, so instants outside that span are not
// representable.
type TimestampValue struct{ Nanos int64 }

func (TimestampValue) Kind() Kind        { return KindTimestamp }
func (TimestampValue) Type() *types.Type { return types.Timestamp }
func (t TimestampValue) String() string  { return t.Time().UTC().Format(time.RFC3339Nano) }

// Time returns the UTC time.Time this timestamp represents.
func (t TimestampValue) Time() time.Time {
	return time.Unix(0, t.Nanos).UTC()
}

const (
	maxDurationSeconds = int64(315576000000)
	minDurationSeconds = -maxDurationSeconds
)

var (
	minTimestamp = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	maxTimestamp = time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC)
)

// ValidateDuration reports an error if nanos falls outside the spec-
// mandated duration range.
func ValidateDuration(nanos int64) error {
	secs := nanos / int64(time.Second)
	if secs < minDurationSeconds || secs > maxDurationSeconds {
		return fmt.Errorf("duration out of range: %ds", secs)
	}
	return nil
}

// ValidateTimestamp reports an error if nanos falls outside the spec-
// mandated calendar range.
func ValidateTimestamp(nanos int64) error {
	t := time.Unix(0, nanos).UTC()
	if t.Before(minTimestamp) || t.After(maxTimestamp) {
		return fmt.Errorf("timestamp out of range: %s", t)
	}
	return nil
}

// AddTimestampDuration adds a duration to a timestamp using wall-clock
// nanosecond arithmetic (spec §9 open question: this implementation
// follows host time.Time addition, i.e. it does not special-case DST
// transitions in named zones beyond what time.Time already models since
// all timestamps are carried as UTC nanoseconds internally).
func AddTimestampDuration(ts, dur int64) (int64, error) {
	sum, err := AddInt(ts, dur)
	if err != nil {
		return 0, err
	}
	if err := ValidateTimestamp(sum); err != nil {
		return 0, err
	}
	return sum, nil
}

// SubTimestamps returns the duration between two timestamps.
func SubTimestamps(a, b int64) (int64, error) {
	d, err := SubInt(a, b)
	if err != nil {
		return 0, err
	}
	if err := ValidateDuration(d); err != nil {
		return 0, err
	}
	return d, nil
}
