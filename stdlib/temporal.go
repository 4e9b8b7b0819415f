package stdlib

import (
	"time"

	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/operators"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
	"github.com/taichimaeda/cel-ts-sub000/interpreter"
)

// temporalSpecs covers duration()/timestamp() construction, their
// add/subtract overloads, and the UTC-only accessor methods (spec §3
// "duration(nanos), timestamp(nanos)"; the timezone-string variant of
// these accessors is not implemented, see DESIGN.md).
func temporalSpecs() []overloadSpec {
	var specs []overloadSpec

	specs = append(specs, overloadSpec{
		fnName:   "duration",
		overload: unaryOverload("string_to_duration", types.String, types.Duration, false),
		binding: interpreter.Binding{Pure: true, Unary: func(id ast.ExprID, v values.Value) values.Value {
			d, err := time.ParseDuration(string(v.(values.StringValue)))
			if err != nil {
				return values.NewError(id, "invalid duration literal: %s", err)
			}
			nanos := d.Nanoseconds()
			if err := values.ValidateDuration(nanos); err != nil {
				return values.NewError(id, "%s", err)
			}
			return values.DurationValue{Nanos: nanos}
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   "timestamp",
		overload: unaryOverload("string_to_timestamp", types.String, types.Timestamp, false),
		binding: interpreter.Binding{Pure: true, Unary: func(id ast.ExprID, v values.Value) values.Value {
			t, err := time.Parse(time.RFC3339Nano, string(v.(values.StringValue)))
			if err != nil {
				return values.NewError(id, "invalid timestamp literal: %s", err)
			}
			nanos := t.UnixNano()
			if err := values.ValidateTimestamp(nanos); err != nil {
				return values.NewError(id, "%s", err)
			}
			return values.TimestampValue{Nanos: nanos}
		}},
	})

	specs = append(specs, overloadSpec{
		fnName:   operators.Add,
		overload: binaryOverload("add_duration_duration", types.Duration, types.Duration, types.Duration, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			sum, err := values.AddInt(lhs.(values.DurationValue).Nanos, rhs.(values.DurationValue).Nanos)
			if err != nil {
				return values.NewError(id, "%s", err)
			}
			if err := values.ValidateDuration(sum); err != nil {
				return values.NewError(id, "%s", err)
			}
			return values.DurationValue{Nanos: sum}
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Add,
		overload: binaryOverload("add_timestamp_duration", types.Timestamp, types.Duration, types.Timestamp, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			sum, err := values.AddTimestampDuration(lhs.(values.TimestampValue).Nanos, rhs.(values.DurationValue).Nanos)
			if err != nil {
				return values.NewError(id, "%s", err)
			}
			return values.TimestampValue{Nanos: sum}
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Add,
		overload: binaryOverload("add_duration_timestamp", types.Duration, types.Timestamp, types.Timestamp, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			sum, err := values.AddTimestampDuration(rhs.(values.TimestampValue).Nanos, lhs.(values.DurationValue).Nanos)
			if err != nil {
				return values.NewError(id, "%s", err)
			}
			return values.TimestampValue{Nanos: sum}
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Subtract,
		overload: binaryOverload("subtract_duration_duration", types.Duration, types.Duration, types.Duration, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			diff, err := values.SubInt(lhs.(values.DurationValue).Nanos, rhs.(values.DurationValue).Nanos)
			if err != nil {
				return values.NewError(id, "%s", err)
			}
			if err := values.ValidateDuration(diff); err != nil {
				return values.NewError(id, "%s", err)
			}
			return values.DurationValue{Nanos: diff}
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Subtract,
		overload: binaryOverload("subtract_timestamp_duration", types.Timestamp, types.Duration, types.Timestamp, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			neg, err := values.NegInt(rhs.(values.DurationValue).Nanos)
			if err != nil {
				return values.NewError(id, "%s", err)
			}
			sum, err := values.AddTimestampDuration(lhs.(values.TimestampValue).Nanos, neg)
			if err != nil {
				return values.NewError(id, "%s", err)
			}
			return values.TimestampValue{Nanos: sum}
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Subtract,
		overload: binaryOverload("subtract_timestamp_timestamp", types.Timestamp, types.Timestamp, types.Duration, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			d, err := values.SubTimestamps(lhs.(values.TimestampValue).Nanos, rhs.(values.TimestampValue).Nanos)
			if err != nil {
				return values.NewError(id, "%s", err)
			}
			return values.DurationValue{Nanos: d}
		}},
	})

	specs = append(specs, durationAccessor("getSeconds", "duration_get_seconds", func(d time.Duration) int64 { return int64(d / time.Second) }))
	specs = append(specs, durationAccessor("getMinutes", "duration_get_minutes", func(d time.Duration) int64 { return int64(d / time.Minute) }))
	specs = append(specs, durationAccessor("getHours", "duration_get_hours", func(d time.Duration) int64 { return int64(d / time.Hour) }))
	specs = append(specs, durationAccessor("getMilliseconds", "duration_get_milliseconds", func(d time.Duration) int64 { return int64(d / time.Millisecond) }))

	specs = append(specs, timestampAccessor("getFullYear", "timestamp_get_full_year", func(t time.Time) int64 { return int64(t.Year()) }))
	specs = append(specs, timestampAccessor("getMonth", "timestamp_get_month", func(t time.Time) int64 { return int64(t.Month()) - 1 }))
	specs = append(specs, timestampAccessor("getDayOfMonth", "timestamp_get_day_of_month", func(t time.Time) int64 { return int64(t.Day()) - 1 }))
	specs = append(specs, timestampAccessor("getDayOfYear", "timestamp_get_day_of_year", func(t time.Time) int64 { return int64(t.YearDay()) - 1 }))
	specs = append(specs, timestampAccessor("getDayOfWeek", "timestamp_get_day_of_week", func(t time.Time) int64 { return int64(t.Weekday()) }))
	specs = append(specs, timestampAccessor("getHours", "timestamp_get_hours", func(t time.Time) int64 { return int64(t.Hour()) }))
	specs = append(specs, timestampAccessor("getMinutes", "timestamp_get_minutes", func(t time.Time) int64 { return int64(t.Minute()) }))
	specs = append(specs, timestampAccessor("getSeconds", "timestamp_get_seconds", func(t time.Time) int64 { return int64(t.Second()) }))

	return specs
}

func durationAccessor(fnName, id string, fn func(time.Duration) int64) overloadSpec {
	return overloadSpec{
		fnName:   fnName,
		overload: unaryOverload(id, types.Duration, types.Int, true),
		binding: interpreter.Binding{Pure: true, Unary: func(exprID ast.ExprID, v values.Value) values.Value {
			return values.IntValue(fn(time.Duration(v.(values.DurationValue).Nanos)))
		}},
	}
}

func timestampAccessor(fnName, id string, fn func(time.Time) int64) overloadSpec {
	return overloadSpec{
		fnName:   fnName,
		overload: unaryOverload(id, types.Timestamp, types.Int, true),
		binding: interpreter.Binding{Pure: true, Unary: func(exprID ast.ExprID, v values.Value) values.Value {
			return values.IntValue(fn(v.(values.TimestampValue).Time()))
		}},
	}
}
