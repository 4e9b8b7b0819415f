package values

import (
	"math"

	"golang.org/x/exp/constraints"
)

// signedAddOverflows reports whether a+b overflows a signed integer type.
// Generic over constraints.Signed so the same check backs both the int64
// arithmetic CEL exposes today and any narrower signed width a future
// overload might add.
func signedAddOverflows[T constraints.Signed](a, b, sum T) bool {
	// Two positives summing to a non-positive, or two negatives summing
	// to a non-negative, signals wraparound.
	return (a > 0 && b > 0 && sum <= 0) || (a < 0 && b < 0 && sum >= 0)
}

func signedSubOverflows[T constraints.Signed](a, b, diff T) bool {
	return (b < 0 && diff <= a) || (b > 0 && diff >= a)
}

func unsignedAddOverflows[T constraints.Unsigned](a, b, sum T) bool {
	return sum < a
}

// AddInt returns a+b or an error on int64 overflow.
func AddInt(a, b int64) (int64, error) {
	sum := a + b
	if signedAddOverflows(a, b, sum) {
		return 0, errIntOverflow
	}
	return sum, nil
}

// SubInt returns a-b or an error on int64 overflow.
func SubInt(a, b int64) (int64, error) {
	diff := a - b
	if signedSubOverflows(a, b, diff) {
		return 0, errIntOverflow
	}
	return diff, nil
}

// MulInt returns a*b or an error on int64 overflow.
func MulInt(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	prod := a * b
	if prod/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, errIntOverflow
	}
	return prod, nil
}

// DivInt returns a/b, or an error on division by zero or the single
// overflowing case MinInt64/-1.
func DivInt(a, b int64) (int64, error) {
	if b == 0 {
		return 0, errDivByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, errIntOverflow
	}
	return a / b, nil
}

// ModInt returns a%b, CEL truncated-division semantics (sign of result
// follows the dividend), or an error on modulo by zero.
func ModInt(a, b int64) (int64, error) {
	if b == 0 {
		return 0, errDivByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, nil
	}
	return a % b, nil
}

// NegInt returns -a, or an error if a is math.MinInt64 (its negation
// overflows int64).
func NegInt(a int64) (int64, error) {
	if a == math.MinInt64 {
		return 0, errIntOverflow
	}
	return -a, nil
}

// AddUint returns a+b or an error on uint64 overflow.
func AddUint(a, b uint64) (uint64, error) {
	sum := a + b
	if unsignedAddOverflows(a, b, sum) {
		return 0, errIntOverflow
	}
	return sum, nil
}

// SubUint returns a-b or an error on uint64 underflow.
func SubUint(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errIntOverflow
	}
	return a - b, nil
}

// MulUint returns a*b or an error on uint64 overflow.
func MulUint(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	prod := a * b
	if prod/b != a {
		return 0, errIntOverflow
	}
	return prod, nil
}

// DivUint returns a/b or an error on division by zero.
func DivUint(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, errDivByZero
	}
	return a / b, nil
}

// ModUint returns a%b or an error on modulo by zero.
func ModUint(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, errDivByZero
	}
	return a % b, nil
}

type simpleError string

func (e simpleError) Error() string { return string(e) }

const (
	errIntOverflow simpleError = "int overflow"
	errDivByZero   simpleError = "division by zero"
)

// ErrIntOverflow and ErrDivByZero let callers compare against the
// sentinel arithmetic errors with errors.Is.
var (
	ErrIntOverflow = errIntOverflow
	ErrDivByZero   = errDivByZero
)
