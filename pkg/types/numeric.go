package types

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/AndryLeon/peloton/pkg/errors"
)

// Helpers shared by the numeric family handlers. Comparison across
// widths goes through int64, or float64 as soon as a DECIMAL operand is
// involved.

// asInt64 widens an integer-family payload.
func asInt64(v Value) int64 {
	return v.integer
}

// asFloat64 widens any numeric payload.
func asFloat64(v Value) float64 {
	if v.typeID == Decimal {
		return v.decimal
	}
	return float64(v.integer)
}

// compareNumericRaw orders two numeric payloads without NULL handling;
// sentinel payloads participate as ordinary values.
func compareNumericRaw(left, right Value) int {
	if left.typeID == Decimal || right.typeID == Decimal {
		a, b := asFloat64(left), asFloat64(right)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	a, b := asInt64(left), asInt64(right)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// hashUint64 hashes a canonical 8-byte payload.
func hashUint64(bits uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], bits)
	return xxhash.Sum64(b[:])
}

// integerNullNames is indexed by TypeID for the NULL debug strings.
var integerNullNames = map[TypeID]string{
	TinyInt:  "tinyint_null",
	SmallInt: "smallint_null",
	Integer:  "integer_null",
	BigInt:   "bigint_null",
}

// castIntegerTo converts a widened integer to the target type with range
// checking.
func castIntegerTo(from TypeID, raw int64, target TypeID) (Value, error) {
	switch target {
	case TinyInt:
		if raw < math.MinInt8+1 || raw > math.MaxInt8 {
			return Value{}, errOutOfRange(from, raw, target)
		}
		return GetTinyIntValue(int8(raw)), nil
	case SmallInt:
		if raw < math.MinInt16+1 || raw > math.MaxInt16 {
			return Value{}, errOutOfRange(from, raw, target)
		}
		return GetSmallIntValue(int16(raw)), nil
	case Integer:
		if raw < math.MinInt32+1 || raw > math.MaxInt32 {
			return Value{}, errOutOfRange(from, raw, target)
		}
		return GetIntegerValue(int32(raw)), nil
	case BigInt:
		return GetBigIntValue(raw), nil
	case Decimal:
		return GetDecimalValue(float64(raw)), nil
	case Varchar:
		return GetVarcharValue(strconv.FormatInt(raw, 10)), nil
	default:
		return Value{}, errNotCoercible(from, target)
	}
}

// errOutOfRange builds the typed overflow error raised by narrowing
// numeric casts.
func errOutOfRange(from TypeID, raw int64, target TypeID) error {
	return errors.Newf(errors.ErrorTypeOutOfRange,
		"%d overflows %s", raw, target).
		WithDetail("from", from.String()).
		WithDetail("to", target.String())
}

// numericCastTargets names the targets a NULL numeric may cast to.
func numericCastTargets(target TypeID) bool {
	switch target {
	case TinyInt, SmallInt, Integer, BigInt, Decimal, Varchar:
		return true
	}
	return false
}
