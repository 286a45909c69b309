package types

import (
	"math"
	"strconv"

	"github.com/AndryLeon/peloton/pkg/errors"
	"github.com/AndryLeon/peloton/pkg/pool"
)

// DecimalType handles double-precision DECIMAL values.
type DecimalType struct{}

// ID returns Decimal.
func (t *DecimalType) ID() TypeID {
	return Decimal
}

func (t *DecimalType) compare(left, right Value) (int, bool, error) {
	if err := left.CheckComparable(right); err != nil {
		return 0, false, err
	}
	if left.IsNull() || right.IsNull() {
		return 0, true, nil
	}
	return compareNumericRaw(left, right), false, nil
}

// CompareEquals yields NULL when either operand is NULL.
func (t *DecimalType) CompareEquals(left, right Value) (Value, error) {
	cmp, null, err := t.compare(left, right)
	if err != nil {
		return Value{}, err
	}
	if null {
		return nullBoolean(), nil
	}
	return boolValue(cmp == 0), nil
}

// CompareNotEquals yields NULL only when the right operand is NULL.
func (t *DecimalType) CompareNotEquals(left, right Value) (Value, error) {
	if err := left.CheckComparable(right); err != nil {
		return Value{}, err
	}
	if right.IsNull() {
		return nullBoolean(), nil
	}
	return boolValue(compareNumericRaw(left, right) != 0), nil
}

// CompareLessThan yields NULL when either operand is NULL.
func (t *DecimalType) CompareLessThan(left, right Value) (Value, error) {
	cmp, null, err := t.compare(left, right)
	if err != nil {
		return Value{}, err
	}
	if null {
		return nullBoolean(), nil
	}
	return boolValue(cmp < 0), nil
}

// CompareLessThanEquals yields NULL when either operand is NULL.
func (t *DecimalType) CompareLessThanEquals(left, right Value) (Value, error) {
	cmp, null, err := t.compare(left, right)
	if err != nil {
		return Value{}, err
	}
	if null {
		return nullBoolean(), nil
	}
	return boolValue(cmp <= 0), nil
}

// CompareGreaterThan yields NULL when either operand is NULL.
func (t *DecimalType) CompareGreaterThan(left, right Value) (Value, error) {
	cmp, null, err := t.compare(left, right)
	if err != nil {
		return Value{}, err
	}
	if null {
		return nullBoolean(), nil
	}
	return boolValue(cmp > 0), nil
}

// CompareGreaterThanEquals yields NULL when either operand is NULL.
func (t *DecimalType) CompareGreaterThanEquals(left, right Value) (Value, error) {
	cmp, null, err := t.compare(left, right)
	if err != nil {
		return Value{}, err
	}
	if null {
		return nullBoolean(), nil
	}
	return boolValue(cmp >= 0), nil
}

// IsInlined is true for every fixed-width type.
func (t *DecimalType) IsInlined(Value) bool {
	return true
}

// ToString renders the decimal, or "decimal_null".
func (t *DecimalType) ToString(v Value) string {
	if v.IsNull() {
		return "decimal_null"
	}
	return strconv.FormatFloat(v.decimal, 'g', -1, 64)
}

// Hash hashes the float bit pattern.
func (t *DecimalType) Hash(v Value) uint64 {
	return hashUint64(math.Float64bits(v.decimal))
}

// HashCombine folds the value's hash into seed.
func (t *DecimalType) HashCombine(v Value, seed *uint64) {
	hashCombine(seed, t.Hash(v))
}

// SerializeTo writes the float bit pattern.
func (t *DecimalType) SerializeTo(v Value, out *SerializeOutput) error {
	out.WriteUint64(math.Float64bits(v.decimal))
	return nil
}

// SerializeToStorage writes the payload into a fixed tuple slot.
func (t *DecimalType) SerializeToStorage(v Value, storage []byte, _ *pool.VarlenPool) error {
	if len(storage) < Decimal.Size() {
		return errStorageTooSmall(Decimal, len(storage))
	}
	out := SerializeOutput{buf: storage[:0]}
	return t.SerializeTo(v, &out)
}

// DeserializeFrom reads the payload back from a stream.
func (t *DecimalType) DeserializeFrom(in *SerializeInput) (Value, error) {
	bits, err := in.ReadUint64()
	if err != nil {
		return Value{}, err
	}
	return Value{typeID: Decimal, decimal: math.Float64frombits(bits)}, nil
}

// DeserializeFromStorage reads the payload back from a fixed tuple slot.
func (t *DecimalType) DeserializeFromStorage(storage []byte) (Value, error) {
	if len(storage) < Decimal.Size() {
		return Value{}, errStorageTooSmall(Decimal, len(storage))
	}
	return t.DeserializeFrom(NewSerializeInput(storage[:Decimal.Size()]))
}

// Copy returns the value itself.
func (t *DecimalType) Copy(v Value) Value {
	return v
}

// CastAs converts to another numeric type or VARCHAR. Integer targets
// truncate toward zero and range-check.
func (t *DecimalType) CastAs(v Value, target TypeID) (Value, error) {
	if target == Decimal {
		return v, nil
	}
	if v.IsNull() {
		if numericCastTargets(target) {
			return GetNullValueByType(target), nil
		}
		return Value{}, errNotCoercible(Decimal, target)
	}
	switch target {
	case TinyInt, SmallInt, Integer, BigInt:
		d := math.Trunc(v.decimal)
		if d < math.MinInt64 || d > math.MaxInt64 {
			return Value{}, errors.Newf(errors.ErrorTypeOutOfRange,
				"%g overflows %s", v.decimal, target).
				WithDetail("from", Decimal.String()).
				WithDetail("to", target.String())
		}
		return castIntegerTo(Decimal, int64(d), target)
	case Varchar:
		return GetVarcharValue(t.ToString(v)), nil
	default:
		return Value{}, errNotCoercible(Decimal, target)
	}
}
