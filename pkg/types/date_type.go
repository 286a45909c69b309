package types

import (
	"strconv"

	"github.com/AndryLeon/peloton/pkg/pool"
)

// DateType handles DATE values: an unsigned 32-bit day number with the
// maximum value reserved for NULL. The encoding of the day number is
// opaque to this layer; only its ordering matters.
type DateType struct{}

// ID returns Date.
func (t *DateType) ID() TypeID {
	return Date
}

func (t *DateType) compare(left, right Value) (int, bool, error) {
	if err := left.CheckComparable(right); err != nil {
		return 0, false, err
	}
	if left.IsNull() || right.IsNull() {
		return 0, true, nil
	}
	return compareDateRaw(left, right), false, nil
}

func compareDateRaw(left, right Value) int {
	a, b := uint32(left.integer), uint32(right.integer)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CompareEquals yields NULL when either operand is NULL.
func (t *DateType) CompareEquals(left, right Value) (Value, error) {
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
func (t *DateType) CompareNotEquals(left, right Value) (Value, error) {
	if err := left.CheckComparable(right); err != nil {
		return Value{}, err
	}
	if right.IsNull() {
		return nullBoolean(), nil
	}
	return boolValue(compareDateRaw(left, right) != 0), nil
}

// CompareLessThan yields NULL when either operand is NULL.
func (t *DateType) CompareLessThan(left, right Value) (Value, error) {
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
func (t *DateType) CompareLessThanEquals(left, right Value) (Value, error) {
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
func (t *DateType) CompareGreaterThan(left, right Value) (Value, error) {
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
func (t *DateType) CompareGreaterThanEquals(left, right Value) (Value, error) {
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
func (t *DateType) IsInlined(Value) bool {
	return true
}

// ToString renders the day number, or "date_null".
func (t *DateType) ToString(v Value) string {
	if v.IsNull() {
		return "date_null"
	}
	return strconv.FormatUint(uint64(uint32(v.integer)), 10)
}

// Hash hashes the unsigned payload.
func (t *DateType) Hash(v Value) uint64 {
	return hashUint64(uint64(uint32(v.integer)))
}

// HashCombine folds the value's hash into seed.
func (t *DateType) HashCombine(v Value, seed *uint64) {
	hashCombine(seed, t.Hash(v))
}

// SerializeTo writes the unsigned payload.
func (t *DateType) SerializeTo(v Value, out *SerializeOutput) error {
	out.WriteUint32(uint32(v.integer))
	return nil
}

// SerializeToStorage writes the payload into a fixed tuple slot.
func (t *DateType) SerializeToStorage(v Value, storage []byte, _ *pool.VarlenPool) error {
	if len(storage) < Date.Size() {
		return errStorageTooSmall(Date, len(storage))
	}
	out := SerializeOutput{buf: storage[:0]}
	return t.SerializeTo(v, &out)
}

// DeserializeFrom reads the payload back from a stream.
func (t *DateType) DeserializeFrom(in *SerializeInput) (Value, error) {
	u, err := in.ReadUint32()
	if err != nil {
		return Value{}, err
	}
	return Value{typeID: Date, integer: int64(u)}, nil
}

// DeserializeFromStorage reads the payload back from a fixed tuple slot.
func (t *DateType) DeserializeFromStorage(storage []byte) (Value, error) {
	if len(storage) < Date.Size() {
		return Value{}, errStorageTooSmall(Date, len(storage))
	}
	return t.DeserializeFrom(NewSerializeInput(storage[:Date.Size()]))
}

// Copy returns the value itself.
func (t *DateType) Copy(v Value) Value {
	return v
}

// CastAs converts to DATE or VARCHAR.
func (t *DateType) CastAs(v Value, target TypeID) (Value, error) {
	switch target {
	case Date:
		return v, nil
	case Varchar:
		if v.IsNull() {
			return GetNullValueByType(Varchar), nil
		}
		return GetVarcharValue(t.ToString(v)), nil
	default:
		return Value{}, errNotCoercible(Date, target)
	}
}
