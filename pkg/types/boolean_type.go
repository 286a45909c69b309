package types

import (
	"github.com/AndryLeon/peloton/pkg/pool"
)

// BooleanType handles the three-valued SQL BOOLEAN. The payload is 1
// for TRUE, 0 for FALSE, and the int8 sentinel for NULL.
type BooleanType struct{}

// ID returns Boolean.
func (t *BooleanType) ID() TypeID {
	return Boolean
}

func (t *BooleanType) compare(left, right Value) (int, bool, error) {
	if err := left.CheckComparable(right); err != nil {
		return 0, false, err
	}
	if left.IsNull() || right.IsNull() {
		return 0, true, nil
	}
	switch {
	case left.integer < right.integer:
		return -1, false, nil
	case left.integer > right.integer:
		return 1, false, nil
	default:
		return 0, false, nil
	}
}

// CompareEquals yields NULL when either operand is NULL.
func (t *BooleanType) CompareEquals(left, right Value) (Value, error) {
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
func (t *BooleanType) CompareNotEquals(left, right Value) (Value, error) {
	if err := left.CheckComparable(right); err != nil {
		return Value{}, err
	}
	if right.IsNull() {
		return nullBoolean(), nil
	}
	return boolValue(left.integer != right.integer), nil
}

// CompareLessThan yields NULL when either operand is NULL.
func (t *BooleanType) CompareLessThan(left, right Value) (Value, error) {
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
func (t *BooleanType) CompareLessThanEquals(left, right Value) (Value, error) {
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
func (t *BooleanType) CompareGreaterThan(left, right Value) (Value, error) {
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
func (t *BooleanType) CompareGreaterThanEquals(left, right Value) (Value, error) {
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
func (t *BooleanType) IsInlined(Value) bool {
	return true
}

// ToString renders "true", "false" or "boolean_null".
func (t *BooleanType) ToString(v Value) string {
	if v.IsNull() {
		return "boolean_null"
	}
	if v.integer == 1 {
		return "true"
	}
	return "false"
}

// Hash hashes the canonical payload.
func (t *BooleanType) Hash(v Value) uint64 {
	return hashUint64(uint64(v.integer))
}

// HashCombine folds the value's hash into seed.
func (t *BooleanType) HashCombine(v Value, seed *uint64) {
	hashCombine(seed, t.Hash(v))
}

// SerializeTo writes a single byte.
func (t *BooleanType) SerializeTo(v Value, out *SerializeOutput) error {
	return out.WriteByte(byte(int8(v.integer)))
}

// SerializeToStorage writes the payload into a fixed tuple slot.
func (t *BooleanType) SerializeToStorage(v Value, storage []byte, _ *pool.VarlenPool) error {
	if len(storage) < Boolean.Size() {
		return errStorageTooSmall(Boolean, len(storage))
	}
	storage[0] = byte(int8(v.integer))
	return nil
}

// DeserializeFrom reads a single byte back.
func (t *BooleanType) DeserializeFrom(in *SerializeInput) (Value, error) {
	b, err := in.ReadByte()
	if err != nil {
		return Value{}, err
	}
	return Value{typeID: Boolean, integer: int64(int8(b))}, nil
}

// DeserializeFromStorage reads the payload back from a fixed tuple slot.
func (t *BooleanType) DeserializeFromStorage(storage []byte) (Value, error) {
	if len(storage) < Boolean.Size() {
		return Value{}, errStorageTooSmall(Boolean, len(storage))
	}
	return Value{typeID: Boolean, integer: int64(int8(storage[0]))}, nil
}

// Copy returns the value itself.
func (t *BooleanType) Copy(v Value) Value {
	return v
}

// CastAs converts to BOOLEAN or VARCHAR.
func (t *BooleanType) CastAs(v Value, target TypeID) (Value, error) {
	switch target {
	case Boolean:
		return v, nil
	case Varchar:
		if v.IsNull() {
			return GetNullValueByType(Varchar), nil
		}
		return GetVarcharValue(t.ToString(v)), nil
	default:
		return Value{}, errNotCoercible(Boolean, target)
	}
}
