package types

import (
	"strconv"

	"github.com/AndryLeon/peloton/pkg/errors"
	"github.com/AndryLeon/peloton/pkg/pool"
)

// IntegerBaseType is the shared handler behind TINYINT, SMALLINT,
// INTEGER and BIGINT. The four registry entries differ only in their id,
// which selects the storage width and the NULL sentinel.
type IntegerBaseType struct {
	id TypeID
}

// ID returns the type id this handler serves.
func (t *IntegerBaseType) ID() TypeID {
	return t.id
}

func (t *IntegerBaseType) compare(left, right Value) (int, bool, error) {
	if err := left.CheckComparable(right); err != nil {
		return 0, false, err
	}
	if left.IsNull() || right.IsNull() {
		return 0, true, nil
	}
	return compareNumericRaw(left, right), false, nil
}

// CompareEquals yields NULL when either operand is NULL.
func (t *IntegerBaseType) CompareEquals(left, right Value) (Value, error) {
	cmp, null, err := t.compare(left, right)
	if err != nil {
		return Value{}, err
	}
	if null {
		return nullBoolean(), nil
	}
	return boolValue(cmp == 0), nil
}

// CompareNotEquals yields NULL only when the right operand is NULL; a
// NULL left compares through its sentinel payload.
func (t *IntegerBaseType) CompareNotEquals(left, right Value) (Value, error) {
	if err := left.CheckComparable(right); err != nil {
		return Value{}, err
	}
	if right.IsNull() {
		return nullBoolean(), nil
	}
	return boolValue(compareNumericRaw(left, right) != 0), nil
}

// CompareLessThan yields NULL when either operand is NULL.
func (t *IntegerBaseType) CompareLessThan(left, right Value) (Value, error) {
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
func (t *IntegerBaseType) CompareLessThanEquals(left, right Value) (Value, error) {
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
func (t *IntegerBaseType) CompareGreaterThan(left, right Value) (Value, error) {
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
func (t *IntegerBaseType) CompareGreaterThanEquals(left, right Value) (Value, error) {
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
func (t *IntegerBaseType) IsInlined(Value) bool {
	return true
}

// ToString renders the integer, or the per-type NULL sentinel string.
func (t *IntegerBaseType) ToString(v Value) string {
	if v.IsNull() {
		return integerNullNames[t.id]
	}
	return strconv.FormatInt(v.integer, 10)
}

// Hash hashes the widened payload so equal values across integer widths
// hash identically.
func (t *IntegerBaseType) Hash(v Value) uint64 {
	return hashUint64(uint64(v.integer))
}

// HashCombine folds the value's hash into seed.
func (t *IntegerBaseType) HashCombine(v Value, seed *uint64) {
	hashCombine(seed, t.Hash(v))
}

// SerializeTo writes the payload at the type's width.
func (t *IntegerBaseType) SerializeTo(v Value, out *SerializeOutput) error {
	switch t.id {
	case TinyInt:
		_ = out.WriteByte(byte(int8(v.integer)))
	case SmallInt:
		out.WriteUint16(uint16(int16(v.integer)))
	case Integer:
		out.WriteUint32(uint32(int32(v.integer)))
	default:
		out.WriteUint64(uint64(v.integer))
	}
	return nil
}

// SerializeToStorage writes the payload into a fixed tuple slot.
func (t *IntegerBaseType) SerializeToStorage(v Value, storage []byte, _ *pool.VarlenPool) error {
	if len(storage) < t.id.Size() {
		return errStorageTooSmall(t.id, len(storage))
	}
	out := SerializeOutput{buf: storage[:0]}
	return t.SerializeTo(v, &out)
}

// DeserializeFrom reads the payload back from a stream.
func (t *IntegerBaseType) DeserializeFrom(in *SerializeInput) (Value, error) {
	switch t.id {
	case TinyInt:
		b, err := in.ReadByte()
		if err != nil {
			return Value{}, err
		}
		return Value{typeID: TinyInt, integer: int64(int8(b))}, nil
	case SmallInt:
		u, err := in.ReadUint16()
		if err != nil {
			return Value{}, err
		}
		return Value{typeID: SmallInt, integer: int64(int16(u))}, nil
	case Integer:
		u, err := in.ReadUint32()
		if err != nil {
			return Value{}, err
		}
		return Value{typeID: Integer, integer: int64(int32(u))}, nil
	default:
		u, err := in.ReadUint64()
		if err != nil {
			return Value{}, err
		}
		return Value{typeID: BigInt, integer: int64(u)}, nil
	}
}

// DeserializeFromStorage reads the payload back from a fixed tuple slot.
func (t *IntegerBaseType) DeserializeFromStorage(storage []byte) (Value, error) {
	if len(storage) < t.id.Size() {
		return Value{}, errStorageTooSmall(t.id, len(storage))
	}
	return t.DeserializeFrom(NewSerializeInput(storage[:t.id.Size()]))
}

// Copy returns the value itself; fixed-width values have value
// semantics.
func (t *IntegerBaseType) Copy(v Value) Value {
	return v
}

// CastAs converts to another numeric type or VARCHAR.
func (t *IntegerBaseType) CastAs(v Value, target TypeID) (Value, error) {
	if target == t.id {
		return v, nil
	}
	if v.IsNull() {
		if numericCastTargets(target) {
			return GetNullValueByType(target), nil
		}
		return Value{}, errNotCoercible(t.id, target)
	}
	return castIntegerTo(t.id, v.integer, target)
}

// errStorageTooSmall builds the invariant error for an undersized tuple
// slot.
func errStorageTooSmall(id TypeID, got int) error {
	return errors.Newf(errors.ErrorTypeInvariant,
		"tuple slot too small for %s: need %d bytes, have %d", id, id.Size(), got)
}
