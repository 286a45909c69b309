package types

import (
	"github.com/AndryLeon/peloton/pkg/pool"
)

// ArrayType keeps the type enumeration closed. Arrays are materialized
// by the expression layer above this library; every operation here
// reports unsupported.
type ArrayType struct{}

// ID returns Array.
func (t *ArrayType) ID() TypeID {
	return Array
}

func (t *ArrayType) CompareEquals(Value, Value) (Value, error) {
	return Value{}, errUnsupported(Array, "comparison")
}

func (t *ArrayType) CompareNotEquals(Value, Value) (Value, error) {
	return Value{}, errUnsupported(Array, "comparison")
}

func (t *ArrayType) CompareLessThan(Value, Value) (Value, error) {
	return Value{}, errUnsupported(Array, "comparison")
}

func (t *ArrayType) CompareLessThanEquals(Value, Value) (Value, error) {
	return Value{}, errUnsupported(Array, "comparison")
}

func (t *ArrayType) CompareGreaterThan(Value, Value) (Value, error) {
	return Value{}, errUnsupported(Array, "comparison")
}

func (t *ArrayType) CompareGreaterThanEquals(Value, Value) (Value, error) {
	return Value{}, errUnsupported(Array, "comparison")
}

func (t *ArrayType) IsInlined(Value) bool {
	return false
}

func (t *ArrayType) ToString(Value) string {
	return "array"
}

func (t *ArrayType) Hash(Value) uint64 {
	return 0
}

func (t *ArrayType) HashCombine(Value, *uint64) {}

func (t *ArrayType) SerializeTo(Value, *SerializeOutput) error {
	return errUnsupported(Array, "serialization")
}

func (t *ArrayType) SerializeToStorage(Value, []byte, *pool.VarlenPool) error {
	return errUnsupported(Array, "serialization")
}

func (t *ArrayType) DeserializeFrom(*SerializeInput) (Value, error) {
	return Value{}, errUnsupported(Array, "deserialization")
}

func (t *ArrayType) DeserializeFromStorage([]byte) (Value, error) {
	return Value{}, errUnsupported(Array, "deserialization")
}

func (t *ArrayType) Copy(v Value) Value {
	return v
}

func (t *ArrayType) CastAs(_ Value, target TypeID) (Value, error) {
	return Value{}, errNotCoercible(Array, target)
}
