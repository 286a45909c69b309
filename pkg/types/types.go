package types

import (
	"github.com/AndryLeon/peloton/pkg/errors"
	"github.com/AndryLeon/peloton/pkg/pool"
)

// TypeID identifies a SQL type. The enumeration is closed; every id maps
// to exactly one handler in the registry.
type TypeID uint8

const (
	// Invalid marks an uninitialized or corrupted value
	Invalid TypeID = iota
	// Boolean is a three-valued SQL boolean
	Boolean
	// TinyInt is a signed 8-bit integer
	TinyInt
	// SmallInt is a signed 16-bit integer
	SmallInt
	// Integer is a signed 32-bit integer
	Integer
	// BigInt is a signed 64-bit integer
	BigInt
	// Decimal is a double-precision floating point number
	Decimal
	// Timestamp is microseconds since the Unix epoch, unsigned
	Timestamp
	// Date is a day number, unsigned
	Date
	// Varchar is a variable-length character string
	Varchar
	// Varbinary is a variable-length opaque byte string
	Varbinary
	// Array is reserved; its handler rejects every operation
	Array
)

// typeNames is indexed by TypeID.
var typeNames = [...]string{
	"INVALID", "BOOLEAN", "TINYINT", "SMALLINT", "INTEGER", "BIGINT",
	"DECIMAL", "TIMESTAMP", "DATE", "VARCHAR", "VARBINARY", "ARRAY",
}

// String returns the SQL name of the type.
func (id TypeID) String() string {
	if int(id) < len(typeNames) {
		return typeNames[id]
	}
	return "UNKNOWN"
}

// Size returns the width in bytes a value of this type occupies in a
// fixed tuple slot. Variable-length types occupy one pointer-sized word.
func (id TypeID) Size() int {
	switch id {
	case Boolean, TinyInt:
		return 1
	case SmallInt:
		return 2
	case Integer, Date:
		return 4
	case BigInt, Decimal, Timestamp:
		return 8
	case Varchar, Varbinary:
		return 8
	default:
		return 0
	}
}

// Type is the per-TypeID handler providing the closed operation set.
// Handlers are stateless; all mutable state lives in Value. Comparison
// operators return a BOOLEAN Value, which is NULL when SQL three-valued
// logic calls for it.
type Type interface {
	// ID returns the type id this handler serves.
	ID() TypeID

	// Comparison functions
	CompareEquals(left, right Value) (Value, error)
	CompareNotEquals(left, right Value) (Value, error)
	CompareLessThan(left, right Value) (Value, error)
	CompareLessThanEquals(left, right Value) (Value, error)
	CompareGreaterThan(left, right Value) (Value, error)
	CompareGreaterThanEquals(left, right Value) (Value, error)

	// IsInlined reports whether the payload fits in the fixed tuple slot.
	IsInlined(v Value) bool

	// ToString renders the value for debugging and VARCHAR casts.
	ToString(v Value) string

	// Hash computes a 64-bit hash; equal values of the same type hash
	// equally.
	Hash(v Value) uint64
	// HashCombine folds the value's hash into seed.
	HashCombine(v Value, seed *uint64)

	// SerializeTo appends the value to a byte stream.
	SerializeTo(v Value, out *SerializeOutput) error
	// SerializeToStorage writes the value into a fixed tuple slot,
	// allocating varlen payloads from p (or the process default pool
	// when p is nil).
	SerializeToStorage(v Value, storage []byte, p *pool.VarlenPool) error

	// DeserializeFrom reads a value back from a byte stream.
	DeserializeFrom(in *SerializeInput) (Value, error)
	// DeserializeFromStorage reads a value back from a fixed tuple slot.
	DeserializeFromStorage(storage []byte) (Value, error)

	// Copy returns a value equal under CompareEquals. Varlen copies are
	// shallow views.
	Copy(v Value) Value

	// CastAs converts the value to the target type, or fails with a
	// not-coercible error naming both ids.
	CastAs(v Value, target TypeID) (Value, error)
}

// instances is the process-wide registry. It is populated once, below,
// and never mutated afterwards, so lookups need no synchronization.
var instances = map[TypeID]Type{
	Boolean:   &BooleanType{},
	TinyInt:   &IntegerBaseType{id: TinyInt},
	SmallInt:  &IntegerBaseType{id: SmallInt},
	Integer:   &IntegerBaseType{id: Integer},
	BigInt:    &IntegerBaseType{id: BigInt},
	Decimal:   &DecimalType{},
	Timestamp: &TimestampType{},
	Date:      &DateType{},
	Varchar:   &VarlenType{id: Varchar},
	Varbinary: &VarlenType{id: Varbinary},
	Array:     &ArrayType{},
}

// GetInstance returns the stable handler for a type id, or nil for
// Invalid and unknown ids.
func GetInstance(id TypeID) Type {
	return instances[id]
}

// errUnsupported builds the typed error every handler uses for
// operations it does not provide.
func errUnsupported(id TypeID, op string) error {
	return errors.Newf(errors.ErrorTypeUnsupported, "%s does not support %s", id, op)
}

// errNotCoercible builds the typed error for a disallowed cast, carrying
// both type ids.
func errNotCoercible(from, to TypeID) error {
	return errors.Newf(errors.ErrorTypeNotCoercible, "%s is not coercible to %s", from, to).
		WithDetail("from", from.String()).
		WithDetail("to", to.String())
}

// errMismatch builds the typed error for incomparable operands.
func errMismatch(left, right TypeID) error {
	return errors.Newf(errors.ErrorTypeTypeMismatch, "cannot operate on %s and %s", left, right).
		WithDetail("left", left.String()).
		WithDetail("right", right.String())
}
