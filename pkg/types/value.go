package types

import (
	"math"

	"github.com/AndryLeon/peloton/pkg/errors"
	"github.com/AndryLeon/peloton/pkg/pool"
)

// Per-type NULL sentinels. A fixed-width value is NULL when its payload
// equals the sentinel for its type; a varlen value is NULL when its data
// pointer is nil.
const (
	NullBoolean  int8    = math.MinInt8
	NullTinyInt  int8    = math.MinInt8
	NullSmallInt int16   = math.MinInt16
	NullInteger  int32   = math.MinInt32
	NullBigInt   int64   = math.MinInt64
	NullDecimal  float64 = -math.MaxFloat64
)

// NullTimestamp is the TIMESTAMP NULL sentinel, the maximum unsigned
// 64-bit value.
const NullTimestamp uint64 = math.MaxUint64

// NullDate is the DATE NULL sentinel.
const NullDate uint32 = math.MaxUint32

// VarcharMaxLen is the varlen length sentinel. A value carrying it
// compares greater than every finite-length value; index scans use it as
// the +infinity key.
const VarcharMaxLen uint32 = math.MaxUint32

// Value is a tagged SQL value: a TypeID plus a payload. Fixed-width
// payloads live in the integer/decimal words; variable-length payloads
// are a (data, length) view into caller memory or a pool allocation.
// Values are plain data with trivial lifetime; varlen payload ownership
// is conveyed by the pool's reference count, not by the Value.
type Value struct {
	typeID  TypeID
	integer int64
	decimal float64
	data    []byte
	length  uint32
}

// TypeID returns the value's type id.
func (v Value) TypeID() TypeID {
	return v.typeID
}

// IsNull reports whether the value is SQL NULL.
func (v Value) IsNull() bool {
	switch v.typeID {
	case Boolean, TinyInt:
		return int8(v.integer) == NullTinyInt
	case SmallInt:
		return int16(v.integer) == NullSmallInt
	case Integer:
		return int32(v.integer) == NullInteger
	case BigInt:
		return v.integer == NullBigInt
	case Decimal:
		return v.decimal == NullDecimal
	case Timestamp:
		return uint64(v.integer) == NullTimestamp
	case Date:
		return uint32(v.integer) == NullDate
	case Varchar, Varbinary:
		return v.data == nil
	default:
		return true
	}
}

// IsTrue reports whether the value is a non-null BOOLEAN TRUE.
func (v Value) IsTrue() bool {
	return v.typeID == Boolean && v.integer == 1
}

// IsFalse reports whether the value is a non-null BOOLEAN FALSE.
func (v Value) IsFalse() bool {
	return v.typeID == Boolean && !v.IsNull() && v.integer == 0
}

// GetData returns the varlen payload view. It is nil for NULL varlen
// values and meaningless for fixed-width types.
func (v Value) GetData() []byte {
	return v.data
}

// GetLength returns the varlen length field, including the trailing
// terminator for VARCHAR values.
func (v Value) GetLength() uint32 {
	return v.length
}

// numericFamily reports whether a type participates in widening numeric
// comparison.
func numericFamily(id TypeID) bool {
	switch id {
	case TinyInt, SmallInt, Integer, BigInt, Decimal:
		return true
	}
	return false
}

// CheckComparable returns a type-mismatch error unless the two values
// belong to the same comparison group: booleans together, the numeric
// family together, timestamps together, dates together, and the two
// varlen types together.
func (v Value) CheckComparable(other Value) error {
	a, b := v.typeID, other.typeID
	switch {
	case a == Boolean && b == Boolean:
		return nil
	case numericFamily(a) && numericFamily(b):
		return nil
	case a == Timestamp && b == Timestamp:
		return nil
	case a == Date && b == Date:
		return nil
	case (a == Varchar || a == Varbinary) && (b == Varchar || b == Varbinary):
		return nil
	}
	return errMismatch(a, b)
}

// handler resolves the registry entry for this value's type.
func (v Value) handler() (Type, error) {
	t := GetInstance(v.typeID)
	if t == nil {
		return nil, errors.Newf(errors.ErrorTypeInternal, "no handler for type %s", v.typeID)
	}
	return t, nil
}

// CompareEquals dispatches to the type handler.
func (v Value) CompareEquals(other Value) (Value, error) {
	t, err := v.handler()
	if err != nil {
		return Value{}, err
	}
	return t.CompareEquals(v, other)
}

// CompareNotEquals dispatches to the type handler.
func (v Value) CompareNotEquals(other Value) (Value, error) {
	t, err := v.handler()
	if err != nil {
		return Value{}, err
	}
	return t.CompareNotEquals(v, other)
}

// CompareLessThan dispatches to the type handler.
func (v Value) CompareLessThan(other Value) (Value, error) {
	t, err := v.handler()
	if err != nil {
		return Value{}, err
	}
	return t.CompareLessThan(v, other)
}

// CompareLessThanEquals dispatches to the type handler.
func (v Value) CompareLessThanEquals(other Value) (Value, error) {
	t, err := v.handler()
	if err != nil {
		return Value{}, err
	}
	return t.CompareLessThanEquals(v, other)
}

// CompareGreaterThan dispatches to the type handler.
func (v Value) CompareGreaterThan(other Value) (Value, error) {
	t, err := v.handler()
	if err != nil {
		return Value{}, err
	}
	return t.CompareGreaterThan(v, other)
}

// CompareGreaterThanEquals dispatches to the type handler.
func (v Value) CompareGreaterThanEquals(other Value) (Value, error) {
	t, err := v.handler()
	if err != nil {
		return Value{}, err
	}
	return t.CompareGreaterThanEquals(v, other)
}

// IsInlined reports whether the payload fits the fixed tuple slot.
func (v Value) IsInlined() bool {
	t := GetInstance(v.typeID)
	if t == nil {
		return false
	}
	return t.IsInlined(v)
}

// ToString renders the value for debugging and VARCHAR casts.
func (v Value) ToString() string {
	t := GetInstance(v.typeID)
	if t == nil {
		return "invalid"
	}
	return t.ToString(v)
}

// Hash computes the value's 64-bit hash.
func (v Value) Hash() uint64 {
	t := GetInstance(v.typeID)
	if t == nil {
		return 0
	}
	return t.Hash(v)
}

// HashCombine folds the value's hash into seed.
func (v Value) HashCombine(seed *uint64) {
	t := GetInstance(v.typeID)
	if t == nil {
		return
	}
	t.HashCombine(v, seed)
}

// SerializeTo appends the value to a byte stream.
func (v Value) SerializeTo(out *SerializeOutput) error {
	t, err := v.handler()
	if err != nil {
		return err
	}
	return t.SerializeTo(v, out)
}

// SerializeToStorage writes the value into a fixed tuple slot.
func (v Value) SerializeToStorage(storage []byte, p *pool.VarlenPool) error {
	t, err := v.handler()
	if err != nil {
		return err
	}
	return t.SerializeToStorage(v, storage, p)
}

// Copy returns a value equal under CompareEquals.
func (v Value) Copy() Value {
	t := GetInstance(v.typeID)
	if t == nil {
		return v
	}
	return t.Copy(v)
}

// CastAs converts the value to the target type.
func (v Value) CastAs(target TypeID) (Value, error) {
	t, err := v.handler()
	if err != nil {
		return Value{}, err
	}
	return t.CastAs(v, target)
}

// hashCombine mixes h into seed. The constant is the 64-bit golden
// ratio, the usual hash_combine mixer.
func hashCombine(seed *uint64, h uint64) {
	*seed ^= h + 0x9e3779b97f4a7c15 + (*seed << 6) + (*seed >> 2)
}

// nullBoolean is the NULL result of a comparison.
func nullBoolean() Value {
	return Value{typeID: Boolean, integer: int64(NullBoolean)}
}

// boolValue wraps a Go bool into a BOOLEAN Value.
func boolValue(b bool) Value {
	if b {
		return Value{typeID: Boolean, integer: 1}
	}
	return Value{typeID: Boolean, integer: 0}
}
