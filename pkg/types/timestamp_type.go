package types

import (
	"time"

	"github.com/AndryLeon/peloton/pkg/pool"
)

// timestampLayout is the textual form produced by ToString and accepted
// by the VARCHAR cast, microsecond precision, UTC.
const timestampLayout = "2006-01-02 15:04:05.000000"

// TimestampType handles TIMESTAMP values: microseconds since the Unix
// epoch stored as an unsigned 64-bit word, with the maximum value
// reserved for NULL.
type TimestampType struct{}

// ID returns Timestamp.
func (t *TimestampType) ID() TypeID {
	return Timestamp
}

func (t *TimestampType) compare(left, right Value) (int, bool, error) {
	if err := left.CheckComparable(right); err != nil {
		return 0, false, err
	}
	if left.IsNull() || right.IsNull() {
		return 0, true, nil
	}
	return compareTimestampRaw(left, right), false, nil
}

// compareTimestampRaw orders the unsigned payloads; the NULL sentinel
// participates as the maximum value.
func compareTimestampRaw(left, right Value) int {
	a, b := uint64(left.integer), uint64(right.integer)
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
func (t *TimestampType) CompareEquals(left, right Value) (Value, error) {
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
// NULL left compares through its sentinel payload and yields TRUE
// against any finite timestamp.
func (t *TimestampType) CompareNotEquals(left, right Value) (Value, error) {
	if err := left.CheckComparable(right); err != nil {
		return Value{}, err
	}
	if right.IsNull() {
		return nullBoolean(), nil
	}
	return boolValue(compareTimestampRaw(left, right) != 0), nil
}

// CompareLessThan yields NULL when either operand is NULL.
func (t *TimestampType) CompareLessThan(left, right Value) (Value, error) {
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
func (t *TimestampType) CompareLessThanEquals(left, right Value) (Value, error) {
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
func (t *TimestampType) CompareGreaterThan(left, right Value) (Value, error) {
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
func (t *TimestampType) CompareGreaterThanEquals(left, right Value) (Value, error) {
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
func (t *TimestampType) IsInlined(Value) bool {
	return true
}

// ToString renders the timestamp in UTC, or "timestamp_null".
func (t *TimestampType) ToString(v Value) string {
	if v.IsNull() {
		return "timestamp_null"
	}
	return time.UnixMicro(v.integer).UTC().Format(timestampLayout)
}

// Hash hashes the unsigned payload.
func (t *TimestampType) Hash(v Value) uint64 {
	return hashUint64(uint64(v.integer))
}

// HashCombine folds the value's hash into seed.
func (t *TimestampType) HashCombine(v Value, seed *uint64) {
	hashCombine(seed, t.Hash(v))
}

// SerializeTo writes the unsigned payload.
func (t *TimestampType) SerializeTo(v Value, out *SerializeOutput) error {
	out.WriteUint64(uint64(v.integer))
	return nil
}

// SerializeToStorage writes the payload into a fixed tuple slot.
func (t *TimestampType) SerializeToStorage(v Value, storage []byte, _ *pool.VarlenPool) error {
	if len(storage) < Timestamp.Size() {
		return errStorageTooSmall(Timestamp, len(storage))
	}
	out := SerializeOutput{buf: storage[:0]}
	return t.SerializeTo(v, &out)
}

// DeserializeFrom reads the payload back from a stream.
func (t *TimestampType) DeserializeFrom(in *SerializeInput) (Value, error) {
	u, err := in.ReadUint64()
	if err != nil {
		return Value{}, err
	}
	return Value{typeID: Timestamp, integer: int64(u)}, nil
}

// DeserializeFromStorage reads the payload back from a fixed tuple slot.
func (t *TimestampType) DeserializeFromStorage(storage []byte) (Value, error) {
	if len(storage) < Timestamp.Size() {
		return Value{}, errStorageTooSmall(Timestamp, len(storage))
	}
	return t.DeserializeFrom(NewSerializeInput(storage[:Timestamp.Size()]))
}

// Copy returns the value itself.
func (t *TimestampType) Copy(v Value) Value {
	return v
}

// CastAs converts to TIMESTAMP or VARCHAR.
func (t *TimestampType) CastAs(v Value, target TypeID) (Value, error) {
	switch target {
	case Timestamp:
		return v, nil
	case Varchar:
		if v.IsNull() {
			return GetNullValueByType(Varchar), nil
		}
		return GetVarcharValue(t.ToString(v)), nil
	default:
		return Value{}, errNotCoercible(Timestamp, target)
	}
}

// parseTimestamp converts the textual form back to microseconds.
func parseTimestamp(s string) (uint64, bool) {
	for _, layout := range []string{timestampLayout, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return uint64(ts.UnixMicro()), true
		}
	}
	return 0, false
}
