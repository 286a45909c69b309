package types

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
	"unsafe"

	"github.com/cespare/xxhash/v2"

	"github.com/AndryLeon/peloton/pkg/errors"
	"github.com/AndryLeon/peloton/pkg/pool"
)

// varlenHeaderSize is the u32 length word preceding the payload in tuple
// storage.
const varlenHeaderSize = 4

// VarlenType handles VARCHAR and VARBINARY. A varlen Value is a
// (data, length) view; in tuple storage the column is a pointer-sized
// word addressing a pool allocation laid out as a u32 length followed by
// the payload. VARCHAR payloads carry a trailing NUL counted by the
// length field; VARBINARY payloads are opaque.
type VarlenType struct {
	id TypeID
}

// ID returns the type id this handler serves.
func (t *VarlenType) ID() TypeID {
	return t.id
}

// compareVarlenRaw orders two byte ranges: unsigned lexicographic over
// the common prefix, shorter sorts less on a tie.
func compareVarlenRaw(left, right Value) int {
	l1, l2 := int(left.length), int(right.length)
	min := l1
	if l2 < min {
		min = l2
	}
	if cmp := bytes.Compare(left.data[:min], right.data[:min]); cmp != 0 {
		return cmp
	}
	switch {
	case l1 < l2:
		return -1
	case l1 > l2:
		return 1
	default:
		return 0
	}
}

// compare resolves NULLs and the +infinity length sentinel before
// falling back to byte comparison. When either side carries the
// sentinel, the comparison reduces to a comparison of the length fields.
func (t *VarlenType) compare(left, right Value) (int, bool, error) {
	if err := left.CheckComparable(right); err != nil {
		return 0, false, err
	}
	if left.IsNull() || right.IsNull() {
		return 0, true, nil
	}
	if left.length == VarcharMaxLen || right.length == VarcharMaxLen {
		switch {
		case left.length < right.length:
			return -1, false, nil
		case left.length > right.length:
			return 1, false, nil
		default:
			return 0, false, nil
		}
	}
	return compareVarlenRaw(left, right), false, nil
}

// CompareEquals yields NULL when either operand is NULL.
func (t *VarlenType) CompareEquals(left, right Value) (Value, error) {
	cmp, null, err := t.compare(left, right)
	if err != nil {
		return Value{}, err
	}
	if null {
		return nullBoolean(), nil
	}
	return boolValue(cmp == 0), nil
}

// CompareNotEquals yields NULL when either operand is NULL.
func (t *VarlenType) CompareNotEquals(left, right Value) (Value, error) {
	cmp, null, err := t.compare(left, right)
	if err != nil {
		return Value{}, err
	}
	if null {
		return nullBoolean(), nil
	}
	return boolValue(cmp != 0), nil
}

// CompareLessThan yields NULL when either operand is NULL.
func (t *VarlenType) CompareLessThan(left, right Value) (Value, error) {
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
func (t *VarlenType) CompareLessThanEquals(left, right Value) (Value, error) {
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
func (t *VarlenType) CompareGreaterThan(left, right Value) (Value, error) {
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
func (t *VarlenType) CompareGreaterThanEquals(left, right Value) (Value, error) {
	cmp, null, err := t.compare(left, right)
	if err != nil {
		return Value{}, err
	}
	if null {
		return nullBoolean(), nil
	}
	return boolValue(cmp >= 0), nil
}

// IsInlined is false: varlen payloads never fit the fixed tuple slot.
func (t *VarlenType) IsInlined(Value) bool {
	return false
}

// ToString renders the semantic byte range: the full payload for
// VARBINARY, the payload minus the trailing terminator for VARCHAR.
func (t *VarlenType) ToString(v Value) string {
	if v.IsNull() {
		return "varlen_null"
	}
	if v.length == VarcharMaxLen {
		return "varlen_max"
	}
	if t.id == Varbinary {
		return string(v.data[:v.length])
	}
	if v.length == 0 {
		return ""
	}
	return string(v.data[:v.length-1])
}

// Hash hashes the semantic string form, so a VARCHAR and its terminator
// never disagree with an equal value.
func (t *VarlenType) Hash(v Value) uint64 {
	return xxhash.Sum64String(t.ToString(v))
}

// HashCombine folds the value's hash into seed.
func (t *VarlenType) HashCombine(v Value, seed *uint64) {
	hashCombine(seed, t.Hash(v))
}

// SerializeTo writes a u32 length followed by exactly that many payload
// bytes. The +infinity sentinel has no serialized form.
func (t *VarlenType) SerializeTo(v Value, out *SerializeOutput) error {
	if v.length == VarcharMaxLen {
		return errors.New(errors.ErrorTypeInvariant,
			"varlen length sentinel cannot be serialized")
	}
	out.WriteUint32(v.length)
	if v.length > 0 {
		out.WriteBytes(v.data[:v.length])
	}
	return nil
}

// SerializeToStorage writes a pointer-sized word into the tuple slot
// addressing a fresh allocation holding the length word and the payload.
// The allocation comes from p, or from the process default pool when p
// is nil, so every slot pointer is refcounted and recognizable by a
// pool.
func (t *VarlenType) SerializeToStorage(v Value, storage []byte, p *pool.VarlenPool) error {
	if len(storage) < t.id.Size() {
		return errStorageTooSmall(t.id, len(storage))
	}
	if v.IsNull() {
		binary.LittleEndian.PutUint64(storage, 0)
		return nil
	}
	if v.length == VarcharMaxLen {
		return errors.New(errors.ErrorTypeInvariant,
			"varlen length sentinel cannot be stored in a tuple")
	}
	if p == nil {
		p = pool.Global()
	}
	buf := p.Allocate(int(v.length) + varlenHeaderSize)
	if buf == nil {
		return errors.Newf(errors.ErrorTypeAllocation,
			"pool exhausted allocating %d bytes", int(v.length)+varlenHeaderSize)
	}
	binary.LittleEndian.PutUint32(buf, v.length)
	copy(buf[varlenHeaderSize:], v.data[:v.length])
	binary.LittleEndian.PutUint64(storage, uint64(uintptr(unsafe.Pointer(&buf[0]))))
	return nil
}

// DeserializeFrom reads a u32 length and that many payload bytes. The
// returned value aliases the input stream.
func (t *VarlenType) DeserializeFrom(in *SerializeInput) (Value, error) {
	length, err := in.ReadUint32()
	if err != nil {
		return Value{}, err
	}
	data, err := in.ReadBytes(int(length))
	if err != nil {
		return Value{}, err
	}
	return Value{typeID: t.id, data: data, length: length}, nil
}

// DeserializeFromStorage reads the slot's pointer word and returns a
// value viewing the stored payload. A zero word yields NULL. The view
// takes no reference; the slot keeps its own.
func (t *VarlenType) DeserializeFromStorage(storage []byte) (Value, error) {
	if len(storage) < t.id.Size() {
		return Value{}, errStorageTooSmall(t.id, len(storage))
	}
	addr := binary.LittleEndian.Uint64(storage)
	if addr == 0 {
		return Value{typeID: t.id}, nil
	}
	// The pool keeps the slab reachable, so rebuilding a view from the
	// stored address is safe for as long as the slot holds a reference.
	hdr := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), varlenHeaderSize) //nolint:govet
	length := binary.LittleEndian.Uint32(hdr)
	data := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr)+varlenHeaderSize)), int(length)) //nolint:govet
	return Value{typeID: t.id, data: data, length: length}, nil
}

// DoShallowCopy copies a serialized varlen slot into another slot and
// bumps the pool reference count, so both tuples share one payload.
// The source slot must have been serialized through a pool.
func (t *VarlenType) DoShallowCopy(dest, src []byte, p *pool.VarlenPool) error {
	if p == nil {
		return errors.New(errors.ErrorTypeInvariant,
			"shallow copy requires the pool that owns the source slot")
	}
	if len(dest) < t.id.Size() || len(src) < t.id.Size() {
		return errStorageTooSmall(t.id, len(dest))
	}
	addr := binary.LittleEndian.Uint64(src)
	binary.LittleEndian.PutUint64(dest, addr)
	if addr != 0 {
		payload := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), 1) //nolint:govet
		p.AddRef(payload)
	}
	return nil
}

// ReleaseStorage drops the reference held by a serialized varlen slot
// and zeroes the slot. It is the counterpart of SerializeToStorage and
// DoShallowCopy.
func (t *VarlenType) ReleaseStorage(storage []byte, p *pool.VarlenPool) {
	if p == nil || len(storage) < t.id.Size() {
		return
	}
	addr := binary.LittleEndian.Uint64(storage)
	if addr == 0 {
		return
	}
	payload := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), 1) //nolint:govet
	p.Free(payload)
	binary.LittleEndian.PutUint64(storage, 0)
}

// Copy returns a shallow view of the same payload. Ownership stays with
// the pool refcount, not the Value.
func (t *VarlenType) Copy(v Value) Value {
	return Value{typeID: t.id, data: v.data, length: v.length}
}

// CastAs parses the semantic string form into the target type, or
// reinterprets between the two varlen types.
func (t *VarlenType) CastAs(v Value, target TypeID) (Value, error) {
	if v.IsNull() {
		if varlenCastTargets(target) {
			return GetNullValueByType(target), nil
		}
		return Value{}, errNotCoercible(t.id, target)
	}
	s := t.ToString(v)
	switch target {
	case Boolean:
		return castVarlenToBoolean(t.id, s)
	case TinyInt, SmallInt, Integer, BigInt:
		raw, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return Value{}, errors.Newf(errors.ErrorTypeData,
				"cannot parse %q as %s", s, target)
		}
		return castIntegerTo(t.id, raw, target)
	case Timestamp:
		ts, ok := parseTimestamp(strings.TrimSpace(s))
		if !ok {
			return Value{}, errors.Newf(errors.ErrorTypeData,
				"cannot parse %q as TIMESTAMP", s)
		}
		return GetTimestampValue(ts), nil
	case Varchar:
		if t.id == Varchar {
			return t.Copy(v), nil
		}
		return GetVarcharValue(s), nil
	case Varbinary:
		if t.id == Varbinary {
			return t.Copy(v), nil
		}
		b := make([]byte, len(s))
		copy(b, s)
		return GetVarbinaryValue(b), nil
	default:
		return Value{}, errNotCoercible(t.id, target)
	}
}

// varlenCastTargets names the targets a NULL varlen may cast to.
func varlenCastTargets(target TypeID) bool {
	switch target {
	case Boolean, TinyInt, SmallInt, Integer, BigInt, Timestamp, Varchar, Varbinary:
		return true
	}
	return false
}

// castVarlenToBoolean accepts the usual textual boolean spellings.
func castVarlenToBoolean(from TypeID, s string) (Value, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "yes":
		return GetBooleanValue(true), nil
	case "false", "f", "0", "no":
		return GetBooleanValue(false), nil
	default:
		return Value{}, errors.Newf(errors.ErrorTypeData,
			"cannot parse %q as BOOLEAN", s).
			WithDetail("from", from.String())
	}
}
