package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndryLeon/peloton/pkg/errors"
)

func TestTypeIDString(t *testing.T) {
	assert.Equal(t, "BOOLEAN", Boolean.String())
	assert.Equal(t, "VARCHAR", Varchar.String())
	assert.Equal(t, "INVALID", Invalid.String())
	assert.Equal(t, "UNKNOWN", TypeID(200).String())
}

func TestTypeIDSize(t *testing.T) {
	assert.Equal(t, 1, Boolean.Size())
	assert.Equal(t, 1, TinyInt.Size())
	assert.Equal(t, 2, SmallInt.Size())
	assert.Equal(t, 4, Integer.Size())
	assert.Equal(t, 8, BigInt.Size())
	assert.Equal(t, 8, Decimal.Size())
	assert.Equal(t, 8, Timestamp.Size())
	assert.Equal(t, 4, Date.Size())
	assert.Equal(t, 8, Varchar.Size())
	assert.Equal(t, 8, Varbinary.Size())
}

func TestRegistryIsComplete(t *testing.T) {
	for _, id := range []TypeID{
		Boolean, TinyInt, SmallInt, Integer, BigInt,
		Decimal, Timestamp, Date, Varchar, Varbinary, Array,
	} {
		handler := GetInstance(id)
		require.NotNil(t, handler, "missing handler for %s", id)
		assert.Equal(t, id, handler.ID())
	}
	assert.Nil(t, GetInstance(Invalid))
}

func TestFactoryNulls(t *testing.T) {
	for _, id := range []TypeID{
		Boolean, TinyInt, SmallInt, Integer, BigInt,
		Decimal, Timestamp, Date, Varchar, Varbinary,
	} {
		null := GetNullValueByType(id)
		assert.True(t, null.IsNull(), "%s NULL should be null", id)
		assert.Equal(t, id, null.TypeID())
	}
}

func TestFactoryNonNulls(t *testing.T) {
	for _, v := range []Value{
		GetBooleanValue(true),
		GetBooleanValue(false),
		GetTinyIntValue(-5),
		GetSmallIntValue(1000),
		GetIntegerValue(-100000),
		GetBigIntValue(1 << 40),
		GetDecimalValue(3.25),
		GetTimestampValue(1000000),
		GetDateValue(12345),
		GetVarcharValue(""),
		GetVarbinaryValue([]byte{}),
	} {
		assert.False(t, v.IsNull(), "%s should not be null", v.TypeID())
	}
}

func TestCheckComparableMismatch(t *testing.T) {
	b := GetBooleanValue(true)
	i := GetIntegerValue(1)
	s := GetVarcharValue("1")
	ts := GetTimestampValue(1)

	for _, pair := range [][2]Value{
		{b, i}, {b, s}, {i, s}, {ts, i}, {ts, s}, {GetDateValue(1), ts},
	} {
		err := pair[0].CheckComparable(pair[1])
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))

		_, err = pair[0].CompareEquals(pair[1])
		assert.Error(t, err)
	}
}

func TestNumericCrossWidthComparison(t *testing.T) {
	five8 := GetTinyIntValue(5)
	five64 := GetBigIntValue(5)
	fiveDec := GetDecimalValue(5.0)
	six16 := GetSmallIntValue(6)

	assert.True(t, applyCompare(t, opEqual, five8, five64).IsTrue())
	assert.True(t, applyCompare(t, opEqual, five8, fiveDec).IsTrue())
	assert.True(t, applyCompare(t, opLessThan, five64, six16).IsTrue())
	assert.True(t, applyCompare(t, opGreaterThanEquals, six16, fiveDec).IsTrue())
}

func TestIntegerNullPropagation(t *testing.T) {
	v := GetIntegerValue(7)
	null := GetNullValueByType(Integer)

	for _, op := range []compareOp{opEqual, opLessThan, opLessThanEquals, opGreaterThan, opGreaterThanEquals} {
		assert.True(t, applyCompare(t, op, v, null).IsNull())
		assert.True(t, applyCompare(t, op, null, v).IsNull())
		assert.True(t, applyCompare(t, op, null, null).IsNull())
	}

	// NotEquals is NULL only when the right operand is NULL.
	assert.True(t, applyCompare(t, opNotEqual, v, null).IsNull())
	assert.True(t, applyCompare(t, opNotEqual, null, null).IsNull())
	assert.False(t, applyCompare(t, opNotEqual, null, v).IsNull())
	assert.True(t, applyCompare(t, opNotEqual, null, v).IsTrue())
}

func TestCastClosure(t *testing.T) {
	values := []Value{
		GetBooleanValue(true),
		GetTinyIntValue(7),
		GetSmallIntValue(7),
		GetIntegerValue(7),
		GetBigIntValue(7),
		GetDecimalValue(7.5),
		GetTimestampValue(7),
		GetDateValue(7),
		GetVarcharValue("seven"),
		GetVarbinaryValue([]byte("seven")),
	}
	for _, v := range values {
		cast, err := v.CastAs(v.TypeID())
		require.NoError(t, err, "%s", v.TypeID())
		cmp, err := v.CompareEquals(cast)
		require.NoError(t, err)
		assert.True(t, cmp.IsTrue(), "%s cast to itself should compare equal", v.TypeID())
	}
}

func TestIntegerCastMatrix(t *testing.T) {
	v := GetIntegerValue(120)

	for _, target := range []TypeID{TinyInt, SmallInt, Integer, BigInt} {
		cast, err := v.CastAs(target)
		require.NoError(t, err)
		assert.Equal(t, target, cast.TypeID())
		cmp, err := cast.CompareEquals(GetBigIntValue(120))
		require.NoError(t, err)
		assert.True(t, cmp.IsTrue())
	}

	dec, err := v.CastAs(Decimal)
	require.NoError(t, err)
	assert.Equal(t, Decimal, dec.TypeID())

	str, err := v.CastAs(Varchar)
	require.NoError(t, err)
	assert.Equal(t, "120", str.ToString())

	_, err = v.CastAs(Boolean)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotCoercible))

	_, err = GetIntegerValue(1000).CastAs(TinyInt)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
}

func TestDecimalCasts(t *testing.T) {
	v := GetDecimalValue(42.9)

	i, err := v.CastAs(Integer)
	require.NoError(t, err)
	cmp, err := i.CompareEquals(GetIntegerValue(42))
	require.NoError(t, err)
	assert.True(t, cmp.IsTrue(), "decimal to integer truncates toward zero")

	s, err := v.CastAs(Varchar)
	require.NoError(t, err)
	assert.Equal(t, "42.9", s.ToString())

	_, err = v.CastAs(Timestamp)
	assert.Error(t, err)
}

func TestNullCastKeepsNull(t *testing.T) {
	null := GetNullValueByType(Integer)

	for _, target := range []TypeID{TinyInt, SmallInt, Integer, BigInt, Decimal, Varchar} {
		cast, err := null.CastAs(target)
		require.NoError(t, err)
		assert.True(t, cast.IsNull())
		assert.Equal(t, target, cast.TypeID())
	}

	_, err := null.CastAs(Timestamp)
	assert.Error(t, err)
}

func TestNumericHashLaw(t *testing.T) {
	a := GetIntegerValue(99)
	b := GetIntegerValue(99)
	assert.Equal(t, a.Hash(), b.Hash())

	// Equal across widths hashes equally too: both widen to the same
	// canonical payload.
	c := GetBigIntValue(99)
	assert.Equal(t, a.Hash(), c.Hash())

	d := GetIntegerValue(100)
	assert.NotEqual(t, a.Hash(), d.Hash())
}

func TestHashCombineOrderMatters(t *testing.T) {
	a := GetIntegerValue(1)
	b := GetIntegerValue(2)

	seed1 := uint64(0)
	a.HashCombine(&seed1)
	b.HashCombine(&seed1)

	seed2 := uint64(0)
	b.HashCombine(&seed2)
	a.HashCombine(&seed2)

	assert.NotEqual(t, seed1, seed2)
}

func TestBooleanSemantics(t *testing.T) {
	tr := GetBooleanValue(true)
	fa := GetBooleanValue(false)
	null := GetNullValueByType(Boolean)

	assert.True(t, tr.IsTrue())
	assert.True(t, fa.IsFalse())
	assert.False(t, null.IsTrue())
	assert.False(t, null.IsFalse())

	assert.Equal(t, "true", tr.ToString())
	assert.Equal(t, "false", fa.ToString())
	assert.Equal(t, "boolean_null", null.ToString())

	assert.True(t, applyCompare(t, opLessThan, fa, tr).IsTrue())
	assert.True(t, applyCompare(t, opEqual, tr, tr).IsTrue())

	s, err := tr.CastAs(Varchar)
	require.NoError(t, err)
	assert.Equal(t, "true", s.ToString())

	back, err := s.CastAs(Boolean)
	require.NoError(t, err)
	assert.True(t, back.IsTrue())

	_, err = tr.CastAs(Integer)
	assert.Error(t, err)
}

func TestFixedStreamRoundTrips(t *testing.T) {
	values := []Value{
		GetBooleanValue(true),
		GetTinyIntValue(-7),
		GetSmallIntValue(-30000),
		GetIntegerValue(123456789),
		GetBigIntValue(-1 << 60),
		GetDecimalValue(2.718281828),
		GetDateValue(20240101),
	}
	for _, v := range values {
		out := NewSerializeOutput(16)
		require.NoError(t, v.SerializeTo(out))

		back, err := GetInstance(v.TypeID()).DeserializeFrom(NewSerializeInput(out.Bytes()))
		require.NoError(t, err)
		cmp, err := v.CompareEquals(back)
		require.NoError(t, err)
		assert.True(t, cmp.IsTrue(), "%s stream round trip", v.TypeID())
	}
}

func TestFixedStorageRoundTrips(t *testing.T) {
	values := []Value{
		GetBooleanValue(false),
		GetTinyIntValue(12),
		GetSmallIntValue(-2),
		GetIntegerValue(-1),
		GetBigIntValue(42),
		GetDecimalValue(-0.5),
		GetDateValue(1),
	}
	for _, v := range values {
		slot := make([]byte, v.TypeID().Size())
		require.NoError(t, v.SerializeToStorage(slot, nil))

		back, err := GetInstance(v.TypeID()).DeserializeFromStorage(slot)
		require.NoError(t, err)
		cmp, err := v.CompareEquals(back)
		require.NoError(t, err)
		assert.True(t, cmp.IsTrue(), "%s storage round trip", v.TypeID())
		assert.True(t, v.IsInlined())
	}
}

func TestStorageTooSmall(t *testing.T) {
	v := GetBigIntValue(1)
	err := v.SerializeToStorage(make([]byte, 4), nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvariant))
}

func TestTruncatedStream(t *testing.T) {
	in := NewSerializeInput([]byte{1, 2})
	_, err := GetInstance(BigInt).DeserializeFrom(in)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestArrayRejectsOperations(t *testing.T) {
	handler := GetInstance(Array)
	require.NotNil(t, handler)

	_, err := handler.CompareEquals(Value{}, Value{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupported))

	_, err = handler.CastAs(Value{}, Varchar)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotCoercible))
}

func TestIntegerToString(t *testing.T) {
	assert.Equal(t, "-42", GetTinyIntValue(-42).ToString())
	assert.Equal(t, "tinyint_null", GetNullValueByType(TinyInt).ToString())
	assert.Equal(t, "smallint_null", GetNullValueByType(SmallInt).ToString())
	assert.Equal(t, "integer_null", GetNullValueByType(Integer).ToString())
	assert.Equal(t, "bigint_null", GetNullValueByType(BigInt).ToString())
	assert.Equal(t, "decimal_null", GetNullValueByType(Decimal).ToString())
	assert.Equal(t, "date_null", GetNullValueByType(Date).ToString())
}
