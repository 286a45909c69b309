package types

// Constructors for each SQL type. These are the only way consumers
// should build Values; they establish the per-type payload conventions
// (sentinel NULLs, the VARCHAR terminator, the varlen length field).

// GetBooleanValue returns a non-null BOOLEAN.
func GetBooleanValue(b bool) Value {
	return boolValue(b)
}

// GetTinyIntValue returns a non-null TINYINT.
func GetTinyIntValue(i int8) Value {
	return Value{typeID: TinyInt, integer: int64(i)}
}

// GetSmallIntValue returns a non-null SMALLINT.
func GetSmallIntValue(i int16) Value {
	return Value{typeID: SmallInt, integer: int64(i)}
}

// GetIntegerValue returns a non-null INTEGER.
func GetIntegerValue(i int32) Value {
	return Value{typeID: Integer, integer: int64(i)}
}

// GetBigIntValue returns a non-null BIGINT.
func GetBigIntValue(i int64) Value {
	return Value{typeID: BigInt, integer: i}
}

// GetDecimalValue returns a non-null DECIMAL.
func GetDecimalValue(d float64) Value {
	return Value{typeID: Decimal, decimal: d}
}

// GetTimestampValue returns a non-null TIMESTAMP from microseconds since
// the Unix epoch.
func GetTimestampValue(ts uint64) Value {
	return Value{typeID: Timestamp, integer: int64(ts)}
}

// GetDateValue returns a non-null DATE.
func GetDateValue(d uint32) Value {
	return Value{typeID: Date, integer: int64(d)}
}

// GetVarcharValue returns a VARCHAR viewing a copy of s. The stored
// payload carries a trailing NUL and the length field counts it; the
// terminator is not part of the semantic value.
func GetVarcharValue(s string) Value {
	data := make([]byte, len(s)+1)
	copy(data, s)
	return Value{typeID: Varchar, data: data, length: uint32(len(data))}
}

// GetVarcharValueFromBytes returns a VARCHAR viewing data directly.
// data must already carry the trailing terminator counted by length.
// Ownership stays with the caller (or the pool the bytes came from).
func GetVarcharValueFromBytes(data []byte, length uint32) Value {
	return Value{typeID: Varchar, data: data, length: length}
}

// GetVarbinaryValue returns a VARBINARY viewing b directly. Ownership
// stays with the caller.
func GetVarbinaryValue(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{typeID: Varbinary, data: b, length: uint32(len(b))}
}

// varlenInfinity backs the +infinity sentinel values; it is non-nil so
// the sentinel is distinguishable from NULL.
var varlenInfinity = []byte{}

// GetMaxVarcharValue returns the VARCHAR +infinity sentinel used as an
// index scan upper bound. It is not NULL; comparisons against it reduce
// to length comparisons.
func GetMaxVarcharValue() Value {
	return Value{typeID: Varchar, data: varlenInfinity, length: VarcharMaxLen}
}

// GetMaxVarbinaryValue returns the VARBINARY +infinity sentinel.
func GetMaxVarbinaryValue() Value {
	return Value{typeID: Varbinary, data: varlenInfinity, length: VarcharMaxLen}
}

// GetNullValueByType returns the NULL value of the given type.
func GetNullValueByType(id TypeID) Value {
	switch id {
	case Boolean:
		return Value{typeID: Boolean, integer: int64(NullBoolean)}
	case TinyInt:
		return Value{typeID: TinyInt, integer: int64(NullTinyInt)}
	case SmallInt:
		return Value{typeID: SmallInt, integer: int64(NullSmallInt)}
	case Integer:
		return Value{typeID: Integer, integer: int64(NullInteger)}
	case BigInt:
		return Value{typeID: BigInt, integer: NullBigInt}
	case Decimal:
		return Value{typeID: Decimal, decimal: NullDecimal}
	case Timestamp:
		nullTS := NullTimestamp
		return Value{typeID: Timestamp, integer: int64(nullTS)}
	case Date:
		return Value{typeID: Date, integer: int64(NullDate)}
	case Varchar:
		return Value{typeID: Varchar}
	case Varbinary:
		return Value{typeID: Varbinary}
	default:
		return Value{typeID: id}
	}
}
