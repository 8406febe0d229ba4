package format

type (
	// DataType identifies the kind of a value: a primitive, a container, an
	// opaque nested blob, a message envelope or one of the NoData/Error sentinels.
	//
	// Wire kinds use RWF numbering so that an encoded type byte can be converted
	// directly. Message kinds and Error only exist above the wire.
	DataType uint16

	// DataCode marks whether a primitive value carries data or is blank.
	DataCode uint8

	// CompressionType selects the codec used by transport framing.
	CompressionType uint8
)

const (
	Unknown  DataType = 0  // Unknown is the zero value and never appears on a valid wire.
	Int      DataType = 3  // Int is a signed integer of up to 64 bits.
	UInt     DataType = 4  // UInt is an unsigned integer of up to 64 bits.
	Float    DataType = 5  // Float is an IEEE-754 32-bit float.
	Double   DataType = 6  // Double is an IEEE-754 64-bit float.
	Real     DataType = 8  // Real is a fixed-point mantissa with a magnitude hint.
	Date     DataType = 9  // Date is day, month and year.
	Time     DataType = 10 // Time is hour through nanosecond.
	DateTime DataType = 11 // DateTime is a Date followed by a Time.
	Qos      DataType = 12 // Qos is a quality-of-service descriptor.
	State    DataType = 13 // State is a stream/data state with status code and text.
	Enum     DataType = 14 // Enum is a dictionary enumeration value.
	Array    DataType = 15 // Array is a uniform list of primitives.
	Buffer   DataType = 16 // Buffer is an opaque byte string.
	Ascii    DataType = 17 // Ascii is an ASCII string.
	Utf8     DataType = 18 // Utf8 is a UTF-8 string.
	Rmtes    DataType = 19 // Rmtes is an RMTES-encoded string.

	NoData      DataType = 128 // NoData indicates an absent payload.
	Opaque      DataType = 130 // Opaque is an uninterpreted nested blob.
	Xml         DataType = 131 // Xml is an XML document carried as a blob.
	FieldList   DataType = 132 // FieldList is a record keyed by dictionary field ids.
	ElementList DataType = 133 // ElementList is a record keyed by names.
	AnsiPage    DataType = 134 // AnsiPage is an ANSI page carried as a blob.
	FilterList  DataType = 135 // FilterList is a set keyed by small filter ids.
	Vector      DataType = 136 // Vector is a list keyed by position.
	Map         DataType = 137 // Map is a collection keyed by primitive keys.
	Series      DataType = 138 // Series is an ordered list without keys.
	Msg         DataType = 141 // Msg is a nested message on the wire.
	Json        DataType = 142 // Json is a JSON document carried as a blob.

	ReqMsg     DataType = 256 // ReqMsg is a nested request message.
	RefreshMsg DataType = 257 // RefreshMsg is a nested refresh message.
	UpdateMsg  DataType = 258 // UpdateMsg is a nested update message.
	StatusMsg  DataType = 259 // StatusMsg is a nested status message.
	PostMsg    DataType = 260 // PostMsg is a nested post message.
	AckMsg     DataType = 261 // AckMsg is a nested ack message.
	GenericMsg DataType = 262 // GenericMsg is a nested generic message.

	Error DataType = 270 // Error is the load of an entry that failed to decode.
)

const (
	NoCode DataCode = 0 // NoCode indicates the value carries data.
	Blank  DataCode = 1 // Blank indicates the value is blank.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// IsPrimitive reports whether the type is a primitive scalar (Array excluded).
func (t DataType) IsPrimitive() bool {
	switch t { //nolint: exhaustive
	case Int, UInt, Float, Double, Real, Date, Time, DateTime, Qos, State, Enum,
		Buffer, Ascii, Utf8, Rmtes:
		return true
	default:
		return false
	}
}

// IsContainer reports whether the type is one of the six entry-bearing containers.
func (t DataType) IsContainer() bool {
	switch t { //nolint: exhaustive
	case FieldList, ElementList, FilterList, Vector, Map, Series:
		return true
	default:
		return false
	}
}

// IsMessage reports whether the type is a message envelope kind.
func (t DataType) IsMessage() bool {
	return t >= ReqMsg && t <= GenericMsg
}

// IsBlob reports whether values of the type are carried as uninterpreted bytes.
func (t DataType) IsBlob() bool {
	switch t { //nolint: exhaustive
	case Opaque, Xml, AnsiPage, Json, Msg:
		return true
	default:
		return t.IsMessage()
	}
}

// IsStringLike reports whether the type is one of the byte-string kinds.
func (t DataType) IsStringLike() bool {
	return t == Buffer || t == Ascii || t == Utf8 || t == Rmtes
}

// IsWire reports whether the type may appear as a type byte on the wire.
func (t DataType) IsWire() bool {
	return t.IsPrimitive() || t == Array || t.IsContainer() || t == NoData ||
		t == Opaque || t == Xml || t == AnsiPage || t == Msg || t == Json
}

func (t DataType) String() string {
	switch t {
	case Unknown:
		return "Unknown"
	case Int:
		return "Int"
	case UInt:
		return "UInt"
	case Float:
		return "Float"
	case Double:
		return "Double"
	case Real:
		return "Real"
	case Date:
		return "Date"
	case Time:
		return "Time"
	case DateTime:
		return "DateTime"
	case Qos:
		return "Qos"
	case State:
		return "State"
	case Enum:
		return "Enum"
	case Array:
		return "OmmArray"
	case Buffer:
		return "Buffer"
	case Ascii:
		return "Ascii"
	case Utf8:
		return "Utf8"
	case Rmtes:
		return "Rmtes"
	case NoData:
		return "NoData"
	case Opaque:
		return "Opaque"
	case Xml:
		return "Xml"
	case FieldList:
		return "FieldList"
	case ElementList:
		return "ElementList"
	case AnsiPage:
		return "AnsiPage"
	case FilterList:
		return "FilterList"
	case Vector:
		return "Vector"
	case Map:
		return "Map"
	case Series:
		return "Series"
	case Msg:
		return "Msg"
	case Json:
		return "Json"
	case ReqMsg:
		return "ReqMsg"
	case RefreshMsg:
		return "RefreshMsg"
	case UpdateMsg:
		return "UpdateMsg"
	case StatusMsg:
		return "StatusMsg"
	case PostMsg:
		return "PostMsg"
	case AckMsg:
		return "AckMsg"
	case GenericMsg:
		return "GenericMsg"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// ParseDataType converts a name produced by DataType.String back into a DataType.
// Matching is exact; "OmmArray" and "Array" both map to Array.
func ParseDataType(name string) (DataType, bool) {
	if name == "Array" {
		return Array, true
	}

	for _, t := range allDataTypes {
		if t.String() == name {
			return t, true
		}
	}

	return Unknown, false
}

var allDataTypes = []DataType{
	Int, UInt, Float, Double, Real, Date, Time, DateTime, Qos, State, Enum, Array,
	Buffer, Ascii, Utf8, Rmtes, NoData, Opaque, Xml, FieldList, ElementList,
	AnsiPage, FilterList, Vector, Map, Series, Msg, Json, ReqMsg, RefreshMsg,
	UpdateMsg, StatusMsg, PostMsg, AckMsg, GenericMsg, Error,
}

func (c DataCode) String() string {
	switch c {
	case NoCode:
		return "NoCode"
	case Blank:
		return "Blank"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType converts a case-sensitive name ("none", "zstd", "s2", "lz4"
// or the String form) into a CompressionType.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "none", "None", "":
		return CompressionNone, true
	case "zstd", "Zstd":
		return CompressionZstd, true
	case "s2", "S2":
		return CompressionS2, true
	case "lz4", "LZ4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
