package format

// ErrorCode classifies why a container or an entry could not be decoded.
//
// Error codes are data: they are carried by Error loads and by containers whose
// header failed to decode, never raised as Go errors by the decode path.
type ErrorCode uint8

const (
	NoError             ErrorCode = iota // NoError means decoding succeeded.
	IteratorSetFailure                   // IteratorSetFailure means the cursor rejected the buffer or version.
	IteratorOverrun                      // IteratorOverrun means the nesting depth limit was exceeded.
	FieldIDNotFound                      // FieldIDNotFound means the dictionary has no definition for a field id.
	IncompleteData                       // IncompleteData means the buffer ended before the encoded data did.
	UnsupportedDataType                  // UnsupportedDataType means the wire carried a type this codec cannot decode.
	NoSetDefinition                      // NoSetDefinition means a referenced local set definition was not found.
	UnknownError                         // UnknownError means the cursor reported an unclassified failure.
	NoDictionary                         // NoDictionary means a FieldList was decoded without a dictionary.
)

func (c ErrorCode) String() string {
	switch c {
	case NoError:
		return "NoError"
	case IteratorSetFailure:
		return "IteratorSetFailure"
	case IteratorOverrun:
		return "IteratorOverrun"
	case FieldIDNotFound:
		return "FieldIdNotFound"
	case IncompleteData:
		return "IncompleteData"
	case UnsupportedDataType:
		return "UnsupportedDataType"
	case NoSetDefinition:
		return "NoSetDefinition"
	case UnknownError:
		return "UnknownError"
	case NoDictionary:
		return "NoDictionary"
	default:
		return "UnknownError"
	}
}
