package rwf

// Status is the result code of every cursor operation.
type Status int8

const (
	// Success means the operation completed.
	Success Status = iota
	// Failure means the operation failed for an unclassified reason.
	Failure
	// NoData means the decoded container or primitive is empty or blank.
	NoData
	// EndOfContainer means there are no more entries to decode.
	EndOfContainer
	// BufferTooSmall means the encode buffer cannot hold the next write.
	// Nothing was written; realign to a larger buffer and retry the same call.
	BufferTooSmall
	// IteratorOverrun means the nesting level limit was exceeded.
	IteratorOverrun
	// IncompleteData means the buffer ended before the encoded data did.
	IncompleteData
	// UnsupportedDataType means the wire carried a type the cursor cannot handle.
	UnsupportedDataType
	// SetSkipped means set-defined data was present without a matching definition.
	SetSkipped
	// InvalidArgument means the caller passed an invalid value or used a
	// function out of order.
	InvalidArgument
	// InvalidData means the encoded data violates the wire layout.
	InvalidData
	// VersionNotSupported means the buffer was tagged with an unknown major version.
	VersionNotSupported
)

func (s Status) String() string {
	switch s {
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	case NoData:
		return "NoData"
	case EndOfContainer:
		return "EndOfContainer"
	case BufferTooSmall:
		return "BufferTooSmall"
	case IteratorOverrun:
		return "IteratorOverrun"
	case IncompleteData:
		return "IncompleteData"
	case UnsupportedDataType:
		return "UnsupportedDataType"
	case SetSkipped:
		return "SetSkipped"
	case InvalidArgument:
		return "InvalidArgument"
	case InvalidData:
		return "InvalidData"
	case VersionNotSupported:
		return "VersionNotSupported"
	default:
		return "Unknown"
	}
}

// Text returns a diagnostic sentence for s, used in encode failure errors.
func (s Status) Text() string {
	switch s {
	case Success:
		return "success"
	case BufferTooSmall:
		return "encode buffer too small"
	case IteratorOverrun:
		return "maximum nesting level exceeded"
	case IncompleteData:
		return "buffer ended before the encoded data"
	case UnsupportedDataType:
		return "unsupported data type"
	case SetSkipped:
		return "set definition not found"
	case InvalidArgument:
		return "invalid argument or call out of order"
	case InvalidData:
		return "encoded data violates the wire layout"
	case VersionNotSupported:
		return "protocol version not supported"
	default:
		return "operation failed: " + s.String()
	}
}
