package format

import "strconv"

type (
	// Timeliness is the timeliness component of a Qos.
	Timeliness uint8
	// Rate is the rate component of a Qos.
	Rate uint8
	// StreamState is the stream component of a State.
	StreamState uint8
	// DataState is the data component of a State.
	DataState uint8
	// StatusCode is the status code of a State.
	StatusCode uint8
)

const (
	TimelinessUnspecified    Timeliness = 0 // TimelinessUnspecified is not set.
	TimelinessRealTime       Timeliness = 1 // TimelinessRealTime is real-time data.
	TimelinessDelayedUnknown Timeliness = 2 // TimelinessDelayedUnknown is delayed by an unknown amount.
	TimelinessDelayed        Timeliness = 3 // TimelinessDelayed is delayed by Qos.TimeInfo seconds.
)

const (
	RateUnspecified   Rate = 0 // RateUnspecified is not set.
	RateTickByTick    Rate = 1 // RateTickByTick delivers every tick.
	RateJitConflated  Rate = 2 // RateJitConflated conflates just in time.
	RateTimeConflated Rate = 3 // RateTimeConflated conflates every Qos.RateInfo milliseconds.
)

const (
	StreamUnspecified   StreamState = 0 // StreamUnspecified is not set.
	StreamOpen          StreamState = 1 // StreamOpen is an open stream.
	StreamNonStreaming  StreamState = 2 // StreamNonStreaming is a snapshot stream.
	StreamClosedRecover StreamState = 3 // StreamClosedRecover is closed and may be recovered.
	StreamClosed        StreamState = 4 // StreamClosed is closed.
	StreamRedirected    StreamState = 5 // StreamRedirected is redirected elsewhere.
)

const (
	DataNoChange DataState = 0 // DataNoChange leaves data state unchanged.
	DataOk       DataState = 1 // DataOk is healthy data.
	DataSuspect  DataState = 2 // DataSuspect is stale or suspect data.
)

const (
	StatusNone            StatusCode = 0  // StatusNone is carried when no specific status applies.
	StatusNotFound        StatusCode = 1  // StatusNotFound means the item does not exist.
	StatusTimeout         StatusCode = 2  // StatusTimeout means the request timed out.
	StatusNotAuthorized   StatusCode = 3  // StatusNotAuthorized means the user lacks permission.
	StatusInvalidArgument StatusCode = 4  // StatusInvalidArgument means the request was malformed.
	StatusUsageError      StatusCode = 5  // StatusUsageError means the request was used incorrectly.
	StatusPreempted       StatusCode = 6  // StatusPreempted means the stream was preempted.
	StatusJitConflation   StatusCode = 7  // StatusJitConflation means just-in-time conflation started.
	StatusTickByTick      StatusCode = 8  // StatusTickByTick means tick-by-tick delivery resumed.
	StatusFailoverStarted StatusCode = 9  // StatusFailoverStarted means a failover began.
	StatusFailoverDone    StatusCode = 10 // StatusFailoverDone means a failover completed.
	StatusGapDetected     StatusCode = 11 // StatusGapDetected means a gap was detected in the data.
)

// IsValid reports whether the timeliness is defined.
func (t Timeliness) IsValid() bool { return t <= TimelinessDelayed }

func (t Timeliness) String() string {
	switch t {
	case TimelinessUnspecified:
		return "Unspecified"
	case TimelinessRealTime:
		return "RealTime"
	case TimelinessDelayedUnknown:
		return "InexactDelayed"
	case TimelinessDelayed:
		return "Timeliness"
	default:
		return "Unknown"
	}
}

// IsValid reports whether the rate is defined.
func (r Rate) IsValid() bool { return r <= RateTimeConflated }

func (r Rate) String() string {
	switch r {
	case RateUnspecified:
		return "Unspecified"
	case RateTickByTick:
		return "TickByTick"
	case RateJitConflated:
		return "JustInTimeConflated"
	case RateTimeConflated:
		return "Rate"
	default:
		return "Unknown"
	}
}

// IsValid reports whether the stream state is defined.
func (s StreamState) IsValid() bool { return s <= StreamRedirected }

func (s StreamState) String() string {
	switch s {
	case StreamUnspecified:
		return "Unspecified"
	case StreamOpen:
		return "Open"
	case StreamNonStreaming:
		return "NonStreaming"
	case StreamClosedRecover:
		return "Closed, Recoverable"
	case StreamClosed:
		return "Closed"
	case StreamRedirected:
		return "Closed, Redirected"
	default:
		return "Unknown"
	}
}

// IsValid reports whether the data state is defined.
func (d DataState) IsValid() bool { return d <= DataSuspect }

func (d DataState) String() string {
	switch d {
	case DataNoChange:
		return "No Change"
	case DataOk:
		return "Ok"
	case DataSuspect:
		return "Suspect"
	default:
		return "Unknown"
	}
}

func (c StatusCode) String() string {
	switch c {
	case StatusNone:
		return "None"
	case StatusNotFound:
		return "NotFound"
	case StatusTimeout:
		return "Timeout"
	case StatusNotAuthorized:
		return "NotAuthorized"
	case StatusInvalidArgument:
		return "InvalidArgument"
	case StatusUsageError:
		return "UsageError"
	case StatusPreempted:
		return "Preempted"
	case StatusJitConflation:
		return "JustInTimeConflationStarted"
	case StatusTickByTick:
		return "TickByTickResumed"
	case StatusFailoverStarted:
		return "FailoverStarted"
	case StatusFailoverDone:
		return "FailoverCompleted"
	case StatusGapDetected:
		return "GapDetected"
	default:
		return "StatusCode(" + strconv.Itoa(int(c)) + ")"
	}
}
