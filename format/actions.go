package format

type (
	// MapAction is the action carried by a Map entry.
	MapAction uint8
	// VectorAction is the action carried by a Vector entry.
	VectorAction uint8
	// FilterAction is the action carried by a FilterList entry.
	FilterAction uint8
)

const (
	MapUpdate MapAction = 1 // MapUpdate updates an existing row.
	MapAdd    MapAction = 2 // MapAdd adds a row.
	MapDelete MapAction = 3 // MapDelete deletes a row; the entry carries no payload.
)

const (
	VectorUpdate VectorAction = 1 // VectorUpdate updates the entry at the position.
	VectorSet    VectorAction = 2 // VectorSet replaces the entry at the position.
	VectorClear  VectorAction = 3 // VectorClear clears the entry; no payload.
	VectorInsert VectorAction = 4 // VectorInsert inserts at the position.
	VectorDelete VectorAction = 5 // VectorDelete deletes the entry; no payload.
)

const (
	FilterUpdate FilterAction = 1 // FilterUpdate updates the filter entry.
	FilterSet    FilterAction = 2 // FilterSet replaces the filter entry.
	FilterClear  FilterAction = 3 // FilterClear clears the filter entry; no payload.
)

// IsValid reports whether the action is defined.
func (a MapAction) IsValid() bool { return a >= MapUpdate && a <= MapDelete }

// HasPayload reports whether entries with this action carry a load on the wire.
func (a MapAction) HasPayload() bool { return a != MapDelete }

func (a MapAction) String() string {
	switch a {
	case MapUpdate:
		return "Update"
	case MapAdd:
		return "Add"
	case MapDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// IsValid reports whether the action is defined.
func (a VectorAction) IsValid() bool { return a >= VectorUpdate && a <= VectorDelete }

// HasPayload reports whether entries with this action carry a load on the wire.
func (a VectorAction) HasPayload() bool { return a != VectorClear && a != VectorDelete }

func (a VectorAction) String() string {
	switch a {
	case VectorUpdate:
		return "Update"
	case VectorSet:
		return "Set"
	case VectorClear:
		return "Clear"
	case VectorInsert:
		return "Insert"
	case VectorDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// IsValid reports whether the action is defined.
func (a FilterAction) IsValid() bool { return a >= FilterUpdate && a <= FilterClear }

// HasPayload reports whether entries with this action carry a load on the wire.
func (a FilterAction) HasPayload() bool { return a != FilterClear }

func (a FilterAction) String() string {
	switch a {
	case FilterUpdate:
		return "Update"
	case FilterSet:
		return "Set"
	case FilterClear:
		return "Clear"
	default:
		return "Unknown"
	}
}
