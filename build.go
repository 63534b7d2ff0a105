package shelf

// BuildMode records how a decode target was produced.
type BuildMode uint8

const (
	BuildConstructed BuildMode = iota + 1 // Normal construction path ran.
	BuildDeferred                         // Zero value with the record's data attached; constructor skipped.
	BuildReused                           // Input already was an instance of the target type.
)

func (m BuildMode) String() string {
	switch m {
	case BuildConstructed:
		return "constructed"
	case BuildDeferred:
		return "deferred"
	case BuildReused:
		return "reused"
	}
	return "unknown"
}

// BuildMap maps JSON Pointers of decoded instances to their BuildMode.
type BuildMap map[string]BuildMode

// Constructed carries a decoded value along with build metadata.
type Constructed struct {
	Value  any
	Builds BuildMap
}
