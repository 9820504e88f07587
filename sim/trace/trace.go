package trace

// TraceLevel controls the verbosity of allocation tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every allocation decision.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Enabled reports whether the level records anything.
func (l TraceLevel) Enabled() bool {
	return l == TraceLevelDecisions
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// AllocationTrace collects allocation records during a simulation run.
// Not safe for concurrent use; parallel runners record into one trace per
// trial and Merge them afterwards.
type AllocationTrace struct {
	Config      TraceConfig
	Allocations []AllocationRecord
}

// NewAllocationTrace creates an AllocationTrace ready for recording.
func NewAllocationTrace(config TraceConfig) *AllocationTrace {
	return &AllocationTrace{
		Config:      config,
		Allocations: make([]AllocationRecord, 0),
	}
}

// RecordAllocation appends an allocation record.
func (at *AllocationTrace) RecordAllocation(record AllocationRecord) {
	at.Allocations = append(at.Allocations, record)
}

// Merge appends every record of other. A nil other is a no-op.
func (at *AllocationTrace) Merge(other *AllocationTrace) {
	if other == nil {
		return
	}
	at.Allocations = append(at.Allocations, other.Allocations...)
}
