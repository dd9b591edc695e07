package domain

// TargetStatus represents the lifecycle state of a target during a build.
type TargetStatus string

const (
	// StatusPending indicates the target is waiting to be scheduled.
	StatusPending TargetStatus = "pending"
	// StatusRunning indicates the target is currently building.
	StatusRunning TargetStatus = "running"
	// StatusCompleted indicates the target built successfully.
	StatusCompleted TargetStatus = "completed"
	// StatusFailed indicates the target failed to build.
	StatusFailed TargetStatus = "failed"
	// StatusCached indicates the build was skipped because its inputs are unchanged.
	StatusCached TargetStatus = "cached"
)

// IsTerminal reports whether no further transitions follow s.
func (s TargetStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCached:
		return true
	default:
		return false
	}
}
