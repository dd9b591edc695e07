package scheduler

import "go.trai.ch/pave/internal/core/domain"

// GetTargetStatusMap returns a copy of the internal target status map.
// This is exported for testing purposes only.
func (s *Scheduler) GetTargetStatusMap() map[domain.InternedString]domain.TargetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statusMap := make(map[domain.InternedString]domain.TargetStatus, len(s.targetStatus))
	for k, v := range s.targetStatus {
		statusMap[k] = v
	}
	return statusMap
}
