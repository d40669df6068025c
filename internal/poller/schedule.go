package poller

import "time"

// schedule yields fixed-rate slots origin + k*period. A slot that has already
// passed fires immediately once, and the schedule then resumes at the next grid
// slot after now, so overruns never cause bursts or shift the grid.
type schedule struct {
	origin time.Time
	period time.Duration
	n      int64
}

func newSchedule(origin time.Time, period time.Duration) *schedule {
	return &schedule{origin: origin, period: period}
}

// next returns the instant the next cycle should start, given the current time.
func (s *schedule) next(now time.Time) time.Time {
	slot := s.origin.Add(time.Duration(s.n) * s.period)
	if !slot.Before(now) {
		s.n++
		return slot
	}
	s.n = int64(now.Sub(s.origin)/s.period) + 1
	return now
}
