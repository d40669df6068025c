package poller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleFollowsGrid(t *testing.T) {
	origin := time.Date(2024, 3, 1, 12, 0, 1, 0, time.UTC)
	s := newSchedule(origin, 10*time.Second)

	assert.Equal(t, origin, s.next(origin.Add(-time.Second)))
	assert.Equal(t, origin.Add(10*time.Second), s.next(origin.Add(2*time.Second)))
	assert.Equal(t, origin.Add(20*time.Second), s.next(origin.Add(20*time.Second)))
}

func TestScheduleOverrunFiresOnceThenRealigns(t *testing.T) {
	origin := time.Date(2024, 3, 1, 12, 0, 1, 0, time.UTC)
	s := newSchedule(origin, 10*time.Second)
	assert.Equal(t, origin, s.next(origin))

	late := origin.Add(25 * time.Second)
	assert.Equal(t, late, s.next(late))
	assert.Equal(t, origin.Add(30*time.Second), s.next(late.Add(time.Second)))
	assert.Equal(t, origin.Add(40*time.Second), s.next(origin.Add(31*time.Second)))
}

func TestScheduleOverrunExactlyOnSlot(t *testing.T) {
	origin := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newSchedule(origin, 10*time.Second)
	s.next(origin)

	late := origin.Add(20*time.Second + time.Millisecond)
	assert.Equal(t, late, s.next(late))
	assert.Equal(t, origin.Add(30*time.Second), s.next(late))
}
