package domain

import (
	"time"

	"github.com/m04kA/SportHub-ReservationService/pkg/types"
)

// SlotBucket identifies the capacity bucket a reservation consumes:
// one occurrence of one schedule slot of one activity
type SlotBucket struct {
	ActivityID     int64
	ScheduleSlot   types.SlotLabel
	OccurrenceDate time.Time
}

// Availability is the result of a capacity calculation for a bucket
type Availability struct {
	Bucket       SlotBucket
	MaxCapacity  int
	ReservedSum  int // sum of participant counts over active reservations
	RemainingCap int // never negative
}

// IsFull returns true if the bucket has no remaining capacity
func (a *Availability) IsFull() bool {
	return a.RemainingCap <= 0
}

// Fits returns true if a reservation for the given participant count would fit
func (a *Availability) Fits(participantCount int) bool {
	return participantCount <= a.RemainingCap
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (a *Availability) OccupancyRate() float64 {
	if a.MaxCapacity == 0 {
		return 0
	}
	return float64(a.ReservedSum) / float64(a.MaxCapacity) * 100
}

// ComputeAvailability derives remaining capacity from the active reservations
// of a bucket. A bucket at (or, after an out-of-band capacity reduction, over)
// capacity reports zero remaining, not an error.
func ComputeAvailability(bucket SlotBucket, maxCapacity int, reservations []*Reservation) Availability {
	sum := 0
	for _, r := range reservations {
		if !r.IsActive() {
			continue
		}
		sum += r.ParticipantCount
	}

	remaining := maxCapacity - sum
	if remaining < 0 {
		remaining = 0
	}

	return Availability{
		Bucket:       bucket,
		MaxCapacity:  maxCapacity,
		ReservedSum:  sum,
		RemainingCap: remaining,
	}
}
