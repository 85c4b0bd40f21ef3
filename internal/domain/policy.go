package domain

import "time"

// ReservationPolicy represents booking-window rules for activities.
// A row with ActivityID == nil is the platform-wide default; an activity-specific
// row overrides it entirely.
type ReservationPolicy struct {
	ID               int64
	ActivityID       *int64 // nil = default policy for all activities
	MinNoticeMinutes int    // minimum minutes between "now" and the slot start on the same day
	MaxAdvanceDays   int    // 0 = unlimited
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsDefault returns true if this is the platform-wide default policy
func (p *ReservationPolicy) IsDefault() bool {
	return p.ActivityID == nil
}

// HasAdvanceLimit returns true if there's a limit on how far in advance reservations can be made
func (p *ReservationPolicy) HasAdvanceLimit() bool {
	return p.MaxAdvanceDays > 0
}
