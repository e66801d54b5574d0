package appointment

import "github.com/gardenpro/landscape-api/internal/domain/schedule"

// Bookable day and slot stride, in minutes since midnight.
const (
	BusinessOpen  = 8 * 60
	BusinessClose = 18 * 60
	SlotStride    = 30
)

func BusinessWindow() schedule.Window {
	return schedule.Window{Start: BusinessOpen, End: BusinessClose}
}

// WithinBusinessHours reports whether w lies entirely inside opening hours.
func WithinBusinessHours(w schedule.Window) bool {
	return w.Start >= BusinessOpen && w.End <= BusinessClose
}
