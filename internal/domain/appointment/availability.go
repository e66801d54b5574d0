package appointment

import (
	"github.com/gardenpro/landscape-api/internal/domain/schedule"
	"github.com/gardenpro/landscape-api/internal/models"
)

type AvailabilityInput struct {
	Date      string
	ServiceID uint
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ComputeSlots lists every duration-long window starting on a stride
// boundary inside business hours that overlaps none of booked. The result is
// chronological and never nil.
func ComputeSlots(duration int, booked []schedule.Window) []TimeSlot {
	slots := []TimeSlot{}
	if duration <= 0 {
		return slots
	}

	for start := BusinessOpen; start+duration <= BusinessClose; start += SlotStride {
		candidate := schedule.Window{Start: start, End: start + duration}

		free := true
		for _, b := range booked {
			if candidate.Overlaps(b) {
				free = false
				break
			}
		}

		if free {
			slots = append(slots, TimeSlot{
				Start: candidate.StartClock(),
				End:   candidate.EndClock(),
			})
		}
	}

	return slots
}

// BookedWindows extracts the windows that block slots. Cancelled
// appointments and rows with unparsable times are skipped.
func BookedWindows(aps []models.Appointment) []schedule.Window {
	windows := make([]schedule.Window, 0, len(aps))
	for i := range aps {
		if Status(aps[i].Status) == StatusCancelled {
			continue
		}
		w, err := Window(&aps[i])
		if err != nil {
			continue
		}
		windows = append(windows, w)
	}
	return windows
}

// IsSlotFree reports whether w avoids every booked window.
func IsSlotFree(w schedule.Window, booked []schedule.Window) bool {
	for _, b := range booked {
		if w.Overlaps(b) {
			return false
		}
	}
	return true
}
