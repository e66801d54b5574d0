package appointment

import "github.com/gardenpro/landscape-api/internal/models"

const DefaultCalendarColor = "#6c757d"

var categoryColors = map[string]string{
	models.CategoryLawnMaintenance:   "#28a745",
	models.CategoryGardening:         "#ffc107",
	models.CategoryTreeService:       "#6c757d",
	models.CategoryLandscapingDesign: "#17a2b8",
	models.CategoryIrrigation:        "#007bff",
	models.CategorySeasonal:          "#dc3545",
	models.CategoryOther:             "#6610f2",
}

type CalendarEvent struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Color  string `json:"color"`
	Status string `json:"status"`
}

// CalendarColor picks the event colour for a service. A missing service or
// unknown category gets DefaultCalendarColor.
func CalendarColor(svc *models.Service) string {
	if svc == nil {
		return DefaultCalendarColor
	}
	if c, ok := categoryColors[svc.Category]; ok {
		return c
	}
	return DefaultCalendarColor
}

func ToCalendarEvent(ap *models.Appointment) CalendarEvent {
	title := "Appointment"
	if ap.Service != nil {
		title = ap.Service.Name
	}
	if name := ap.Customer.Name(); name != "" {
		title += " - " + name
	}

	return CalendarEvent{
		ID:     ap.ID,
		Title:  title,
		Start:  ap.Date + "T" + ap.StartTime,
		End:    ap.Date + "T" + ap.EndTime,
		Color:  CalendarColor(ap.Service),
		Status: ap.Status,
	}
}
