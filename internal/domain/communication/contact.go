package communication

const (
	ContactNew     = "new"
	ContactRead    = "read"
	ContactReplied = "replied"
	ContactClosed  = "closed"
)

var contactStatuses = []string{ContactNew, ContactRead, ContactReplied, ContactClosed}

func ParseContactStatus(s string) (string, error) {
	return oneOf("status", s, contactStatuses)
}

// StatusAfterResponse moves a contact to replied when a response is
// recorded, unless the caller chose a status explicitly.
func StatusAfterResponse(current, requested, response string) string {
	if requested != "" {
		return requested
	}
	if response != "" && (current == ContactNew || current == ContactRead) {
		return ContactReplied
	}
	return current
}
