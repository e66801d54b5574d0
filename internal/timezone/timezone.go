package timezone

import "time"

const DefaultTimezone = "America/New_York"

var business = DefaultTimezone

// SetBusiness sets the zone used for "today" in reminders, expiry and workload.
func SetBusiness(tz string) {
	if IsValid(tz) {
		business = tz
	}
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Business() *time.Location {
	return Location(business)
}

func Now() time.Time {
	return time.Now().In(Business())
}
