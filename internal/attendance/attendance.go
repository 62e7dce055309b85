package attendance

import (
	"time"

	"github.com/angelmondragon/cellar-backend/pkg/db/models"
)

// FindOpen returns the index of the user's open record for day, or -1.
func FindOpen(records []models.AttendanceRecord, userID, day string) int {
	for i, r := range records {
		if r.UserID == userID && r.Date == day && r.Open() {
			return i
		}
	}
	return -1
}

// DurationMinutes floors the elapsed time to whole minutes.
func DurationMinutes(in, out time.Time) int {
	return int(out.Sub(in) / time.Minute)
}

// OnDay filters records to a calendar day, keeping order.
func OnDay(records []models.AttendanceRecord, day string) []models.AttendanceRecord {
	out := make([]models.AttendanceRecord, 0)
	for _, r := range records {
		if r.Date == day {
			out = append(out, r)
		}
	}
	return out
}
