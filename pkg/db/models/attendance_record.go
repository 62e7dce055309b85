package models

import "time"

// AttendanceRecord is one clock-in/clock-out pair. Date is the UTC calendar
// day (YYYY-MM-DD) of TimeIn; Duration is whole minutes.
type AttendanceRecord struct {
	ID       string     `json:"id"`
	UserID   string     `json:"userId"`
	TimeIn   time.Time  `json:"timeIn"`
	TimeOut  *time.Time `json:"timeOut,omitempty"`
	Date     string     `json:"date"`
	Duration *int       `json:"duration,omitempty"`
}

// Open reports whether the record still awaits a clock-out.
func (a AttendanceRecord) Open() bool {
	return a.TimeOut == nil
}

// Clone copies the record so the result shares no pointers with a.
func (a AttendanceRecord) Clone() AttendanceRecord {
	out := a
	out.TimeOut = cloneTime(a.TimeOut)
	if a.Duration != nil {
		d := *a.Duration
		out.Duration = &d
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
