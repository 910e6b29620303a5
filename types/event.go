package types

import "time"

// Event is a scheduled activity members can attend.
type Event struct {
	ID            string    `json:"id" bson:"id"`
	Title         string    `json:"title" bson:"title"`
	Description   string    `json:"description" bson:"description"`
	Location      string    `json:"location" bson:"location"`
	StartDate     time.Time `json:"start_date" bson:"start_date"`
	EndDate       time.Time `json:"end_date" bson:"end_date"`
	Category      string    `json:"category" bson:"category"`
	CreatedBy     string    `json:"created_by" bson:"created_by"`
	CreatedByName string    `json:"created_by_name" bson:"created_by_name"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// Attendance statuses a member can declare for an event.
const (
	AttendanceAttending    = "attending"
	AttendanceMaybe        = "maybe"
	AttendanceNotAttending = "not_attending"
)

// ValidAttendanceStatus reports whether status is a declared attendance value.
func ValidAttendanceStatus(status string) bool {
	switch status {
	case AttendanceAttending, AttendanceMaybe, AttendanceNotAttending:
		return true
	}
	return false
}

// Attendance records one member's RSVP for one event. At most one
// attendance exists per (event, user) pair; repeated marks update it.
type Attendance struct {
	ID        string    `json:"id" bson:"id"`
	EventID   string    `json:"event_id" bson:"event_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	UserName  string    `json:"user_name" bson:"user_name"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
