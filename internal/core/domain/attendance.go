package domain

import "time"

// AttendanceLog records a single worked shift: created on check-in,
// completed on check-out. Peripheral to the claim/escalation core.
type AttendanceLog struct {
	ID           string     `json:"id" bson:"_id,omitempty"`
	ShiftID      string     `json:"shift_id" bson:"shift_id"`
	UserID       string     `json:"user_id" bson:"user_id"`
	CheckInTime  time.Time  `json:"check_in_time" bson:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty" bson:"check_out_time,omitempty"`
	GPSLocation  string     `json:"gps_location,omitempty" bson:"gps_location,omitempty"`
	Notes        string     `json:"notes,omitempty" bson:"notes,omitempty"`
}
