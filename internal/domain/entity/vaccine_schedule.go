package entity

import (
	"time"

	"github.com/google/uuid"
)

// AgeBucket is one entry of the age-based vaccination catalog: a display
// label and its offset in days from date of birth.
type AgeBucket struct {
	Label string
	Days  int
}

// AgeBuckets is the ordered catalog of age labels. Order matters for display
// and for deterministic resolution; offsets follow the national immunization
// schedule the product was built around.
var AgeBuckets = []AgeBucket{
	{"Birth", 0},
	{"6 Weeks", 42},
	{"10 Weeks", 70},
	{"14 Weeks", 98},
	{"6 Months", 183},
	{"7 Months", 213},
	{"9 Months", 274},
	{"12 Months", 365},
	{"15 Months", 456},
	{"16–18 Months", 548},
	{"18 Months", 548},
	{"2 Years", 730},
	{"3 Years", 1095},
	{"4 Years", 1460},
	{"4–6 Years", 2190},
	{"5 Years", 1825},
	{"6 Years", 2190},
	{"7 Years", 2555},
	{"8 Years", 2920},
	{"10 Years", 3650},
	{"16–18 Years", 6570},
}

var ageOffsetByLabel = func() map[string]int {
	m := make(map[string]int, len(AgeBuckets))
	for _, b := range AgeBuckets {
		m[b.Label] = b.Days
	}
	return m
}()

// AgeOffsetDays returns the day offset for an age label. The second return
// value is false for labels not in the catalog (data-quality issue: the
// resolver skips those templates).
func AgeOffsetDays(label string) (int, bool) {
	days, ok := ageOffsetByLabel[label]
	return days, ok
}

// VaccineSchedule is a catalog template defining when a vaccine dose is due:
// either by age offset (Age label) or by explicit due date (custom entries).
// Admin-created rows have no owner and apply to every patient; doctor- or
// clinic-owned rows apply to their patients; patient-owned rows are custom
// one-off entries.
type VaccineSchedule struct {
	ID             int          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         *uuid.UUID   `gorm:"type:uuid;index" json:"user_id,omitempty"`
	ClinicDoctorID *uuid.UUID   `gorm:"type:uuid;index" json:"clinic_doctor_id,omitempty"`
	AccountType    *AccountType `gorm:"type:varchar(20)" json:"account_type,omitempty"`
	PatientID      *uuid.UUID   `gorm:"type:uuid;index" json:"patient_id,omitempty"`
	Age            string       `gorm:"type:varchar(50)" json:"age"`
	DueDate        *time.Time   `gorm:"type:date" json:"due_date,omitempty"`
	Vaccine        string       `gorm:"type:varchar(150);not null" json:"vaccine"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (VaccineSchedule) TableName() string {
	return "vaccine_schedules"
}

// IsCustom reports whether the template carries an explicit due date instead
// of an age offset.
func (s *VaccineSchedule) IsCustom() bool {
	return s.DueDate != nil
}
