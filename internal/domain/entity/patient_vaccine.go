package entity

import (
	"time"

	"github.com/google/uuid"
)

// VaccineStatus represents the lifecycle state of a dose
type VaccineStatus string

const (
	VaccineStatusUpcoming  VaccineStatus = "Upcoming"
	VaccineStatusPending   VaccineStatus = "Pending"
	VaccineStatusCompleted VaccineStatus = "Completed"
)

// CompletionSource records who confirmed a completed dose
type CompletionSource string

const (
	SourceGovernmentHospital   CompletionSource = "Government Hospital"
	SourceOtherPrivateHospital CompletionSource = "Other Private Hospital"
	SourceAdminDoctor          CompletionSource = "Admin Doctor"
	// SourceAutoGenerated marks doses force-closed by the classifier after
	// their due date fully elapsed without explicit completion.
	SourceAutoGenerated CompletionSource = "Auto-generated"
)

// ValidCompletionSources are the sources a clinician may supply when marking
// a dose completed. Auto-generated is reserved for the classifier.
var ValidCompletionSources = []CompletionSource{
	SourceGovernmentHospital,
	SourceOtherPrivateHospital,
	SourceAdminDoctor,
}

// PatientVaccine is one dose instance: the pairing of a patient with a
// schedule template (or a custom vaccine name). Unique per
// (patient, vaccine_schedule); the due date is set at creation and never
// silently recomputed afterwards.
type PatientVaccine struct {
	ID                int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	PatientID         uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_patient_schedule" json:"patient_id"`
	VaccineScheduleID *int              `gorm:"uniqueIndex:idx_patient_schedule" json:"vaccine_schedule_id,omitempty"`
	CustomVaccine     *string           `gorm:"type:varchar(150)" json:"custom_vaccine,omitempty"`
	Status            VaccineStatus     `gorm:"type:varchar(20);not null;default:'Upcoming';index" json:"status"`
	IsCompleted       bool              `gorm:"not null;default:false;index" json:"is_completed"`
	CompletedOn       *time.Time        `gorm:"type:date" json:"completed_on,omitempty"`
	CompletionSource  *CompletionSource `gorm:"type:varchar(50)" json:"completion_source,omitempty"`
	DueDate           *time.Time        `gorm:"type:date;index" json:"due_date,omitempty"`

	// NotificationSent is the missed-dose alert claim flag. Its false→true
	// transition, counted by rows affected inside a transaction, is the
	// exclusive gate for sending one alert per dose.
	NotificationSent   bool       `gorm:"not null;default:false;index" json:"notification_sent"`
	NotificationSentAt *time.Time `json:"notification_sent_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User            User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Patient         Patient          `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	VaccineSchedule *VaccineSchedule `gorm:"foreignKey:VaccineScheduleID" json:"vaccine_schedule,omitempty"`
}

func (PatientVaccine) TableName() string {
	return "patient_vaccines"
}

// Classification is the outcome of classifying one dose at a point in time.
// AutoCompleted is set when the overdue force-close rule fired: the caller
// must persist IsCompleted=true with SourceAutoGenerated alongside the status.
type Classification struct {
	Status        VaccineStatus
	AutoCompleted bool
}

// ClassifyDose computes the canonical status of a dose from its due date,
// completion flag and the given "today". Pure and total: every input maps to
// exactly one status.
//
// Business rule carried over from the product: once a due date has fully
// elapsed without explicit completion the dose is force-closed as Completed
// with an Auto-generated source rather than left dangling. Callers that need
// a true terminal "missed" state should inspect AutoCompleted.
func ClassifyDose(dueDate *time.Time, isCompleted bool, today time.Time) Classification {
	if isCompleted {
		return Classification{Status: VaccineStatusCompleted}
	}
	if dueDate == nil {
		return Classification{Status: VaccineStatusUpcoming}
	}
	due := DateOnly(*dueDate)
	now := DateOnly(today)
	switch {
	case now.After(due):
		return Classification{Status: VaccineStatusCompleted, AutoCompleted: true}
	case now.Equal(due):
		return Classification{Status: VaccineStatusPending}
	default:
		return Classification{Status: VaccineStatusUpcoming}
	}
}

// Restamp re-evaluates the dose status against today and applies the result.
// A completed dose never regresses; only the explicit mark-pending action can
// undo a completion. Returns true when any field changed.
func (v *PatientVaccine) Restamp(today time.Time) bool {
	if v.IsCompleted {
		if v.Status != VaccineStatusCompleted {
			v.Status = VaccineStatusCompleted
			return true
		}
		return false
	}

	c := ClassifyDose(v.DueDate, v.IsCompleted, today)
	if c.Status == v.Status && !c.AutoCompleted {
		return false
	}

	v.Status = c.Status
	if c.AutoCompleted {
		completedOn := DateOnly(today)
		source := SourceAutoGenerated
		v.IsCompleted = true
		v.CompletedOn = &completedOn
		v.CompletionSource = &source
	}
	return true
}

// VaccineName returns the display name of the dose: the custom name when
// present, otherwise the template's vaccine.
func (v *PatientVaccine) VaccineName() string {
	if v.CustomVaccine != nil && *v.CustomVaccine != "" {
		return *v.CustomVaccine
	}
	if v.VaccineSchedule != nil {
		return v.VaccineSchedule.Vaccine
	}
	return ""
}

// AgeLabel returns the template's age label, or "Custom" for doses without
// an age-based template.
func (v *PatientVaccine) AgeLabel() string {
	if v.VaccineSchedule != nil && v.VaccineSchedule.Age != "" {
		return v.VaccineSchedule.Age
	}
	return "Custom"
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the whole number of calendar days from `from` until the
// due date. Negative when the due date has passed.
func DaysUntil(dueDate, from time.Time) int {
	return int(DateOnly(dueDate).Sub(DateOnly(from)).Hours() / 24)
}
