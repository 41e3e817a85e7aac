package entity

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifyDose(t *testing.T) {
	dob := date(2024, 1, 1)
	sixWeeks := dob.AddDate(0, 0, 42) // 2024-02-12

	cases := []struct {
		name          string
		dueDate       *time.Time
		isCompleted   bool
		today         time.Time
		expected      VaccineStatus
		autoCompleted bool
	}{
		{"before due date", &sixWeeks, false, date(2024, 2, 11), VaccineStatusUpcoming, false},
		{"on due date", &sixWeeks, false, date(2024, 2, 12), VaccineStatusPending, false},
		{"after due date", &sixWeeks, false, date(2024, 2, 13), VaccineStatusCompleted, true},
		{"completed wins over overdue", &sixWeeks, true, date(2024, 3, 1), VaccineStatusCompleted, false},
		{"completed wins before due", &sixWeeks, true, date(2024, 1, 15), VaccineStatusCompleted, false},
		{"nil due date", nil, false, date(2024, 2, 12), VaccineStatusUpcoming, false},
		{"far future due date", &sixWeeks, false, date(2020, 1, 1), VaccineStatusUpcoming, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := ClassifyDose(tc.dueDate, tc.isCompleted, tc.today)
			if c.Status != tc.expected {
				t.Fatalf("expected status %s, got %s", tc.expected, c.Status)
			}
			if c.AutoCompleted != tc.autoCompleted {
				t.Fatalf("expected autoCompleted=%t, got %t", tc.autoCompleted, c.AutoCompleted)
			}
		})
	}
}

func TestClassifyDoseIgnoresTimeOfDay(t *testing.T) {
	due := time.Date(2024, 2, 12, 23, 59, 0, 0, time.UTC)
	today := time.Date(2024, 2, 12, 0, 1, 0, 0, time.UTC)

	c := ClassifyDose(&due, false, today)
	if c.Status != VaccineStatusPending {
		t.Fatalf("same calendar day should be Pending, got %s", c.Status)
	}
}

func TestRestampTransitionsUpcomingToPending(t *testing.T) {
	due := date(2024, 2, 12)
	v := &PatientVaccine{Status: VaccineStatusUpcoming, DueDate: &due}

	if !v.Restamp(date(2024, 2, 12)) {
		t.Fatal("expected a change when due date arrives")
	}
	if v.Status != VaccineStatusPending {
		t.Fatalf("expected Pending, got %s", v.Status)
	}
	if v.IsCompleted {
		t.Fatal("pending dose must not be completed")
	}
}

func TestRestampForceClosesOverdueDose(t *testing.T) {
	due := date(2024, 2, 12)
	v := &PatientVaccine{Status: VaccineStatusPending, DueDate: &due}

	if !v.Restamp(date(2024, 2, 13)) {
		t.Fatal("expected a change when due date elapses")
	}
	if v.Status != VaccineStatusCompleted || !v.IsCompleted {
		t.Fatalf("expected force-closed Completed, got status=%s completed=%t", v.Status, v.IsCompleted)
	}
	if v.CompletionSource == nil || *v.CompletionSource != SourceAutoGenerated {
		t.Fatalf("expected Auto-generated source, got %v", v.CompletionSource)
	}
	if v.CompletedOn == nil || !v.CompletedOn.Equal(date(2024, 2, 13)) {
		t.Fatalf("expected completion on restamp day, got %v", v.CompletedOn)
	}
}

func TestRestampNeverRegressesCompleted(t *testing.T) {
	due := date(2024, 6, 1)
	source := SourceGovernmentHospital
	v := &PatientVaccine{
		Status:           VaccineStatusCompleted,
		IsCompleted:      true,
		CompletionSource: &source,
		DueDate:          &due,
	}

	if v.Restamp(date(2024, 1, 1)) {
		t.Fatal("completed dose must not change on restamp")
	}
	if v.Status != VaccineStatusCompleted {
		t.Fatalf("expected Completed, got %s", v.Status)
	}
	if *v.CompletionSource != SourceGovernmentHospital {
		t.Fatalf("completion source must survive restamp, got %s", *v.CompletionSource)
	}
}

func TestRestampIsIdempotent(t *testing.T) {
	due := date(2024, 2, 12)
	v := &PatientVaccine{Status: VaccineStatusUpcoming, DueDate: &due}
	today := date(2024, 2, 13)

	if !v.Restamp(today) {
		t.Fatal("first restamp should change the dose")
	}
	if v.Restamp(today) {
		t.Fatal("second restamp must be a no-op")
	}
}

func TestDaysUntil(t *testing.T) {
	from := date(2024, 3, 1)

	cases := []struct {
		due      time.Time
		expected int
	}{
		{date(2024, 3, 16), 15},
		{date(2024, 3, 8), 7},
		{date(2024, 3, 4), 3},
		{date(2024, 3, 1), 0},
		{date(2024, 2, 28), -2},
	}
	for _, tc := range cases {
		if got := DaysUntil(tc.due, from); got != tc.expected {
			t.Fatalf("DaysUntil(%s) expected %d, got %d", tc.due.Format("2006-01-02"), tc.expected, got)
		}
	}
}

func TestVaccineNamePrefersCustom(t *testing.T) {
	custom := "Flu Booster"
	v := &PatientVaccine{
		CustomVaccine:   &custom,
		VaccineSchedule: &VaccineSchedule{Vaccine: "BCG"},
	}
	if v.VaccineName() != "Flu Booster" {
		t.Fatalf("expected custom name, got %q", v.VaccineName())
	}

	v.CustomVaccine = nil
	if v.VaccineName() != "BCG" {
		t.Fatalf("expected template name, got %q", v.VaccineName())
	}
}

func TestAgeOffsetDays(t *testing.T) {
	cases := []struct {
		label string
		days  int
	}{
		{"Birth", 0},
		{"6 Weeks", 42},
		{"10 Weeks", 70},
		{"14 Weeks", 98},
		{"9 Months", 274},
		{"15 Months", 456},
		{"16–18 Months", 548},
		{"5 Years", 1825},
		{"16–18 Years", 6570},
	}
	for _, tc := range cases {
		days, ok := AgeOffsetDays(tc.label)
		if !ok {
			t.Fatalf("label %q should be in the catalog", tc.label)
		}
		if days != tc.days {
			t.Fatalf("label %q expected %d days, got %d", tc.label, tc.days, days)
		}
	}

	if _, ok := AgeOffsetDays("11 Fortnights"); ok {
		t.Fatal("unknown label must not resolve")
	}
}
