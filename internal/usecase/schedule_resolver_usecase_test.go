package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"vaccine-reminder-backend/internal/delivery/dto"
	"vaccine-reminder-backend/internal/domain/entity"
	"vaccine-reminder-backend/internal/domain/gateway"
	"vaccine-reminder-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// The fakes below satisfy the repository interfaces in memory. The *gorm.DB
// parameter is part of the interface contract but unused here; usecases are
// handed a bare DB handle that only ever carries the context.

func testDB() *gorm.DB {
	db := &gorm.DB{Config: &gorm.Config{}}
	db.Statement = &gorm.Statement{DB: db, Context: context.Background()}
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeUserRepo struct {
	users    map[uuid.UUID]*entity.User
	allowAny bool
}

func (f *fakeUserRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	if f.allowAny {
		return &entity.User{ID: id, FullName: "Dr. Iyer", AccountType: entity.AccountTypeDoctor}, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) CountActiveDoctors(_ *gorm.DB) (int64, error) {
	return int64(len(f.users)), nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*entity.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*entity.Patient)}
}

func (f *fakePatientRepo) Create(_ *gorm.DB, patient *entity.Patient) error {
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	f.patients[patient.ID] = patient
	return nil
}

func (f *fakePatientRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	return f.patients[id], nil
}

func (f *fakePatientRepo) SetActive(_ *gorm.DB, id uuid.UUID, active bool) (int64, error) {
	patient, ok := f.patients[id]
	if !ok {
		return 0, nil
	}
	if patient.IsActive != nil && *patient.IsActive == active {
		return 0, nil
	}
	patient.IsActive = &active
	return 1, nil
}

func (f *fakePatientRepo) CountActive(_ *gorm.DB) (int64, error) {
	var count int64
	for _, p := range f.patients {
		if p.IsActive == nil || *p.IsActive {
			count++
		}
	}
	return count, nil
}

type fakeScheduleRepo struct {
	schedules []entity.VaccineSchedule
	nextID    int
}

func (f *fakeScheduleRepo) Create(_ *gorm.DB, schedule *entity.VaccineSchedule) error {
	f.nextID++
	schedule.ID = f.nextID
	f.schedules = append(f.schedules, *schedule)
	return nil
}

func (f *fakeScheduleRepo) FindByID(_ *gorm.DB, id int) (*entity.VaccineSchedule, error) {
	for i := range f.schedules {
		if f.schedules[i].ID == id {
			return &f.schedules[i], nil
		}
	}
	return nil, nil
}

func (f *fakeScheduleRepo) FindApplicable(_ *gorm.DB, userID, patientID uuid.UUID) ([]entity.VaccineSchedule, error) {
	var out []entity.VaccineSchedule
	for _, s := range f.schedules {
		switch {
		case s.UserID == nil && s.PatientID == nil:
			out = append(out, s)
		case s.PatientID != nil && *s.PatientID == patientID:
			out = append(out, s)
		case s.UserID != nil && *s.UserID == userID && s.PatientID == nil:
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeVaccineRepo struct {
	doses  map[int64]*entity.PatientVaccine
	nextID int64
}

func newFakeVaccineRepo() *fakeVaccineRepo {
	return &fakeVaccineRepo{doses: make(map[int64]*entity.PatientVaccine)}
}

func (f *fakeVaccineRepo) Create(_ *gorm.DB, dose *entity.PatientVaccine) error {
	f.nextID++
	dose.ID = f.nextID
	f.doses[dose.ID] = dose
	return nil
}

func (f *fakeVaccineRepo) Save(_ *gorm.DB, dose *entity.PatientVaccine) error {
	f.doses[dose.ID] = dose
	return nil
}

func (f *fakeVaccineRepo) FindByID(_ *gorm.DB, id int64) (*entity.PatientVaccine, error) {
	return f.doses[id], nil
}

func (f *fakeVaccineRepo) FindByPatientAndSchedule(_ *gorm.DB, patientID uuid.UUID, scheduleID int) (*entity.PatientVaccine, error) {
	for _, d := range f.doses {
		if d.PatientID == patientID && d.VaccineScheduleID != nil && *d.VaccineScheduleID == scheduleID {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeVaccineRepo) FindByPatientID(_ *gorm.DB, patientID uuid.UUID) ([]entity.PatientVaccine, error) {
	var out []entity.PatientVaccine
	for _, d := range f.doses {
		if d.PatientID == patientID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeVaccineRepo) FindUpcomingByUser(_ *gorm.DB, userID uuid.UUID, today time.Time) ([]entity.PatientVaccine, error) {
	var out []entity.PatientVaccine
	for _, d := range f.doses {
		if d.UserID == userID && !d.IsCompleted && d.DueDate != nil && !d.DueDate.Before(entity.DateOnly(today)) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeVaccineRepo) FindUpcomingDueOn(_ *gorm.DB, dueDates []time.Time) ([]entity.PatientVaccine, error) {
	var out []entity.PatientVaccine
	for _, d := range f.doses {
		if d.IsCompleted || d.DueDate == nil {
			continue
		}
		for _, due := range dueDates {
			if entity.DateOnly(*d.DueDate).Equal(entity.DateOnly(due)) {
				out = append(out, *d)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeVaccineRepo) FindMissedUnnotified(_ *gorm.DB, today time.Time) ([]entity.PatientVaccine, error) {
	var out []entity.PatientVaccine
	for _, d := range f.doses {
		if d.NotificationSent || d.DueDate == nil {
			continue
		}
		if entity.DateOnly(*d.DueDate).Before(entity.DateOnly(today)) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeVaccineRepo) ClaimNotifications(_ *gorm.DB, ids []int64, at time.Time) (int64, error) {
	var claimable []*entity.PatientVaccine
	for _, id := range ids {
		d, ok := f.doses[id]
		if !ok || d.NotificationSent {
			continue
		}
		claimable = append(claimable, d)
	}
	if len(claimable) != len(ids) {
		// Partial claim rolls back.
		return int64(len(claimable)), nil
	}
	for _, d := range claimable {
		d.NotificationSent = true
		sentAt := at
		d.NotificationSentAt = &sentAt
	}
	return int64(len(ids)), nil
}

func (f *fakeVaccineRepo) ReleaseNotifications(_ *gorm.DB, ids []int64) error {
	for _, id := range ids {
		if d, ok := f.doses[id]; ok {
			d.NotificationSent = false
			d.NotificationSentAt = nil
		}
	}
	return nil
}

type fakeClinicDoctorRepo struct {
	doctors map[uuid.UUID]*entity.ClinicDoctor
}

func (f *fakeClinicDoctorRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.ClinicDoctor, error) {
	if f.doctors == nil {
		return nil, nil
	}
	return f.doctors[id], nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)
var _ repository.PatientRepository = (*fakePatientRepo)(nil)
var _ repository.VaccineScheduleRepository = (*fakeScheduleRepo)(nil)
var _ repository.PatientVaccineRepository = (*fakeVaccineRepo)(nil)
var _ repository.ClinicDoctorRepository = (*fakeClinicDoctorRepo)(nil)

func newResolver(patients *fakePatientRepo, schedules *fakeScheduleRepo, vaccines *fakeVaccineRepo, today time.Time) *scheduleResolverUsecase {
	u := NewScheduleResolverUsecase(testDB(), testLogger(), &fakeUserRepo{allowAny: true}, patients, schedules, vaccines, &fakeClinicDoctorRepo{}, &stubWhatsApp{}, nil).(*scheduleResolverUsecase)
	u.now = func() time.Time { return today }
	return u
}

type stubWhatsApp struct {
	welcomes int
	fail     bool
}

func (s *stubWhatsApp) SendReminder(_ context.Context, _ gateway.ReminderMessage) (entity.JSON, error) {
	return entity.JSON{"type": "success"}, nil
}

func (s *stubWhatsApp) SendWelcome(_ context.Context, mobileNumber, childName, doctorName string) (entity.JSON, error) {
	s.welcomes++
	if s.fail {
		return nil, context.DeadlineExceeded
	}
	return entity.JSON{"type": "success"}, nil
}

func TestResolveScheduleComputesDueDates(t *testing.T) {
	patients := newFakePatientRepo()
	schedules := &fakeScheduleRepo{}
	vaccines := newFakeVaccineRepo()

	patient := &entity.Patient{UserID: uuid.New(), ChildName: "Aarav", DateOfBirth: date(2024, 1, 1), MobileNumber: "9876543210"}
	patients.Create(nil, patient)
	schedules.Create(nil, &entity.VaccineSchedule{Age: "Birth", Vaccine: "BCG"})
	schedules.Create(nil, &entity.VaccineSchedule{Age: "6 Weeks", Vaccine: "DTwP 1"})

	u := newResolver(patients, schedules, vaccines, date(2024, 1, 10))
	report, err := u.ResolveSchedule(context.Background(), patient.ID)
	if err != nil {
		t.Fatalf("ResolveSchedule error: %v", err)
	}
	if report.Created != 2 {
		t.Fatalf("expected 2 created, got %+v", report)
	}

	dose, err := vaccines.FindByPatientAndSchedule(nil, patient.ID, 2)
	if err != nil || dose == nil {
		t.Fatalf("expected a dose for the 6 Weeks template")
	}
	if !dose.DueDate.Equal(date(2024, 2, 12)) {
		t.Fatalf("DOB 2024-01-01 + 42 days should be 2024-02-12, got %s", dose.DueDate.Format("2006-01-02"))
	}
	if dose.Status != entity.VaccineStatusUpcoming {
		t.Fatalf("future dose should be Upcoming, got %s", dose.Status)
	}
}

func TestResolveScheduleForceClosesElapsedDoses(t *testing.T) {
	patients := newFakePatientRepo()
	schedules := &fakeScheduleRepo{}
	vaccines := newFakeVaccineRepo()

	patient := &entity.Patient{UserID: uuid.New(), DateOfBirth: date(2024, 1, 1)}
	patients.Create(nil, patient)
	schedules.Create(nil, &entity.VaccineSchedule{Age: "Birth", Vaccine: "BCG"})

	u := newResolver(patients, schedules, vaccines, date(2024, 6, 1))
	if _, err := u.ResolveSchedule(context.Background(), patient.ID); err != nil {
		t.Fatalf("ResolveSchedule error: %v", err)
	}

	dose, _ := vaccines.FindByPatientAndSchedule(nil, patient.ID, 1)
	if dose == nil || !dose.IsCompleted {
		t.Fatal("elapsed dose should be created force-closed")
	}
	if dose.CompletionSource == nil || *dose.CompletionSource != entity.SourceAutoGenerated {
		t.Fatalf("expected Auto-generated source, got %v", dose.CompletionSource)
	}
}

func TestResolveScheduleIsIdempotent(t *testing.T) {
	patients := newFakePatientRepo()
	schedules := &fakeScheduleRepo{}
	vaccines := newFakeVaccineRepo()

	patient := &entity.Patient{UserID: uuid.New(), DateOfBirth: date(2024, 1, 1)}
	patients.Create(nil, patient)
	schedules.Create(nil, &entity.VaccineSchedule{Age: "Birth", Vaccine: "BCG"})
	schedules.Create(nil, &entity.VaccineSchedule{Age: "6 Weeks", Vaccine: "DTwP 1"})

	u := newResolver(patients, schedules, vaccines, date(2024, 1, 10))
	if _, err := u.ResolveSchedule(context.Background(), patient.ID); err != nil {
		t.Fatalf("first resolve error: %v", err)
	}

	// Complete one dose, then resolve again: nothing new, nothing regressed.
	dose, _ := vaccines.FindByPatientAndSchedule(nil, patient.ID, 1)
	source := entity.SourceAdminDoctor
	dose.IsCompleted = true
	dose.Status = entity.VaccineStatusCompleted
	dose.CompletionSource = &source

	report, err := u.ResolveSchedule(context.Background(), patient.ID)
	if err != nil {
		t.Fatalf("second resolve error: %v", err)
	}
	if report.Created != 0 || report.Existing != 2 {
		t.Fatalf("expected 0 created / 2 existing, got %+v", report)
	}

	dose, _ = vaccines.FindByPatientAndSchedule(nil, patient.ID, 1)
	if !dose.IsCompleted || *dose.CompletionSource != entity.SourceAdminDoctor {
		t.Fatal("re-resolution must not touch a completed dose")
	}
}

func TestResolveScheduleSkipsUnknownAgeLabel(t *testing.T) {
	patients := newFakePatientRepo()
	schedules := &fakeScheduleRepo{}
	vaccines := newFakeVaccineRepo()

	patient := &entity.Patient{UserID: uuid.New(), DateOfBirth: date(2024, 1, 1)}
	patients.Create(nil, patient)
	schedules.Create(nil, &entity.VaccineSchedule{Age: "11 Fortnights", Vaccine: "Mystery"})
	schedules.Create(nil, &entity.VaccineSchedule{Age: "Birth", Vaccine: "BCG"})

	u := newResolver(patients, schedules, vaccines, date(2024, 1, 1))
	report, err := u.ResolveSchedule(context.Background(), patient.ID)
	if err != nil {
		t.Fatalf("ResolveSchedule error: %v", err)
	}
	if report.Skipped != 1 || report.Created != 1 {
		t.Fatalf("expected 1 skipped / 1 created, got %+v", report)
	}
}

func TestResolveScheduleUsesExplicitDueDateForCustomTemplates(t *testing.T) {
	patients := newFakePatientRepo()
	schedules := &fakeScheduleRepo{}
	vaccines := newFakeVaccineRepo()

	patient := &entity.Patient{UserID: uuid.New(), DateOfBirth: date(2024, 1, 1)}
	patients.Create(nil, patient)
	customDue := date(2024, 8, 20)
	schedules.Create(nil, &entity.VaccineSchedule{PatientID: &patient.ID, Age: "Custom", DueDate: &customDue, Vaccine: "Flu Booster"})

	u := newResolver(patients, schedules, vaccines, date(2024, 1, 10))
	if _, err := u.ResolveSchedule(context.Background(), patient.ID); err != nil {
		t.Fatalf("ResolveSchedule error: %v", err)
	}

	dose, _ := vaccines.FindByPatientAndSchedule(nil, patient.ID, 1)
	if dose == nil || !dose.DueDate.Equal(customDue) {
		t.Fatalf("custom template must keep its explicit due date, got %v", dose)
	}
}

func TestRegisterPatientResolvesScheduleAndWelcomes(t *testing.T) {
	patients := newFakePatientRepo()
	schedules := &fakeScheduleRepo{}
	vaccines := newFakeVaccineRepo()
	schedules.Create(nil, &entity.VaccineSchedule{Age: "Birth", Vaccine: "BCG"})

	u := newResolver(patients, schedules, vaccines, date(2024, 1, 10))
	whatsApp := &stubWhatsApp{}
	u.whatsApp = whatsApp

	resp, err := u.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		UserID:       uuid.New(),
		ChildName:    "Aarav",
		DateOfBirth:  "2024-01-01",
		MobileNumber: "9876543210",
		Gender:       "Male",
	})
	if err != nil {
		t.Fatalf("RegisterPatient error: %v", err)
	}
	if dose, _ := vaccines.FindByPatientAndSchedule(nil, resp.ID, 1); dose == nil {
		t.Fatal("registration should resolve the schedule")
	}
	if whatsApp.welcomes != 1 {
		t.Fatalf("expected 1 welcome message, got %d", whatsApp.welcomes)
	}
}

func TestRegisterPatientUnknownOwner(t *testing.T) {
	u := newResolver(newFakePatientRepo(), &fakeScheduleRepo{}, newFakeVaccineRepo(), date(2024, 1, 10))
	u.userRepo = &fakeUserRepo{}

	_, err := u.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		UserID:       uuid.New(),
		ChildName:    "Aarav",
		DateOfBirth:  "2024-01-01",
		MobileNumber: "9876543210",
		Gender:       "Male",
	})
	if err != ErrOwnerNotFound {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestSetPatientActiveUnknownPatient(t *testing.T) {
	u := newResolver(newFakePatientRepo(), &fakeScheduleRepo{}, newFakeVaccineRepo(), date(2024, 1, 1))

	if err := u.SetPatientActive(context.Background(), uuid.New(), false); err != ErrPatientNotFound {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}
