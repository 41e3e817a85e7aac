package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"vaccine-reminder-backend/internal/domain/entity"
	"vaccine-reminder-backend/internal/domain/gateway"
	"vaccine-reminder-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// In-memory fakes for the repository interfaces. The *gorm.DB parameter is
// ignored; services under test only use the DB handle to carry the context.

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
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) CountActiveDoctors(_ *gorm.DB) (int64, error) {
	var count int64
	for _, u := range f.users {
		if u.IsActive == nil || *u.IsActive {
			count++
		}
	}
	return count, nil
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
	if !ok || (patient.IsActive != nil && *patient.IsActive == active) {
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

// fakeVaccineRepo serializes claims with a mutex, mirroring the row locks of
// the real transactional claim.
type fakeVaccineRepo struct {
	mu     sync.Mutex
	doses  map[int64]*entity.PatientVaccine
	nextID int64
}

func newFakeVaccineRepo() *fakeVaccineRepo {
	return &fakeVaccineRepo{doses: make(map[int64]*entity.PatientVaccine)}
}

func (f *fakeVaccineRepo) add(dose entity.PatientVaccine) *entity.PatientVaccine {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	dose.ID = f.nextID
	f.doses[dose.ID] = &dose
	return &dose
}

func (f *fakeVaccineRepo) Create(_ *gorm.DB, dose *entity.PatientVaccine) error {
	created := f.add(*dose)
	dose.ID = created.ID
	return nil
}

func (f *fakeVaccineRepo) Save(_ *gorm.DB, dose *entity.PatientVaccine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doses[dose.ID] = dose
	return nil
}

func (f *fakeVaccineRepo) FindByID(_ *gorm.DB, id int64) (*entity.PatientVaccine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doses[id], nil
}

func (f *fakeVaccineRepo) FindByPatientAndSchedule(_ *gorm.DB, patientID uuid.UUID, scheduleID int) (*entity.PatientVaccine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.doses {
		if d.PatientID == patientID && d.VaccineScheduleID != nil && *d.VaccineScheduleID == scheduleID {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeVaccineRepo) FindByPatientID(_ *gorm.DB, patientID uuid.UUID) ([]entity.PatientVaccine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.PatientVaccine
	for _, d := range f.doses {
		if d.PatientID == patientID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeVaccineRepo) FindUpcomingByUser(_ *gorm.DB, userID uuid.UUID, today time.Time) ([]entity.PatientVaccine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.PatientVaccine
	for _, d := range f.doses {
		if d.UserID == userID && !d.IsCompleted && d.DueDate != nil && !d.DueDate.Before(entity.DateOnly(today)) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeVaccineRepo) FindUpcomingDueOn(_ *gorm.DB, dueDates []time.Time) ([]entity.PatientVaccine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
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
	f.mu.Lock()
	defer f.mu.Unlock()
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
	f.mu.Lock()
	defer f.mu.Unlock()

	var claimable []*entity.PatientVaccine
	for _, id := range ids {
		d, ok := f.doses[id]
		if !ok || d.NotificationSent {
			continue
		}
		claimable = append(claimable, d)
	}
	if len(claimable) != len(ids) {
		// Partial claim rolls back entirely.
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
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if d, ok := f.doses[id]; ok {
			d.NotificationSent = false
			d.NotificationSentAt = nil
		}
	}
	return nil
}

type fakeReminderRepo struct {
	mu   sync.Mutex
	logs []entity.ReminderLog
}

func (f *fakeReminderRepo) Create(_ *gorm.DB, log *entity.ReminderLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	log.ID = int64(len(f.logs) + 1)
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeReminderRepo) CountSuccessByDoctor(_ *gorm.DB, doctorID uuid.UUID, from, to time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, l := range f.logs {
		if l.Status == entity.DeliveryStatusSuccess && l.DoctorID != nil && *l.DoctorID == doctorID {
			count++
		}
	}
	return count, nil
}

type fakeNotificationRepo struct {
	mu   sync.Mutex
	logs []entity.NotificationLog
}

func (f *fakeNotificationRepo) Create(_ *gorm.DB, log *entity.NotificationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	log.ID = int64(len(f.logs) + 1)
	f.logs = append(f.logs, *log)
	return nil
}

type fakeBillingRepo struct {
	mu      sync.Mutex
	ledgers []*entity.BillingLedger
	summary *entity.AnalyticsSummary
}

func (f *fakeBillingRepo) FindOrCreateLedger(_ *gorm.DB, userID uuid.UUID, method entity.BillingMethod, status entity.PaymentStatus, start, end time.Time) (*entity.BillingLedger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.ledgers {
		if l.UserID == userID && l.BillingMethod == method && l.PaymentStatus == status && l.StartDate.Equal(start) {
			return l, nil
		}
	}
	ledger := &entity.BillingLedger{
		ID:            int64(len(f.ledgers) + 1),
		UserID:        userID,
		BillingMethod: method,
		PaymentStatus: status,
		StartDate:     start,
		EndDate:       end,
	}
	f.ledgers = append(f.ledgers, ledger)
	return ledger, nil
}

func (f *fakeBillingRepo) Save(_ *gorm.DB, ledger *entity.BillingLedger) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.ledgers {
		if l.ID == ledger.ID {
			f.ledgers[i] = ledger
			return nil
		}
	}
	f.ledgers = append(f.ledgers, ledger)
	return nil
}

func (f *fakeBillingRepo) FindByDoctor(_ *gorm.DB, userID uuid.UUID) ([]entity.BillingLedger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.BillingLedger
	for _, l := range f.ledgers {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeBillingRepo) AggregateTotals(_ *gorm.DB, monthStart time.Time) (*repository.BillingTotals, error) {
	return &repository.BillingTotals{}, nil
}

func (f *fakeBillingRepo) SaveAnalytics(_ *gorm.DB, summary *entity.AnalyticsSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summary = summary
	return nil
}

type fakePush struct {
	mu    sync.Mutex
	sends int
	fails int
	err   error
}

func (f *fakePush) Send(_ context.Context, token, title, body string, data map[string]string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		f.fails++
		err := f.err
		return "", err
	}
	f.sends++
	return "msg-id", nil
}

type fakeWhatsApp struct {
	mu       sync.Mutex
	sent     []gateway.ReminderMessage
	welcomes int
	failFor  map[string]bool
}

func (f *fakeWhatsApp) SendReminder(_ context.Context, msg gateway.ReminderMessage) (entity.JSON, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[msg.MobileNumber] {
		return nil, errors.New("provider rejected message")
	}
	f.sent = append(f.sent, msg)
	return entity.JSON{"type": "success"}, nil
}

func (f *fakeWhatsApp) SendWelcome(_ context.Context, mobileNumber, childName, doctorName string) (entity.JSON, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcomes++
	return entity.JSON{"type": "success"}, nil
}

var (
	_ repository.UserRepository            = (*fakeUserRepo)(nil)
	_ repository.PatientRepository         = (*fakePatientRepo)(nil)
	_ repository.PatientVaccineRepository  = (*fakeVaccineRepo)(nil)
	_ repository.ReminderLogRepository     = (*fakeReminderRepo)(nil)
	_ repository.NotificationLogRepository = (*fakeNotificationRepo)(nil)
	_ repository.BillingRepository         = (*fakeBillingRepo)(nil)
	_ gateway.PushSender                   = (*fakePush)(nil)
	_ gateway.WhatsAppSender               = (*fakeWhatsApp)(nil)
)
