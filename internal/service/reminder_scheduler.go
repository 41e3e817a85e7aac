package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"vaccine-reminder-backend/config"
	"vaccine-reminder-backend/internal/delivery/dto"
	"vaccine-reminder-backend/internal/domain/entity"
	"vaccine-reminder-backend/internal/domain/gateway"
	"vaccine-reminder-backend/internal/domain/repository"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReminderWindows are the days-before-due offsets at which an upcoming dose
// triggers a WhatsApp reminder. 0 is the due date itself.
var ReminderWindows = []int{15, 7, 3, 0}

const sweepLockKey = "reminder:sweep:lock"

// ReminderScheduler runs the daily sweeps: WhatsApp reminders for doses due
// in one of the ReminderWindows, and missed-dose push alerts for doses whose
// due date elapsed unconfirmed.
//
// A redis lock keeps scheduled and manual sweeps from overlapping, but it is
// best effort only. Duplicate suppression for missed-dose alerts rests on the
// notification_sent claim, not on the lock.
type ReminderScheduler struct {
	db           *gorm.DB
	log          *logrus.Logger
	vaccineRepo  repository.PatientVaccineRepository
	reminderRepo repository.ReminderLogRepository
	whatsApp     gateway.WhatsAppSender
	dispatcher   *NotificationDispatcher
	billing      *BillingService
	locker       *redislock.Client
	cfg          config.SchedulerConfig
	now          func() time.Time

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

func NewReminderScheduler(
	db *gorm.DB,
	log *logrus.Logger,
	vaccineRepo repository.PatientVaccineRepository,
	reminderRepo repository.ReminderLogRepository,
	whatsApp gateway.WhatsAppSender,
	dispatcher *NotificationDispatcher,
	billing *BillingService,
	locker *redislock.Client,
	cfg config.SchedulerConfig,
) *ReminderScheduler {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 15 * time.Second
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Minute
	}
	return &ReminderScheduler{
		db:           db,
		log:          log,
		vaccineRepo:  vaccineRepo,
		reminderRepo: reminderRepo,
		whatsApp:     whatsApp,
		dispatcher:   dispatcher,
		billing:      billing,
		locker:       locker,
		cfg:          cfg,
		now:          time.Now,
		stopChan:     make(chan struct{}),
	}
}

// Start launches the daily sweep loop. Call Stop during shutdown.
func (s *ReminderScheduler) Start() {
	s.wg.Add(1)
	go s.runLoop()
	s.log.Infof("Reminder scheduler started, daily sweep at %02d:%02d", s.cfg.Hour, s.cfg.Minute)
}

// Stop gracefully shuts down the scheduler. Safe to call multiple times.
func (s *ReminderScheduler) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("Reminder scheduler stopped")
	}
}

func (s *ReminderScheduler) runLoop() {
	defer s.wg.Done()

	for {
		timer := time.NewTimer(s.untilNextRun())
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.RunDailySweeps(context.Background())
		}
	}
}

// untilNextRun returns the duration until the next Hour:Minute occurrence.
func (s *ReminderScheduler) untilNextRun() time.Duration {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.Hour, s.cfg.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// RunDailySweeps executes both sweeps under the best-effort redis lock. When
// another instance holds the lock the run is skipped entirely.
func (s *ReminderScheduler) RunDailySweeps(ctx context.Context) {
	lock, ok := s.acquireSweepLock(ctx)
	if !ok {
		s.log.Info("Sweep lock held elsewhere, skipping run")
		return
	}
	if lock != nil {
		defer func() {
			if err := lock.Release(context.Background()); err != nil {
				s.log.Warnf("Failed to release sweep lock: %+v", err)
			}
		}()
	}

	today := s.now()
	if report, err := s.RunReminderSweep(ctx, today); err != nil {
		s.log.Errorf("Reminder sweep failed: %+v", err)
	} else {
		s.log.Infof("Reminder sweep done: sent=%d skipped=%d failed=%d", report.Sent, report.Skipped, report.Failed)
	}
	if report, err := s.RunMissedDoseSweep(ctx, today); err != nil {
		s.log.Errorf("Missed-dose sweep failed: %+v", err)
	} else {
		s.log.Infof("Missed-dose sweep done: sent=%d skipped=%d failed=%d", report.Sent, report.Skipped, report.Failed)
	}
}

// acquireSweepLock obtains the sweep lock. With no locker configured the
// sweeps run unguarded; the claim protocol still prevents duplicate alerts.
func (s *ReminderScheduler) acquireSweepLock(ctx context.Context) (*redislock.Lock, bool) {
	if s.locker == nil {
		return nil, true
	}
	lock, err := s.locker.Obtain(ctx, sweepLockKey, s.cfg.LockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, false
	}
	if err != nil {
		s.log.Warnf("Failed to obtain sweep lock, proceeding without it: %+v", err)
		return nil, true
	}
	return lock, true
}

// RunReminderSweep sends one WhatsApp reminder per patient covering every
// incomplete dose due exactly 15, 7, 3 or 0 days from today. Each patient
// group is processed independently; one failure never aborts the sweep.
func (s *ReminderScheduler) RunReminderSweep(ctx context.Context, today time.Time) (*dto.SweepReport, error) {
	dueDates := make([]time.Time, len(ReminderWindows))
	for i, days := range ReminderWindows {
		dueDates[i] = entity.DateOnly(today).AddDate(0, 0, days)
	}

	doses, err := s.vaccineRepo.FindUpcomingDueOn(s.db.WithContext(ctx), dueDates)
	if err != nil {
		return nil, err
	}

	report := &dto.SweepReport{}
	for _, group := range groupByPatient(doses) {
		patient := &group[0].Patient
		if patient.MobileNumber == "" {
			s.log.Warnf("Patient %s has no mobile number, reminder skipped", patient.ID)
			report.Skipped++
			continue
		}
		if s.sendReminder(ctx, patient, group) {
			report.Sent++
		} else {
			report.Failed++
		}
	}
	return report, nil
}

func (s *ReminderScheduler) sendReminder(ctx context.Context, patient *entity.Patient, doses []entity.PatientVaccine) bool {
	doctor := &doses[0].User
	earliest := earliestDue(doses)

	msg := gateway.ReminderMessage{
		MobileNumber:   patient.MobileNumber,
		ChildName:      patient.ChildName,
		DoctorName:     doctorDisplayName(patient, doctor),
		DueDate:        earliest,
		VaccineNames:   joinVaccineNames(doses),
		AgeLabel:       doses[0].AgeLabel(),
		CallbackNumber: callbackNumber(patient, doctor),
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	response, err := s.whatsApp.SendReminder(sendCtx, msg)
	cancel()

	status := entity.DeliveryStatusSuccess
	if err != nil {
		s.log.Errorf("Failed to send reminder for patient %s: %+v", patient.ID, err)
		status = entity.DeliveryStatusFailed
		if response == nil {
			response = entity.JSON{"error": err.Error()}
		}
	}

	log := &entity.ReminderLog{
		ReminderType: entity.ReminderTypeVaccination,
		Recipient:    patient.MobileNumber,
		ChildName:    patient.ChildName,
		DoctorName:   msg.DoctorName,
		DoctorID:     &doctor.ID,
		PatientID:    &patient.ID,
		VaccineName:  msg.VaccineNames,
		DueDate:      &earliest,
		Status:       status,
		Response:     response,
	}
	if logErr := s.reminderRepo.Create(s.db.WithContext(ctx), log); logErr != nil {
		s.log.Warnf("Failed to write reminder log for patient %s: %+v", patient.ID, logErr)
	}

	if status == entity.DeliveryStatusSuccess {
		if billErr := s.billing.RecomputeBilling(ctx, doctor.ID); billErr != nil {
			s.log.Warnf("Failed to recompute billing for user %s: %+v", doctor.ID, billErr)
		}
		return true
	}
	return false
}

// RunMissedDoseSweep pushes one missed-dose alert per patient to the owning
// doctor for all overdue unnotified doses.
func (s *ReminderScheduler) RunMissedDoseSweep(ctx context.Context, today time.Time) (*dto.SweepReport, error) {
	doses, err := s.vaccineRepo.FindMissedUnnotified(s.db.WithContext(ctx), today)
	if err != nil {
		return nil, err
	}

	report := &dto.SweepReport{}
	for _, group := range groupByPatient(doses) {
		patient := &group[0].Patient
		doctor := &group[0].User
		sent, err := s.dispatcher.DispatchMissedDoseAlert(ctx, doctor, patient, group)
		switch {
		case err != nil:
			report.Failed++
		case sent:
			report.Sent++
		default:
			report.Skipped++
		}
	}
	return report, nil
}

// groupByPatient buckets doses per patient, ordered by patient id for
// deterministic sweeps.
func groupByPatient(doses []entity.PatientVaccine) [][]entity.PatientVaccine {
	byPatient := make(map[uuid.UUID][]entity.PatientVaccine)
	for _, dose := range doses {
		byPatient[dose.PatientID] = append(byPatient[dose.PatientID], dose)
	}

	keys := make([]uuid.UUID, 0, len(byPatient))
	for id := range byPatient {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	groups := make([][]entity.PatientVaccine, 0, len(keys))
	for _, id := range keys {
		groups = append(groups, byPatient[id])
	}
	return groups
}

func earliestDue(doses []entity.PatientVaccine) time.Time {
	var earliest time.Time
	for i := range doses {
		if doses[i].DueDate == nil {
			continue
		}
		due := entity.DateOnly(*doses[i].DueDate)
		if earliest.IsZero() || due.Before(earliest) {
			earliest = due
		}
	}
	return earliest
}

// callbackNumber is the number parents can call back: the clinic doctor's
// contact for clinic patients, else the doctor's own mobile.
func callbackNumber(patient *entity.Patient, doctor *entity.User) string {
	if patient.ClinicDoctor != nil && patient.ClinicDoctor.ContactNumber != "" {
		return patient.ClinicDoctor.ContactNumber
	}
	return doctor.MobileNumber
}

func doctorDisplayName(patient *entity.Patient, doctor *entity.User) string {
	if patient.ClinicDoctor != nil && patient.ClinicDoctor.Name != "" {
		return patient.ClinicDoctor.Name
	}
	if doctor.FullName != "" {
		return doctor.FullName
	}
	return "Doctor"
}
