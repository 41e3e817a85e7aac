package service

import (
	"context"
	"time"

	"vaccine-reminder-backend/internal/domain/entity"
	"vaccine-reminder-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BillingService keeps billing ledgers and the analytics summary consistent
// with the delivery log. Ledger amounts are always recomputed in full from
// the success reminder rows of the period, never incremented, so a recompute
// after any number of deliveries (or retries) converges on the same figures.
type BillingService struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	reminderRepo repository.ReminderLogRepository
	billingRepo  repository.BillingRepository
	patientRepo  repository.PatientRepository
	now          func() time.Time
}

func NewBillingService(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	reminderRepo repository.ReminderLogRepository,
	billingRepo repository.BillingRepository,
	patientRepo repository.PatientRepository,
) *BillingService {
	return &BillingService{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		reminderRepo: reminderRepo,
		billingRepo:  billingRepo,
		patientRepo:  patientRepo,
		now:          time.Now,
	}
}

// RecomputeBilling refreshes the doctor's current-month ledger from the
// success reminder logs. Doctors without a complete billing configuration
// are never charged; the call is a no-op for them.
func (s *BillingService) RecomputeBilling(ctx context.Context, doctorID uuid.UUID) error {
	user, err := s.userRepo.FindByID(s.db.WithContext(ctx), doctorID)
	if err != nil {
		s.log.Warnf("Failed to load user %s for billing: %+v", doctorID, err)
		return err
	}
	if user == nil || !user.HasBillingConfig() {
		return nil
	}

	monthStart, monthEnd := currentBillingPeriod(s.now())
	count, err := s.reminderRepo.CountSuccessByDoctor(s.db.WithContext(ctx), doctorID, monthStart, monthEnd.AddDate(0, 0, 1))
	if err != nil {
		s.log.Warnf("Failed to count messages for user %s: %+v", doctorID, err)
		return err
	}

	perMessage := decimal.Zero
	if user.PerMessageCharge != nil {
		perMessage = *user.PerMessageCharge
	}
	monthlyFee := decimal.Zero
	if user.MonthlySubscriptionFee != nil {
		monthlyFee = *user.MonthlySubscriptionFee
	}
	subtotal, gst, total := entity.ComputeBill(*user.BillingMethod, perMessage, monthlyFee, int(count))

	ledger, err := s.billingRepo.FindOrCreateLedger(s.db.WithContext(ctx), doctorID, *user.BillingMethod, entity.PaymentStatusPending, monthStart, monthEnd)
	if err != nil {
		s.log.Warnf("Failed to load ledger for user %s: %+v", doctorID, err)
		return err
	}

	ledger.MessageCount = int(count)
	ledger.Subtotal = subtotal
	ledger.GSTCollected = gst
	ledger.TotalWithGST = total
	if err := s.billingRepo.Save(s.db.WithContext(ctx), ledger); err != nil {
		s.log.Warnf("Failed to save ledger for user %s: %+v", doctorID, err)
		return err
	}

	s.log.Infof("Billing recomputed for user %s: %d messages, total %s", doctorID, count, total.StringFixed(2))
	return s.RefreshAnalytics(ctx)
}

// GetDoctorBilling lists the doctor's ledger rows, newest period first.
func (s *BillingService) GetDoctorBilling(ctx context.Context, doctorID uuid.UUID) ([]entity.BillingLedger, error) {
	return s.billingRepo.FindByDoctor(s.db.WithContext(ctx), doctorID)
}

// RefreshAnalytics recomputes the single dashboard summary row from scratch.
func (s *BillingService) RefreshAnalytics(ctx context.Context) error {
	monthStart, _ := currentBillingPeriod(s.now())
	totals, err := s.billingRepo.AggregateTotals(s.db.WithContext(ctx), monthStart)
	if err != nil {
		s.log.Warnf("Failed to aggregate billing totals: %+v", err)
		return err
	}

	doctors, err := s.userRepo.CountActiveDoctors(s.db.WithContext(ctx))
	if err != nil {
		return err
	}
	patients, err := s.patientRepo.CountActive(s.db.WithContext(ctx))
	if err != nil {
		return err
	}

	summary := &entity.AnalyticsSummary{
		ID:                   entity.AnalyticsSummaryID,
		TotalRevenue:         totals.TotalRevenue,
		PendingPreviousMonth: totals.PendingPreviousMonth,
		PendingThisMonth:     totals.PendingThisMonth,
		UserPaid:             totals.UserPaid,
		UserUnpaid:           totals.UserUnpaid,
		TotalDoctors:         int(doctors),
		ActivePatients:       int(patients),
		TotalMessageSent:     totals.TotalMessageSent,
	}
	return s.billingRepo.SaveAnalytics(s.db.WithContext(ctx), summary)
}

// currentBillingPeriod returns the first and last calendar day of the month
// containing t.
func currentBillingPeriod(t time.Time) (start, end time.Time) {
	y, m, _ := t.UTC().Date()
	start = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end
}
