package repository

import (
	"time"

	"vaccine-reminder-backend/internal/domain/entity"
	domainRepo "vaccine-reminder-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type billingRepository struct{}

func NewBillingRepository() domainRepo.BillingRepository {
	return &billingRepository{}
}

func (r *billingRepository) FindOrCreateLedger(db *gorm.DB, userID uuid.UUID, method entity.BillingMethod, status entity.PaymentStatus, start, end time.Time) (*entity.BillingLedger, error) {
	ledger := entity.BillingLedger{
		UserID:        userID,
		BillingMethod: method,
		PaymentStatus: status,
		StartDate:     entity.DateOnly(start),
	}
	err := db.Where(&entity.BillingLedger{
		UserID:        userID,
		BillingMethod: method,
		PaymentStatus: status,
		StartDate:     entity.DateOnly(start),
	}).Attrs(entity.BillingLedger{
		EndDate:      entity.DateOnly(end),
		Subtotal:     decimal.Zero,
		GSTCollected: decimal.Zero,
		PreviousDues: decimal.Zero,
		TotalWithGST: decimal.Zero,
	}).FirstOrCreate(&ledger).Error
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (r *billingRepository) Save(db *gorm.DB, ledger *entity.BillingLedger) error {
	return db.Save(ledger).Error
}

func (r *billingRepository) FindByDoctor(db *gorm.DB, userID uuid.UUID) ([]entity.BillingLedger, error) {
	var ledgers []entity.BillingLedger
	err := db.Where("user_id = ?", userID).Order("start_date DESC").Find(&ledgers).Error
	if err != nil {
		return nil, err
	}
	return ledgers, nil
}

func (r *billingRepository) AggregateTotals(db *gorm.DB, monthStart time.Time) (*domainRepo.BillingTotals, error) {
	var row struct {
		TotalRevenue         decimal.Decimal
		PendingPreviousMonth decimal.Decimal
		PendingThisMonth     decimal.Decimal
		UserPaid             decimal.Decimal
		UserUnpaid           decimal.Decimal
		TotalMessageSent     int
	}

	err := db.Model(&entity.BillingLedger{}).
		Select(`
			COALESCE(SUM(total_with_gst), 0) AS total_revenue,
			COALESCE(SUM(CASE WHEN payment_status = ? AND start_date < ? THEN total_with_gst END), 0) AS pending_previous_month,
			COALESCE(SUM(CASE WHEN payment_status = ? AND start_date >= ? THEN total_with_gst END), 0) AS pending_this_month,
			COALESCE(SUM(CASE WHEN payment_status = ? THEN total_with_gst END), 0) AS user_paid,
			COALESCE(SUM(CASE WHEN payment_status IN (?, ?) THEN total_with_gst END), 0) AS user_unpaid,
			COALESCE(SUM(message_count), 0) AS total_message_sent
		`,
			entity.PaymentStatusPending, entity.DateOnly(monthStart),
			entity.PaymentStatusPending, entity.DateOnly(monthStart),
			entity.PaymentStatusPaid,
			entity.PaymentStatusPending, entity.PaymentStatusInProcess).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &domainRepo.BillingTotals{
		TotalRevenue:         row.TotalRevenue,
		PendingPreviousMonth: row.PendingPreviousMonth,
		PendingThisMonth:     row.PendingThisMonth,
		UserPaid:             row.UserPaid,
		UserUnpaid:           row.UserUnpaid,
		TotalMessageSent:     row.TotalMessageSent,
	}, nil
}

func (r *billingRepository) SaveAnalytics(db *gorm.DB, summary *entity.AnalyticsSummary) error {
	summary.ID = entity.AnalyticsSummaryID
	return db.Save(summary).Error
}
