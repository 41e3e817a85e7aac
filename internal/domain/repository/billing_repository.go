package repository

import (
	"time"

	"vaccine-reminder-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillingTotals is the aggregate over all ledgers used by the analytics
// summary.
type BillingTotals struct {
	TotalRevenue         decimal.Decimal
	PendingPreviousMonth decimal.Decimal
	PendingThisMonth     decimal.Decimal
	UserPaid             decimal.Decimal
	UserUnpaid           decimal.Decimal
	TotalMessageSent     int
}

type BillingRepository interface {
	// FindOrCreateLedger returns the ledger row for the bucket, creating a
	// zeroed row on first use.
	FindOrCreateLedger(db *gorm.DB, userID uuid.UUID, method entity.BillingMethod, status entity.PaymentStatus, start, end time.Time) (*entity.BillingLedger, error)
	Save(db *gorm.DB, ledger *entity.BillingLedger) error
	FindByDoctor(db *gorm.DB, userID uuid.UUID) ([]entity.BillingLedger, error)

	// AggregateTotals recomputes the dashboard aggregates in full from the
	// ledger table. monthStart is the first day of the current period.
	AggregateTotals(db *gorm.DB, monthStart time.Time) (*BillingTotals, error)

	SaveAnalytics(db *gorm.DB, summary *entity.AnalyticsSummary) error
}
