package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsSummaryID is the primary key of the single summary row.
const AnalyticsSummaryID = 1

// AnalyticsSummary is a single denormalized dashboard row, recomputed in
// full from the billing ledgers and the user/patient rosters on every
// change. Full recomputation keeps it drift-free; it is a materialized
// view, not incremental state.
type AnalyticsSummary struct {
	ID                   int             `gorm:"primaryKey" json:"id"`
	TotalRevenue         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_revenue"`
	PendingPreviousMonth decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"pending_previous_month"`
	PendingThisMonth     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"pending_this_month"`
	UserPaid             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"user_paid"`
	UserUnpaid           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"user_unpaid"`
	TotalDoctors         int             `gorm:"not null;default:0" json:"total_doctors"`
	ActivePatients       int             `gorm:"not null;default:0" json:"active_patients"`
	TotalMessageSent     int             `gorm:"not null;default:0" json:"total_message_sent"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AnalyticsSummary) TableName() string {
	return "analytics_summary"
}
