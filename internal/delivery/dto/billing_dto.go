package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingLedgerResponse represents one billing bucket for a doctor
type BillingLedgerResponse struct {
	ID            int64           `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	BillingMethod string          `json:"billing_method"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	PaymentStatus string          `json:"payment_status"`
	MessageCount  int             `json:"message_count"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	GSTCollected  decimal.Decimal `json:"gst_collected"`
	PreviousDues  decimal.Decimal `json:"previous_dues"`
	TotalWithGST  decimal.Decimal `json:"total_with_gst"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BillingListResponse wraps a doctor's ledger rows
type BillingListResponse struct {
	Ledgers []BillingLedgerResponse `json:"ledgers"`
	Total   int                     `json:"total"`
}
