package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingMethod selects how a doctor is charged for delivered messages
type BillingMethod string

const (
	BillingMethodPerMessage          BillingMethod = "Per Message"
	BillingMethodMonthlySubscription BillingMethod = "Monthly Subscription"
	BillingMethodHybrid              BillingMethod = "Per Message + Monthly Subscription"
)

// PaymentStatus of a billing ledger row
type PaymentStatus string

const (
	PaymentStatusInProcess PaymentStatus = "In Process"
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusFailed    PaymentStatus = "Failed"
	PaymentStatusPaid      PaymentStatus = "Paid"
)

// GSTRate is the fixed tax rate applied to billing subtotals.
var GSTRate = decimal.NewFromFloat(0.18)

// BillingLedger is one row per (doctor, billing method, payment status,
// period). Subtotal, GST and total are recomputed in full from the success
// ReminderLog rows of the period whenever a new delivery arrives; the row is
// upserted, never appended.
//
// Invariant: TotalWithGST = Subtotal + GSTCollected = Subtotal × 1.18.
type BillingLedger struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_billing_bucket" json:"user_id"`
	BillingMethod BillingMethod   `gorm:"type:varchar(50);not null;uniqueIndex:idx_billing_bucket" json:"billing_method"`
	StartDate     time.Time       `gorm:"type:date;not null;uniqueIndex:idx_billing_bucket" json:"start_date"`
	EndDate       time.Time       `gorm:"type:date;not null" json:"end_date"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null;default:'Pending';uniqueIndex:idx_billing_bucket" json:"payment_status"`
	MessageCount  int             `gorm:"not null;default:0" json:"message_count"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	GSTCollected  decimal.Decimal `gorm:"column:gst_collected;type:numeric(10,2);not null" json:"gst_collected"`
	PreviousDues  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"previous_dues"`
	TotalWithGST  decimal.Decimal `gorm:"column:total_with_gst;type:numeric(10,2);not null" json:"total_with_gst"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (BillingLedger) TableName() string {
	return "billing_ledgers"
}

// ComputeBill derives the subtotal, GST and grand total for a message count
// under the given method. Monthly Subscription tracks the count for
// reporting only; it adds no per-message charge.
func ComputeBill(method BillingMethod, perMessage, monthlyFee decimal.Decimal, messageCount int) (subtotal, gst, total decimal.Decimal) {
	count := decimal.NewFromInt(int64(messageCount))
	switch method {
	case BillingMethodPerMessage:
		subtotal = perMessage.Mul(count)
	case BillingMethodMonthlySubscription:
		subtotal = monthlyFee
	case BillingMethodHybrid:
		subtotal = monthlyFee.Add(perMessage.Mul(count))
	}
	gst = subtotal.Mul(GSTRate)
	total = subtotal.Add(gst)
	return subtotal, gst, total
}
