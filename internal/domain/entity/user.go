package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType distinguishes individual doctor accounts from clinic accounts
type AccountType string

const (
	AccountTypeDoctor AccountType = "doctor"
	AccountTypeClinic AccountType = "clinic"
)

// User represents a doctor or clinic account. Authentication is handled by an
// external service; this table is read for contact, push and billing data.
type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName     string      `gorm:"type:varchar(255);not null" json:"full_name"`
	AccountType  AccountType `gorm:"type:varchar(20);not null;index" json:"account_type"`
	MobileNumber string      `gorm:"type:varchar(20)" json:"mobile_number,omitempty"`
	FCMToken     string      `gorm:"column:fcm_token;type:text" json:"-"`

	// Billing configuration. All three are optional: billing is opt-in and a
	// doctor with no method configured is never charged.
	BillingMethod          *BillingMethod   `gorm:"type:varchar(50)" json:"billing_method,omitempty"`
	PerMessageCharge       *decimal.Decimal `gorm:"type:numeric(10,2)" json:"per_message_charge,omitempty"`
	MonthlySubscriptionFee *decimal.Decimal `gorm:"type:numeric(10,2)" json:"monthly_subscription_fee,omitempty"`

	IsActive  *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasBillingConfig reports whether the user has everything required to be
// charged under its configured billing method.
func (u *User) HasBillingConfig() bool {
	if u.BillingMethod == nil {
		return false
	}
	switch *u.BillingMethod {
	case BillingMethodPerMessage:
		return u.PerMessageCharge != nil
	case BillingMethodMonthlySubscription:
		return u.MonthlySubscriptionFee != nil
	case BillingMethodHybrid:
		return u.PerMessageCharge != nil && u.MonthlySubscriptionFee != nil
	}
	return false
}
