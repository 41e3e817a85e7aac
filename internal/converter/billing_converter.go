package converter

import (
	"vaccine-reminder-backend/internal/delivery/dto"
	"vaccine-reminder-backend/internal/domain/entity"
)

// BillingLedgerToResponse converts a ledger entity to its response DTO
func BillingLedgerToResponse(ledger *entity.BillingLedger) *dto.BillingLedgerResponse {
	if ledger == nil {
		return nil
	}

	return &dto.BillingLedgerResponse{
		ID:            ledger.ID,
		UserID:        ledger.UserID,
		BillingMethod: string(ledger.BillingMethod),
		StartDate:     ledger.StartDate.Format("2006-01-02"),
		EndDate:       ledger.EndDate.Format("2006-01-02"),
		PaymentStatus: string(ledger.PaymentStatus),
		MessageCount:  ledger.MessageCount,
		Subtotal:      ledger.Subtotal,
		GSTCollected:  ledger.GSTCollected,
		PreviousDues:  ledger.PreviousDues,
		TotalWithGST:  ledger.TotalWithGST,
		UpdatedAt:     ledger.UpdatedAt,
	}
}

// BillingLedgersToResponses converts a doctor's ledger rows
func BillingLedgersToResponses(ledgers []entity.BillingLedger) []dto.BillingLedgerResponse {
	responses := make([]dto.BillingLedgerResponse, 0, len(ledgers))
	for i := range ledgers {
		responses = append(responses, *BillingLedgerToResponse(&ledgers[i]))
	}
	return responses
}
