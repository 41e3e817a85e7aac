package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vaccine-reminder-backend/internal/domain/entity"
	"vaccine-reminder-backend/internal/domain/gateway"
	"vaccine-reminder-backend/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationDispatcher delivers missed-dose push alerts to doctors with
// at-most-once semantics. The notification_sent flag on each dose is the
// claim: a group is only sent after every dose in it flips false→true inside
// one transaction. Losing the claim race means another dispatcher already
// owns the group and this one walks away without sending.
type NotificationDispatcher struct {
	db               *gorm.DB
	log              *logrus.Logger
	vaccineRepo      repository.PatientVaccineRepository
	notificationRepo repository.NotificationLogRepository
	reminderRepo     repository.ReminderLogRepository
	push             gateway.PushSender
	billing          *BillingService
	sendTimeout      time.Duration
	now              func() time.Time
}

func NewNotificationDispatcher(
	db *gorm.DB,
	log *logrus.Logger,
	vaccineRepo repository.PatientVaccineRepository,
	notificationRepo repository.NotificationLogRepository,
	reminderRepo repository.ReminderLogRepository,
	push gateway.PushSender,
	billing *BillingService,
	sendTimeout time.Duration,
) *NotificationDispatcher {
	if sendTimeout <= 0 {
		sendTimeout = 15 * time.Second
	}
	return &NotificationDispatcher{
		db:               db,
		log:              log,
		vaccineRepo:      vaccineRepo,
		notificationRepo: notificationRepo,
		reminderRepo:     reminderRepo,
		push:             push,
		billing:          billing,
		sendTimeout:      sendTimeout,
		now:              time.Now,
	}
}

// DispatchMissedDoseAlert sends one push alert to the doctor covering all of
// a patient's missed doses. Returns true when this dispatcher won the claim
// and the alert was sent.
//
// A missing device token is a permanent failure: the claim stands so the
// group is not retried every sweep, and a failed notification row records it.
// A send failure is transient: the claim is released and a later sweep
// retries.
func (d *NotificationDispatcher) DispatchMissedDoseAlert(ctx context.Context, doctor *entity.User, patient *entity.Patient, doses []entity.PatientVaccine) (bool, error) {
	if len(doses) == 0 {
		return false, nil
	}

	ids := make([]int64, len(doses))
	for i, dose := range doses {
		ids[i] = dose.ID
	}

	claimed, err := d.vaccineRepo.ClaimNotifications(d.db.WithContext(ctx), ids, d.now())
	if err != nil {
		d.log.Errorf("Failed to claim notification for patient %s: %+v", patient.ID, err)
		return false, err
	}
	if claimed != int64(len(ids)) {
		d.log.Infof("Notification for patient %s already claimed (%d/%d), skipping", patient.ID, claimed, len(ids))
		return false, nil
	}

	title := "Missed Vaccine Alert"
	body := fmt.Sprintf("Due date missed for %s for %s. You can reach %s at %s.",
		patient.ChildName, joinVaccineNames(doses), patient.ChildName, patient.MobileNumber)
	data := map[string]string{
		"type":       entity.ReminderTypeMissedDose,
		"patient_id": patient.ID.String(),
	}

	if doctor.FCMToken == "" {
		d.log.Warnf("User %s has no device token, missed-dose alert for patient %s dropped", doctor.ID, patient.ID)
		d.recordNotification(ctx, doctor, patient, title, body, data, entity.DeliveryStatusFailed,
			entity.JSON{"error": "no device token registered"})
		return false, nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	messageID, err := d.push.Send(sendCtx, doctor.FCMToken, title, body, data)
	cancel()
	if err != nil {
		d.log.Errorf("Failed to send missed-dose alert for patient %s: %+v", patient.ID, err)
		if releaseErr := d.vaccineRepo.ReleaseNotifications(d.db.WithContext(ctx), ids); releaseErr != nil {
			d.log.Errorf("Failed to release notification claim for patient %s: %+v", patient.ID, releaseErr)
		}
		d.recordNotification(ctx, doctor, patient, title, body, data, entity.DeliveryStatusFailed,
			entity.JSON{"error": err.Error()})
		return false, err
	}

	d.recordNotification(ctx, doctor, patient, title, body, data, entity.DeliveryStatusSuccess,
		entity.JSON{"message_id": messageID})
	d.RecordDelivery(ctx, entity.ReminderTypeMissedDose, doctor, patient, doses, entity.DeliveryStatusSuccess, entity.JSON{"message_id": messageID})

	d.log.Infof("Missed-dose alert sent to user %s for patient %s (%d doses)", doctor.ID, patient.ID, len(doses))
	return true, nil
}

// RecordDelivery appends the reminder audit row for a dispatched group and,
// on success, refreshes the doctor's billing. Exposed so the reminder sweep
// can record its WhatsApp deliveries through the same path.
func (d *NotificationDispatcher) RecordDelivery(ctx context.Context, reminderType string, doctor *entity.User, patient *entity.Patient, doses []entity.PatientVaccine, status entity.DeliveryStatus, response entity.JSON) {
	var dueDate *time.Time
	if len(doses) > 0 && doses[0].DueDate != nil {
		due := entity.DateOnly(*doses[0].DueDate)
		dueDate = &due
	}

	log := &entity.ReminderLog{
		ReminderType: reminderType,
		Recipient:    patient.MobileNumber,
		ChildName:    patient.ChildName,
		DoctorName:   doctor.FullName,
		DoctorID:     &doctor.ID,
		PatientID:    &patient.ID,
		VaccineName:  joinVaccineNames(doses),
		DueDate:      dueDate,
		Status:       status,
		Response:     response,
	}
	if err := d.reminderRepo.Create(d.db.WithContext(ctx), log); err != nil {
		d.log.Warnf("Failed to write reminder log for patient %s: %+v", patient.ID, err)
	}

	if status == entity.DeliveryStatusSuccess {
		if err := d.billing.RecomputeBilling(ctx, doctor.ID); err != nil {
			d.log.Warnf("Failed to recompute billing for user %s: %+v", doctor.ID, err)
		}
	}
}

func (d *NotificationDispatcher) recordNotification(ctx context.Context, doctor *entity.User, patient *entity.Patient, title, body string, data map[string]string, status entity.DeliveryStatus, response entity.JSON) {
	payload := make(entity.JSON, len(data))
	for k, v := range data {
		payload[k] = v
	}
	log := &entity.NotificationLog{
		Title:     title,
		Body:      body,
		Data:      payload,
		Status:    status,
		Response:  response,
		DoctorID:  &doctor.ID,
		PatientID: &patient.ID,
	}
	if err := d.notificationRepo.Create(d.db.WithContext(ctx), log); err != nil {
		d.log.Warnf("Failed to write notification log for patient %s: %+v", patient.ID, err)
	}
}

func joinVaccineNames(doses []entity.PatientVaccine) string {
	names := make([]string, 0, len(doses))
	for i := range doses {
		if name := doses[i].VaccineName(); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
