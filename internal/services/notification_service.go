package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"policeapp/internal/domain/entities"
	"policeapp/internal/sms"
	"policeapp/pkg/utils"
)

// NotificationService sends user-facing SMS messages.
type NotificationService struct {
	sender sms.Sender
	log    *zap.Logger
}

func NewNotificationService(sender sms.Sender, log *zap.Logger) *NotificationService {
	return &NotificationService{sender: sender, log: log}
}

// SendSMS sends message to the number to and returns the provider message
// ID. ErrSMSDisabled is returned when no provider is configured.
func (s *NotificationService) SendSMS(ctx context.Context, to, message string) (string, error) {
	sid, err := s.sender.Send(ctx, to, message)
	if errors.Is(err, sms.ErrDisabled) {
		return "", ErrSMSDisabled
	}
	return sid, err
}

// NotifyReportReceived confirms a report to its author. Failures are logged
// and swallowed: a report is never rejected because the SMS could not go out.
func (s *NotificationService) NotifyReportReceived(ctx context.Context, user *entities.User, report *entities.Report) {
	if user == nil || user.Phone == "" {
		return
	}

	body := fmt.Sprintf("Your %s report (%s) has been received.", humanCrimeType(report.CrimeType), utils.ShortID(report.ID))
	if report.NearestStation != "" {
		body += " Nearest police station: " + report.NearestStation + "."
	}

	if _, err := s.sender.Send(ctx, user.Phone, body); err != nil && !errors.Is(err, sms.ErrDisabled) {
		s.log.Warn("report_sms_failed",
			zap.String("report_id", report.ID),
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
	}
}

func humanCrimeType(ct entities.CrimeType) string {
	b := []byte(ct)
	for i, c := range b {
		if c == '_' {
			b[i] = ' '
		}
	}
	return string(b)
}
