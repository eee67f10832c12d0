// Package sms sends text messages. TwilioSender talks to Twilio; LogSender is
// used when no credentials are configured and only records what would have
// been sent.
package sms

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"policeapp/internal/metrics"
)

// ErrDisabled is returned by LogSender.
var ErrDisabled = errors.New("sms: sending is disabled")

// Sender delivers body to the E.164 number to and returns the provider's
// message ID.
type Sender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// messageCreator is the slice of the Twilio API used here.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioSender struct {
	api  messageCreator
	from string
	log  *zap.Logger
}

func NewTwilioSender(accountSID, authToken, from string, log *zap.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{api: client.Api, from: from, log: log}
}

// Send creates one outbound message. The Twilio client has no context
// support, so ctx is only checked before the call.
func (s *TwilioSender) Send(ctx context.Context, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		metrics.SMSFailTotal.Inc()
		s.log.Error("sms_send_error", zap.String("to", to), zap.Error(err))
		return "", fmt.Errorf("sms: send to %s: %w", to, err)
	}

	var sid, status string
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	if resp.Status != nil {
		status = *resp.Status
	}
	metrics.SMSSentTotal.Inc()
	s.log.Info("sms_sent", zap.String("to", to), zap.String("sid", sid), zap.String("status", status))
	return sid, nil
}

type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, to, body string) (string, error) {
	s.log.Info("sms_disabled", zap.String("to", to), zap.Int("body_len", len(body)))
	return "", ErrDisabled
}
