package sms

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

type fakeTwilio struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeTwilio) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid, status := "SM123", "queued"
	return &twilioApi.ApiV2010Message{Sid: &sid, Status: &status}, nil
}

func TestTwilioSender_Send(t *testing.T) {
	fake := &fakeTwilio{}
	s := &TwilioSender{api: fake, from: "+15550001111", log: zap.NewNop()}

	sid, err := s.Send(context.Background(), "+919876543210", "Report received")
	require.NoError(t, err)
	assert.Equal(t, "SM123", sid)

	require.NotNil(t, fake.params)
	assert.Equal(t, "+919876543210", *fake.params.To)
	assert.Equal(t, "+15550001111", *fake.params.From)
	assert.Equal(t, "Report received", *fake.params.Body)
}

func TestTwilioSender_ProviderError(t *testing.T) {
	cause := errors.New("invalid 'To' number")
	s := &TwilioSender{api: &fakeTwilio{err: cause}, from: "+1", log: zap.NewNop()}

	_, err := s.Send(context.Background(), "bad", "hi")
	assert.ErrorIs(t, err, cause)
}

func TestTwilioSender_CanceledContext(t *testing.T) {
	fake := &fakeTwilio{}
	s := &TwilioSender{api: fake, from: "+1", log: zap.NewNop()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Send(ctx, "+1", "hi")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, fake.params, "provider must not be called")
}

func TestLogSender(t *testing.T) {
	_, err := NewLogSender(zap.NewNop()).Send(context.Background(), "+1", "hi")
	assert.ErrorIs(t, err, ErrDisabled)
}
