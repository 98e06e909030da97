package notifier

import (
	"context"

	"github.com/daralachab/reservation-api/internal/config"
	"github.com/daralachab/reservation-api/internal/models"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

type SMSConfig struct {
	Enabled    bool
	AccountSID string
	AuthToken  string
	From       string
	To         string
}

func (c SMSConfig) complete() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != "" && c.To != ""
}

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// SMSSender texts the staff phone through Twilio. One attempt, no retry.
type SMSSender struct {
	cfg SMSConfig
	log *zap.Logger
	// newClient is nil when no SMS provider is linked in.
	newClient func(SMSConfig) messageCreator
}

func NewSMSSender(cfg *config.Config, log *zap.Logger) *SMSSender {
	return &SMSSender{
		cfg: SMSConfig{
			Enabled:    cfg.SMSEnabled,
			AccountSID: cfg.SMSAccountSID,
			AuthToken:  cfg.SMSAuthToken,
			From:       cfg.SMSFromNumber,
			To:         cfg.SMSToNumber,
		},
		log:       log.Named("sms"),
		newClient: twilioClient,
	}
}

func twilioClient(cfg SMSConfig) messageCreator {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return client.Api
}

func (s *SMSSender) Name() string { return "sms" }

func (s *SMSSender) Notify(ctx context.Context, r models.Reservation) bool {
	return s.Send(ctx, r)
}

func (s *SMSSender) Send(_ context.Context, r models.Reservation) bool {
	if !s.cfg.Enabled {
		s.log.Info("sms notifications are disabled (SMS_ENABLED=false)")
		return false
	}
	if s.newClient == nil {
		s.log.Warn("sms provider unavailable, sms notifications disabled")
		return false
	}
	if !s.cfg.complete() {
		s.log.Warn("sms configuration incomplete, skipping notification")
		return false
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(s.cfg.To)
	params.SetFrom(s.cfg.From)
	params.SetBody(smsBody(r))

	msg, err := s.newClient(s.cfg).CreateMessage(params)
	if err != nil {
		s.log.Error("failed to send sms notification", zap.String("to", s.cfg.To), zap.Error(err))
		return false
	}

	sid := ""
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	s.log.Info("sms notification sent", zap.String("to", s.cfg.To), zap.String("sid", sid), zap.String("reservation_id", r.ID))
	return true
}
