package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/daralachab/reservation-api/internal/config"
	"github.com/daralachab/reservation-api/internal/models"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type EmailConfig struct {
	Enabled         bool
	From            string
	To              string
	Host            string
	Port            int
	Username        string
	Password        string
	RestaurantName  string
	RestaurantPhone string
}

func (c EmailConfig) complete() bool {
	return c.From != "" && c.To != "" && c.Host != "" && c.Username != "" && c.Password != ""
}

type mailClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailSender mails the staff recipient and, when the guest left an address,
// a confirmation to the guest.
type EmailSender struct {
	cfg       EmailConfig
	log       *zap.Logger
	newClient func(EmailConfig) (mailClient, error)
}

func NewEmailSender(cfg *config.Config, log *zap.Logger) *EmailSender {
	return &EmailSender{
		cfg: EmailConfig{
			Enabled:         cfg.EmailEnabled,
			From:            cfg.EmailFrom,
			To:              cfg.EmailTo,
			Host:            cfg.SMTPHost,
			Port:            cfg.SMTPPort,
			Username:        cfg.SMTPUsername,
			Password:        cfg.SMTPPassword,
			RestaurantName:  cfg.RestaurantName,
			RestaurantPhone: cfg.RestaurantPhone,
		},
		log:       log.Named("email"),
		newClient: smtpClient,
	}
}

// smtpClient requires STARTTLS and authenticates before sending.
func smtpClient(cfg EmailConfig) (mailClient, error) {
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	return mail.NewClient(cfg.Host,
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(15*time.Second),
	)
}

func (s *EmailSender) Name() string { return "email" }

func (s *EmailSender) Notify(ctx context.Context, r models.Reservation) bool {
	return s.Send(ctx, r, r.CustomerEmail())
}

// Send reports only the staff message's outcome. The guest confirmation is
// attempted after it and its failure is only logged.
func (s *EmailSender) Send(ctx context.Context, r models.Reservation, customer string) bool {
	if !s.cfg.Enabled {
		s.log.Info("email notifications are disabled (EMAIL_ENABLED=false)")
		return false
	}
	if !s.cfg.complete() {
		s.log.Warn("email configuration incomplete, skipping notification")
		return false
	}

	client, err := s.newClient(s.cfg)
	if err != nil {
		s.log.Error("failed to set up smtp client", zap.Error(err))
		return false
	}

	staff, err := s.message(s.cfg.To, staffSubject(s.cfg.RestaurantName), staffEmailBody(r, s.cfg.RestaurantName))
	if err != nil {
		s.log.Error("failed to build staff email", zap.Error(err))
		return false
	}
	if err := client.DialAndSendWithContext(ctx, staff); err != nil {
		s.log.Error("failed to send email notification", zap.String("to", s.cfg.To), zap.Error(err))
		return false
	}
	s.log.Info("email notification sent", zap.String("to", s.cfg.To), zap.String("reservation_id", r.ID))

	if customer != "" {
		s.confirm(ctx, client, r, customer)
	}
	return true
}

func (s *EmailSender) confirm(ctx context.Context, client mailClient, r models.Reservation, to string) {
	msg, err := s.message(to, customerSubject(s.cfg.RestaurantName), customerEmailBody(r, s.cfg.RestaurantName, s.cfg.RestaurantPhone))
	if err == nil {
		err = client.DialAndSendWithContext(ctx, msg)
	}
	if err != nil {
		s.log.Error("failed to send confirmation email to customer", zap.String("to", to), zap.Error(err))
		return
	}
	s.log.Info("confirmation email sent", zap.String("to", to), zap.String("reservation_id", r.ID))
}

func (s *EmailSender) message(to, subject, body string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", s.cfg.From, err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	m.Subject(subject)
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, body)
	return m, nil
}
