package email

import (
	"fmt"

	"github.com/Realquiid/vendopage/internal/app/config"
	"github.com/Realquiid/vendopage/internal/platform/logger"
	"gopkg.in/gomail.v2"
)

type Sender interface {
	Send(to, subject, body string) error
}

type gomailSender struct {
	cfg config.SMTPConfig
	log logger.Logger
}

func NewGomailSender(cfg config.SMTPConfig, log logger.Logger) Sender {
	return &gomailSender{cfg: cfg, log: log}
}

func (s *gomailSender) Send(to, subject, body string) error {
	if s.cfg.Host == "" || s.cfg.SenderEmail == "" {
		s.log.Error("SMTP configuration is incomplete, email not sent",
			"host", s.cfg.Host, "sender", s.cfg.SenderEmail)
		return fmt.Errorf("SMTP configuration is incomplete")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.SenderEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	s.log.Infof("Email sent to %s: %s", to, subject)
	return nil
}
