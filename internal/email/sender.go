// Package email envía los correos transaccionales del back office:
// código de verificación, recibo de venta y cambios de estado de cuenta.
package email

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/logger"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/observability/metrics"
	mail "github.com/go-mail/mail"
)

// Message es un email listo para enviar.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
	// Template se usa solo como etiqueta de métricas.
	Template string
}

// Sender abstrae el transporte.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig agrupa los parámetros del servidor SMTP.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLSMode  string // "auto" | "starttls" | "ssl" | "none"
}

// SMTPSender implementa Sender con go-mail.
type SMTPSender struct {
	cfg                SMTPConfig
	InsecureSkipVerify bool
	dial               func(d *mail.Dialer, m ...*mail.Message) error
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.TLSMode == "" {
		cfg.TLSMode = "auto"
	}
	return &SMTPSender{
		cfg:  cfg,
		dial: func(d *mail.Dialer, m ...*mail.Message) error { return d.DialAndSend(m...) },
	}
}

func (s *SMTPSender) buildMessage(msg Message) *mail.Message {
	m := mail.NewMessage()
	if s.cfg.FromName != "" {
		m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	} else {
		m.SetHeader("From", s.cfg.From)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	// multipart/alternative (txt + html) cuando hay ambos
	if msg.TextBody != "" {
		m.SetBody("text/plain", msg.TextBody)
	}
	if msg.HTMLBody != "" {
		if msg.TextBody == "" {
			m.SetBody("text/html", msg.HTMLBody)
		} else {
			m.AddAlternative("text/html", msg.HTMLBody)
		}
	}
	return m
}

func (s *SMTPSender) dialer() *mail.Dialer {
	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.TLSConfig = &tls.Config{
		ServerName:         s.cfg.Host,
		InsecureSkipVerify: s.InsecureSkipVerify, // solo dev
	}
	switch s.cfg.TLSMode {
	case "ssl":
		d.SSL = true
	case "starttls":
		d.StartTLSPolicy = mail.MandatoryStartTLS
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	default:
		d.StartTLSPolicy = mail.OpportunisticStartTLS
	}
	return d
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := logger.From(ctx).With(
		logger.Component("email.smtp"),
		logger.String("host", s.cfg.Host),
		logger.String("template", msg.Template),
	)

	err := s.dial(s.dialer(), s.buildMessage(msg))
	metrics.EmailSent(msg.Template, err)
	if err != nil {
		log.Error("smtp send failed", logger.Err(err))
		return fmt.Errorf("smtp send: %w", err)
	}
	log.Info("email enviado")
	return nil
}

// LogSender no envía nada; registra el email. Para dev sin SMTP.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	logger.From(ctx).Info("email (no enviado, smtp sin configurar)",
		logger.Component("email.log"),
		logger.String("to", msg.To),
		logger.String("subject", msg.Subject),
		logger.String("template", msg.Template),
		logger.String("text", msg.TextBody),
	)
	metrics.EmailSent(msg.Template, nil)
	return nil
}
