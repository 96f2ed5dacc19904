package notification

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"net/mail"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/bher20/tariffmanager/internal/compare"
	"github.com/bher20/tariffmanager/internal/config"
	"github.com/bher20/tariffmanager/internal/export"
)

var (
	ErrDisabled    = errors.New("notification: email delivery not configured")
	ErrNoRecipient = errors.New("notification: no recipient address")
	// ErrInvalidRecipient wraps recipient addresses net/mail rejects.
	ErrInvalidRecipient = errors.New("notification: invalid recipient")
)

type mailer interface {
	send(ctx context.Context, m *sgmail.SGMailV3) (status int, body string, err error)
}

type sendgridMailer struct {
	client *sendgrid.Client
}

func (s sendgridMailer) send(ctx context.Context, m *sgmail.SGMailV3) (int, string, error) {
	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, resp.Body, nil
}

// Service emails saved comparisons to clients through SendGrid. Without an
// API key it is disabled and every send returns ErrDisabled.
type Service struct {
	cfg    config.EmailConfig
	mailer mailer
	log    *zap.Logger
}

func NewService(cfg config.EmailConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{cfg: cfg, log: log}
	if cfg.SendGridAPIKey != "" && cfg.FromAddress != "" {
		s.mailer = sendgridMailer{client: sendgrid.NewSendClient(cfg.SendGridAPIKey)}
	}
	return s
}

func (s *Service) Enabled() bool { return s != nil && s.mailer != nil }

// SendComparison mails the comparison PDF to `to`, or to the client's
// stored address when `to` is empty.
func (s *Service) SendComparison(ctx context.Context, saved *compare.Saved, to string) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	if to == "" {
		to = saved.Client.Email
	}
	if to == "" {
		return ErrNoRecipient
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidRecipient, to, err)
	}

	doc, err := export.BuildComparisonPDF(saved)
	if err != nil {
		return err
	}

	msg := comparisonMessage(s.cfg, saved, to)
	att := sgmail.NewAttachment()
	att.SetContent(base64.StdEncoding.EncodeToString(doc))
	att.SetType("application/pdf")
	att.SetFilename("comparison-" + saved.ID + ".pdf")
	att.SetDisposition("attachment")
	msg.AddAttachment(att)

	status, body, err := s.mailer.send(ctx, msg)
	if err != nil {
		return fmt.Errorf("notification: send: %w", err)
	}
	if status >= 400 {
		return fmt.Errorf("sendgrid error: %d %s", status, body)
	}
	s.log.Info("comparison emailed", zap.String("id", saved.ID), zap.String("to", to))
	return nil
}

func comparisonMessage(cfg config.EmailConfig, saved *compare.Saved, to string) *sgmail.SGMailV3 {
	rec := saved.Recommendation
	from := sgmail.NewEmail(cfg.FromName, cfg.FromAddress)
	subject := "Your tariff comparison"

	var plain strings.Builder
	fmt.Fprintf(&plain, "Hello %s,\n\n", saved.Client.Name)
	fmt.Fprintf(&plain, "We recommend %s - %s.\n", rec.Tariff.CompanyName, rec.Tariff.TariffName)
	fmt.Fprintf(&plain, "Current bill: %.2f EUR. New bill: %.2f EUR.\n", rec.CurrentBill, rec.Total)
	fmt.Fprintf(&plain, "Estimated yearly saving: %.2f EUR.\n\n", rec.AnnualSaving)
	plain.WriteString("The full comparison is attached.\n")

	htmlBody := "<p>" + strings.ReplaceAll(html.EscapeString(plain.String()), "\n", "<br>") + "</p>"
	return sgmail.NewSingleEmail(from, subject, sgmail.NewEmail(saved.Client.Name, to), plain.String(), htmlBody)
}
