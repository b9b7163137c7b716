// Package notify envoie les e-mails transactionnels de la boutique.
package notify

import (
	"context"
	"fmt"
	"time"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/metrics"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// MaxRetries est le nombre de nouvelles tentatives après un premier échec.
const MaxRetries = 2

const sendTimeout = 15 * time.Second

// Result ne remonte jamais d'erreur à l'appelant : l'échec est décrit ici.
type Result struct {
	To       string `json:"to"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Attempts int    `json:"attempts"`
}

// Transport est la partie du client SMTP utilisée pour l'envoi.
type Transport interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Sender interface {
	Send(ctx context.Context, to, subject, html string) Result
}

type Mailer struct {
	transport Transport
	from      string
}

// NewMailer crée le client SMTP partagé à partir de la configuration.
func NewMailer(cfg *config.Config) (*Mailer, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST non configuré")
	}

	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(cfg.SMTPUsername),
		mail.WithPassword(cfg.SMTPPassword),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(sendTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("client SMTP: %w", err)
	}

	return NewMailerWithTransport(client, cfg.SMTPFrom), nil
}

func NewMailerWithTransport(transport Transport, from string) *Mailer {
	return &Mailer{transport: transport, from: from}
}

// Send tente l'envoi puis réessaie immédiatement jusqu'à MaxRetries fois.
func (m *Mailer) Send(ctx context.Context, to, subject, html string) Result {
	res := Result{To: to}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		res.Error = fmt.Sprintf("expéditeur invalide: %v", err)
		return m.record(ctx, res)
	}
	if err := msg.To(to); err != nil {
		res.Error = fmt.Sprintf("destinataire invalide: %v", err)
		return m.record(ctx, res)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		res.Attempts++
		lastErr = m.transport.DialAndSendWithContext(ctx, msg)
		if lastErr == nil {
			res.Success = true
			return m.record(ctx, res)
		}
		if ctx.Err() != nil {
			break
		}
	}

	res.Error = lastErr.Error()
	return m.record(ctx, res)
}

func (m *Mailer) record(ctx context.Context, res Result) Result {
	metrics.RecordNotification(res.Success, res.Attempts)

	log := logger.FromCtx(ctx).With(zap.String("to", res.To), zap.Int("attempts", res.Attempts))
	if res.Success {
		log.Info("📧 E-mail envoyé")
	} else {
		log.Error("❌ Échec envoi e-mail", zap.String("error", res.Error))
	}
	return res
}

// Disabled remplace le Mailer quand SMTP n'est pas configuré : chaque envoi échoue sans tentative.
type Disabled struct{}

func (Disabled) Send(ctx context.Context, to, _, _ string) Result {
	res := Result{To: to, Error: "SMTP non configuré"}
	logger.FromCtx(ctx).Warn("⚠️ E-mail non envoyé, SMTP non configuré", zap.String("to", to))
	return res
}
