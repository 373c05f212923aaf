package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/config"
)

// SMTPGateway sends invoice notifications over SMTP with optional
// STARTTLS. Sends are synchronous; callers wrap them in BestEffort.
type SMTPGateway struct {
	cfg config.SMTPConfig
	log *zap.Logger
}

func NewSMTPGateway(cfg config.SMTPConfig, log *zap.Logger) *SMTPGateway {
	return &SMTPGateway{
		cfg: cfg,
		log: log.Named("notification.smtp"),
	}
}

func (g *SMTPGateway) InvoiceGenerated(ctx context.Context, params InvoiceGeneratedParams) error {
	subject, body, err := renderGenerated(params)
	if err != nil {
		return err
	}
	return g.send(ctx, params.Recipient, subject, body)
}

func (g *SMTPGateway) InvoiceOverdue(ctx context.Context, params InvoiceOverdueParams) error {
	subject, body, err := renderOverdue(params)
	if err != nil {
		return err
	}
	return g.send(ctx, params.Recipient, subject, body)
}

func (g *SMTPGateway) InvoiceDueSoon(ctx context.Context, params InvoiceDueSoonParams) error {
	subject, body, err := renderDueSoon(params)
	if err != nil {
		return err
	}
	return g.send(ctx, params.Recipient, subject, body)
}

func (g *SMTPGateway) send(ctx context.Context, recipient, subject, body string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return fmt.Errorf("missing recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", g.cfg.Host, g.cfg.Port)
	msg := buildMessage(g.cfg.From, recipient, subject, body)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer client.Close()

	if g.cfg.StartTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: g.cfg.Host}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if g.cfg.Username != "" && g.cfg.Password != "" {
		auth := smtp.PlainAuth("", g.cfg.Username, g.cfg.Password, g.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := client.Mail(g.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(recipient); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write(msg); err != nil {
		_ = writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	g.log.Info("notification sent",
		zap.String("recipient", recipient),
		zap.String("subject", subject),
	)
	return client.Quit()
}

func buildMessage(from, to, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(sb.String())
}
