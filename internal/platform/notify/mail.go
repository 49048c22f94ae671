// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// LogMailer writes outgoing emails to the structured log.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a mailer that only logs.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send implements [Mailer].
func (mailer *LogMailer) Send(ctx context.Context, recipients []string, message Mail) error {
	mailer.logger.InfoContext(ctx, "email_logged",
		slog.Int("recipients", len(recipients)),
		slog.String("subject", message.Subject),
		slog.String("text", message.Text),
	)
	return nil
}

// SMTPConfig holds the outbound SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers email through an SMTP relay.
//
// A batch is sent as one message addressed to the sender with every
// recipient in BCC, so students never see each other's addresses.
type SMTPMailer struct {
	config SMTPConfig
}

// NewSMTPMailer creates a new SMTP mailer.
func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	return &SMTPMailer{config: config}
}

// Send implements [Mailer].
func (mailer *SMTPMailer) Send(ctx context.Context, recipients []string, message Mail) error {
	msg, err := mailer.build(recipients, message)
	if err != nil {
		return err
	}

	options := []mail.Option{
		mail.WithPort(mailer.config.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if mailer.config.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(mailer.config.Username),
			mail.WithPassword(mailer.config.Password),
		)
	}

	client, err := mail.NewClient(mailer.config.Host, options...)
	if err != nil {
		return fmt.Errorf("notify: smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("notify: smtp send: %w", err)
	}

	return nil
}

func (mailer *SMTPMailer) build(recipients []string, message Mail) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(mailer.config.From); err != nil {
		return nil, fmt.Errorf("notify: invalid sender: %w", err)
	}
	if err := msg.To(mailer.config.From); err != nil {
		return nil, fmt.Errorf("notify: invalid sender: %w", err)
	}
	if err := msg.Bcc(recipients...); err != nil {
		return nil, fmt.Errorf("notify: invalid recipients: %w", err)
	}

	msg.Subject(message.Subject)
	msg.SetBodyString(mail.TypeTextPlain, message.Text)
	if message.HTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, message.HTML)
	}

	return msg, nil
}
