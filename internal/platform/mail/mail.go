// Copyright (c) 2026 YaMDb. All rights reserved.

/*
Package mail handles outbound delivery of signup confirmation codes.

Delivery is a fire-and-forget side effect of the signup flow: a send
failure is logged but never surfaced to the API caller, so error
responses cannot be used to probe which email addresses exist.

Two implementations of [Sender] are provided:

  - SMTPSender: real delivery over SMTP with PLAIN auth.
  - LogSender: development fallback that logs the code instead.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Sender dispatches a confirmation code to a recipient address.
type Sender interface {
	SendConfirmationCode(ctx context.Context, recipient, code string) error
}

// # SMTP Delivery

// SMTPSender delivers confirmation codes through an SMTP relay.
type SMTPSender struct {
	host   string
	port   string
	auth   smtp.Auth
	sender string
}

// NewSMTPSender constructs an [SMTPSender]. Auth is skipped when username
// is empty (e.g. a local relay).
func NewSMTPSender(host, port, username, password, sender string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{host: host, port: port, auth: auth, sender: sender}
}

// SendConfirmationCode sends the code in a plain-text email.
func (s *SMTPSender) SendConfirmationCode(_ context.Context, recipient, code string) error {
	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Confirmation code\r\n\r\nYour YaMDb confirmation code: %s\r\n",
		s.sender, recipient, code,
	)

	addr := s.host + ":" + s.port
	if err := smtp.SendMail(addr, s.auth, s.sender, []string{recipient}, []byte(message)); err != nil {
		return fmt.Errorf("mail: failed to send confirmation code: %w", err)
	}

	return nil
}

// # Development Delivery

// LogSender writes the confirmation code to the structured log instead of
// sending mail. For local development only.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender constructs a [LogSender].
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendConfirmationCode logs the code at INFO level.
func (s *LogSender) SendConfirmationCode(ctx context.Context, recipient, code string) error {
	s.logger.InfoContext(ctx, "confirmation_code_issued",
		slog.String("recipient", recipient),
		slog.String("code", code),
	)
	return nil
}
