package utils

import (
	"fmt"
	"net/smtp"

	"github.com/filenamedotexe/agency-os-sub006/logging"
)

// EmailSender dispatches a single email. Satisfied by SMTPSender in
// production and by stubs in tests.
type EmailSender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends HTML email through a plain-auth SMTP relay.
type SMTPSender struct {
	Host     string
	Port     string
	From     string
	Password string
}

func (s *SMTPSender) Send(to, subject, body string) error {
	logging.Logger.Debugf("Event ID: SEND_EMAIL_START, Description: Attempting to send email to '%s' with subject: '%s'", to, subject)

	if s.Password == "" {
		logging.Logger.Errorf("Event ID: SEND_EMAIL_MISSING_ENV, Description: EMAIL_PASSWORD environment variable is not set.")
		return fmt.Errorf("EMAIL_PASSWORD is not set")
	}

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + s.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", s.From, s.Password, s.Host)

	if err := smtp.SendMail(s.Host+":"+s.Port, auth, s.From, []string{to}, message); err != nil {
		logging.Logger.Errorf("Event ID: SEND_EMAIL_FAILED, Description: Failed to send email to '%s' with subject '%s': %v", to, subject, err)
		return fmt.Errorf("failed to send email: %v", err)
	}

	logging.Logger.Infof("Event ID: SEND_EMAIL_SUCCESS, Description: Email successfully sent to '%s' with subject: '%s'", to, subject)
	return nil
}
