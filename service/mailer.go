// Package service contains domain helpers that sit between the handlers
// and the database
package service

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Mailer is the outbound mail collaborator. Kept as an interface so
// tests can record sends instead of talking to an SMTP server
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type SMTPMailer struct{}

func (SMTPMailer) Send(to, subject, htmlBody string) error {
	from := viper.GetString("mail.sender")
	if to == from {
		return errors.New("invalid email address")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		from,
		viper.GetString("mail.password"),
	)

	return d.DialAndSend(m)
}

// SendVerificationMail delivers the plaintext verification token. The
// link format matches what the frontend router expects
func SendVerificationMail(m Mailer, to, plaintextToken string) error {
	verifLink := fmt.Sprintf("%s/email-verified/%s", viper.GetString("client.url"), plaintextToken)

	body := fmt.Sprintf(
		"Click <a href='%v'>here</a> to verify your account.<br><br>This link will expire in %d minutes",
		verifLink, viper.GetInt("security.verification_ttl_minutes"),
	)

	return m.Send(to, "Verify your email to start planning your semester", body)
}
