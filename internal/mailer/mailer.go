package mailer

import (
	"fmt"

	"elixa-backend/internal/config"

	"github.com/wneessen/go-mail"
)

type Mailer interface {
	SendVerificationEmail(to, name, verifyURL string) error
}

type smtpMailer struct {
	cfg *config.SMTP
}

func NewMailer(cfg *config.SMTP) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) SendVerificationEmail(to, name, verifyURL string) error {
	msg := mail.NewMsg()

	if err := msg.From(m.cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject("Welcome to Elixa - Verify Your Email")
	msg.SetBodyString(mail.TypeTextHTML, verificationHTML(name, verifyURL))

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	return client.DialAndSend(msg)
}

func verificationHTML(name, verifyURL string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Verify your email</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #e9ecef; padding: 20px;">
	<div style="max-width: 580px; margin: auto; background-color: white; padding: 24px; border-radius: 10px;">
		<h2 style="color: #333;">Welcome to Elixa, %s</h2>
		<p>Thanks for signing up. Please confirm your email address to activate your account.</p>
		<p style="text-align: center; margin: 32px 0;">
			<a href="%s" style="background-color: #2c7be5; color: white; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Verify Email</a>
		</p>
		<p style="color: #777; font-size: 13px;">If you did not create an account, you can ignore this email.</p>
	</div>
</body>
</html>`, name, verifyURL)
}
