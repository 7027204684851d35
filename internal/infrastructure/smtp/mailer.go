package smtp

import (
	"fmt"
	"net/smtp"
	"net/url"

	"github.com/monicaDelao/brokerx/internal/config"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
	SendVerificationEmail(to, code, name string) error
}

type mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
	linkBase string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		linkBase: cfg.VerifyLinkBase,
	}
}

func (m *mailer) SendEmail(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// SendVerificationEmail delivers the 6-digit code plus an activation link,
// so the registrant can either type the code or just click through.
func (m *mailer) SendVerificationEmail(to, code, name string) error {
	link := fmt.Sprintf("%s/v1/verify/email?code=%s", m.linkBase, url.QueryEscape(code))
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Your BrokerX verification code is: %s\r\n\r\n"+
			"You can also activate your account directly: %s\r\n\r\n"+
			"If you did not register, ignore this message.",
		name, code, link,
	)
	return m.SendEmail(to, "Verify your BrokerX account", body)
}
