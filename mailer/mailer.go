package mailer

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/friendsapp/apiv1/utils"
)

// Dispatcher sends a single html mail. Implementations must return an
// error on delivery failure; callers decide whether that degrades or
// fails the surrounding operation.
type Dispatcher interface {
	SendSingleMail(recipient, htmlBody, subject string) error
}

type SMTPDispatcher struct {
	Host   string
	Port   string
	User   string
	Pass   string
	Sender string
}

func NewSMTPFromEnv() *SMTPDispatcher {
	return &SMTPDispatcher{
		Host:   os.Getenv(utils.SMTP_HOST),
		Port:   os.Getenv(utils.SMTP_PORT),
		User:   os.Getenv(utils.SMTP_USER),
		Pass:   os.Getenv(utils.SMTP_PASS),
		Sender: os.Getenv(utils.SMTP_SENDER),
	}
}

func (d *SMTPDispatcher) SendSingleMail(recipient, htmlBody, subject string) error {
	headers := []string{
		"From: " + d.Sender,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
	}
	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody
	addr := d.Host + ":" + d.Port
	auth := smtp.PlainAuth("", d.User, d.Pass, d.Host)
	if err := smtp.SendMail(addr, auth, d.Sender, []string{recipient}, []byte(message)); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDependency, err)
	}
	return nil
}
