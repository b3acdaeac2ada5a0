package services

import (
	"errors"
	"strconv"

	"github.com/dockly/dockly-api/internal/config"
	"gopkg.in/gomail.v2"
)

var errMailDisabled = errors.New("mail: SMTP not configured")

type MailService struct {
	dialer *gomail.Dialer
	from   string
	client string
}

// Global mail service instance, set up at boot. Nil dialer means mail is
// disabled (dev mode) and every send reports an error.
var Mail *MailService

func InitMail(cfg *config.Config) {
	port, _ := strconv.Atoi(cfg.SMTPPort)
	var dialer *gomail.Dialer
	if cfg.SMTPHost != "" {
		dialer = gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUser, cfg.SMTPPassword)
	}
	Mail = &MailService{dialer: dialer, from: cfg.SMTPUser, client: cfg.ClientURL}
}

func (m *MailService) send(to, subject, htmlBody string) error {
	if m == nil || m.dialer == nil {
		return errMailDisabled
	}
	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(message)
}

func (m *MailService) SendFamilyInvite(to, inviterName string) error {
	if m == nil {
		return errMailDisabled
	}
	link := m.client + "/family/join"
	return m.send(to, inviterName+" invited you to their family on Dockly", `
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
			<h2>You've been invited</h2>
			<p>`+inviterName+` added you to their family on Dockly. Sign in with this email address to see shared calendars, notes and tasks.</p>
			<p><a href="`+link+`" style="display: inline-block; padding: 10px 20px; background-color: #0033FF; color: #fff; text-decoration: none; border-radius: 5px;">Open Dockly</a></p>
		</div>
	`)
}

func (m *MailService) SendBookmarkShare(to, senderName, title, url string) error {
	if m == nil {
		return errMailDisabled
	}
	return m.send(to, senderName+" shared a bookmark with you", `
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
			<h2>`+title+`</h2>
			<p>`+senderName+` shared a link with you on Dockly:</p>
			<p><a href="`+url+`">`+url+`</a></p>
		</div>
	`)
}
