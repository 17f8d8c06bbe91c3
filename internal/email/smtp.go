// Package email delivers one-time passcodes to users over SMTP.  It
// supports implicit TLS on port 465 and STARTTLS upgrade on submission
// ports, which covers Gmail and the common transactional providers.
package email

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// Config carries the SMTP endpoint and credentials, loaded once at
// startup from the environment.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends OTP mail through a configured SMTP endpoint.  It
// satisfies the otp.Sender interface.
type SMTPSender struct{ Cfg Config }

func NewSMTPSender(cfg Config) *SMTPSender { return &SMTPSender{Cfg: cfg} }

// SendOTP delivers a signup passcode to the recipient.  The message is a
// short plain-text mail; any SMTP failure is returned to the caller,
// which reports it as a delivery error without rolling back the already
// stored challenge.
func (s *SMTPSender) SendOTP(to, code string) error {
	subject := "Your signup verification code"
	body := "Your one-time passcode is: " + code + "\nIt expires in 10 minutes."
	message := buildMessage(s.Cfg.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.Cfg.Host, s.Cfg.Port)
	auth := smtp.PlainAuth("", s.Cfg.Username, s.Cfg.Password, s.Cfg.Host)

	client, err := dial(addr, s.Cfg.Host, s.Cfg.Port)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(bareAddress(s.Cfg.From)); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(message)); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// dial opens an SMTP client, using implicit TLS for port 465 and
// opportunistic STARTTLS otherwise.
func dial(addr, host string, port int) (*smtp.Client, error) {
	if port == 465 {
		conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(conn, host)
	}
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return nil, err
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	return client, nil
}

func buildMessage(from, to, subject, body string) string {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}
	return strings.Join(headers, "\r\n")
}

// bareAddress extracts the address from a "Name <addr>" From header.
func bareAddress(from string) string {
	start := strings.Index(from, "<")
	end := strings.Index(from, ">")
	if start >= 0 && end > start {
		return strings.TrimSpace(from[start+1 : end])
	}
	return strings.TrimSpace(from)
}
