package email

import (
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teamdash/teamdash/shared/config"
	internal_errors "github.com/teamdash/teamdash/shared/errors"
	"github.com/teamdash/teamdash/shared/logger"
)

var ErrNotConfigured = errors.New("smtp server is not configured")

// Sender delivers plain text mail over SMTP. Port 465 uses implicit TLS,
// any other port upgrades with STARTTLS.
type Sender struct {
	config *config.Email
	auth   smtp.Auth
}

func New(config *config.Email) *Sender {
	return &Sender{
		config: config,
		auth:   smtp.PlainAuth("", config.Username, config.Password, config.SMTPServer),
	}
}

func (e *Sender) IsCorrect(address string) error {
	if _, err := mail.ParseAddress(address); err != nil {
		return internal_errors.BadRequest(err.Error())
	}
	return nil
}

func (e *Sender) Send(recipient, subject, body string) error {
	if e.config.SMTPServer == "" {
		return ErrNotConfigured
	}
	msg := e.buildMessage(recipient, subject, body, time.Now())

	client, err := e.dial()
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server", "server", e.config.SMTPServer, "port", e.config.SMTPPort, "error", err)
		return err
	}
	defer client.Close()

	if err := e.deliver(client, recipient, msg); err != nil {
		logger.Log.Error("failed to deliver mail", "recipient", recipient, "error", err)
		return err
	}
	return nil
}

func (e *Sender) timeout() time.Duration {
	if e.config.Timeout == 0 {
		return 10 * time.Second
	}
	return time.Duration(e.config.Timeout) * time.Second
}

func (e *Sender) dial() (*smtp.Client, error) {
	address := net.JoinHostPort(e.config.SMTPServer, fmt.Sprint(e.config.SMTPPort))
	tlsConfig := &tls.Config{ServerName: e.config.SMTPServer}
	dialer := &net.Dialer{Timeout: e.timeout()}

	if e.config.SMTPPort == 465 {
		conn, err := tls.DialWithDialer(dialer, "tcp", address, tlsConfig)
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(conn, e.config.SMTPServer)
	}

	conn, err := dialer.Dial("tcp", address)
	if err != nil {
		return nil, err
	}
	client, err := smtp.NewClient(conn, e.config.SMTPServer)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		client.Close()
		return nil, fmt.Errorf("starttls: %w", err)
	}
	return client, nil
}

func (e *Sender) deliver(client *smtp.Client, recipient string, msg []byte) error {
	if err := client.Auth(e.auth); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := client.Mail(e.config.Username); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}
	return client.Quit()
}

func (e *Sender) buildMessage(recipient, subject, body string, now time.Time) []byte {
	host := "localhost"
	if _, domain, ok := strings.Cut(e.config.Username, "@"); ok && domain != "" {
		host = domain
	}

	return fmt.Appendf(nil,
		"Message-ID: <%s@%s>\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s",
		uuid.NewString(), host,
		now.Format(time.RFC1123Z),
		recipient,
		mime.QEncoding.Encode("utf-8", e.config.SenderName), e.config.Username,
		mime.QEncoding.Encode("utf-8", subject),
		body,
	)
}
