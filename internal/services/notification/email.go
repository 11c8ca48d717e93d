package notification

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strconv"

	"advance/internal/config"
	"advance/internal/models"
)

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailSender delivers multipart text and HTML mail over SMTP.
type EmailSender struct {
	cfg      config.SMTPConfig
	sendMail SendMailFunc
}

// NewEmailSender creates the email channel. sendMail defaults to smtp.SendMail.
func NewEmailSender(cfg config.SMTPConfig, sendMail SendMailFunc) *EmailSender {
	if sendMail == nil {
		sendMail = smtp.SendMail
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &EmailSender{cfg: cfg, sendMail: sendMail}
}

func (s *EmailSender) Channel() models.Channel { return models.ChannelEmail }

func (s *EmailSender) Send(ctx context.Context, to Recipient, msg Message) error {
	if !s.cfg.Configured() {
		return ErrChannelNotConfigured
	}
	if to.Email == "" {
		return ErrNoAddress
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := msg.EmailSubject
	if subject == "" {
		subject = msg.Title
	}
	text := msg.EmailText
	if text == "" {
		text = msg.Body
	}

	body, err := buildMIME(s.cfg.From, to.Email, subject, text, msg.EmailHTML)
	if err != nil {
		return err
	}

	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	if err := s.sendMail(addr, auth, s.cfg.From, []string{to.Email}, body); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

func buildMIME(from, to, subject, text, html string) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=\"utf-8\"", text},
		{"text/html; charset=\"utf-8\"", html},
	}
	for _, p := range parts {
		if p.content == "" {
			continue
		}
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
