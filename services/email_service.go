package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/Dosada05/scouting-system/models"
)

// Mailer доставляет ссылку-приглашение на email скаута.
type Mailer interface {
	SendInvite(ctx context.Context, invite models.Invite, link string) error
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Port > 0 && c.From != ""
}

var inviteEmailTemplate = template.Must(template.New("invite").Parse(`<!DOCTYPE html>
<html><body>
<p>{{if .Name}}Cześć {{.Name}},{{else}}Cześć,{{end}}</p>
<p>Zostałeś zaproszony do systemu skautingowego jako <b>{{.Role}}</b>.</p>
<p><a href="{{.Link}}">Aktywuj konto</a> (link ważny do {{.ExpiresAt}}).</p>
</body></html>`))

type smtpMailer struct {
	cfg     SMTPConfig
	timeout time.Duration
}

func NewSMTPMailer(cfg SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg, timeout: 15 * time.Second}
}

func (m *smtpMailer) SendInvite(ctx context.Context, invite models.Invite, link string) error {
	var body bytes.Buffer
	err := inviteEmailTemplate.Execute(&body, struct {
		Name, Role, Link, ExpiresAt string
	}{
		Name:      invite.Name,
		Role:      string(invite.Role),
		Link:      link,
		ExpiresAt: invite.ExpiresAt.Format("2006-01-02"),
	})
	if err != nil {
		return fmt.Errorf("ошибка генерации тела письма-приглашения: %w", err)
	}
	return m.send(ctx, invite.Email, "Zaproszenie do systemu skautingowego", body.String())
}

func (m *smtpMailer) send(ctx context.Context, to, subject, body string) error {
	msg := []byte("To: " + to + "\r\n" +
		"From: " + m.cfg.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	tlsConfig := &tls.Config{ServerName: m.cfg.Host}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var (
		conn net.Conn
		err  error
	)
	if m.cfg.Port == 465 {
		// Прямое TLS-соединение
		conn, err = (&tls.Dialer{Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("ошибка соединения SMTP: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("ошибка создания SMTP клиента: %w", err)
	}
	defer client.Quit()

	if m.cfg.Port != 465 {
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("ошибка команды STARTTLS: %w", err)
		}
	}
	if m.cfg.User != "" {
		if err := client.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)); err != nil {
			return fmt.Errorf("ошибка аутентификации SMTP: %w", err)
		}
	}
	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("ошибка MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("ошибка RCPT TO: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("ошибка команды DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("ошибка записи сообщения: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия DATA: %w", err)
	}
	return nil
}
