// Package mail envía facturas PDF por SMTP usando gomail.
package mail

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/tu-usuario/pos-billing/pkg/config"
)

// GomailSender implementa billing.InvoiceMailer sobre un servidor SMTP.
type GomailSender struct {
	cfg config.SMTPConfig
}

// NewGomailSender construye el sender con la configuración SMTP.
func NewGomailSender(cfg config.SMTPConfig) GomailSender {
	return GomailSender{cfg: cfg}
}

// SendInvoice envía el PDF adjunto a los destinatarios indicados.
func (s GomailSender) SendInvoice(to []string, subject, body, attachmentPath string) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("mail: SMTP_HOST no configurado")
	}
	if len(to) == 0 {
		return fmt.Errorf("mail: sin destinatarios")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if attachmentPath != "" {
		m.Attach(attachmentPath)
	}

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: enviar a %v: %w", to, err)
	}
	return nil
}
