package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"time"
)

// sendWithSMTP sends a multipart/alternative message over SMTP
func (s *Service) sendWithSMTP(data EmailData, htmlContent, textContent string) error {
	cfg := s.config.SMTP

	var buf bytes.Buffer
	boundary := fmt.Sprintf("_SOCIOPLUS_BOUNDARY_%d", time.Now().UnixNano())

	fmt.Fprintf(&buf, "From: %s <%s>\r\n", data.FromName, data.From)
	fmt.Fprintf(&buf, "To: %s\r\n", data.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", data.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	writePart(&buf, boundary, "text/plain", textContent)
	writePart(&buf, boundary, "text/html", htmlContent)
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	if err := smtp.SendMail(addr, auth, data.From, []string{data.To}, buf.Bytes()); err != nil {
		return fmt.Errorf("sending email via SMTP: %w", err)
	}

	return nil
}

func writePart(buf *bytes.Buffer, boundary, contentType, body string) {
	fmt.Fprintf(buf, "--%s\r\n", boundary)
	fmt.Fprintf(buf, "Content-Type: %s; charset=utf-8\r\n", contentType)
	buf.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
	buf.WriteString(base64.StdEncoding.EncodeToString([]byte(body)))
	buf.WriteString("\r\n")
}
