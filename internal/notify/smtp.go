package notify

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTP submits the digest as a multipart message (plain body with an
// HTML alternative). TLSMode is starttls, implicit, or none.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	To       string
	From     string
	TLSMode  string
}

func (s *SMTP) Send(ctx context.Context, subject, textBody, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.From); err != nil {
		return fmt.Errorf("smtp from address: %w", err)
	}
	if err := msg.To(s.To); err != nil {
		return fmt.Errorf("smtp to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, textBody)
	if htmlBody != "" {
		msg.AddAlternativeString(gomail.TypeTextHTML, htmlBody)
	}

	opts := []gomail.Option{
		gomail.WithPort(s.Port),
		gomail.WithTimeout(30 * time.Second),
	}
	if s.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.Username),
			gomail.WithPassword(s.Password),
		)
	}
	switch s.TLSMode {
	case "implicit":
		opts = append(opts, gomail.WithSSLPort(false))
	case "none":
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	default: // starttls
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	}

	c, err := gomail.NewClient(s.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
