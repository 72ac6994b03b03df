package mailer

import (
	"bytes"
	"context"
	"fmt"
	"time"

	mail "github.com/wneessen/go-mail"
)

// Message is a single outbound email. QRImage, when set, is embedded
// inline and referenced from the HTML body as cid:qr_code.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	QRImage []byte
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPSender struct {
	client *mail.Client
	from   string
}

func NewSMTPSender(host string, port int, user, pass, from string) (*SMTPSender, error) {
	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(user),
		mail.WithPassword(pass),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: from}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := m.AddToFormat(msg.ToName, msg.To); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)

	if len(msg.QRImage) > 0 {
		if err := m.EmbedReader("qr_code.png", bytes.NewReader(msg.QRImage),
			mail.WithFileContentID("qr_code")); err != nil {
			return fmt.Errorf("embed qr image: %w", err)
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return s.client.DialAndSendWithContext(sendCtx, m)
}
