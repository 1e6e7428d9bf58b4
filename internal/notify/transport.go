package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// Transport delivers one message.
type Transport interface {
	Name() string
	Send(ctx context.Context, msg Message) (Receipt, error)
}

// Receipt describes a delivered message. Test is set by transports that
// deliver into a disposable inbox; PreviewURL is set when the server told us
// where that inbox shows the message.
type Receipt struct {
	MessageID      string
	PreviewURL     string
	ServerResponse string
	Test           bool
}

// Credentials authenticate against an SMTP endpoint.
type Credentials struct {
	Username string
	Password string
}

// mailSender delivers one message and returns the server's final reply.
type mailSender interface {
	Send(ctx context.Context, m *mail.Msg) (string, error)
}

type goMailSender struct {
	client *mail.Client
}

func (s goMailSender) Send(ctx context.Context, m *mail.Msg) (string, error) {
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return "", err
	}
	return m.ServerResponse(), nil
}

// dialFunc builds a client for one send.
type dialFunc func(p Provider, creds Credentials, timeout time.Duration) (mailSender, error)

func dialSMTP(p Provider, creds Credentials, timeout time.Duration) (mailSender, error) {
	opts := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(creds.Username),
		mail.WithPassword(creds.Password),
		mail.WithTimeout(timeout),
	}
	if p.SSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	opts = append(opts, mail.WithPort(p.Port))

	client, err := mail.NewClient(p.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client for %s: %w", p, err)
	}
	return goMailSender{client: client}, nil
}

// newMessageID returns an RFC 5322 id-left@id-right value without brackets.
func newMessageID(domain string) string {
	return uuid.NewString() + "@" + domain
}

func buildMailMsg(msg Message, messageID string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	m.SetMessageIDWithValue(messageID)
	m.SetDate()
	return m, nil
}

// SMTPTransport relays through an authenticated SMTP provider.
type SMTPTransport struct {
	provider Provider
	creds    Credentials
	timeout  time.Duration
	dial     dialFunc
}

// NewSMTPTransport returns a transport for provider using creds.
func NewSMTPTransport(provider Provider, creds Credentials, timeout time.Duration) *SMTPTransport {
	return &SMTPTransport{provider: provider, creds: creds, timeout: timeout, dial: dialSMTP}
}

func (t *SMTPTransport) Name() string { return "smtp" }

func (t *SMTPTransport) Send(ctx context.Context, msg Message) (Receipt, error) {
	messageID := newMessageID(t.provider.Host)
	m, err := buildMailMsg(msg, messageID)
	if err != nil {
		return Receipt{}, err
	}
	client, err := t.dial(t.provider, t.creds, t.timeout)
	if err != nil {
		return Receipt{}, err
	}
	resp, err := client.Send(ctx, m)
	if err != nil {
		return Receipt{}, fmt.Errorf("send via %s: %w", t.provider, err)
	}
	return Receipt{MessageID: messageID, ServerResponse: resp}, nil
}
