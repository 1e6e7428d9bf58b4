package notify

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Provider is an SMTP endpoint. SSL selects implicit TLS; otherwise STARTTLS
// is required.
type Provider struct {
	Host string
	Port int
	SSL  bool
}

func (p Provider) String() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

var wellKnownProviders = map[string]Provider{
	"gmail":      {Host: "smtp.gmail.com", Port: 465, SSL: true},
	"outlook":    {Host: "smtp-mail.outlook.com", Port: 587},
	"hotmail":    {Host: "smtp-mail.outlook.com", Port: 587},
	"outlook365": {Host: "smtp.office365.com", Port: 587},
	"yahoo":      {Host: "smtp.mail.yahoo.com", Port: 465, SSL: true},
	"icloud":     {Host: "smtp.mail.me.com", Port: 587},
	"zoho":       {Host: "smtp.zoho.com", Port: 465, SSL: true},
	"sendgrid":   {Host: "smtp.sendgrid.net", Port: 587},
	"mailgun":    {Host: "smtp.mailgun.org", Port: 465, SSL: true},
	"ethereal":   {Host: "smtp.ethereal.email", Port: 587},
}

// ResolveProvider maps EMAIL_SERVICE onto an endpoint. Identifiers are
// case-insensitive; "host:port" is accepted for anything else.
func ResolveProvider(service string) (Provider, error) {
	service = strings.TrimSpace(service)
	if p, ok := wellKnownProviders[strings.ToLower(service)]; ok {
		return p, nil
	}

	host, portStr, err := net.SplitHostPort(service)
	if err != nil || host == "" {
		return Provider{}, fmt.Errorf("unknown email service %q", service)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return Provider{}, fmt.Errorf("invalid port in email service %q", service)
	}
	return Provider{Host: host, Port: port, SSL: port == 465}, nil
}
