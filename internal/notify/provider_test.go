package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProvider(t *testing.T) {
	tests := []struct {
		service string
		want    Provider
	}{
		{"gmail", Provider{Host: "smtp.gmail.com", Port: 465, SSL: true}},
		{"Gmail", Provider{Host: "smtp.gmail.com", Port: 465, SSL: true}},
		{"outlook", Provider{Host: "smtp-mail.outlook.com", Port: 587}},
		{"hotmail", Provider{Host: "smtp-mail.outlook.com", Port: 587}},
		{"yahoo", Provider{Host: "smtp.mail.yahoo.com", Port: 465, SSL: true}},
		{"ethereal", Provider{Host: "smtp.ethereal.email", Port: 587}},
		{"mail.example.com:2525", Provider{Host: "mail.example.com", Port: 2525}},
		{"mail.example.com:465", Provider{Host: "mail.example.com", Port: 465, SSL: true}},
	}
	for _, tt := range tests {
		t.Run(tt.service, func(t *testing.T) {
			got, err := ResolveProvider(tt.service)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveProviderRejectsUnknown(t *testing.T) {
	for _, service := range []string{"", "carrier-pigeon", "host:notaport", ":587", "host:70000"} {
		_, err := ResolveProvider(service)
		assert.Error(t, err, service)
	}
}
