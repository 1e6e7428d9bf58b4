package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/contact/models"
	"storefront/internal/notify/metrics"
	"storefront/internal/platform/config"
	dErrors "storefront/pkg/domain-errors"
)

type fakeTransport struct {
	name     string
	receipt  Receipt
	err      error
	sent     []Message
	deadline bool
}

func (f *fakeTransport) Name() string { return f.name }

func (f *fakeTransport) Send(ctx context.Context, msg Message) (Receipt, error) {
	_, f.deadline = ctx.Deadline()
	f.sent = append(f.sent, msg)
	return f.receipt, f.err
}

func submission() *models.Submission {
	return &models.Submission{ID: uuid.New(), Name: "Ada", Email: "ada@x.com", Message: "Hi"}
}

func TestNotifyThroughMockTransportLogsPreview(t *testing.T) {
	logs := &bytes.Buffer{}
	tr := &fakeTransport{name: "ethereal", receipt: Receipt{
		MessageID:  "abc@smtp.ethereal.email",
		PreviewURL: "https://ethereal.email/message/Yx3Fb0pM2aKt",
		Test:       true,
	}}
	n := New(tr, config.EmailConfig{Timeout: time.Second},
		WithLogger(slog.New(slog.NewJSONHandler(logs, nil))))

	require.NoError(t, n.Notify(context.Background(), submission()))

	require.Len(t, tr.sent, 1)
	assert.Equal(t, "admin@wiredhustle.com", tr.sent[0].To)
	assert.Equal(t, "demo@wiredhustle.com", tr.sent[0].From)
	assert.Equal(t, "New Contact Message from Ada", tr.sent[0].Subject)
	assert.True(t, tr.deadline, "send must be bounded by the configured timeout")
	assert.Contains(t, logs.String(), `"msg":"mock email preview"`)
	assert.Contains(t, logs.String(), `"preview_url":"https://ethereal.email/message/Yx3Fb0pM2aKt"`)
}

func TestNotifyThroughMockTransportWithoutPreviewWarns(t *testing.T) {
	logs := &bytes.Buffer{}
	tr := &fakeTransport{name: "ethereal", receipt: Receipt{
		MessageID:      "abc@smtp.ethereal.email",
		ServerResponse: "250 2.0.0 OK",
		Test:           true,
	}}
	n := New(tr, config.EmailConfig{Timeout: time.Second},
		WithLogger(slog.New(slog.NewJSONHandler(logs, nil))))

	require.NoError(t, n.Notify(context.Background(), submission()))

	assert.Contains(t, logs.String(), `"msg":"mock email sent without preview url"`)
	assert.Contains(t, logs.String(), `"server_response":"250 2.0.0 OK"`)
	assert.NotContains(t, logs.String(), "preview_url")
	assert.NotContains(t, logs.String(), `"msg":"email sent"`)
}

func TestNotifyThroughRealTransportLogsSent(t *testing.T) {
	logs := &bytes.Buffer{}
	tr := &fakeTransport{name: "smtp", receipt: Receipt{MessageID: "xyz@smtp.gmail.com"}}
	cfg := config.EmailConfig{User: "me@gmail.com", Pass: "p", Receiver: "inbox@x.com", Timeout: time.Second}
	n := New(tr, cfg, WithLogger(slog.New(slog.NewJSONHandler(logs, nil))))

	require.NoError(t, n.Notify(context.Background(), submission()))

	assert.Equal(t, "inbox@x.com", tr.sent[0].To)
	assert.Equal(t, "me@gmail.com", tr.sent[0].From)
	assert.Contains(t, logs.String(), `"msg":"email sent"`)
	assert.NotContains(t, logs.String(), "preview_url")
}

func TestNotifyFailureIsNotificationError(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	tr := &fakeTransport{name: "smtp", err: errors.New("dial tcp: i/o timeout")}
	n := New(tr, config.EmailConfig{Timeout: time.Second},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), WithMetrics(m))

	err := n.Notify(context.Background(), submission())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotification))
	assert.ErrorContains(t, err, "i/o timeout")
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Sends.WithLabelValues("smtp", "failed")))
}

func TestNewTransportWithCredentialsUsesSMTPWithoutProvisioning(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hits.Add(1) }))
	defer srv.Close()

	cfg := config.EmailConfig{User: "me@gmail.com", Pass: "p", Service: "gmail", Timeout: time.Second}
	tr := NewTransport(cfg, srv.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))

	smtpTr, ok := tr.(*SMTPTransport)
	require.True(t, ok, "expected SMTP transport, got %T", tr)
	assert.Equal(t, "smtp.gmail.com", smtpTr.provider.Host)

	dialer := &recordingDialer{sender: &fakeSender{}}
	smtpTr.dial = dialer.dial
	_, err := smtpTr.Send(context.Background(), sampleMessage())
	require.NoError(t, err)
	assert.Zero(t, hits.Load(), "no test account may be provisioned")
}

func TestNewTransportWithoutCredentialsNeverDialsRealProvider(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"status":"success","user":"u@ethereal.email","pass":"p",
			"smtp":{"host":"smtp.ethereal.email","port":587,"secure":false},"web":"https://ethereal.email"}`))
	}))
	defer srv.Close()

	logs := &bytes.Buffer{}
	cfg := config.EmailConfig{User: "me@gmail.com", Service: "gmail", Timeout: time.Second}
	tr := NewTransport(cfg, srv.URL, slog.New(slog.NewTextHandler(logs, nil)))
	assert.Contains(t, logs.String(), "using ethereal test account")

	ethTr, ok := tr.(*EtherealTransport)
	require.True(t, ok, "expected ethereal transport, got %T", tr)
	assert.Zero(t, hits.Load(), "provisioning is lazy")

	dialer := &recordingDialer{sender: &fakeSender{}}
	ethTr.dial = dialer.dial
	_, err := ethTr.Send(context.Background(), sampleMessage())
	require.NoError(t, err)

	assert.EqualValues(t, 1, hits.Load())
	require.Len(t, dialer.dials, 1)
	assert.Equal(t, "smtp.ethereal.email", dialer.dials[0].provider.Host)
}

func TestNewTransportFallsBackOnUnknownService(t *testing.T) {
	logs := &bytes.Buffer{}
	cfg := config.EmailConfig{User: "me@x.com", Pass: "p", Service: "carrier-pigeon", Timeout: time.Second}

	tr := NewTransport(cfg, "", slog.New(slog.NewTextHandler(logs, nil)))

	_, ok := tr.(*EtherealTransport)
	assert.True(t, ok, "expected ethereal fallback, got %T", tr)
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), "carrier-pigeon")
}
