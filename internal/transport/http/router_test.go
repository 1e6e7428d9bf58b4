package httptransport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	cataloghandler "storefront/internal/catalog/handler"
	catalogmodels "storefront/internal/catalog/models"
	"storefront/internal/catalog/seed"
	catalogservice "storefront/internal/catalog/service"
	catalogstore "storefront/internal/catalog/store"
	contacthandler "storefront/internal/contact/handler"
	contactservice "storefront/internal/contact/service"
	contactstore "storefront/internal/contact/store"
	"storefront/internal/notify"
	"storefront/internal/platform/config"
	"storefront/internal/platform/metrics"
	ratelimitmw "storefront/internal/ratelimit/middleware"
	"storefront/internal/ratelimit/store/bucket"
	"storefront/pkg/testutil"
)

// previewTransport stands in for the Ethereal transport.
type previewTransport struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (p *previewTransport) Name() string { return "ethereal" }

func (p *previewTransport) Send(_ context.Context, msg notify.Message) (notify.Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return notify.Receipt{}, p.err
	}
	p.sent = append(p.sent, msg)
	return notify.Receipt{
		MessageID:  "msg-1@smtp.ethereal.email",
		PreviewURL: "https://ethereal.email/message/Yx3Fb0pM2aKt",
		Test:       true,
	}, nil
}

type RouterSuite struct {
	suite.Suite
	logs      *bytes.Buffer
	catalog   *catalogstore.InMemory
	contacts  *contactstore.InMemory
	transport *previewTransport
	publicDir string
	router    http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.logs = &bytes.Buffer{}
	s.catalog = catalogstore.NewInMemory()
	s.contacts = contactstore.NewInMemory()
	s.transport = &previewTransport{}
	s.publicDir = s.T().TempDir()
	s.router = s.buildRouter(100)
}

func (s *RouterSuite) buildRouter(burst int) http.Handler {
	logger := slog.New(slog.NewJSONHandler(s.logs, nil))
	reg := prometheus.NewRegistry()

	notifier := notify.New(s.transport, config.EmailConfig{Timeout: time.Second}, notify.WithLogger(logger))
	contactSvc := contactservice.New(s.contacts, notifier, contactservice.WithLogger(logger))
	limiter := ratelimitmw.New(bucket.NewInMemoryBucketStore(0.001, burst), logger)

	return NewRouter(Deps{
		Logger:   logger,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		APIs: []Registrar{
			cataloghandler.New(catalogservice.New(s.catalog), logger, "products"),
			contacthandler.New(contactSvc, logger, limiter.RateLimit("contact")),
		},
		HealthChecks: map[string]HealthCheck{"store": func(context.Context) error { return nil }},
		PublicDir:    s.publicDir,
	})
}

func (s *RouterSuite) postContact(body any) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/contact", body))
}

func (s *RouterSuite) TestContactWithoutCredentialsLogsPreview() {
	rr := s.postContact(map[string]string{"name": "Ada", "email": "ada@x.com", "message": "Hi"})

	testutil.AssertStatusAndMessage(s.T(), rr, http.StatusCreated, "Contact message saved successfully")
	s.Require().Len(s.contacts.All(), 1)
	s.Equal("Ada", s.contacts.All()[0].Name)
	s.Require().Len(s.transport.sent, 1)
	s.Equal("New Contact Message from Ada", s.transport.sent[0].Subject)
	s.Contains(s.logs.String(), `"preview_url":"https://ethereal.email/message/Yx3Fb0pM2aKt"`)
}

func (s *RouterSuite) TestContactMissingNameIsRejected() {
	rr := s.postContact(map[string]string{"email": "ada@x.com", "message": "Hi"})

	testutil.AssertStatusAndMessage(s.T(), rr, http.StatusBadRequest, "contact validation failed: name is required")
	s.Empty(s.contacts.All())
	s.Empty(s.transport.sent)
}

func (s *RouterSuite) TestContactNotificationFailureStillCreated() {
	s.transport.err = errors.New("dial tcp: i/o timeout")

	rr := s.postContact(map[string]string{"name": "Ada", "email": "ada@x.com", "message": "Hi"})

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	s.Len(s.contacts.All(), 1)
	s.Contains(s.logs.String(), "contact saved but notification failed")
}

func (s *RouterSuite) TestContactIsRateLimited() {
	s.router = s.buildRouter(1)
	body := map[string]string{"name": "Ada", "email": "ada@x.com", "message": "Hi"}

	testutil.AssertStatus(s.T(), s.postContact(body), http.StatusCreated)
	testutil.AssertStatus(s.T(), s.postContact(body), http.StatusTooManyRequests)
	s.Len(s.contacts.All(), 1)
}

func (s *RouterSuite) TestContactRateLimitIgnoresForwardedHeaderFromDirectClients() {
	s.router = s.buildRouter(1)
	body := map[string]string{"name": "Ada", "email": "ada@x.com", "message": "Hi"}

	for i, spoofed := range []string{"1.1.1.1", "2.2.2.2"} {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/contact", body)
		req.Header.Set("X-Forwarded-For", spoofed)
		rr := testutil.DoRequest(s.router, req)
		if i == 0 {
			testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		} else {
			testutil.AssertStatus(s.T(), rr, http.StatusTooManyRequests)
		}
	}
	s.Len(s.contacts.All(), 1)
}

func (s *RouterSuite) TestPrePopulatedCatalogIsServedAsIs() {
	ctx := context.Background()
	existing := catalogmodels.SeedItems()[3:]
	_, err := s.catalog.InsertIfAbsent(ctx, existing)
	s.Require().NoError(err)

	inserted, err := seed.New(s.catalog).EnsureSeeded(ctx)
	s.Require().NoError(err)
	s.Zero(inserted)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/products"))
	testutil.AssertStatusOK(s.T(), rr)
	s.Equal("application/json", rr.Header().Get("Content-Type"))

	items := testutil.UnmarshalResponse[[]catalogmodels.Item](s.T(), rr)
	s.Require().Len(*items, 3)
	for i := range existing {
		s.Equal(existing[i].ID, (*items)[i].ID)
	}
}

func (s *RouterSuite) TestCatalogLookups() {
	_, err := seed.New(s.catalog).EnsureSeeded(context.Background())
	s.Require().NoError(err)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/products/featured"))
	testutil.AssertStatusOK(s.T(), rr)
	s.Len(*testutil.UnmarshalResponse[[]catalogmodels.Item](s.T(), rr), 5)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/products/trench-coat"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "isFeatured", false)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/products/nope"))
	testutil.AssertStatusAndMessage(s.T(), rr, http.StatusNotFound, "item not found")
}

func (s *RouterSuite) TestUnknownAPIPathIsJSON404() {
	s.Require().NoError(os.WriteFile(filepath.Join(s.publicDir, "index.html"), []byte("<html>app</html>"), 0o600))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/unknown"))
	testutil.AssertStatusAndMessage(s.T(), rr, http.StatusNotFound, "not found")
}

func (s *RouterSuite) TestStaticFilesAndSPAFallback() {
	s.Require().NoError(os.WriteFile(filepath.Join(s.publicDir, "index.html"), []byte("<html>app</html>"), 0o600))
	s.Require().NoError(os.WriteFile(filepath.Join(s.publicDir, "app.js"), []byte("console.log(1)"), 0o600))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/app.js"))
	testutil.AssertStatusOK(s.T(), rr)
	s.Equal("console.log(1)", rr.Body.String())

	for _, p := range []string{"/", "/shop/luxury-suit"} {
		rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, p))
		testutil.AssertStatusOK(s.T(), rr)
		s.Contains(rr.Body.String(), "<html>app</html>", p)
	}
}

func (s *RouterSuite) TestRequestIDIsEchoed() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/api/products")
	req.Header.Set("X-Request-ID", "req-123")

	rr := testutil.DoRequest(s.router, req)
	s.Equal("req-123", rr.Header().Get("X-Request-ID"))
	s.Contains(s.logs.String(), `"request_id":"req-123"`)
}

func (s *RouterSuite) TestMetricsEndpoint() {
	testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/products"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/metrics"))
	testutil.AssertStatusOK(s.T(), rr)
	s.Contains(rr.Body.String(), "storefront_http_request_duration_seconds")
}

func TestHealth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	healthy := NewRouter(Deps{Logger: logger, HealthChecks: map[string]HealthCheck{
		"store": func(context.Context) error { return nil },
	}})
	rr := testutil.DoRequest(healthy, testutil.NewRequest(t, http.MethodGet, "/health"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "status", "ok")

	degraded := NewRouter(Deps{Logger: logger, HealthChecks: map[string]HealthCheck{
		"store": func(context.Context) error { return errors.New("server selection timeout") },
	}})
	rr = testutil.DoRequest(degraded, testutil.NewRequest(t, http.MethodGet, "/health"))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	body := testutil.UnmarshalResponse[healthResponse](t, rr)
	require.Equal(t, "degraded", body.Status)
	assert.Equal(t, "server selection timeout", body.Checks["store"])
}
