package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultEtherealEndpoint creates disposable Ethereal accounts.
const DefaultEtherealEndpoint = "https://api.nodemailer.com/user"

// TestAccount is a disposable inbox whose messages are never delivered.
type TestAccount struct {
	User string
	Pass string
	SMTP Provider
	Web  string
}

// AccountProvisioner creates test accounts.
type AccountProvisioner interface {
	Provision(ctx context.Context) (*TestAccount, error)
}

type provisionRequest struct {
	Requestor string `json:"requestor"`
	Version   string `json:"version"`
}

type provisionResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	User   string `json:"user"`
	Pass   string `json:"pass"`
	SMTP   struct {
		Host   string `json:"host"`
		Port   int    `json:"port"`
		Secure bool   `json:"secure"`
	} `json:"smtp"`
	Web string `json:"web"`
}

// EtherealProvisioner calls the Ethereal account API.
type EtherealProvisioner struct {
	endpoint   string
	httpClient *http.Client
}

// NewEtherealProvisioner returns a provisioner posting to endpoint.
func NewEtherealProvisioner(endpoint string, timeout time.Duration) *EtherealProvisioner {
	if endpoint == "" {
		endpoint = DefaultEtherealEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EtherealProvisioner{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *EtherealProvisioner) Provision(ctx context.Context) (*TestAccount, error) {
	body, err := json.Marshal(provisionRequest{Requestor: "storefront", Version: "1.0.0"})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provision test account: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provision test account: %s - %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var out provisionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if out.Status != "success" {
		return nil, fmt.Errorf("provision test account: status %q: %s", out.Status, out.Error)
	}
	if out.User == "" || out.Pass == "" || out.SMTP.Host == "" || out.SMTP.Port == 0 {
		return nil, fmt.Errorf("provision test account: incomplete account in response")
	}

	return &TestAccount{
		User: out.User,
		Pass: out.Pass,
		SMTP: Provider{Host: out.SMTP.Host, Port: out.SMTP.Port, SSL: out.SMTP.Secure},
		Web:  strings.TrimRight(out.Web, "/"),
	}, nil
}

// EtherealTransport relays through a lazily provisioned test account. It
// never contacts a real mail provider.
type EtherealTransport struct {
	provisioner AccountProvisioner
	timeout     time.Duration
	dial        dialFunc

	provisioning singleflight.Group
	mu           sync.RWMutex
	account      *TestAccount
}

// NewEtherealTransport returns a transport that provisions its account on
// first use.
func NewEtherealTransport(provisioner AccountProvisioner, timeout time.Duration) *EtherealTransport {
	return &EtherealTransport{provisioner: provisioner, timeout: timeout, dial: dialSMTP}
}

func (t *EtherealTransport) Name() string { return "ethereal" }

func (t *EtherealTransport) cached() *TestAccount {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.account
}

// testAccount returns the cached account, provisioning it if needed.
// Concurrent callers share one provisioning call but each stops waiting when
// its own ctx ends. Failed attempts are not cached.
func (t *EtherealTransport) testAccount(ctx context.Context) (*TestAccount, error) {
	if acct := t.cached(); acct != nil {
		return acct, nil
	}
	ch := t.provisioning.DoChan("account", func() (any, error) {
		if acct := t.cached(); acct != nil {
			return acct, nil
		}
		acct, err := t.provisioner.Provision(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		t.mu.Lock()
		t.account = acct
		t.mu.Unlock()
		return acct, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*TestAccount), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for test account: %w", ctx.Err())
	}
}

func (t *EtherealTransport) Send(ctx context.Context, msg Message) (Receipt, error) {
	acct, err := t.testAccount(ctx)
	if err != nil {
		return Receipt{}, err
	}

	messageID := newMessageID(acct.SMTP.Host)
	m, err := buildMailMsg(msg, messageID)
	if err != nil {
		return Receipt{}, err
	}
	client, err := t.dial(acct.SMTP, Credentials{Username: acct.User, Password: acct.Pass}, t.timeout)
	if err != nil {
		return Receipt{}, err
	}
	resp, err := client.Send(ctx, m)
	if err != nil {
		return Receipt{}, fmt.Errorf("send via %s: %w", acct.SMTP, err)
	}

	receipt := Receipt{MessageID: messageID, ServerResponse: resp, Test: true}
	if id := etherealMessageID(resp); id != "" {
		web := acct.Web
		if web == "" {
			web = defaultEtherealWeb
		}
		receipt.PreviewURL = web + "/message/" + id
	}
	return receipt, nil
}

const defaultEtherealWeb = "https://ethereal.email"

var (
	replyTail  = regexp.MustCompile(`\[([^\]]+)\]\s*$`)
	replyField = regexp.MustCompile(`\b([A-Z0-9]+)=(\S+)`)
)

// etherealMessageID extracts the inbox id from a reply such as
// "250 Accepted [STATUS=new MSGID=Yx...]". The web inbox is keyed by that
// id, not by the Message-ID header. Empty when the reply carries no
// STATUS and MSGID pair.
func etherealMessageID(reply string) string {
	tail := replyTail.FindStringSubmatch(reply)
	if tail == nil {
		return ""
	}
	fields := make(map[string]string)
	for _, kv := range replyField.FindAllStringSubmatch(tail[1], -1) {
		fields[kv[1]] = kv[2]
	}
	if fields["STATUS"] == "" {
		return ""
	}
	return fields["MSGID"]
}
