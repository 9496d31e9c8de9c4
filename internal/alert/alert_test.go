package alert

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/khanghh/kaudit/internal/common"
	"github.com/khanghh/kaudit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	name  string
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Send(ctx context.Context, a *Alert) error {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func testAlert(level model.Severity) *Alert {
	return &Alert{
		CriticalEventID: 42,
		SourceEventID:   "6f1c2a4e-9d7b-4c1e-8f3a-2b5d6e7f8a9b",
		Rule:            "brute_force",
		ThreatType:      "credential_attack",
		Severity:        level,
		Subject:         "alice",
		Summary:         "5 failed authentications for alice",
		DetectedAt:      time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
	}
}

func TestDispatchIsolatesChannelFailures(t *testing.T) {
	d := NewDispatcher(Config{Timeout: 50 * time.Millisecond})
	ok := &fakeChannel{name: "ok"}
	broken := &fakeChannel{name: "broken", err: errors.New("smtp down")}
	slow := &fakeChannel{name: "slow", delay: time.Second}
	d.Register(ok, model.SeverityInfo)
	d.Register(broken, model.SeverityInfo)
	d.Register(slow, model.SeverityInfo)

	start := time.Now()
	sent, failures := d.Dispatch(context.Background(), testAlert(model.SeverityCritical))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, 1, sent)
	require.Len(t, failures, 2)

	var failed []string
	for _, err := range failures {
		var de *DeliveryError
		require.ErrorAs(t, err, &de)
		failed = append(failed, de.Channel)
	}
	assert.ElementsMatch(t, []string{"broken", "slow"}, failed)
	assert.ErrorIs(t, failures[1], context.DeadlineExceeded)
}

func TestDispatchSkipsChannelsBelowLevel(t *testing.T) {
	d := NewDispatcher(Config{})
	pager := &fakeChannel{name: "sms"}
	d.Register(pager, model.SeverityEmergency)

	sent, failures := d.Dispatch(context.Background(), testAlert(model.SeverityCritical))
	assert.Zero(t, sent)
	assert.Empty(t, failures)
	assert.Zero(t, pager.calls.Load())
}

func TestDispatchThrottlesPerChannel(t *testing.T) {
	d := NewDispatcher(Config{RatePerMinute: 2})
	ch := &fakeChannel{name: "webhook"}
	d.Register(ch, model.SeverityInfo)

	for i := 0; i < 2; i++ {
		_, failures := d.Dispatch(context.Background(), testAlert(model.SeverityCritical))
		require.Empty(t, failures)
	}
	_, failures := d.Dispatch(context.Background(), testAlert(model.SeverityCritical))
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], ErrThrottled)
	assert.Equal(t, int32(2), ch.calls.Load())
}

func TestWebhookSignsPayload(t *testing.T) {
	var (
		mu        sync.Mutex
		body      []byte
		signature string
		auth      string
	)
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`)
	}))
	defer tokenServer.Close()
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		body, _ = io.ReadAll(r.Body)
		signature = r.Header.Get(signatureHeader)
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer hook.Close()

	ch, err := NewWebhookChannel(WebhookConfig{
		Name:   "soc",
		URL:    hook.URL,
		Secret: "s3cret",
		OAuth2: &OAuth2Config{ClientID: "kaudit", ClientSecret: "x", TokenURL: tokenServer.URL},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ch.Send(ctx, testAlert(model.SeverityCritical)))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "sha256="+common.CalculateHash("s3cret", body), signature)
	assert.Equal(t, "Bearer tok-123", auth)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "42", got["criticalEventId"])
	assert.Equal(t, "critical", got["severity"])
}

func TestWebhookReportsErrorStatus(t *testing.T) {
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer hook.Close()

	ch, err := NewWebhookChannel(WebhookConfig{URL: hook.URL})
	require.NoError(t, err)
	err = ch.Send(context.Background(), testAlert(model.SeverityCritical))
	assert.ErrorIs(t, err, ErrUnexpectedRes)
}

func TestSMSPostsOneMessagePerRecipient(t *testing.T) {
	var (
		mu    sync.Mutex
		forms []url.Values
	)
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		mu.Lock()
		forms = append(forms, r.PostForm)
		mu.Unlock()
	}))
	defer gateway.Close()

	ch, err := NewSMSChannel(SMSConfig{GatewayURL: gateway.URL, From: "KAUDIT", Recipients: []string{"+10000000001", "+10000000002"}})
	require.NoError(t, err)
	require.NoError(t, ch.Send(context.Background(), testAlert(model.SeverityEmergency)))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, forms, 2)
	assert.Equal(t, "+10000000001", forms[0].Get("to"))
	assert.Equal(t, "[EMERGENCY] brute_force: 5 failed authentications for alice", forms[0].Get("message"))
}

func TestSMSTextIsTruncated(t *testing.T) {
	a := testAlert(model.SeverityCritical)
	a.Summary = string(make([]byte, 300))
	assert.Len(t, smsText(a), 160)
}
