package middlewares

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/khanghh/kaudit/internal/audit"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuth = AuthConfig{Secret: []byte("middleware-test-secret"), Issuer: "kaudit-test"}

type recordingRecorder struct {
	mu     sync.Mutex
	drafts []*audit.Draft
}

func (r *recordingRecorder) Submit(_ context.Context, d *audit.Draft) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts = append(r.drafts, d)
	return "evt", nil
}

func (r *recordingRecorder) SubmitSync(ctx context.Context, d *audit.Draft) (string, error) {
	return r.Submit(ctx, d)
}

func (r *recordingRecorder) reset() []*audit.Draft {
	r.mu.Lock()
	defer r.mu.Unlock()
	drafts := r.drafts
	r.drafts = nil
	return drafts
}

var recorder = &recordingRecorder{}

func init() {
	audit.Initialize(recorder)
}

func newTestApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	chain := append([]fiber.Handler{RequestContext(), Authenticate(testAuth)}, handlers...)
	chain = append(chain, func(ctx *fiber.Ctx) error {
		rc := audit.RequestContextFrom(ctx.UserContext())
		return ctx.JSON(fiber.Map{"subject": GetPrincipal(ctx).Subject, "requestId": rc.RequestID, "sessionId": rc.SessionID})
	})
	app.Get("/api/v1/whoami", chain...)
	return app
}

func bearer(t *testing.T, subject string, roles ...string) string {
	token, err := IssueToken(testAuth, subject, roles, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func decode(t *testing.T, body io.Reader) map[string]any {
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestAuthenticate(t *testing.T) {
	app := newTestApp()

	t.Run("missing token", func(t *testing.T) {
		recorder.reset()
		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/whoami", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		body := decode(t, resp.Body)
		assert.Equal(t, params.APIVersion, body["apiVersion"])
		assert.Empty(t, recorder.reset())
	})

	t.Run("wrong secret is recorded as failed login", func(t *testing.T) {
		recorder.reset()
		forged, err := IssueToken(AuthConfig{Secret: []byte("other"), Issuer: testAuth.Issuer}, "mallory", []string{RoleAdmin}, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+forged)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		drafts := recorder.reset()
		require.Len(t, drafts, 1)
		assert.Equal(t, model.EventTypeAuthentication, drafts[0].EventType)
		assert.Equal(t, model.ResultFailure, drafts[0].Result)
		assert.Equal(t, "mallory", drafts[0].ActorID)
		assert.Equal(t, "api_token", drafts[0].TargetName)
	})

	t.Run("expired token", func(t *testing.T) {
		recorder.reset()
		expired, err := IssueToken(testAuth, "alice", []string{RoleAuditor}, -time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+expired)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Len(t, recorder.reset(), 1)
	})

	t.Run("valid token carries request context", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, bearer(t, "alice", RoleAuditor))
		req.Header.Set(HeaderRequestID, "req-42")
		req.Header.Set(HeaderSessionID, "sess-7")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "req-42", resp.Header.Get(HeaderRequestID))
		body := decode(t, resp.Body)
		assert.Equal(t, "alice", body["subject"])
		assert.Equal(t, "req-42", body["requestId"])
		assert.Equal(t, "sess-7", body["sessionId"])
	})
}

func TestRequireRoles(t *testing.T) {
	app := newTestApp(RequireRoles(RoleInvestigator))

	recorder.reset()
	req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, "bob", RoleProducer))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	drafts := recorder.reset()
	require.Len(t, drafts, 1)
	assert.Equal(t, model.EventTypeAuthorization, drafts[0].EventType)
	assert.Equal(t, model.ResultFailure, drafts[0].Result)
	assert.Equal(t, "bob", drafts[0].ActorID)
	assert.Equal(t, "/api/v1/whoami", drafts[0].TargetID)

	for _, roles := range [][]string{{RoleInvestigator}, {RoleAdmin}} {
		req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, bearer(t, "carol", roles...))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "roles %v", roles)
	}
	assert.Empty(t, recorder.reset())
}

func TestRateLimiter(t *testing.T) {
	storage := memory.New()
	t.Cleanup(func() { storage.Close() })
	app := newTestApp(RateLimiter(storage))

	dave := bearer(t, "dave", RoleProducer)
	for i := 0; i < params.RateLimitMax; i++ {
		req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, dave)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, "request %d", i)
	}

	req := httptest.NewRequest("GET", "/api/v1/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, dave)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	// counters are kept per subject
	req = httptest.NewRequest("GET", "/api/v1/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, "erin", RoleProducer))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
