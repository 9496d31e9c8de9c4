package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kaudit/internal/audit"
	"github.com/khanghh/kaudit/internal/chain"
	"github.com/khanghh/kaudit/internal/detector"
	"github.com/khanghh/kaudit/internal/middlewares"
	"github.com/khanghh/kaudit/internal/query"
	"github.com/khanghh/kaudit/internal/render"
	"github.com/khanghh/kaudit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

var testAuth = middlewares.AuthConfig{Secret: []byte("api-test-secret"), Issuer: "kaudit-test"}

type fakeRecorder struct {
	err    error
	drafts []*audit.Draft
}

func (r *fakeRecorder) Submit(_ context.Context, d *audit.Draft) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if _, err := audit.Normalize(d, audit.RequestContext{}, time.Now(), func() string { return "x" }); err != nil {
		return "", err
	}
	r.drafts = append(r.drafts, d)
	return "evt-" + d.Action, nil
}

func (r *fakeRecorder) SubmitSync(ctx context.Context, d *audit.Draft) (string, error) {
	return r.Submit(ctx, d)
}

type fakeEngine struct {
	QueryEngine
	filter query.Filter
	report *model.ComplianceReport
}

func (e *fakeEngine) Search(_ context.Context, f query.Filter) (*query.Page, error) {
	e.filter = f
	return &query.Page{Items: []*query.Result{}, Page: 1, PageSize: 50}, nil
}

func (e *fakeEngine) GetReport(_ context.Context, id uint64) (*model.ComplianceReport, error) {
	if e.report == nil || e.report.ID != id {
		return nil, query.ErrReportNotFound
	}
	return e.report, nil
}

type fakeInvestigations struct {
	InvestigationService
}

func (fakeInvestigations) Resolve(_ context.Context, id uint64, investigator, notes string) (*model.CriticalEvent, error) {
	if notes == "" {
		return nil, detector.ErrNotesRequired
	}
	return nil, &detector.TransitionError{ID: id, From: model.CriticalStatusDetected, To: model.CriticalStatusResolved}
}

func newTestApp(rec *fakeRecorder, engine *fakeEngine) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		Views:        render.NewViewEngine(""),
	})
	SetupRoutes(app, testAuth, nil, Handlers{
		Events:         NewEventHandler(rec, engine, nil),
		Integrity:      NewIntegrityHandler(engine),
		Reports:        NewReportHandler(engine),
		CriticalEvents: NewCriticalEventHandler(fakeInvestigations{}),
		Retention:      NewRetentionHandler(nil),
	})
	return app
}

func token(t *testing.T, roles ...string) string {
	t.Helper()
	tok, err := middlewares.IssueToken(testAuth, "alice", roles, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, app *fiber.App, method, path, tok, body string) (*http.Response, APIResponse, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope APIResponse
	_ = json.Unmarshal(raw, &envelope)
	return resp, envelope, raw
}

func TestPostEvents(t *testing.T) {
	rec := &fakeRecorder{}
	app := newTestApp(rec, &fakeEngine{})
	producer := token(t, middlewares.RoleProducer)

	resp, envelope, _ := do(t, app, http.MethodPost, "/api/v1/events", producer,
		`[{"eventType":"authentication","actorType":"user","actorId":"bob","action":"login"},
		  {"eventType":"data_access","actorType":"service","action":"export"}]`)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Len(t, rec.drafts, 2)
	data, _ := json.Marshal(envelope.Data)
	assert.JSONEq(t, `{"eventIds":["evt-login","evt-export"]}`, string(data))

	resp, envelope, _ = do(t, app, http.MethodPost, "/api/v1/events", producer, `{"eventType":"bogus","actorType":"user","action":"x"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, envelope.Error)
	require.Len(t, envelope.Error.Errors, 1)
	assert.Equal(t, "eventType", envelope.Error.Errors[0].Reason)

	rec.err = audit.ErrOverloaded
	resp, _, _ = do(t, app, http.MethodPost, "/api/v1/events", producer, `{"eventType":"system","actorType":"system","action":"boot"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))

	rec.err = fmt.Errorf("sequence event: %w", chain.ErrChainLocked)
	resp, _, _ = do(t, app, http.MethodPost, "/api/v1/events", producer, `{"eventType":"system","actorType":"system","action":"boot"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	rec.err = &audit.DuplicateEventError{ID: "evt-1"}
	resp, envelope, _ = do(t, app, http.MethodPost, "/api/v1/events", producer, `{"id":"evt-1","eventType":"system","actorType":"system","action":"boot"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	require.NotNil(t, envelope.Error)
	assert.Contains(t, envelope.Error.Message, "evt-1")
}

func TestAuthentication(t *testing.T) {
	app := newTestApp(&fakeRecorder{}, &fakeEngine{})

	resp, envelope, _ := do(t, app, http.MethodGet, "/api/v1/events", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, envelope.Error)

	forged, err := middlewares.IssueToken(middlewares.AuthConfig{Secret: []byte("other"), Issuer: testAuth.Issuer}, "mallory", []string{middlewares.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	resp, _, _ = do(t, app, http.MethodGet, "/api/v1/events", forged, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _, _ = do(t, app, http.MethodGet, "/api/v1/events", token(t, middlewares.RoleProducer), "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _, _ = do(t, app, http.MethodGet, "/api/v1/events", token(t, middlewares.RoleAdmin), "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middlewares.HeaderRequestID))
}

func TestGetEventsParsesFilter(t *testing.T) {
	engine := &fakeEngine{}
	app := newTestApp(&fakeRecorder{}, engine)
	auditor := token(t, middlewares.RoleAuditor)

	path := "/api/v1/events?from=2026-01-01T00:00:00Z&eventType=authentication,security&minSeverity=error&actorId=bob&q=delete&page=2&pageSize=20&asc=true&verify=1"
	resp, _, _ := do(t, app, http.MethodGet, path, auditor, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	f := engine.filter
	assert.True(t, f.From.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []model.EventType{model.EventTypeAuthentication, model.EventTypeSecurity}, f.EventTypes)
	require.NotNil(t, f.MinSeverity)
	assert.Equal(t, model.SeverityError, *f.MinSeverity)
	assert.Equal(t, "bob", f.ActorID)
	assert.Equal(t, "delete", f.Text)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 20, f.PageSize)
	assert.True(t, f.Ascending)
	assert.True(t, f.Verify)

	resp, _, _ = do(t, app, http.MethodGet, "/api/v1/events?eventType=nope", auditor, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetReportHTML(t *testing.T) {
	report := &model.ComplianceReport{
		ID:          7,
		Framework:   "hipaa",
		Status:      model.ComplianceStatusNeedsReview,
		PeriodStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		GeneratedBy: "alice",
		Findings:    []string{"2 of 3 critical events are unresolved"},
		Summary: datatypes.NewJSONType(model.ReportSummary{
			TotalEvents: 3,
			ByResult:    map[string]int64{"success": 3},
		}),
	}
	app := newTestApp(&fakeRecorder{}, &fakeEngine{report: report})
	auditor := token(t, middlewares.RoleAuditor)

	resp, _, raw := do(t, app, http.MethodGet, "/api/v1/reports/7?format=html", auditor, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(raw), "hipaa")
	assert.Contains(t, string(raw), "2 of 3 critical events are unresolved")

	resp, envelope, _ := do(t, app, http.MethodGet, "/api/v1/reports/8", auditor, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.NotNil(t, envelope.Error)
}

func TestResolveMapsWorkflowErrors(t *testing.T) {
	app := newTestApp(&fakeRecorder{}, &fakeEngine{})
	investigator := token(t, middlewares.RoleInvestigator)

	resp, _, _ := do(t, app, http.MethodPost, "/api/v1/critical-events/5/resolve", investigator, `{"notes":""}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _, _ = do(t, app, http.MethodPost, "/api/v1/critical-events/5/resolve", investigator, `{"notes":"rotated credentials"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _, _ = do(t, app, http.MethodPost, "/api/v1/critical-events/abc/resolve", investigator, `{"notes":"x"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
