package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymorita/solventory/internal/auth"
	"github.com/ymorita/solventory/internal/db"
	"github.com/ymorita/solventory/internal/domain"
	"github.com/ymorita/solventory/internal/labelscan"
	"github.com/ymorita/solventory/internal/metrics"
	"github.com/ymorita/solventory/internal/sdsstore/local"
	"github.com/ymorita/solventory/internal/service"
	"github.com/ymorita/solventory/internal/store"
)

type fixture struct {
	server   *Server
	catalog  *service.CatalogService
	sessions *auth.Manager
}

func newFixture(t *testing.T, scanner labelscan.Scanner) *fixture {
	t.Helper()

	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	rooms := store.NewRoomStore(d)
	solvents := store.NewSolventStore(d)
	inventory := store.NewInventoryStore(d)
	logs := store.NewLogStore(d)
	sdsMeta := store.NewSDSStore(d)

	blobs, err := local.NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	m := metrics.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := service.NewCatalogService(rooms, solvents, inventory)
	sessions := auth.NewManager(map[string]string{"yuki": "lab-pass"}, time.Hour)

	srv := NewServer(Dependencies{
		Adjustments: service.NewAdjustmentService(inventory, logs, m, logger),
		Lookup:      service.NewLookupService(inventory, logs, rooms, solvents),
		Catalog:     catalog,
		Sessions:    sessions,
		SDSMeta:     sdsMeta,
		SDSBlobs:    blobs,
		Scanner:     scanner,
		Metrics:     m,
		Logger:      logger,
	})
	return &fixture{server: srv, catalog: catalog, sessions: sessions}
}

// do runs a request through the full middleware chain.
func (f *fixture) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) login(t *testing.T) *http.Cookie {
	t.Helper()
	token, err := f.sessions.Login("yuki", "lab-pass")
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

// seed provisions one room, one solvent and an inventory record.
func (f *fixture) seed(t *testing.T, amount domain.Liters) *domain.InventoryRecord {
	t.Helper()
	ctx := context.Background()

	room, err := f.catalog.CreateRoom(ctx, "D105")
	require.NoError(t, err)
	solvent, err := f.catalog.CreateSolvent(ctx, "Methanol", "67-56-1", "CH3OH", "32.04")
	require.NoError(t, err)
	rec, err := f.catalog.EnsureInventory(ctx, room.ID, solvent.ID, amount)
	require.NoError(t, err)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestLoginAndSession(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/login", map[string]string{"username": "yuki", "password": "lab-pass"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	require.Equal(t, auth.CookieName, cookies[0].Name)

	rec = f.do(t, http.MethodGet, "/api/session", nil, cookies[0])
	require.Equal(t, http.StatusOK, rec.Code)

	var session struct {
		Authenticated bool   `json:"authenticated"`
		User          string `json:"user"`
	}
	decodeBody(t, rec, &session)
	assert.True(t, session.Authenticated)
	assert.Equal(t, "yuki", session.User)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/login", map[string]string{"username": "yuki", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	f := newFixture(t, nil)
	cookie := f.login(t)

	rec := f.do(t, http.MethodPost, "/api/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/session", nil, cookie)
	var session struct {
		Authenticated bool `json:"authenticated"`
	}
	decodeBody(t, rec, &session)
	assert.False(t, session.Authenticated)
}

func TestAdjustAddAndUse(t *testing.T) {
	f := newFixture(t, nil)
	cookie := f.login(t)
	rec := f.seed(t, domain.LitersFromFloat(50.5))

	resp := f.do(t, http.MethodPost, "/api/inventory/"+rec.ID+"/adjustments",
		map[string]any{"action": "add", "amount": 18.0}, cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var result adjustResponse
	decodeBody(t, resp, &result)
	assert.InDelta(t, 68.5, result.NewAmount, 0.001)
	assert.True(t, result.LogRecorded)

	resp = f.do(t, http.MethodPost, "/api/inventory/"+rec.ID+"/adjustments",
		map[string]any{"action": "use", "amount": 3.8}, cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	decodeBody(t, resp, &result)
	assert.InDelta(t, 64.7, result.NewAmount, 0.001)
}

func TestAdjustClampsAtZero(t *testing.T) {
	f := newFixture(t, nil)
	cookie := f.login(t)
	rec := f.seed(t, domain.LitersFromFloat(5))

	resp := f.do(t, http.MethodPost, "/api/inventory/"+rec.ID+"/adjustments",
		map[string]any{"delta": -10.0}, cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var result adjustResponse
	decodeBody(t, resp, &result)
	assert.Equal(t, 0.0, result.NewAmount)

	detail := f.do(t, http.MethodGet, "/api/inventory/"+rec.ID, nil, cookie)
	require.Equal(t, http.StatusOK, detail.Code)

	var body struct {
		Record inventoryView  `json:"record"`
		Logs   []logEntryView `json:"logs"`
	}
	decodeBody(t, detail, &body)
	assert.Equal(t, 0.0, body.Record.Amount)
	require.Len(t, body.Logs, 1)
	// The log keeps the requested delta, not the clamped one.
	assert.InDelta(t, -10.0, body.Logs[0].ChangeAmount, 0.001)
	assert.Equal(t, "yuki", body.Logs[0].UserName)
}

func TestAdjustRequiresLogin(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.seed(t, domain.LitersFromFloat(5))

	resp := f.do(t, http.MethodPost, "/api/inventory/"+rec.ID+"/adjustments",
		map[string]any{"delta": 1.0}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAdjustUnknownRecord(t *testing.T) {
	f := newFixture(t, nil)
	cookie := f.login(t)

	resp := f.do(t, http.MethodPost, "/api/inventory/no-such-id/adjustments",
		map[string]any{"delta": 1.0}, cookie)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAdjustRejectsInvalidBodies(t *testing.T) {
	f := newFixture(t, nil)
	cookie := f.login(t)
	rec := f.seed(t, domain.LitersFromFloat(5))

	cases := []map[string]any{
		{},
		{"action": "add"},
		{"action": "use", "amount": -2.0},
		{"action": "pour", "amount": 2.0},
		{"delta": 1.0, "action": "add", "amount": 1.0},
		{"delta": 0.0},
	}
	for _, body := range cases {
		resp := f.do(t, http.MethodPost, "/api/inventory/"+rec.ID+"/adjustments", body, cookie)
		assert.Equal(t, http.StatusBadRequest, resp.Code, "body %v", body)
	}
}

func TestListInventoryFiltersByCAS(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, domain.LitersFromFloat(12))

	resp := f.do(t, http.MethodGet, "/api/inventory?kind=cas&q=67561", nil, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Items []inventoryView `json:"items"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Methanol", body.Items[0].SolventName)
	assert.Equal(t, "D105", body.Items[0].RoomName)

	resp = f.do(t, http.MethodGet, "/api/inventory?kind=cas&q=75-09-2", nil, nil)
	decodeBody(t, resp, &body)
	assert.Empty(t, body.Items)
}

func TestSearchCandidates(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, domain.LitersFromFloat(1))

	resp := f.do(t, http.MethodGet, "/api/search/candidates?kind=name&q=meth", nil, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Candidates []string `json:"candidates"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, []string{"Methanol"}, body.Candidates)

	resp = f.do(t, http.MethodGet, "/api/search/candidates?kind=bogus&q=x", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateCatalogEntries(t *testing.T) {
	f := newFixture(t, nil)
	cookie := f.login(t)

	resp := f.do(t, http.MethodPost, "/api/rooms", map[string]string{"name": "B201"}, cookie)
	require.Equal(t, http.StatusCreated, resp.Code)
	var room roomView
	decodeBody(t, resp, &room)
	assert.NotEmpty(t, room.ID)

	resp = f.do(t, http.MethodPost, "/api/solvents",
		map[string]string{"name": "Acetone", "casNumber": "67-64-1", "formula": "C3H6O", "molecularWeight": "58.08"}, cookie)
	require.Equal(t, http.StatusCreated, resp.Code)
	var solvent solventView
	decodeBody(t, resp, &solvent)

	resp = f.do(t, http.MethodPost, "/api/inventory",
		map[string]any{"roomId": room.ID, "solventId": solvent.ID, "initialAmount": 18.0}, cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	var rec inventoryView
	decodeBody(t, resp, &rec)
	assert.InDelta(t, 18.0, rec.Amount, 0.001)

	// Ensuring the same pair again returns the existing record.
	resp = f.do(t, http.MethodPost, "/api/inventory",
		map[string]any{"roomId": room.ID, "solventId": solvent.ID, "initialAmount": 0.0}, cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	var again inventoryView
	decodeBody(t, resp, &again)
	assert.Equal(t, rec.ID, again.ID)
	assert.InDelta(t, 18.0, again.Amount, 0.001)
}

func TestCreateRoomRequiresLogin(t *testing.T) {
	f := newFixture(t, nil)
	resp := f.do(t, http.MethodPost, "/api/rooms", map[string]string{"name": "B201"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, nil)
	resp := f.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	resp := f.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestSecurityHeaders(t *testing.T) {
	f := newFixture(t, nil)
	resp := f.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, "nosniff", resp.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header().Get("X-Frame-Options"))
}
