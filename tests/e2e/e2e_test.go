//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/alexconectado/pdv-caixa/internal/config"
	"github.com/alexconectado/pdv-caixa/internal/infra"
	"github.com/alexconectado/pdv-caixa/internal/repository"
	"github.com/alexconectado/pdv-caixa/internal/router"
	"github.com/alexconectado/pdv-caixa/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type client struct {
	t    *testing.T
	srv  *httptest.Server
	http *http.Client
	csrf string
}

func (c *client) do(method, path string, body any) *http.Response {
	c.t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		buf = bytes.NewBuffer(b)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, c.srv.URL+path, buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.csrf != "" {
		req.Header.Set("X-CSRF-Token", c.csrf)
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func (c *client) login(username, password string) {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	var body struct {
		CsrfToken string `json:"csrf_token"`
	}
	decodeJSON(c.t, resp, &body)
	require.NotEmpty(c.t, body.CsrfToken)
	c.csrf = body.CsrfToken
}

// ── Environment ──────────────────────────────────────────────────────────────

func setupEnv(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("pdv_test"),
		tcPostgres.WithUsername("pdv"),
		tcPostgres.WithPassword("pdv"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                 8000,
		Env:                  "test",
		DatabaseURL:          pgURL,
		RedisURL:             rdURL,
		SessionSecret:        "e2e-secret",
		SessionTTLHours:      1,
		DefaultAdminPassword: "admin123",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	authSvc := service.NewAuthService(repository.NewUserRepository(db), repository.NewAuditRepository(db), cfg)
	require.NoError(t, authSvc.EnsureDefaultAdmin(ctx))

	srv := httptest.NewServer(router.New(cfg, db, rdb))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, srv: srv, http: &http.Client{Jar: jar}}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestFullDayCycle(t *testing.T) {
	srv := setupEnv(t)
	c := newClient(t, srv)
	c.login("admin", "admin123")

	// Open the till.
	resp := c.do(http.MethodPost, "/v1/cash/open", map[string]any{"opening_amount": "100.00"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Record two sales.
	resp = c.do(http.MethodPost, "/v1/sales", map[string]string{
		"product_code": "CAFE-001", "amount": "50,00", "payment_method": "CASH",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodPost, "/v1/sales", map[string]string{
		"product_code": "PAO-010", "amount": "20.00", "payment_method": "PIX",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// The day ledger shows both and the live drawer total.
	resp = c.do(http.MethodGet, "/v1/sales", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ledger struct {
		Sales  []json.RawMessage `json:"sales"`
		Totals struct {
			DrawerExpected string `json:"drawer_expected"`
		} `json:"totals"`
	}
	decodeJSON(t, resp, &ledger)
	assert.Len(t, ledger.Sales, 2)
	assert.True(t, mustDecimal(t, ledger.Totals.DrawerExpected).Equal(decimal.NewFromInt(150)))

	// Close with exact counts — every diff is zero.
	resp = c.do(http.MethodPost, "/v1/cash/close", map[string]string{
		"reported_cash": "150.00", "reported_pix": "20.00",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var closed struct {
		Status string `json:"status"`
		Diffs  struct {
			Overall string `json:"overall"`
		} `json:"diffs"`
	}
	decodeJSON(t, resp, &closed)
	assert.Equal(t, "closed", closed.Status)
	assert.True(t, mustDecimal(t, closed.Diffs.Overall).IsZero())
}

func TestCancelRequiresCsrfAndPassword(t *testing.T) {
	srv := setupEnv(t)
	c := newClient(t, srv)
	c.login("admin", "admin123")

	resp := c.do(http.MethodPost, "/v1/cash/open", map[string]any{"opening_amount": "0"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodPost, "/v1/sales", map[string]string{
		"product_code": "CAFE-001", "amount": "10.00", "payment_method": "CASH",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sale struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &sale)

	// Without the CSRF header the session cookie alone is not enough.
	savedCsrf := c.csrf
	c.csrf = ""
	resp = c.do(http.MethodPost, "/v1/sales/"+sale.ID+"/cancel", map[string]string{
		"reason": "teste", "password": "admin123",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
	c.csrf = savedCsrf

	// Wrong admin password is rejected.
	resp = c.do(http.MethodPost, "/v1/sales/"+sale.ID+"/cancel", map[string]string{
		"reason": "teste", "password": "senha-errada",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Correct password cancels; the audit trail records it.
	resp = c.do(http.MethodPost, "/v1/sales/"+sale.ID+"/cancel", map[string]string{
		"reason": "venda duplicada", "password": "admin123",
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodGet, "/v1/audit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []struct {
		Action string `json:"action"`
	}
	decodeJSON(t, resp, &entries)
	require.NotEmpty(t, entries)
	assert.Equal(t, "cancel_sale", entries[0].Action)
}

func TestOperatorCannotDelete(t *testing.T) {
	srv := setupEnv(t)
	admin := newClient(t, srv)
	admin.login("admin", "admin123")

	resp := admin.do(http.MethodPost, "/v1/users", map[string]string{
		"username": "maria", "full_name": "Maria Silva", "password": "senha123", "role": "operator",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = admin.do(http.MethodPost, "/v1/cash/open", map[string]any{"opening_amount": "0"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	operator := newClient(t, srv)
	operator.login("maria", "senha123")

	resp = operator.do(http.MethodPost, "/v1/sales", map[string]string{
		"product_code": "CAFE-001", "amount": "10.00", "payment_method": "CASH",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sale struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &sale)

	// Operators can sell but not destroy.
	resp = operator.do(http.MethodDelete, "/v1/sales/"+sale.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = admin.do(http.MethodDelete, "/v1/sales/"+sale.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestDuplicateOpenRejected(t *testing.T) {
	srv := setupEnv(t)
	c := newClient(t, srv)
	c.login("admin", "admin123")

	resp := c.do(http.MethodPost, "/v1/cash/open", map[string]any{"opening_amount": "100"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodPost, "/v1/cash/open", map[string]any{"opening_amount": "50"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
