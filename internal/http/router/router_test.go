package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers"
	accessctrl "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services"
	accesssvc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/rate"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	state access.SessionState
}

func (s *stubResolver) Resolve(context.Context, string) (access.SessionState, *session.Claims) {
	return s.state, nil
}

func withRole(r access.Role) *stubResolver {
	return &stubResolver{state: access.SessionState{
		User: &access.Identity{ID: "u-1", Email: "u1@mundocomputo.co"},
		Role: &r,
	}}
}

func newTestRouter(res *stubResolver, limiter rate.Limiter) http.Handler {
	ctrls := controllers.New(services.New(services.Deps{}))
	ctrls.Access = accessctrl.NewControllers(accesssvc.NewServices(accesssvc.Deps{Resolver: res}))
	return New(Deps{
		Controllers:  ctrls,
		Resolver:     res,
		LoginLimiter: limiter,
		CORSOrigins:  []string{"https://app.mundocomputo.co"},
	})
}

func TestRouter_Healthz(t *testing.T) {
	h := newTestRouter(&stubResolver{}, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_NotFound(t *testing.T) {
	h := newTestRouter(&stubResolver{}, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/nada", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// Ninguno de estos casos llega al controller: el guard corta antes.
func TestRouter_RoleGroups(t *testing.T) {
	cases := []struct {
		name     string
		res      *stubResolver
		method   string
		path     string
		wantCode int
	}{
		{"orders sin sesión", &stubResolver{}, http.MethodGet, "/v1/orders", http.StatusUnauthorized},
		{"orders inventario", withRole(access.RoleInventario), http.MethodGet, "/v1/orders", http.StatusForbidden},
		{"status ventas", withRole(access.RoleVentas), http.MethodPatch, "/v1/orders/x/status", http.StatusForbidden},
		{"assign tecnico", withRole(access.RoleTecnico), http.MethodPatch, "/v1/orders/x/technician", http.StatusForbidden},
		{"products write ventas", withRole(access.RoleVentas), http.MethodPost, "/v1/products", http.StatusForbidden},
		{"products read tecnico", withRole(access.RoleTecnico), http.MethodGet, "/v1/products", http.StatusForbidden},
		{"sales inventario", withRole(access.RoleInventario), http.MethodGet, "/v1/sales", http.StatusForbidden},
		{"payments tecnico", withRole(access.RoleTecnico), http.MethodPost, "/v1/payments/simulate", http.StatusForbidden},
		{"receipts inventario", withRole(access.RoleInventario), http.MethodPost, "/v1/receipts/email", http.StatusForbidden},
		{"admin users ventas", withRole(access.RoleVentas), http.MethodGet, "/v1/admin/users", http.StatusForbidden},
		{"admin logs tecnico", withRole(access.RoleTecnico), http.MethodGet, "/v1/admin/logs", http.StatusForbidden},
		{"me cargando", &stubResolver{state: access.SessionState{Loading: true}}, http.MethodGet, "/v1/me", http.StatusServiceUnavailable},
		{"logout sin sesión", &stubResolver{}, http.MethodPost, "/v1/auth/logout", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestRouter(tc.res, nil)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.wantCode, rr.Code)
		})
	}
}

func TestRouter_FunctionRoutesRejectWithFlatError(t *testing.T) {
	cases := []struct {
		name     string
		res      *stubResolver
		method   string
		path     string
		wantCode int
	}{
		{"payments sin sesión", &stubResolver{}, http.MethodPost, "/v1/payments/simulate", http.StatusUnauthorized},
		{"payments tecnico", withRole(access.RoleTecnico), http.MethodPost, "/v1/payments/simulate", http.StatusForbidden},
		{"receipts sin sesión", &stubResolver{}, http.MethodPost, "/v1/receipts/email", http.StatusUnauthorized},
		{"receipts inventario", withRole(access.RoleInventario), http.MethodPost, "/v1/receipts/email", http.StatusForbidden},
		{"logs ventas", withRole(access.RoleVentas), http.MethodGet, "/v1/admin/logs", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestRouter(tc.res, nil)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.wantCode, rr.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Len(t, body, 1)
			assert.NotEmpty(t, body["error"])
		})
	}

	// Las rutas REST siguen con AppError.
	h := newTestRouter(withRole(access.RoleInventario), nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/sales", nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "FORBIDDEN", body["code"])
}

func TestRouter_Me(t *testing.T) {
	h := newTestRouter(withRole(access.RoleAdministrador), nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Role      string `json:"role"`
		Dashboard struct {
			Home string `json:"home"`
		} `json:"dashboard"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "administrador", body.Role)
	assert.Equal(t, "/admin", body.Dashboard.Home)
}

func TestRouter_AccessCheckWithoutSession(t *testing.T) {
	h := newTestRouter(&stubResolver{}, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/access/check?path=/admin/usuarios", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Decision string `json:"decision"`
		Location string `json:"location"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "redirect", body.Decision)
	assert.Equal(t, "/", body.Location)
}

func TestRouter_FunctionPreflightSkipsGuard(t *testing.T) {
	h := newTestRouter(&stubResolver{}, nil)
	for _, p := range []string{"/v1/payments/simulate", "/v1/receipts/email", "/v1/auth/2fa/verify"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, p, nil)
		req.Header.Set("Origin", "https://otro.example")
		req.Header.Set("Access-Control-Request-Method", "POST")
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, p)
		assert.Equal(t, "ok", rr.Body.String(), p)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"), p)
	}
}

func TestRouter_SPAPreflight(t *testing.T) {
	h := newTestRouter(&stubResolver{}, nil)
	req := httptest.NewRequest(http.MethodOptions, "/v1/orders", nil)
	req.Header.Set("Origin", "https://app.mundocomputo.co")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://app.mundocomputo.co", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_VerifyMethodNotAllowed(t *testing.T) {
	h := newTestRouter(&stubResolver{}, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/auth/2fa/verify", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "POST, OPTIONS", rr.Header().Get("Allow"))
	assert.JSONEq(t, `{"error":"Método no permitido"}`, rr.Body.String())
}

func TestRouter_LoginRateLimited(t *testing.T) {
	h := newTestRouter(&stubResolver{}, rate.NewLocalLimiter(1, time.Minute))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.1.1.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	// Sin credenciales: el service responde 400 sin tocar dependencias.
	assert.Equal(t, http.StatusBadRequest, do().Code)
	assert.Equal(t, http.StatusTooManyRequests, do().Code)
}
