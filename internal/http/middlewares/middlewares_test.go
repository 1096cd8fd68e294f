package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/ids"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/rate"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	state  access.SessionState
	claims *session.Claims
	bearer string
}

func (s *stubResolver) Resolve(_ context.Context, bearer string) (access.SessionState, *session.Claims) {
	s.bearer = bearer
	return s.state, s.claims
}

func rolePtr(r access.Role) *access.Role { return &r }

func okHandler(t *testing.T, wantRole access.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := GetRole(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantRole, role)
		assert.NotEmpty(t, GetUserID(r.Context()))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("contenido"))
	})
}

func TestRequireRoles(t *testing.T) {
	user := &access.Identity{ID: "u1", Email: "u1@mundocomputo.co"}

	cases := []struct {
		name     string
		state    access.SessionState
		html     bool
		wantCode int
		wantLoc  string
	}{
		{"loading", access.SessionState{Loading: true}, false, http.StatusServiceUnavailable, ""},
		{"loading dominates html", access.SessionState{Loading: true, User: user, Role: rolePtr(access.RoleTecnico)}, true, http.StatusServiceUnavailable, ""},
		{"no session api", access.SessionState{}, false, http.StatusUnauthorized, ""},
		{"no session html", access.SessionState{}, true, http.StatusFound, "/"},
		{"no role", access.SessionState{User: user}, false, http.StatusUnauthorized, ""},
		{"role not allowed api", access.SessionState{User: user, Role: rolePtr(access.RoleVentas)}, false, http.StatusForbidden, ""},
		{"role not allowed html", access.SessionState{User: user, Role: rolePtr(access.RoleVentas)}, true, http.StatusFound, "/unauthorized"},
		{"allowed", access.SessionState{User: user, Role: rolePtr(access.RoleTecnico)}, false, http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := &stubResolver{state: tc.state}
			h := RequireRoles(res, access.RoleTecnico, access.RoleAdministrador)(okHandler(t, access.RoleTecnico))

			req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
			req.Header.Set("Authorization", "Bearer tok")
			if tc.html {
				req.Header.Set("Accept", "text/html,application/xhtml+xml")
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantCode, rr.Code)
			assert.Equal(t, "tok", res.bearer)
			if tc.wantLoc != "" {
				assert.Equal(t, tc.wantLoc, rr.Header().Get("Location"))
			}
			if tc.wantCode == http.StatusServiceUnavailable {
				assert.Equal(t, "1", rr.Header().Get("Retry-After"))
				assert.JSONEq(t, `{"status":"loading"}`, rr.Body.String())
			}
			if tc.wantCode == http.StatusOK {
				assert.Equal(t, "contenido", rr.Body.String())
			} else {
				assert.NotContains(t, rr.Body.String(), "contenido")
			}
		})
	}
}

func TestRequireRoles_NoHierarchy(t *testing.T) {
	res := &stubResolver{state: access.SessionState{
		User: &access.Identity{ID: "a"},
		Role: rolePtr(access.RoleAdministrador),
	}}
	h := RequireRoles(res, access.RoleTecnico)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("administrador no debe heredar rutas de tecnico")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/orders/x/status", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestGuard_FlatError(t *testing.T) {
	user := &access.Identity{ID: "u1"}
	cases := []struct {
		name     string
		state    access.SessionState
		wantCode int
	}{
		{"no session", access.SessionState{}, http.StatusUnauthorized},
		{"role not allowed", access.SessionState{User: user, Role: rolePtr(access.RoleInventario)}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := Guard(GuardConfig{
				Resolver:  &stubResolver{state: tc.state},
				Roles:     []access.Role{access.RoleVentas},
				FlatError: true,
			})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("no debe llegar al handler")
			}))

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/payments/simulate", nil))
			assert.Equal(t, tc.wantCode, rr.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Len(t, body, 1)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRequireSession_AnyRole(t *testing.T) {
	for _, role := range access.AllRoles() {
		res := &stubResolver{state: access.SessionState{User: &access.Identity{ID: "u"}, Role: rolePtr(role)}}
		rr := httptest.NewRecorder()
		RequireSession(res)(okHandler(t, role)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
		assert.Equal(t, http.StatusOK, rr.Code, role)
	}
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 26)
	assert.True(t, ids.Valid(seen))
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", seen)
}

func TestWithRecover(t *testing.T) {
	h := WithRecover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestWithCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := WithCORS([]string{"https://app.mundocomputo.co/"}, "/v1/auth/2fa/verify")(next)

	req := httptest.NewRequest(http.MethodOptions, "/v1/orders", nil)
	req.Header.Set("Origin", "https://app.mundocomputo.co")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://app.mundocomputo.co", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))

	// paths con política propia pasan sin tocar
	req = httptest.NewRequest(http.MethodOptions, "/v1/auth/2fa/verify", nil)
	req.Header.Set("Origin", "https://app.mundocomputo.co")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestFunctionCORS_Preflight(t *testing.T) {
	h := FunctionCORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("el preflight no llega al handler")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/v1/auth/2fa/verify", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", rr.Header().Get("Access-Control-Allow-Headers"))
}

func TestWithRateLimit(t *testing.T) {
	lim := rate.NewLocalLimiter(2, time.Minute)
	h := WithRateLimit(RateLimitConfig{Limiter: lim, FlatError: true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/2fa/verify", nil)
		req.RemoteAddr = "10.9.9.9:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)
	rr := do()
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}
