package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	var v struct {
		Email string `json:"email"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","extra":1}`))
	r.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	require.True(t, ReadJSON(rr, r, &v))
	assert.Equal(t, "a@b.co", v.Email)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	r.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	assert.False(t, ReadJSON(rr, r, &v))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_JSON")

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "text/plain")
	rr = httptest.NewRecorder()
	assert.False(t, ReadJSON(rr, r, &v))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWriteErrorJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteErrorJSON(rr, http.StatusNotFound, "Usuario no encontrado")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"error": "Usuario no encontrado"}, body)
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, BearerToken(r))

	r.Header.Set("Authorization", "bearer abc.def")
	assert.Equal(t, "abc.def", BearerToken(r))

	r.Header.Set("Authorization", "Basic xyz")
	assert.Empty(t, BearerToken(r))
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "200.1.1.1, 10.0.0.1")
	assert.Equal(t, "200.1.1.1", ClientIP(r))
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=20&bad=x", nil)
	n, ok := QueryInt(r, "limit", 50)
	assert.True(t, ok)
	assert.Equal(t, 20, n)

	n, ok = QueryInt(r, "offset", 0)
	assert.True(t, ok)
	assert.Equal(t, 0, n)

	_, ok = QueryInt(r, "bad", 0)
	assert.False(t, ok)
}
