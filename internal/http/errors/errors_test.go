package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_AppError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, ErrInsufficientStock.WithDetail("producto p1"))

	assert.Equal(t, http.StatusConflict, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, "producto p1", body["detail"])
}

func TestWriteError_GenericIsInternal(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, stderrors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "connection refused")
}

func TestFromError_Wrapped(t *testing.T) {
	err := fmt.Errorf("ctx: %w", ErrForbidden)
	assert.Equal(t, http.StatusForbidden, FromError(err).HTTPStatus)
}

func TestWithDetail_DoesNotMutateBase(t *testing.T) {
	_ = ErrBadRequest.WithDetail("x")
	assert.Empty(t, ErrBadRequest.Detail)

	cause := stderrors.New("db down")
	e := ErrInternalServerError.WithCause(cause)
	assert.ErrorIs(t, e, cause)
	assert.Nil(t, ErrInternalServerError.Err)
}
