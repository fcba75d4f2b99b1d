package mux

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_remoteAddr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	r.RemoteAddr = "127.0.0.1:5000"
	assert.Equal(t, "127.0.0.1", remoteAddr(r))

	r.RemoteAddr = "[::1]:5000"
	assert.Equal(t, "[::1]", remoteAddr(r))

	r.RemoteAddr = "localhost"
	assert.Equal(t, "localhost", remoteAddr(r))
}

func Test_writeJSONError(t *testing.T) {
	a := assert.New(t)

	w := httptest.NewRecorder()
	writeJSONError(w, http.StatusBadRequest, errors.New("bad input"))
	a.Equal(http.StatusBadRequest, w.Code)
	a.Equal("application/json", w.Header().Get("Content-Type"))

	var resp errorResponse
	a.NoError(json.NewDecoder(w.Body).Decode(&resp))
	a.Equal(errorResponse{Message: "bad input", StatusCode: http.StatusBadRequest}, resp)

	w = httptest.NewRecorder()
	writeJSONError(w, http.StatusInternalServerError, errors.New("secret detail"))
	a.NoError(json.NewDecoder(w.Body).Decode(&resp))
	a.Equal(errorResponse{Message: "Internal Server Error", StatusCode: http.StatusInternalServerError}, resp)

	w = httptest.NewRecorder()
	writeJSONError(w, http.StatusNotFound, nil)
	a.NoError(json.NewDecoder(w.Body).Decode(&resp))
	a.Equal(errorResponse{Message: "Not Found", StatusCode: http.StatusNotFound}, resp)
}
