package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/storefront-server/internal/logger"
)

func TestRecover_Handle(t *testing.T) {
	var buf bytes.Buffer
	mw := NewRecover(logger.NewWithWriter(&buf, 0, false))

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		mw.Handle(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeError(t, rec).Error)
	assert.Contains(t, buf.String(), "HTTP panic")
	assert.Contains(t, buf.String(), "boom")
}

func TestRecover_PassesAbortHandler(t *testing.T) {
	mw := NewRecover(logger.NewWithWriter(&bytes.Buffer{}, 0, false))

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		mw.Handle(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
