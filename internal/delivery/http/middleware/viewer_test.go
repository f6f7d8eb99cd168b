package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewer_IssuesCookie(t *testing.T) {
	var seen string
	handler := Viewer(true, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ViewerFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ViewerCookieName, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}

func TestViewer_ReusesCookie(t *testing.T) {
	id := uuid.NewString()
	var seen string
	handler := Viewer(false, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ViewerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ViewerCookieName, Value: id})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, id, seen)
	assert.Empty(t, rr.Result().Cookies())
}

func TestViewer_ReplacesInvalidCookie(t *testing.T) {
	var seen string
	handler := Viewer(false, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ViewerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ViewerCookieName, Value: "../../etc"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.NotEqual(t, "../../etc", seen)
	require.Len(t, rr.Result().Cookies(), 1)
}

func TestViewerFromContext_Missing(t *testing.T) {
	_, ok := ViewerFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
