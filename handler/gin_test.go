package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abhijeet-0019/abhijeet-blog-repo/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(h *handler.Handler) *gin.Engine {
	r := gin.New()
	r.Any("/posts", h.GinHandler())
	r.Any("/posts/:id", h.GinHandler())

	return r
}

func TestGinHandler(t *testing.T) {
	t.Parallel()

	r := newRouter(newHandler(t, newMemDB()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"id":"3","title":"T","content":"C"}`))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/3", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"id":"3","title":"T","author":"Abhijeet","date":"2026-02-24","summary":"Click to read more...","content":"C"}`,
		w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/4", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGinHandler_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	r := newRouter(newHandler(t, newMemDB()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/posts/3", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, POST", w.Header().Get("Allow"))
	assert.JSONEq(t, `{"error":"Method Not Allowed"}`, w.Body.String())
}
