//go:build !integration && !e2e
// +build !integration,!e2e

package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/reqcatcher/internal/capture"
	"github.com/user/reqcatcher/internal/testutil"
	"github.com/user/reqcatcher/internal/web"
)

func newTestCatcher(t *testing.T) (*gin.Engine, *capture.BoundedLog) {
	t.Helper()

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	log := capture.NewBoundedLog(capture.DefaultCapacity, testutil.NewTestLogger())
	h := NewCatchHandler(log, renderer, testutil.NewTestLogger())

	r := testutil.NewTestRouter()
	for _, m := range []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"} {
		r.Handle(m, "/*path", h.Catch)
	}
	return r, log
}

func TestCatch_RespondsWithHTMLPage(t *testing.T) {
	r, log := newTestCatcher(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/anything/here?k=v", nil)
	req.Header.Set("User-Agent", "test-agent")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, "Captured Requests (1)")
	assert.Contains(t, body, "/anything/here")
	assert.Contains(t, body, "test-agent")
	assert.Contains(t, body, "k: v")
	assert.Equal(t, 1, log.Len())
}

func TestCatch_RootPath(t *testing.T) {
	r, log := newTestCatcher(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	snap := log.Snapshot()
	require.Equal(t, 1, len(snap))
	assert.Equal(t, "/", snap[0].Path)
}

func TestCatch_RecordsEveryMethod(t *testing.T) {
	r, log := newTestCatcher(t)

	methods := []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	for _, m := range methods {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(m, "/m", nil))
		assert.Equal(t, http.StatusOK, w.Code, m)
	}

	snap := log.Snapshot()
	require.Equal(t, len(methods), len(snap))
	// Newest first: the last method sent is at index 0.
	assert.Equal(t, "OPTIONS", snap[0].Method)
	assert.Equal(t, "GET", snap[len(snap)-1].Method)
}

func TestCatch_PageShowsNewRequestFirst(t *testing.T) {
	r, _ := newTestCatcher(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/first", nil))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/second", nil))

	body := w.Body.String()
	assert.Contains(t, body, "Captured Requests (2)")
	assert.Less(t, strings.Index(body, "/second"), strings.Index(body, "/first"))
}

func TestCatch_MalformedJSONStillReturns200(t *testing.T) {
	r, log := newTestCatcher(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/hook", strings.NewReader(`{x:}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	snap := log.Snapshot()
	require.Equal(t, 1, len(snap))
	assert.Equal(t, capture.BodyRaw, snap[0].Body.Kind)
	assert.Contains(t, w.Body.String(), "{x:}")
}

func TestCatch_EscapesHostileContent(t *testing.T) {
	r, _ := newTestCatcher(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/xss", strings.NewReader(`<script>alert(1)</script>`))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("User-Agent", `<script>alert(2)</script>`)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.NotContains(t, body, "<script>alert(2)</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestCatch_CapsStoredRequests(t *testing.T) {
	r, log := newTestCatcher(t)

	for i := 0; i < capture.DefaultCapacity+5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/n", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, capture.DefaultCapacity, log.Len())
}

func TestCatch_BaseURLFromRequest(t *testing.T) {
	r, _ := newTestCatcher(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "http://catcher.example/", nil)
	r.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "http://catcher.example/")
}

func TestBaseURL_ForwardedProto(t *testing.T) {
	req := httptest.NewRequest("GET", "http://catcher.example/x", nil)
	assert.Equal(t, "http://catcher.example/", baseURL(req))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://catcher.example/", baseURL(req))
}
