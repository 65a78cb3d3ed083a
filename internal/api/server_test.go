package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogsync/internal/adcatalog"
	"catalogsync/internal/auth"
	"catalogsync/internal/cache"
	"catalogsync/internal/config"
	"catalogsync/internal/events"
	"catalogsync/internal/feed"
	"catalogsync/internal/logger"
	"catalogsync/internal/mapper"
	"catalogsync/internal/replication"
	"catalogsync/internal/sourceclient"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	c, err := cache.New(t.TempDir() + "/cache.db")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	log := logger.New("debug")
	source := sourceclient.NewClient("http://unused", "key", "secret", log)
	catalog := adcatalog.NewClient("http://unused", "cat1", "tok", log)
	m := mapper.New("Store", "BAM", "https://images.example.com/render")
	engine := replication.New(source, catalog, c, m, log)
	generator := feed.New(c, source, m, log)

	authenticator, err := auth.New(c, "admin", "secret")
	require.NoError(t, err)

	webhookHandler := events.NewHandler(c, source, log, "whsec", "store.example.com", []string{"127.0.0.1:1"})
	t.Cleanup(func() { webhookHandler.Close() })

	cfg := &config.Config{Env: "development", PublicDir: t.TempDir()}
	return New(cfg, log, c, engine, generator, authenticator, webhookHandler)
}

func TestOperatorRoutesRequireSession(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/sync/status", nil)
	w := httptest.NewRecorder()
	server.GetRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginThenAccessOperatorRoute(t *testing.T) {
	server := newTestServer(t)
	router := server.GetRouter()

	loginReq := httptest.NewRequest(http.MethodPost, "/auth/login",
		httpBody(`{"username":"admin","password":"secret"}`))
	loginReq.Header.Set("Content-Type", "application/json")
	loginW := httptest.NewRecorder()
	router.ServeHTTP(loginW, loginReq)
	require.Equal(t, http.StatusOK, loginW.Code)

	var cookie string
	for _, c := range loginW.Result().Cookies() {
		if c.Name == "catalogsync_session" {
			cookie = c.Value
		}
	}
	require.NotEmpty(t, cookie)

	statusReq := httptest.NewRequest(http.MethodGet, "/sync/status", nil)
	statusReq.AddCookie(&http.Cookie{Name: "catalogsync_session", Value: cookie})
	statusW := httptest.NewRecorder()
	router.ServeHTTP(statusW, statusReq)

	assert.Equal(t, http.StatusOK, statusW.Code)
}

func httpBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
