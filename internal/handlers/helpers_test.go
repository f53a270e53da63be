package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/travel-diary/app/internal/auth"
	"github.com/travel-diary/app/internal/database"
	"github.com/travel-diary/app/web"
)

// testServer holds a running application backed by an in-memory database.
type testServer struct {
	server *httptest.Server
	db     *database.DB
}

// setupTestServer initializes an in-memory SQLite database, loads the embedded
// templates, mounts the router and starts an httptest.Server.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.InitDB(context.Background(), database.DriverSQLite, ":memory:?_foreign_keys=on", nil)
	require.NoError(t, err, "initialize test database")

	templates, err := LoadTemplates(web.Templates())
	require.NoError(t, err, "load templates")

	log := logrus.New()
	log.SetOutput(io.Discard)

	h := NewHandler(db, auth.NewSessionManager("test-secret", time.Hour), templates, log)
	ts := httptest.NewServer(NewRouter(h, web.Static()))

	t.Cleanup(func() {
		ts.Close()
		db.Close()
	})

	return &testServer{server: ts, db: db}
}

// newClient returns a client with its own cookie jar that does not follow
// redirects, so tests can inspect them.
func (ts *testServer) newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type response struct {
	status   int
	location string
	body     string
	header   http.Header
}

func (ts *testServer) get(t *testing.T, client *http.Client, path string) response {
	t.Helper()
	resp, err := client.Get(ts.server.URL + path)
	require.NoError(t, err, "GET %s", path)
	return readResponse(t, resp)
}

func (ts *testServer) post(t *testing.T, client *http.Client, path string, form url.Values) response {
	t.Helper()
	resp, err := client.PostForm(ts.server.URL+path, form)
	require.NoError(t, err, "POST %s", path)
	return readResponse(t, resp)
}

func readResponse(t *testing.T, resp *http.Response) response {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		body:     string(body),
		header:   resp.Header,
	}
}

// registerAndLogin creates an account and returns a client holding its session.
func (ts *testServer) registerAndLogin(t *testing.T, login, password string) *http.Client {
	t.Helper()
	client := ts.newClient(t)

	resp := ts.post(t, client, "/register", url.Values{"login": {login}, "password": {password}})
	require.Equal(t, http.StatusSeeOther, resp.status, "register %s: %s", login, resp.body)

	resp = ts.post(t, client, "/login", url.Values{"login": {login}, "password": {password}})
	require.Equal(t, http.StatusSeeOther, resp.status, "login %s: %s", login, resp.body)
	require.Equal(t, "/my_tours", resp.location)

	return client
}

func (ts *testServer) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, ts.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func (ts *testServer) sessionCookie(t *testing.T, client *http.Client) *http.Cookie {
	t.Helper()
	u, err := url.Parse(ts.server.URL)
	require.NoError(t, err)
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == auth.SessionCookieName && strings.TrimSpace(c.Value) != "" {
			return c
		}
	}
	return nil
}
