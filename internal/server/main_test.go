package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/Sudip2708/poustovnik-english/internal/config"
	"github.com/Sudip2708/poustovnik-english/internal/database"
	"github.com/Sudip2708/poustovnik-english/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// fakeMailer records sent mail instead of dialing SMTP.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return fmt.Errorf("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) last() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}, false
	}
	return m.sent[len(m.sent)-1], true
}

// fakeTranslator wraps text in a marker instead of calling the API.
type fakeTranslator struct {
	fail bool
}

func (t *fakeTranslator) Translate(_ context.Context, text, target string) (string, error) {
	if t.fail {
		return "", fmt.Errorf("translation api down")
	}
	return fmt.Sprintf("[%s] %s", target, text), nil
}

type testServer struct {
	srv        *Server
	app        *fiber.App
	mailer     *fakeMailer
	translator *fakeTranslator
	redis      *miniredis.Miniredis
}

var serverDBSeq int

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	serverDBSeq++
	db, err := database.ConnectSQLite(fmt.Sprintf("file:server_test_%d?mode=memory&cache=shared", serverDBSeq))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		SecretKey:  "test-secret-key-0123456789abcdef",
		Port:       "0",
		BaseURL:    "http://localhost:8390",
		Env:        "test",
		PictureDir: t.TempDir(),
	}

	mailer := &fakeMailer{}
	translator := &fakeTranslator{}
	srv, err := NewServerWithDeps(cfg, db, rdb, mailer, translator)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	app.Use(srv.SessionMiddleware())
	srv.SetupRoutes(app)

	return &testServer{srv: srv, app: app, mailer: mailer, translator: translator, redis: mr}
}

// client carries cookies across requests, standing in for a browser session.
type client struct {
	t       *testing.T
	ts      *testServer
	cookies map[string]string
}

func newClient(t *testing.T, ts *testServer) *client {
	return &client{t: t, ts: ts, cookies: map[string]string{}}
}

func (c *client) do(req *http.Request) *http.Response {
	c.t.Helper()
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	resp, err := c.ts.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck.Value
	}
	return resp
}

func (c *client) get(path string) *http.Response {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postJSON(path string, body any) *http.Response {
	b, err := json.Marshal(body)
	require.NoError(c.t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) postForm(path string, form url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return out
}

// register creates an account through the API.
func (c *client) register(username, email, password string) *http.Response {
	return c.postJSON("/register", map[string]any{
		"username":         username,
		"email":            email,
		"password":         password,
		"confirm_password": password,
	})
}

// login signs in through the API, capturing the session cookie.
func (c *client) login(email, password string) *http.Response {
	return c.postJSON("/login", map[string]any{
		"email":    email,
		"password": password,
	})
}

// createPost makes a post as the signed-in user and returns its id.
func (c *client) createPost(title, content string) uint {
	c.t.Helper()
	resp := c.postJSON("/post/new", map[string]any{
		"title":   title,
		"content": content,
	})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(c.t, resp)
	post := body["post"].(map[string]any)
	return uint(post["id"].(float64))
}
