package server

import (
	"bytes"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (c *client) postMultipart(path string, fields map[string]string, fileField, fileName string, fileContent []byte) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(c.t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(c.t, err)
		_, err = fw.Write(fileContent)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req)
}

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func TestGetAccount(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	c.register("alice", "alice@example.com", "password1")
	c.login("alice@example.com", "password1")

	body := decodeBody(t, c.get("/account"))
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "/static/profile_pictures/default.jpg", body["profile_picture"])
	// The password hash never leaves the server.
	assert.NotContains(t, user, "password")
}

func TestUpdateAccountDetails(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	c.register("alice", "alice@example.com", "password1")
	c.login("alice@example.com", "password1")

	resp := c.postMultipart("/account", map[string]string{
		"username": "alice_two",
		"email":    "alice2@example.com",
	}, "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, c.get("/account"))
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice_two", user["username"])
	assert.Equal(t, "alice2@example.com", user["email"])
}

func TestUpdateAccountRejectsTakenUsername(t *testing.T) {
	ts := newTestServer(t)

	other := newClient(t, ts)
	other.register("bob", "bob@example.com", "password1")

	c := newClient(t, ts)
	c.register("alice", "alice@example.com", "password1")
	c.login("alice@example.com", "password1")

	resp := c.postMultipart("/account", map[string]string{
		"username": "bob",
		"email":    "alice@example.com",
	}, "", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateAccountUploadsPicture(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	c.register("alice", "alice@example.com", "password1")
	c.login("alice@example.com", "password1")

	resp := c.postMultipart("/account", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
	}, "picture", "holiday.jpg", testJPEG(t, 500, 500))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	user := body["user"].(map[string]any)
	picture := user["profile_picture"].(string)
	assert.Regexp(t, `^[0-9a-f]{16}\.jpg$`, picture)

	// The stored file is resized into the bounding box.
	f, err := os.Open(filepath.Join(ts.srv.pictures.Dir(), picture))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, 125)
	assert.LessOrEqual(t, cfg.Height, 125)
}

func TestUpdateAccountReplacingPictureRemovesOld(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	c.register("alice", "alice@example.com", "password1")
	c.login("alice@example.com", "password1")

	fields := map[string]string{"username": "alice", "email": "alice@example.com"}

	resp := c.postMultipart("/account", fields, "picture", "a.jpg", testJPEG(t, 200, 200))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decodeBody(t, resp)["user"].(map[string]any)["profile_picture"].(string)

	resp = c.postMultipart("/account", fields, "picture", "b.jpg", testJPEG(t, 200, 200))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decodeBody(t, resp)["user"].(map[string]any)["profile_picture"].(string)
	require.NotEqual(t, first, second)

	_, err := os.Stat(filepath.Join(ts.srv.pictures.Dir(), first))
	assert.True(t, os.IsNotExist(err), "replaced picture should be deleted")
	_, err = os.Stat(filepath.Join(ts.srv.pictures.Dir(), second))
	assert.NoError(t, err)
}

func TestUpdateAccountRejectsNonImageUpload(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	c.register("alice", "alice@example.com", "password1")
	c.login("alice@example.com", "password1")

	resp := c.postMultipart("/account", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
	}, "picture", "notes.jpg", []byte("plain text, not an image"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
