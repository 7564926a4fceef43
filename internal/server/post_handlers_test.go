package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Sudip2708/poustovnik-english/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishAndBrowseFlow(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)

	require.Equal(t, http.StatusFound, c.register("alice", "alice@example.com", "password1").StatusCode)
	require.Equal(t, http.StatusFound, c.login("alice@example.com", "password1").StatusCode)

	postID := c.createPost("Hello world", "My first post")
	require.NotZero(t, postID)

	// The new post leads the home listing.
	body := decodeBody(t, c.get("/"))
	posts := body["posts"].([]any)
	require.NotEmpty(t, posts)
	first := posts[0].(map[string]any)
	assert.Equal(t, "Hello world", first["title"])
	assert.Equal(t, "alice", first["user"].(map[string]any)["username"])

	// And the author page shows it too.
	body = decodeBody(t, c.get("/user/alice"))
	posts = body["posts"].([]any)
	require.Len(t, posts, 1)
	assert.Equal(t, "Hello world", posts[0].(map[string]any)["title"])
}

func TestGetPostDetail(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	c.register("alice", "alice@example.com", "password1")
	c.login("alice@example.com", "password1")
	postID := c.createPost("Detail", "Body text")

	body := decodeBody(t, c.get(fmt.Sprintf("/post/%d", postID)))
	post := body["post"].(map[string]any)
	assert.Equal(t, "Detail", post["title"])
	assert.NotContains(t, body, "translation")

	resp := c.get("/post/99999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = c.get("/post/zero")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownAuthorIs404(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)

	resp := c.get("/user/ghost")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHomePagination(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	c.register("alice", "alice@example.com", "password1")
	c.login("alice@example.com", "password1")

	for i := 1; i <= 12; i++ {
		c.createPost(fmt.Sprintf("Post %d", i), "content")
	}

	body := decodeBody(t, c.get("/?page=1"))
	assert.Equal(t, float64(12), body["total"])
	assert.Equal(t, float64(3), body["total_pages"])
	posts := body["posts"].([]any)
	require.Len(t, posts, 5)
	assert.Equal(t, "Post 12", posts[0].(map[string]any)["title"])
	assert.Equal(t, "Post 8", posts[4].(map[string]any)["title"])

	body = decodeBody(t, c.get("/?page=3"))
	posts = body["posts"].([]any)
	require.Len(t, posts, 2)
	assert.Equal(t, "Post 2", posts[0].(map[string]any)["title"])
	assert.Equal(t, "Post 1", posts[1].(map[string]any)["title"])
}

func TestUpdateOwnPost(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	c.register("alice", "alice@example.com", "password1")
	c.login("alice@example.com", "password1")
	postID := c.createPost("Draft", "first take")

	resp := c.postJSON(fmt.Sprintf("/post/%d/update", postID), map[string]any{
		"title":   "Final",
		"content": "second take",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, c.get(fmt.Sprintf("/post/%d", postID)))
	assert.Equal(t, "Final", body["post"].(map[string]any)["title"])
}

func TestNonOwnerCannotModifyPost(t *testing.T) {
	ts := newTestServer(t)

	alice := newClient(t, ts)
	alice.register("alice", "alice@example.com", "password1")
	alice.login("alice@example.com", "password1")
	postID := alice.createPost("Alice's post", "hers alone")

	bob := newClient(t, ts)
	bob.register("bob", "bob@example.com", "password1")
	bob.login("bob@example.com", "password1")

	resp := bob.postJSON(fmt.Sprintf("/post/%d/update", postID), map[string]any{
		"title":   "Taken over",
		"content": "mine now",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = bob.postJSON(fmt.Sprintf("/post/%d/delete", postID), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The post is intact.
	var post models.Post
	require.NoError(t, ts.srv.db.First(&post, postID).Error)
	assert.Equal(t, "Alice's post", post.Title)
	assert.Equal(t, "hers alone", post.Content)
}

func TestDeleteOwnPost(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	c.register("alice", "alice@example.com", "password1")
	c.login("alice@example.com", "password1")
	postID := c.createPost("Ephemeral", "soon gone")

	resp := c.postJSON(fmt.Sprintf("/post/%d/delete", postID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.get(fmt.Sprintf("/post/%d", postID))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePostStampsActiveLocale(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	c.register("alice", "alice@example.com", "password1")
	c.login("alice@example.com", "password1")

	// Default locale is cs; toggle to en before posting.
	c.get("/change_language")
	postID := c.createPost("English post", "written in english")

	var post models.Post
	require.NoError(t, ts.srv.db.First(&post, postID).Error)
	assert.Equal(t, "en", post.Language)
}

func TestCreatePostValidation(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t, ts)
	c.register("alice", "alice@example.com", "password1")
	c.login("alice@example.com", "password1")

	resp := c.postJSON("/post/new", map[string]any{"title": "", "content": "body"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.postJSON("/post/new", map[string]any{"title": "ok", "content": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
