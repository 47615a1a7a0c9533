package server

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postPath(id float64) string {
	return "/api/posts/" + strconv.FormatInt(int64(id), 10)
}

func TestCreateAndGetPost(t *testing.T) {
	app, _ := newTestApp(t)
	cookie := registerUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", map[string]string{
		"title": "  <b>First post</b> ",
		"body":  "<script>bad()</script>hello world",
	}, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	post, ok := body["post"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "First post", post["title"])
	assert.Equal(t, "hello world", post["body"])
	assert.Equal(t, true, post["is_owner"])

	author, ok := post["author"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice", author["username"])

	id := post["id"].(float64)
	getResp := doJSON(t, app, http.MethodGet, postPath(id), nil, cookie)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	getBody := decodeBody(t, getResp)
	got := getBody["post"].(map[string]interface{})
	assert.Equal(t, "First post", got["title"])
	assert.Equal(t, true, got["is_owner"])
}

func TestGetPost_OwnershipNotVisibleToOthers(t *testing.T) {
	app, _ := newTestApp(t)
	alice := registerUser(t, app, "alice")
	bob := registerUser(t, app, "bob")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", map[string]string{
		"title": "Mine",
		"body":  "content",
	}, alice)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post := decodeBody(t, resp)["post"].(map[string]interface{})
	id := post["id"].(float64)

	asBob := doJSON(t, app, http.MethodGet, postPath(id), nil, bob)
	bobView := decodeBody(t, asBob)["post"].(map[string]interface{})
	assert.Equal(t, false, bobView["is_owner"])

	asAnon := doJSON(t, app, http.MethodGet, postPath(id), nil, "")
	anonView := decodeBody(t, asAnon)["post"].(map[string]interface{})
	assert.Equal(t, false, anonView["is_owner"])
}

func TestGetPost_MalformedID(t *testing.T) {
	app, _ := newTestApp(t)

	for _, raw := range []string{"abc", "0", "-5"} {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/"+raw, nil, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "id %q", raw)
		_ = resp.Body.Close()
	}
}

func TestCreatePost_BothViolations(t *testing.T) {
	app, _ := newTestApp(t)
	cookie := registerUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", map[string]string{
		"title": "   ",
		"body":  "<p></p>",
	}, cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{
		"You must provide a title.",
		"You must provide post content.",
	}, errorMessages(t, resp))
}

func TestUpdatePost_OwnershipEnforced(t *testing.T) {
	app, _ := newTestApp(t)
	alice := registerUser(t, app, "alice")
	bob := registerUser(t, app, "bob")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", map[string]string{
		"title": "Original",
		"body":  "content",
	}, alice)
	post := decodeBody(t, resp)["post"].(map[string]interface{})
	id := post["id"].(float64)

	forbidden := doJSON(t, app, http.MethodPut, postPath(id), map[string]string{
		"title": "Hijacked",
		"body":  "meh",
	}, bob)
	require.Equal(t, http.StatusForbidden, forbidden.StatusCode)
	forbiddenBody := decodeBody(t, forbidden)
	assert.Equal(t, "You do not have permission to perform that action.", forbiddenBody["error"])

	// Untouched after the forbidden update.
	check := doJSON(t, app, http.MethodGet, postPath(id), nil, "")
	got := decodeBody(t, check)["post"].(map[string]interface{})
	assert.Equal(t, "Original", got["title"])

	updated := doJSON(t, app, http.MethodPut, postPath(id), map[string]string{
		"title": "Revised",
		"body":  "new content",
	}, alice)
	require.Equal(t, http.StatusOK, updated.StatusCode)
	updatedPost := decodeBody(t, updated)["post"].(map[string]interface{})
	assert.Equal(t, "Revised", updatedPost["title"])
}

func TestDeletePost_OwnershipEnforced(t *testing.T) {
	app, _ := newTestApp(t)
	alice := registerUser(t, app, "alice")
	bob := registerUser(t, app, "bob")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", map[string]string{
		"title": "Short lived",
		"body":  "content",
	}, alice)
	post := decodeBody(t, resp)["post"].(map[string]interface{})
	id := post["id"].(float64)

	forbidden := doJSON(t, app, http.MethodDelete, postPath(id), nil, bob)
	require.Equal(t, http.StatusForbidden, forbidden.StatusCode)
	_ = forbidden.Body.Close()

	deleted := doJSON(t, app, http.MethodDelete, postPath(id), nil, alice)
	require.Equal(t, http.StatusOK, deleted.StatusCode)
	_ = deleted.Body.Close()

	gone := doJSON(t, app, http.MethodGet, postPath(id), nil, alice)
	assert.Equal(t, http.StatusNotFound, gone.StatusCode)
	_ = gone.Body.Close()
}

func TestSearchPosts(t *testing.T) {
	app, _ := newTestApp(t)
	cookie := registerUser(t, app, "alice")

	for _, p := range []map[string]string{
		{"title": "Gardening tips", "body": "soil and seeds"},
		{"title": "Cooking", "body": "gardening mentioned in passing"},
		{"title": "Unrelated", "body": "nothing here"},
	} {
		resp := doJSON(t, app, http.MethodPost, "/api/posts", p, cookie)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodPost, "/api/posts/search", map[string]string{
		"searchTerm": "gardening",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	posts, ok := body["posts"].([]interface{})
	require.True(t, ok)
	require.Len(t, posts, 2)
	first := posts[0].(map[string]interface{})
	assert.Equal(t, "Gardening tips", first["title"])
}

func TestSearchPosts_EmptyTerm(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/posts/search", map[string]string{
		"searchTerm": "   ",
	}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errorMessages(t, resp), "You must provide a search term.")
}

func TestHomeFeed(t *testing.T) {
	app, _ := newTestApp(t)
	alice := registerUser(t, app, "alice")
	bob := registerUser(t, app, "bob")
	carol := registerUser(t, app, "carol")

	for user, title := range map[string]string{"bob": "From bob", "carol": "From carol"} {
		cookie := bob
		if user == "carol" {
			cookie = carol
		}
		resp := doJSON(t, app, http.MethodPost, "/api/posts", map[string]string{
			"title": title,
			"body":  "content",
		}, cookie)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	// Feed is empty before following anyone.
	empty := doJSON(t, app, http.MethodGet, "/api/home", nil, alice)
	require.Equal(t, http.StatusOK, empty.StatusCode)
	emptyPosts := decodeBody(t, empty)["posts"].([]interface{})
	assert.Empty(t, emptyPosts)

	follow := doJSON(t, app, http.MethodPost, "/api/follow/bob", nil, alice)
	require.Equal(t, http.StatusOK, follow.StatusCode)
	_ = follow.Body.Close()

	feed := doJSON(t, app, http.MethodGet, "/api/home", nil, alice)
	require.Equal(t, http.StatusOK, feed.StatusCode)
	posts := decodeBody(t, feed)["posts"].([]interface{})
	require.Len(t, posts, 1)
	assert.Equal(t, "From bob", posts[0].(map[string]interface{})["title"])

	// The feed requires a session.
	anon := doJSON(t, app, http.MethodGet, "/api/home", nil, "")
	assert.Equal(t, http.StatusUnauthorized, anon.StatusCode)
	_ = anon.Body.Close()
}
