package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reddit-ranger/ranger/detect"
)

const aboutJSON = `{"kind":"t2","data":{"name":"someuser","created_utc":1609459200.0,"link_karma":12,"comment_karma":340}}`

const commentsJSON = `{"kind":"Listing","data":{"children":[
	{"kind":"t1","data":{"created_utc":1672531200.0,"subreddit":"golang","score":5,"body":"nice","permalink":"/r/golang/x"}},
	{"kind":"t1","data":{"created_utc":1672617600.0,"subreddit":"books","score":2,"body":"interesting take","permalink":"/r/books/y"}}
]}}`

const submittedJSON = `{"kind":"Listing","data":{"children":[
	{"kind":"t3","data":{"created_utc":1672704000.0,"subreddit":"golang","score":40,"title":"A post title","selftext":"with a body","permalink":"/r/golang/z"}}
]}}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/user/someuser/about.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, aboutJSON)
	})
	mux.HandleFunc("/user/someuser/comments.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, commentsJSON)
	})
	mux.HandleFunc("/user/someuser/submitted.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, submittedJSON)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchProfile(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	client := NewClient(testServer(t).URL)
	raw, err := client.FetchProfile(ctx, "someuser")
	require.NoError(t, err)

	assert.Equal("someuser", raw.Username)
	assert.Equal(int64(12), raw.LinkKarma)
	assert.Equal(int64(340), raw.CommentKarma)
	assert.Equal(1609459200.0, raw.CreatedAt)
	require.Len(t, raw.Activities, 3)

	assert.Equal("comment", raw.Activities[0].Kind)
	assert.Equal("golang", raw.Activities[0].Subreddit)
	assert.Equal("nice", raw.Activities[0].Body)

	post := raw.Activities[2]
	assert.Equal("post", post.Kind)
	assert.Equal("A post title\nwith a body", post.Body)
	assert.Equal(int64(40), *post.Score)
}

func TestFetchProfileNotFound(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	client := NewClient(testServer(t).URL)
	_, err := client.FetchProfile(ctx, "nobody")
	assert.ErrorIs(err, detect.ErrAccountNotFound)
}

func TestFetchProfileUpstreamError(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL)
	client.HTTP = srv.Client() // no retry/backoff in tests

	_, err := client.FetchProfile(ctx, "someuser")
	assert.ErrorIs(err, detect.ErrUpstreamUnavailable)
}
