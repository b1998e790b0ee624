package figma

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, comments string, file string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/files/KEY/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, comments)
	})
	mux.HandleFunc("/v1/files/KEY", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, file)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientGetComments(t *testing.T) {
	srv := newTestServer(t, `{"comments":[
		{"id":"c1","message":"hello","user":{"handle":"carol"},"client_meta":{"node_id":"1:3"},"created_at":"2025-05-28T09:00:00Z"},
		{"id":"c2","message":"done","resolved_at":"2025-05-29T09:00:00Z"}
	]}`, `{}`)

	c := NewClient("test-token", "KEY", &ClientOption{BaseURL: srv.URL})
	comments, err := c.GetComments(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "c1", comments[0].ID)
	assert.Equal(t, "carol", comments[0].User.Handle)
	assert.Equal(t, "1:3", comments[0].ClientMeta.NodeID)
	assert.NotEmpty(t, comments[1].ResolvedAt)
}

func TestClientGetFile(t *testing.T) {
	srv := newTestServer(t, `{}`, `{"name":"Checkout Flow","document":`+documentJSON+`}`)

	c := NewClient("test-token", "KEY", &ClientOption{BaseURL: srv.URL})
	file, err := c.GetFile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Checkout Flow", file.Name)

	loc := file.Nodes.Resolve("1:3")
	assert.Equal(t, "Checkout", loc.PageName)
	assert.Equal(t, "Cart", loc.FrameName)
}

func TestClientAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("bad-token", "KEY", &ClientOption{BaseURL: srv.URL})
	_, err := c.GetComments(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token rejected")
}

func TestClientFetchTasksDegradesWithoutFileTree(t *testing.T) {
	// コメントは取れるがファイルツリーが落ちている場合は位置情報なしで続行
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/files/KEY/comments", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"comments":[{"id":"c1","message":"hi","client_meta":{"node_id":"1:3"}}]}`)
	})
	mux.HandleFunc("/v1/files/KEY", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewClient("test-token", "KEY", &ClientOption{BaseURL: srv.URL})
	tasks, err := c.FetchTasks(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, GlobalPageName, tasks[0].Page)
}

func TestClientFetchTasksCommentFailureIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-token", "KEY", &ClientOption{BaseURL: srv.URL})
	_, err := c.FetchTasks(context.Background(), "")
	assert.Error(t, err)
}
