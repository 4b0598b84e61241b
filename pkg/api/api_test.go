package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/rowcount/pkg/app"
	"tableflip.dev/rowcount/pkg/logging"
	"tableflip.dev/rowcount/pkg/store"
)

func newServer(t *testing.T, token string) (*httptest.Server, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	srv := httptest.NewServer(NewRouter(kv, token, logging.Discard()))
	t.Cleanup(srv.Close)
	return srv, kv
}

func do(t *testing.T, method, url, body string) (int, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestStorageRoutes(t *testing.T) {
	srv, _ := newServer(t, "")

	status, out := do(t, http.MethodGet, srv.URL+"/api/storage/get?key=project:1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, out["value"])
	assert.Contains(t, out, "value")

	status, out = do(t, http.MethodPost, srv.URL+"/api/storage/set", `{"key":"project:1","value":"{\"id\":\"1\"}"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["ok"])

	status, out = do(t, http.MethodGet, srv.URL+"/api/storage/get?key=project:1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, `{"id":"1"}`, out["value"])

	status, out = do(t, http.MethodGet, srv.URL+"/api/storage/list?prefix=project:", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{"project:1"}, out["keys"])

	status, _ = do(t, http.MethodPost, srv.URL+"/api/storage/delete", `{"key":"project:1"}`)
	require.Equal(t, http.StatusOK, status)
	status, out = do(t, http.MethodGet, srv.URL+"/api/storage/list?prefix=project:", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{}, out["keys"])
}

func TestStorageErrors(t *testing.T) {
	srv, _ := newServer(t, "")

	status, out := do(t, http.MethodGet, srv.URL+"/api/storage/get", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, out["error"])

	status, _ = do(t, http.MethodPost, srv.URL+"/api/storage/set", `{"key":"a"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, http.MethodPost, srv.URL+"/api/storage/set", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, out = do(t, http.MethodPost, srv.URL+"/api/storage/list", "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.NotEmpty(t, out["error"])
}

func TestBearerAuth(t *testing.T) {
	srv, _ := newServer(t, "s3cret")

	status, _ := do(t, http.MethodGet, srv.URL+"/api/storage/list", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, out := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", out["status"])

	remote := store.NewRemote(srv.URL, "s3cret")
	_, err := remote.List(context.Background(), "")
	require.NoError(t, err)

	_, err = store.NewRemote(srv.URL, "wrong").List(context.Background(), "")
	assert.Error(t, err)
}

func TestRemoteBackendAgainstRouter(t *testing.T) {
	srv, kv := newServer(t, "")
	ctx := context.Background()
	remote := store.NewRemote(srv.URL+"/", "")

	require.NoError(t, remote.Set(ctx, "project:a", []byte("x")))
	v, ok, err := remote.Get(ctx, "project:a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "x", string(v))

	_, ok, err = kv.Get(ctx, "project:a")
	require.NoError(t, err)
	assert.True(t, ok, "write must land in the served store")

	_, ok, err = remote.Get(ctx, "project:b")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, remote.Delete(ctx, "project:a"))
	keys, err := remote.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestServiceOverRemote(t *testing.T) {
	srv, _ := newServer(t, "")
	ctx := context.Background()
	svc := app.New(store.NewRemote(srv.URL, ""), logging.Discard())

	p, err := svc.Create(ctx, app.CreateRequest{Title: "Socks", Pattern: "Row 1: k\nRow 2: p", Worked: time.Minute})
	require.NoError(t, err)
	step, err := svc.Next(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, step.Changed)

	other := app.New(store.NewRemote(srv.URL, ""), logging.Discard())
	got, err := other.Open(ctx, "Socks")
	require.NoError(t, err)
	n, ok := got.CurrentRowNumber()
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}
