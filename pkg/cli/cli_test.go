package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/talentflow/pkg/config"
)

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "talentflow.db")
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), s)
	return v
}

type envelope struct {
	Status int            `json:"status"`
	Body   map[string]any `json:"body"`
}

func TestSeedCommand(t *testing.T) {
	db := tempDB(t)

	out, err := run(t, "seed", "--db", db, "--json", "--candidates", "40", "--fixture-seed", "7")
	require.NoError(t, err)
	res := decode[map[string]any](t, out)
	assert.Equal(t, false, res["skipped"])
	assert.Equal(t, float64(25), res["jobs"])
	assert.Equal(t, float64(40), res["candidates"])

	out, err = run(t, "seed", "--db", db, "--json")
	require.NoError(t, err)
	assert.Equal(t, true, decode[map[string]any](t, out)["skipped"])

	out, err = run(t, "seed", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "already seeded")
}

func TestCallCommand(t *testing.T) {
	db := tempDB(t)

	out, err := run(t, "call", "GET", "/jobs?status=active", "--db", db, "--chaos", "off", "--query", "pageSize=3")
	require.NoError(t, err)
	env := decode[envelope](t, out)
	assert.Equal(t, http.StatusOK, env.Status)
	assert.LessOrEqual(t, len(env.Body["data"].([]any)), 3)
	for _, j := range env.Body["data"].([]any) {
		assert.Equal(t, "active", j.(map[string]any)["status"])
	}

	out, err = run(t, "call", "post", "/jobs", "--db", db, "--chaos", "off", "--data", `{"id":"cli-job","title":"CLI Engineer"}`)
	require.NoError(t, err)
	env = decode[envelope](t, out)
	assert.Equal(t, http.StatusCreated, env.Status)
	assert.Equal(t, "CLI Engineer", env.Body["title"])

	out, err = run(t, "call", "POST", "/jobs", "--db", db, "--chaos", "off", "--data", `{"id":"cli-job"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, decode[envelope](t, out).Status)

	out, err = run(t, "call", "POST", "/jobs", "--db", db, "--chaos", "offline", "--data", `{"id":"other"}`)
	require.NoError(t, err)
	env = decode[envelope](t, out)
	assert.Equal(t, http.StatusServiceUnavailable, env.Status)
	assert.Equal(t, "Service unavailable", env.Body["error"])

	_, err = run(t, "call", "GET", "/nowhere", "--db", db, "--chaos", "off", "--no-seed")
	assert.ErrorContains(t, err, "no route for GET /nowhere")

	_, err = run(t, "call", "GET", "/jobs", "--db", db, "--chaos", "bogus")
	assert.ErrorContains(t, err, "unknown profile")
}

func TestBuildCallRequest(t *testing.T) {
	req, err := buildCallRequest("patch", "/candidates/c1?expand=job", &callFlags{
		query: []string{"page=2"},
		data:  `{"stage":"tech"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "/candidates/c1", req.Path)
	assert.Equal(t, "job", req.Query.Get("expand"))
	assert.Equal(t, "2", req.Query.Get("page"))
	assert.JSONEq(t, `{"stage":"tech"}`, string(req.Body))

	_, err = buildCallRequest("GET", "/jobs", &callFlags{query: []string{"broken"}})
	assert.Error(t, err)
}

func TestOpenAPICommand(t *testing.T) {
	out, err := run(t, "openapi")
	require.NoError(t, err)
	doc := decode[map[string]any](t, out)
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc["paths"], "/jobs/{id}/reorder")

	out, err = run(t, "openapi", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "openapi: 3.0.3")

	_, err = run(t, "openapi", "--format", "xml")
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	db := tempDB(t)

	out, err := run(t, "config", "--db", db, "--sources", "--json")
	require.NoError(t, err)
	rows := decode[[]configSourceOutput](t, out)
	assert.Contains(t, rows, configSourceOutput{Key: "storage.path", Source: config.SourceFlag})
	assert.Contains(t, rows, configSourceOutput{Key: "log.level", Source: config.SourceFlag})

	out, err = run(t, "config", "--db", db, "--format", "toml")
	require.NoError(t, err)
	assert.Contains(t, out, "[storage]")
	assert.Contains(t, out, db)

	_, err = run(t, "config", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, config.ErrFileNotFound)
}

func TestChaosProfilesCommand(t *testing.T) {
	out, err := run(t, "chaos", "profiles", "--json")
	require.NoError(t, err)
	profiles := decode[[]map[string]any](t, out)
	assert.Len(t, profiles, 5)

	out, err = run(t, "chaos", "profiles")
	require.NoError(t, err)
	assert.Contains(t, out, "200ms-1200ms")
	assert.Contains(t, out, "10% (500)")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--json")
	require.NoError(t, err)
	v := decode[VersionOutput](t, out)
	assert.NotEmpty(t, v.Go)
	assert.NotEmpty(t, v.Version)

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "talentflow ")
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestOpenApp_StoreFailureReturnsError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(blocker, "sub", "talentflow.db")
	cfg.Log.Level = "error"
	cfg.Log.File = filepath.Join(dir, "talentflow.log")

	var (
		a   *app
		err error
	)
	require.NotPanics(t, func() { a, err = openApp(context.Background(), cfg) })
	require.Error(t, err)
	assert.Nil(t, a)
	assert.Contains(t, err.Error(), "open store")

	_, err = run(t, "seed", "--db", cfg.Storage.Path)
	assert.Error(t, err)
}

func TestOpenApp_ResponseLogFailureReturnsError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(dir, "talentflow.db")
	cfg.ResponseLog.Path = filepath.Join(blocker, "responses.db")
	cfg.Log.Level = "error"

	a, err := openApp(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, a)
	assert.Contains(t, err.Error(), "open response log")

	// The entity store opened first was released: it can be reopened.
	cfg.ResponseLog.Path = ""
	a, err = openApp(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, a.Close())
}

func TestExposed(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:4280", false},
		{"localhost:4280", false},
		{"[::1]:4280", false},
		{":4280", true},
		{"0.0.0.0:4280", true},
		{"192.168.1.10:4280", true},
		{"devbox:4280", true},
		{"garbage", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, exposed(tt.addr))
		})
	}
}

func TestRunServe(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = freeAddr(t)
	cfg.Storage.Path = tempDB(t)
	cfg.Chaos.Profile = "off"
	cfg.Seed.Candidates = 30
	cfg.Log.Level = "error"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, cfg) }()

	url := fmt.Sprintf("http://%s/jobs?pageSize=2", cfg.Server.Addr)
	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get(url)
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 5*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Data  []map[string]any `json:"data"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, 25, page.Total)
	assert.Len(t, page.Data, 2)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
