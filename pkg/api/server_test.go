package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/promptflow/pkg/graph"
	"github.com/dd0wney/promptflow/pkg/session"
)

// setupTestServer creates a server over a fresh manager whose session ids
// are s1, s2, ...
func setupTestServer(t *testing.T, mutate ...func(*Config)) (http.Handler, *session.Manager) {
	t.Helper()

	n := 0
	manager := session.NewManager(session.Options{
		NewID: func() string { n++; return fmt.Sprintf("s%d", n) },
	})
	t.Cleanup(manager.Close)

	cfg := Config{
		Manager:        manager,
		AllowedOrigins: []string{"http://localhost:5173"},
		Version:        "test",
		Heartbeat:      time.Hour,
	}
	for _, m := range mutate {
		m(&cfg)
	}

	server, err := NewServer(cfg)
	require.NoError(t, err)
	return server.Handler(), manager
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeSnapshot(t *testing.T, rr *httptest.ResponseRecorder) graph.Snapshot {
	t.Helper()
	var snap graph.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap), rr.Body.String())
	return snap
}

// seed creates session s1 holding one node per prompt.
func seed(t *testing.T, h http.Handler, prompts ...string) {
	t.Helper()
	require.Equal(t, http.StatusCreated, do(t, h, "POST", "/sessions", "").Code)
	for _, p := range prompts {
		require.Equal(t, http.StatusCreated, do(t, h, "POST", "/sessions/s1/nodes", fmt.Sprintf(`{"prompt":%q}`, p)).Code)
	}
}

func TestNewServer_RequiresManager(t *testing.T) {
	_, err := NewServer(Config{})
	assert.Error(t, err)
}

func TestSessionLifecycle(t *testing.T) {
	h, _ := setupTestServer(t)

	rr := do(t, h, "POST", "/sessions", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	var created SessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "s1", created.ID)
	assert.Zero(t, created.Snapshot.Version)
	assert.Empty(t, created.Snapshot.Nodes)

	rr = do(t, h, "POST", "/sessions/s1/nodes", `{"prompt":"  a red fox  "}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	snap := decodeSnapshot(t, rr)
	require.Len(t, snap.Nodes, 1)
	assert.Equal(t, "node-1", snap.Nodes[0].ID)
	assert.Equal(t, "a red fox", snap.Nodes[0].Payload.Prompt)

	rr = do(t, h, "POST", "/sessions/s1/nodes", `{"prompt":"   "}`)
	assert.Equal(t, http.StatusOK, rr.Code, "blank prompt is a no-op")
	assert.Equal(t, uint64(1), decodeSnapshot(t, rr).Version)

	rr = do(t, h, "POST", "/sessions/s1/nodes", `{"prompt":"in the snow"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	snap = decodeSnapshot(t, rr)
	require.Len(t, snap.Edges, 1)
	assert.Equal(t, "e-node-1-node-2", snap.Edges[0].ID)
	assert.Equal(t, graph.Position{X: 640, Y: 0}, snap.Positions["node-2"])

	rr = do(t, h, "GET", "/sessions/s1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got SessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, uint64(2), got.Snapshot.Version)

	rr = do(t, h, "GET", "/sessions", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list SessionListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, session.Info{ID: "s1", CreatedAt: list.Sessions[0].CreatedAt, Version: 2, Nodes: 2, Edges: 1}, list.Sessions[0])
}

func TestAddNode_Validation(t *testing.T) {
	h, _ := setupTestServer(t)
	seed(t, h)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"invalid json", `{prompt`, http.StatusBadRequest, "invalid request body"},
		{"too long", fmt.Sprintf(`{"prompt":%q}`, strings.Repeat("x", 4001)), http.StatusBadRequest, "prompt: must not exceed 4000 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, "POST", "/sessions/s1/nodes", tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Contains(t, resp.Message, tt.wantMsg)
			assert.Equal(t, tt.wantStatus, resp.Code)
		})
	}
}

func TestConnect(t *testing.T) {
	h, manager := setupTestServer(t)
	seed(t, h, "one", "two", "three")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantEdges  int
	}{
		{"new edge", `{"source":"node-1","target":"node-3"}`, http.StatusCreated, 3},
		{"duplicate", `{"source":"node-1","target":"node-3"}`, http.StatusOK, 3},
		{"duplicate of chain edge", `{"source":"node-1","target":"node-2"}`, http.StatusOK, 3},
		{"back edge makes a cycle", `{"source":"node-3","target":"node-1"}`, http.StatusCreated, 4},
		{"self loop", `{"source":"node-2","target":"node-2"}`, http.StatusUnprocessableEntity, 4},
		{"unknown target", `{"source":"node-1","target":"node-9"}`, http.StatusNotFound, 4},
		{"missing source", `{"target":"node-1"}`, http.StatusBadRequest, 4},
		{"invalid json", `[`, http.StatusBadRequest, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, "POST", "/sessions/s1/edges", tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			s, err := manager.Get("s1")
			require.NoError(t, err)
			assert.Len(t, s.Snapshot().Edges, tt.wantEdges)
		})
	}
}

func TestConnect_CycleStillLaysOut(t *testing.T) {
	h, _ := setupTestServer(t)
	seed(t, h, "one", "two")

	rr := do(t, h, "POST", "/sessions/s1/edges", `{"source":"node-2","target":"node-1"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	snap := decodeSnapshot(t, rr)
	assert.Len(t, snap.Positions, 2)
	assert.Equal(t, 0.0, snap.Positions["node-1"].X)
	assert.Equal(t, 640.0, snap.Positions["node-2"].X)
}

func TestUnknownSession(t *testing.T) {
	h, _ := setupTestServer(t)

	tests := []struct {
		method, path, body string
	}{
		{"GET", "/sessions/nope", ""},
		{"POST", "/sessions/nope/nodes", `{"prompt":"x"}`},
		{"POST", "/sessions/nope/edges", `{"source":"a","target":"b"}`},
		{"GET", "/sessions/nope/layout", ""},
		{"GET", "/sessions/nope/events", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, rr.Code)
			assert.Contains(t, rr.Body.String(), "session not found")
		})
	}
}

func TestLayout(t *testing.T) {
	h, _ := setupTestServer(t)
	seed(t, h, "a", "b", "c")
	require.Equal(t, http.StatusCreated, do(t, h, "POST", "/sessions/s1/edges", `{"source":"node-1","target":"node-3"}`).Code)

	rr := do(t, h, "GET", "/sessions/s1/layout", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var viz struct {
		Version uint64 `json:"version"`
		Nodes   []struct {
			ID   string  `json:"id"`
			X    float64 `json:"x"`
			Rank int     `json:"rank"`
		} `json:"nodes"`
		Edges []struct {
			Origin string `json:"origin"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &viz))

	assert.Equal(t, uint64(4), viz.Version)
	require.Len(t, viz.Nodes, 3)
	for i, n := range viz.Nodes {
		assert.Equal(t, i, n.Rank, n.ID)
		assert.Equal(t, float64(i*640), n.X, n.ID)
	}
	require.Len(t, viz.Edges, 3)
	assert.Equal(t, "user", viz.Edges[2].Origin)
}

func TestHealthEndpoints(t *testing.T) {
	h, manager := setupTestServer(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		assert.Equal(t, http.StatusOK, do(t, h, "GET", path, "").Code, path)
	}

	var resp struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal(do(t, h, "GET", "/health", "").Body.Bytes(), &resp))
	assert.Equal(t, "test", resp.Version)

	manager.Close()
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, "GET", "/health/ready", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, "POST", "/sessions", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := setupTestServer(t)
	seed(t, h, "a", "b")

	rr := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, "promptflow_nodes_added_total 2")
	assert.Contains(t, body, `promptflow_edges_added_total{origin="chain"} 1`)
	assert.Contains(t, body, `route="/sessions/{id}/nodes"`)
	assert.Contains(t, body, "promptflow_uptime_seconds")
}

func TestGraphQLRoute(t *testing.T) {
	h, _ := setupTestServer(t)
	seed(t, h, "hello")

	rr := do(t, h, "POST", "/graphql", `{"query":"{ session(id: \"s1\") { snapshot { nodes { prompt } } } }"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"prompt":"hello"`)
}

func TestMiddlewareChain(t *testing.T) {
	h, _ := setupTestServer(t, func(c *Config) { c.MaxBodyBytes = 32 })
	seed(t, h)

	rr := do(t, h, "GET", "/sessions", "")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))

	rr = do(t, h, "POST", "/sessions/s1/nodes", fmt.Sprintf(`{"prompt":%q}`, strings.Repeat("x", 64)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	rr = do(t, h, "GET", "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, "DELETE", "/sessions/s1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestCORS(t *testing.T) {
	h, _ := setupTestServer(t)

	tests := []struct {
		origin string
		want   string
	}{
		{"http://localhost:5173", "http://localhost:5173"},
		{"http://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest("OPTIONS", "/sessions", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", "POST")
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
