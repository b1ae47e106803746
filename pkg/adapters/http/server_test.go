package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/pkg/adapters/memory"
	"github.com/aretw0/checktree/pkg/domain"
	"github.com/aretw0/checktree/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	browser *checktree.Browser
	handler http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	metrics := observability.NewMetrics()
	b, err := checktree.New("",
		checktree.WithLoader(memory.NewLoader(
			domain.Pack{Path: "Mods/Zelda/FPS++", Version: 5, Presets: []domain.Preset{
				{Category: "FPS", Name: "30"},
				{Category: "FPS", Name: "60"},
			}},
			domain.Pack{Path: "Mods/Zelda/Bloom", Version: 9},
		)),
		checktree.WithHooks(metrics.Hooks()),
	)
	require.NoError(t, err)

	h, err := NewHandler(b, WithMetrics(metrics.Handler()))
	require.NoError(t, err)
	return &fixture{browser: b, handler: h}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) node(t *testing.T, path string) domain.NodeID {
	t.Helper()
	id, err := f.browser.NodeFor(path)
	require.NoError(t, err)
	return id
}

func decodeNode(t *testing.T, rec *httptest.ResponseRecorder) checktree.Node {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var n checktree.Node
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &n))
	return n
}

func TestSpec_IsValid(t *testing.T) {
	doc, err := Spec()
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	assert.Equal(t, "checktree", doc.Info.Title)
}

func TestGetTree(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/tree", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TreeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Mods", resp.Rows[0].Text)
}

func TestSetFilter(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPut, "/filter", `{"filter":"fps"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp TreeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fps", resp.Filter)
	require.Len(t, resp.Rows, 3)
	assert.Equal(t, "FPS++", resp.Rows[2].Text)

	rec = f.do(t, http.MethodPut, "/filter", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "filter is required")
}

func TestToggleNode(t *testing.T) {
	f := newFixture(t)
	id := f.node(t, "Mods/Zelda/FPS++")

	n := decodeNode(t, f.do(t, http.MethodPost, "/nodes/"+string(id)+"/toggle", ""))
	require.NotNil(t, n.State)
	assert.True(t, n.State.IsChecked())
	require.NotNil(t, n.Pack)
	assert.True(t, n.Pack.Enabled)

	rec := f.do(t, http.MethodPost, "/nodes/"+string(f.node(t, "Mods/Zelda/Bloom"))+"/toggle", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/nodes/nope/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	metrics := f.do(t, http.MethodGet, "/metrics", "")
	assert.Contains(t, metrics.Body.String(), `checktree_choices_total{checked="true"} 1`)
}

func TestCheckAndEnable(t *testing.T) {
	f := newFixture(t)
	path := "/nodes/" + string(f.node(t, "Mods/Zelda/FPS++"))

	n := decodeNode(t, f.do(t, http.MethodPut, path+"/check", `{"checked":true}`))
	assert.Equal(t, "checked", n.State.String())

	n = decodeNode(t, f.do(t, http.MethodPut, path+"/enabled", `{"enabled":false}`))
	assert.Equal(t, "checked_disabled", n.State.String())
	assert.Equal(t, domain.DisabledColor, n.Colour)

	rec := f.do(t, http.MethodPut, path+"/check", `{"checked":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "body is validated against the schema")

	rec = f.do(t, http.MethodPut, path+"/check", `{"checked":false}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestToggleNode_AfterDragIntoTree(t *testing.T) {
	f := newFixture(t)
	id := f.node(t, "Mods/Zelda/FPS++")

	rec := f.do(t, http.MethodPost, "/events", `{"kind":"mouse_enter","left_down":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = f.do(t, http.MethodPost, "/events", `{"kind":"mouse_leave"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	n := decodeNode(t, f.do(t, http.MethodPost, "/nodes/"+string(id)+"/toggle", ""))
	require.NotNil(t, n.State)
	assert.True(t, n.State.IsChecked())
}

func TestSetPreset(t *testing.T) {
	f := newFixture(t)
	id := f.node(t, "Mods/Zelda/FPS++")

	rec := f.do(t, http.MethodPut, "/nodes/"+string(id)+"/preset", `{"category":"FPS","name":"60"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	n := decodeNode(t, rec)
	require.NotNil(t, n.Pack)
	assert.Equal(t, "60", n.Pack.ActivePreset("FPS"))

	rec = f.do(t, http.MethodPut, "/nodes/"+string(id)+"/preset", `{"category":"FPS","name":"120"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPut, "/nodes/"+string(id)+"/preset", `{"category":"FPS"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "name is required")

	rec = f.do(t, http.MethodGet, "/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "60", snap.Presets["Mods/Zelda/FPS++"]["FPS"])
}

func TestDispatchEvent(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/events", `{"kind":"wheel"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"skip":true}`, rec.Body.String())

	// Click the expand button of the only visible row.
	rec = f.do(t, http.MethodPost, "/events", `{"kind":"left_up","pos":{"x":0,"y":0}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.browser.Rows(), 2)

	rec = f.do(t, http.MethodPost, "/events", `{"kind":"resize"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	metrics := f.do(t, http.MethodGet, "/metrics", "")
	assert.Contains(t, metrics.Body.String(), `checktree_events_total{kind="wheel"} 1`)
}

func TestGetNode_NotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/nodes/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "node not found")
}

func TestSnapshotAndInfo(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Contains(t, snap.Enabled, "Mods/Zelda/FPS++")

	rec = f.do(t, http.MethodGet, "/info", "")
	assert.Contains(t, rec.Body.String(), `"api_version":"0.1.0"`)

	rec = f.do(t, http.MethodGet, "/openapi.yaml", "")
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")
}

func TestWatch_Unsupported(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/watch", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

type watchingBrowser struct {
	*checktree.Browser
	events chan string
}

func (w watchingBrowser) Watch(ctx context.Context) (<-chan string, error) {
	return w.events, nil
}

func TestWatch_Streams(t *testing.T) {
	f := newFixture(t)
	events := make(chan string, 1)
	events <- "fps.md"
	close(events)

	h, err := NewHandler(watchingBrowser{Browser: f.browser, events: events})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/watch", nil))
	body := rec.Body.String()
	assert.Contains(t, body, "event: ping")
	assert.Contains(t, body, "data: fps.md")
}
