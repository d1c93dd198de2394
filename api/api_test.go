package api_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/skilltree"
	"github.com/meikuraledutech/skilltree/api"
	"github.com/meikuraledutech/skilltree/internal/metrics"
	"github.com/meikuraledutech/skilltree/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app    *fiber.App
	engine *skilltree.Engine
	store  *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	store := memory.New()
	engine := skilltree.New(
		skilltree.WithStore(store),
		skilltree.WithObserver(metrics.NewRecorder(reg)),
	)
	app := api.New(engine, skilltree.NewDragSession(), api.Options{Gatherer: reg})
	return &fixture{app: app, engine: engine, store: store}
}

func (f *fixture) do(t *testing.T, method, path, body string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (f *fixture) addNode(t *testing.T, name, typ string) string {
	t.Helper()
	var created struct{ ID string }
	body := fmt.Sprintf(`{"data":{"name":%q},"type":%q,"position":{"x":1,"y":2}}`, name, typ)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/nodes", body, &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestAddNode(t *testing.T) {
	f := newFixture(t)
	id := f.addNode(t, "Fireball", "regular")

	var n skilltree.Node
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/nodes/"+id, "", &n))
	assert.Equal(t, "Fireball", n.Data.Name)
	assert.Equal(t, skilltree.TypeRegular, n.Type)
	assert.Equal(t, skilltree.LabelRegular, n.Data.SkillType)
	assert.False(t, n.Data.Unlocked)
	assert.NotEmpty(t, f.store.Raw(), "mutation is committed")
}

func TestAddNode_Validation(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusBadRequest,
		f.do(t, http.MethodPost, "/nodes", `{"data":{"name":""},"type":"regular"}`, nil))
	assert.Equal(t, http.StatusBadRequest,
		f.do(t, http.MethodPost, "/nodes", `{"data":{"name":"X"},"type":"boss"}`, nil))
	assert.Equal(t, http.StatusBadRequest,
		f.do(t, http.MethodPost, "/nodes", `{"data":{"name":"X","cost":-1},"type":"start"}`, nil))
	assert.Equal(t, http.StatusBadRequest,
		f.do(t, http.MethodPost, "/nodes", `{not json`, nil))
	assert.Empty(t, f.engine.Nodes())
}

func TestEdgesAndUnlock(t *testing.T) {
	f := newFixture(t)
	a := f.addNode(t, "A", "start")
	b := f.addNode(t, "B", "regular")

	var res skilltree.Result
	edge := fmt.Sprintf(`{"source":%q,"target":%q}`, a, b)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/edges", edge, &res))
	assert.True(t, res.Success)

	assert.Equal(t, http.StatusConflict, f.do(t, http.MethodPost, "/edges", edge, &res))
	assert.Equal(t, "Edge already exists", res.Error)

	reverse := fmt.Sprintf(`{"source":%q,"target":%q}`, b, a)
	assert.Equal(t, http.StatusUnprocessableEntity, f.do(t, http.MethodPost, "/edges", reverse, &res))
	assert.Equal(t, "Circular dependency detected", res.Error)

	var cycle struct{ WouldCreateCycle bool }
	f.do(t, http.MethodGet, "/edges/cycle-check?source="+b+"&target="+a, "", &cycle)
	assert.True(t, cycle.WouldCreateCycle)

	var can struct{ CanUnlock bool }
	f.do(t, http.MethodGet, "/nodes/"+b+"/can-unlock", "", &can)
	assert.False(t, can.CanUnlock)

	assert.Equal(t, http.StatusConflict, f.do(t, http.MethodPost, "/nodes/"+b+"/unlock", "", &res))
	assert.Equal(t, "Prerequisites not met", res.Error)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/nodes/"+a+"/unlock", "", &res))
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/nodes/"+b+"/unlock", "", &res))
	assert.True(t, res.Success)

	var unlocked []skilltree.Node
	f.do(t, http.MethodGet, "/nodes?status=unlocked", "", &unlocked)
	assert.Len(t, unlocked, 2)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/nodes/"+a+"/lock", "", &res))
	var locked []skilltree.Node
	f.do(t, http.MethodGet, "/nodes?status=locked", "", &locked)
	assert.Len(t, locked, 2)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/nodes/missing/unlock", "", &res))
	assert.Equal(t, "Node not found", res.Error)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/nodes?status=maybe", "", nil))
}

func TestUpdateAndDeleteNode(t *testing.T) {
	f := newFixture(t)
	a := f.addNode(t, "A", "start")
	b := f.addNode(t, "B", "regular")
	require.NoError(t, f.engine.AddEdge(a, b))

	var n skilltree.Node
	require.Equal(t, http.StatusOK,
		f.do(t, http.MethodPatch, "/nodes/"+a, `{"description":"first","unlocked":true}`, &n))
	assert.Equal(t, "first", n.Data.Description)
	assert.True(t, n.Data.Unlocked)

	var edges []skilltree.Edge
	f.do(t, http.MethodGet, "/edges", "", &edges)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].Animated)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPatch, "/nodes/missing", `{"name":"x"}`, nil))
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPatch, "/nodes/"+a, `{"name":""}`, nil))

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/nodes/"+a, "", nil))
	f.do(t, http.MethodGet, "/edges", "", &edges)
	assert.Empty(t, edges)
}

func TestTreeOperations(t *testing.T) {
	f := newFixture(t)
	a := f.addNode(t, "A", "start")
	b := f.addNode(t, "B", "regular")
	require.NoError(t, f.engine.AddEdge(a, b))
	require.NoError(t, f.engine.UnlockNode(a))

	require.Equal(t, http.StatusNoContent,
		f.do(t, http.MethodPut, "/tree/viewport", `{"x":5,"y":6,"zoom":1.5}`, nil))

	var snap skilltree.Snapshot
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/tree/reset", "", &snap))
	assert.False(t, snap.Nodes[0].Data.Unlocked)
	assert.False(t, snap.Edges[0].Animated)
	assert.Equal(t, skilltree.DefaultDullColor, snap.Edges[0].Style.Stroke)
	require.NotNil(t, snap.Viewport)
	assert.Equal(t, 1.5, snap.Viewport.Zoom)

	cyclic := `{"nodes":[{"id":"x","type":"start","data":{"name":"X"}}],"edges":[{"id":"e","source":"x","target":"x"}]}`
	var res skilltree.Result
	assert.Equal(t, http.StatusUnprocessableEntity, f.do(t, http.MethodPut, "/tree", cyclic, &res))
	assert.False(t, res.Success)

	require.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/tree", "", nil))
	f.do(t, http.MethodGet, "/tree", "", &snap)
	assert.Empty(t, snap.Nodes)
	assert.Empty(t, snap.Edges)
}

func TestDragAndDrop(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusBadRequest,
		f.do(t, http.MethodPost, "/drops", `{"position":{"x":1,"y":1}}`, nil))

	require.Equal(t, http.StatusNoContent, f.do(t, http.MethodPost, "/drag/start", `{"type":"output"}`, nil))
	require.Equal(t, http.StatusNoContent, f.do(t, http.MethodPost, "/drag/over", "", nil))

	var state struct {
		DraggedType string
		Dragging    bool
		DragOver    bool
	}
	f.do(t, http.MethodGet, "/drag", "", &state)
	assert.Equal(t, "output", state.DraggedType)
	assert.True(t, state.Dragging)
	assert.True(t, state.DragOver)

	var drop skilltree.PendingDrop
	require.Equal(t, http.StatusCreated,
		f.do(t, http.MethodPost, "/drops", `{"position":{"x":40,"y":80}}`, &drop))
	assert.Equal(t, skilltree.TypeCapstone, drop.FlowType)
	assert.Equal(t, skilltree.LabelCapstone, drop.SkillType)

	var created struct{ ID string }
	require.Equal(t, http.StatusCreated,
		f.do(t, http.MethodPost, "/drops/commit", `{"data":{"name":"Ultimate"}}`, &created))

	n, ok := f.engine.Node(created.ID)
	require.True(t, ok)
	assert.Equal(t, skilltree.TypeCapstone, n.Type)
	assert.Equal(t, skilltree.Position{X: 40, Y: 80}, n.Position)
	assert.Equal(t, skilltree.LabelCapstone, n.Data.SkillType)

	assert.Equal(t, http.StatusConflict,
		f.do(t, http.MethodPost, "/drops/commit", `{"data":{"name":"Again"}}`, nil))
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.addNode(t, "A", "start")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `skilltree_mutations_total{op="add_node",result="ok"} 1`)
	assert.Contains(t, string(body), "skilltree_nodes 1")
}
