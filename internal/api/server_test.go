package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/annel0/blockforge/internal/combat"
	"github.com/annel0/blockforge/internal/effect"
	"github.com/annel0/blockforge/internal/eventbus"
	"github.com/annel0/blockforge/internal/protocol"
	"github.com/annel0/blockforge/internal/session"
	"github.com/annel0/blockforge/internal/sim"
	"github.com/annel0/blockforge/internal/unit"
	"github.com/annel0/blockforge/internal/world"
	"github.com/annel0/blockforge/internal/world/block/content"
	"github.com/annel0/blockforge/internal/world/build"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv     *Server
	loop    *sim.Loop
	effects *effect.Controller
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cat := content.NewCatalog()
	grid, err := world.NewGrid(32, 32, cat.Air(), cat.Floor(content.Stone))
	require.NoError(t, err)

	units := unit.NewIndex(16)
	loop := sim.NewLoop(64, nil)
	validator := build.NewValidator(grid, world.NewTeams(), units, build.DefaultRules())
	transactor := build.NewTransactor(validator, cat, loop, nil, nil)

	bus := eventbus.NewMemoryBus(64)
	sess := session.New(true)
	effects := effect.NewController(sess, protocol.NewBusBroadcaster(bus, "test"), units, combat.NewDamageSystem(units), nil)
	_, err = protocol.NewReceiver(bus, loop, func(msg *protocol.CreateChainEffect) { effects.Execute(msg) }, nil).Start(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = loop.Run(ctx, 500) }()
	t.Cleanup(func() {
		cancel()
		_ = bus.Close()
	})

	srv := NewServer(Config{
		Loop:       loop,
		Transactor: transactor,
		Catalog:    cat,
		Units:      units,
		Effects:    effects,
		Session:    sess,
		Registerer: prometheus.NewRegistry(),
	})
	return &testEnv{srv: srv, loop: loop, effects: effects}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	report := decode[HealthReport](t, w)
	assert.Equal(t, "ok", report.Status)
	assert.NotEmpty(t, report.Session)
	assert.Positive(t, report.Goroutines)
}

func TestTileEndpoint(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/tiles/5/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"block":"air"`)
	assert.Contains(t, w.Body.String(), `"floor":"stone"`)

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/tiles/99/0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/tiles/a/b", nil).Code)
}

func TestPlaceCheck(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/place/check?team=sharded&x=5&y=5&block=copper-wall-large", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"allowed":true}`, w.Body.String())

	w = e.do(t, http.MethodGet, "/place/check?team=sharded&x=31&y=31&block=copper-wall-large", nil)
	assert.JSONEq(t, `{"allowed":false}`, w.Body.String(), "футпринт за краем мира")

	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/place/check?team=sharded&x=5&y=5&block=unobtainium", nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/place/check?team=nobody&x=5&y=5&block=conveyor", nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/place/check?team=sharded&y=5&block=conveyor", nil).Code)
}

func TestPlaceAndBreak(t *testing.T) {
	e := newTestEnv(t)
	x, y := 5, 5

	w := e.do(t, http.MethodPost, "/admin/place", PlaceRequest{Team: "sharded", X: &x, Y: &y, Block: content.CopperWallL})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, http.StatusConflict,
		e.do(t, http.MethodPost, "/admin/place", PlaceRequest{Team: "sharded", X: &x, Y: &y, Block: content.CopperWallL}).Code,
		"повторная стройка на занятом месте")

	w = e.do(t, http.MethodGet, "/tiles/6/6", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Data TileView `json:"data"`
	}](t, w)
	assert.Equal(t, "build2", resp.Data.Block)
	assert.True(t, resp.Data.Linked)
	assert.Equal(t, [2]int{5, 5}, [2]int{resp.Data.AnchorX, resp.Data.AnchorY})
	assert.Equal(t, "sharded", resp.Data.Team)
	require.NotNil(t, resp.Data.Build)
	assert.Equal(t, PayloadView{Kind: "construct", Previous: "air", Result: content.CopperWallL}, *resp.Data.Build)

	assert.JSONEq(t, `{"allowed":false}`, e.do(t, http.MethodGet, "/break/check?team=crux&x=6&y=6", nil).Body.String())
	assert.JSONEq(t, `{"allowed":true}`, e.do(t, http.MethodGet, "/break/check?team=sharded&x=6&y=6", nil).Body.String())

	w = e.do(t, http.MethodPost, "/admin/break", BreakRequest{Team: "sharded", X: &x, Y: &y})
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestLightningEndpoint(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/lightning", map[string]interface{}{"team": "sharded", "damage": 5, "hops": 8})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"seed":0`)

	require.Eventually(t, func() bool {
		var n int
		_ = e.loop.Call(context.Background(), func() {
			for _, l := range e.effects.Active() {
				n += len(l.Waypoints)
			}
		})
		return n == 4
	}, time.Second, 5*time.Millisecond, "эффект воспроизведён получателем")

	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPost, "/admin/lightning", map[string]interface{}{"hops": 1000}).Code)
}
